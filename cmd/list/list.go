// file: cmd/list/list.go

package list

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emartisoft/C64-Collection/pkg/d64"
	"github.com/emartisoft/C64-Collection/pkg/diskimage"
)

// FileEntry represents one file in the directory listing
type FileEntry struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Blocks int    `json:"blocks"`
	Track  int    `json:"track"`
	Sector int    `json:"sector"`
	Locked bool   `json:"locked"`
	Closed bool   `json:"closed"`
}

// ListOptions configures the directory listing
type ListOptions struct {
	JSON     bool // Output in JSON format
	Sanitize bool // Show host-safe filenames instead of raw ones
}

// Command returns the cobra command for listing a disk directory
func Command() *cobra.Command {
	opts := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list <image.d64>",
		Short: "Show the directory of a disk image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return List(args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.Sanitize, "sanitize", false, "Show host-safe filenames")
	return cmd
}

// List prints the directory of a disk image in the classic 1541 layout.
func List(diskPath string, opts *ListOptions) error {
	if opts == nil {
		opts = &ListOptions{}
	}

	disk, err := diskimage.LoadFromFile(diskPath)
	if err != nil {
		return err
	}

	dir, err := disk.Directory()
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	if opts.JSON {
		return outputJSON(dir, opts)
	}
	return outputListing(dir, opts)
}

func displayName(e *d64.Entry, opts *ListOptions) string {
	if opts.Sanitize {
		return d64.SanitizeFilename(e.Name)
	}
	return e.Name
}

func outputJSON(dir *d64.Directory, opts *ListOptions) error {
	type listing struct {
		Title      string      `json:"title"`
		ID         string      `json:"id"`
		BlocksFree int         `json:"blocks_free"`
		Files      []FileEntry `json:"files"`
	}

	out := listing{
		Title:      dir.Title,
		ID:         dir.ID,
		BlocksFree: dir.BlocksFree,
		Files:      make([]FileEntry, 0, len(dir.Entries)),
	}
	for i := range dir.Entries {
		e := &dir.Entries[i]
		out.Files = append(out.Files, FileEntry{
			Name:   displayName(e, opts),
			Type:   e.Type.String(),
			Blocks: int(e.Blocks),
			Track:  int(e.Track),
			Sector: int(e.Sector),
			Locked: e.Locked,
			Closed: e.Closed,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// outputListing mimics what LOAD"$",8 followed by LIST shows: the header
// line, one line per file with the block count, quoted name, splat marker
// for unclosed files and "<" for locked ones, and the free-block total.
func outputListing(dir *d64.Directory, opts *ListOptions) error {
	fmt.Println(dir.Header)
	for i := range dir.Entries {
		e := &dir.Entries[i]
		splat := " "
		if !e.Closed {
			splat = "*"
		}
		lock := ""
		if e.Locked {
			lock = "<"
		}
		quoted := `"` + displayName(e, opts) + `"`
		fmt.Printf("%-5d%-18s%s%s%s\n", e.Blocks, quoted, splat, e.Type, lock)
	}
	fmt.Printf("%d BLOCKS FREE.\n", dir.BlocksFree)
	return nil
}
