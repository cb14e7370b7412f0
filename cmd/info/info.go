// file: cmd/info/info.go

package info

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emartisoft/C64-Collection/pkg/d64"
	"github.com/emartisoft/C64-Collection/pkg/diskimage"
)

// DiskInfo represents disk information in a structured format
type DiskInfo struct {
	Path            string `json:"path"`
	Name            string `json:"name"`
	ID              string `json:"id"`
	DosType         string `json:"dos_type"`
	Tracks          int    `json:"tracks"`
	Files           int    `json:"files"`
	BlocksFree      int    `json:"blocks_free"`
	BlocksAllocated int    `json:"blocks_allocated"`
}

// InfoOptions configures the information display
type InfoOptions struct {
	JSON    bool // Output in JSON format
	Verbose bool // Show additional details
}

// Command returns the cobra command for showing disk information
func Command() *cobra.Command {
	opts := &InfoOptions{}
	cmd := &cobra.Command{
		Use:   "info <image.d64>",
		Short: "Show disk name, ID and block usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Info(args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show disk geometry details")
	return cmd
}

// Info displays information about a disk image
func Info(diskPath string, opts *InfoOptions) error {
	if opts == nil {
		opts = &InfoOptions{}
	}

	disk, err := diskimage.LoadFromFile(diskPath)
	if err != nil {
		return err
	}

	dir, err := disk.Directory()
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	info := &DiskInfo{
		Path:            diskPath,
		Name:            dir.Title,
		ID:              dir.ID,
		DosType:         dir.BAM.DOSType(),
		Tracks:          disk.Tracks(),
		Files:           len(dir.Entries),
		BlocksFree:      dir.BlocksFree,
		BlocksAllocated: dir.BAM.BlocksAllocated(),
	}

	if opts.JSON {
		return outputJSON(info)
	}
	return outputText(info, opts)
}

// outputJSON writes disk information in JSON format
func outputJSON(info *DiskInfo) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// outputText writes disk information in human-readable format
func outputText(info *DiskInfo, opts *InfoOptions) error {
	fmt.Printf("Disk Image: %s\n\n", info.Path)
	fmt.Printf("Name:       %s\n", info.Name)
	fmt.Printf("ID:         %s\n", info.ID)
	fmt.Printf("DOS Type:   %s\n", info.DosType)
	fmt.Printf("Files:      %d\n", info.Files)
	fmt.Printf("Free:       %d blocks\n", info.BlocksFree)
	fmt.Printf("Allocated:  %d blocks\n", info.BlocksAllocated)

	if opts.Verbose {
		fmt.Printf("\nDisk Parameters:\n")
		fmt.Printf("Tracks:      %d\n", info.Tracks)
		fmt.Printf("Sector size: %d bytes\n", d64.BytesPerSector)
		for _, zone := range []struct{ from, to int }{{1, 17}, {18, 24}, {25, 30}, {31, info.Tracks}} {
			if zone.from > info.Tracks {
				break
			}
			fmt.Printf("Tracks %2d-%2d: %d sectors each\n",
				zone.from, zone.to, d64.SectorsPerTrack(zone.from))
		}
	}

	return nil
}
