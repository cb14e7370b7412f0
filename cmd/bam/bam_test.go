// file: cmd/bam/bam_test.go

package bam

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/emartisoft/C64-Collection/pkg/diskimage"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.d64")
	if err := os.WriteFile(path, make([]byte, diskimage.Size35Tracks), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func blockFree(t *testing.T, path string, track, sector int) bool {
	t.Helper()
	di, err := diskimage.LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	bam, err := di.BAM()
	if err != nil {
		t.Fatal(err)
	}
	free, err := bam.IsBlockFree(track, sector)
	if err != nil {
		t.Fatal(err)
	}
	return free
}

func runBam(t *testing.T, args ...string) error {
	t.Helper()
	cmd := Command()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestFreeAndAllocPersist(t *testing.T) {
	path := writeTestImage(t)
	track, sector := 1, 0

	// The zeroed image starts with every block allocated.
	if blockFree(t, path, track, sector) {
		t.Fatal("block should start allocated")
	}

	if err := runBam(t, "free", path, strconv.Itoa(track), strconv.Itoa(sector)); err != nil {
		t.Fatalf("bam free failed: %v", err)
	}
	if !blockFree(t, path, track, sector) {
		t.Error("block still allocated after bam free")
	}

	if err := runBam(t, "alloc", path, strconv.Itoa(track), strconv.Itoa(sector)); err != nil {
		t.Fatalf("bam alloc failed: %v", err)
	}
	if blockFree(t, path, track, sector) {
		t.Error("block still free after bam alloc")
	}
}

func TestBadArguments(t *testing.T) {
	path := writeTestImage(t)

	if err := runBam(t, "alloc", path, "0", "0"); err == nil {
		t.Error("alloc with track 0 should fail")
	}
	if err := runBam(t, "alloc", path, "seventeen", "0"); err == nil {
		t.Error("alloc with non-numeric track should fail")
	}
	if err := runBam(t, "free", filepath.Join(t.TempDir(), "missing.d64"), "1", "0"); err == nil {
		t.Error("free on a missing image should fail")
	}
}
