// file: pkg/d64/directory_test.go

package d64

import (
	"encoding/binary"
	"errors"
	"testing"
)

// putEntry fills one 32-byte directory slot.
func putEntry(slot []byte, typeByte byte, track, sector byte, name string, blocks uint16) {
	slot[slotTypeOff] = typeByte
	slot[slotTrackOff] = track
	slot[slotSectorOff] = sector
	for i := 0; i < slotNameLen; i++ {
		slot[slotNameOff+i] = PaddingByte
	}
	copy(slot[slotNameOff:], ASCIIToPet(name))
	binary.LittleEndian.PutUint16(slot[slotBlocksOff:], blocks)
}

func TestNewDirectory(t *testing.T) {
	buf := newFormattedSector(t, "TEST DISK", "8A")
	dirSector := make([]byte, BytesPerSector)
	putEntry(dirSector[0:DirEntrySize], 0x82, 17, 0, "HELLO", 5) // closed PRG
	buf = append(buf, dirSector...)

	dir, err := NewDirectory(buf)
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}

	if dir.Title != "TEST DISK" {
		t.Errorf("Title = %q, want %q", dir.Title, "TEST DISK")
	}
	if dir.ID != "8A" {
		t.Errorf("ID = %q, want %q", dir.ID, "8A")
	}
	if dir.BlocksFree != 664 {
		t.Errorf("BlocksFree = %d, want 664", dir.BlocksFree)
	}
	if len(dir.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(dir.Entries))
	}

	e := dir.Entries[0]
	if e.Name != "HELLO" {
		t.Errorf("Name = %q, want %q", e.Name, "HELLO")
	}
	if e.Type != FilePRG {
		t.Errorf("Type = %v, want PRG", e.Type)
	}
	if e.Type.String() != "PRG" {
		t.Errorf("Type.String() = %q, want %q", e.Type.String(), "PRG")
	}
	if e.Blocks != 5 {
		t.Errorf("Blocks = %d, want 5", e.Blocks)
	}
	if e.Track != 17 || e.Sector != 0 {
		t.Errorf("start = (%d, %d), want (17, 0)", e.Track, e.Sector)
	}
	if !e.Closed {
		t.Error("Closed = false, want true")
	}
	if e.Locked {
		t.Error("Locked = true, want false")
	}
	if e.Offset != 0 {
		t.Errorf("Offset = %d, want 0", e.Offset)
	}
}

func TestDirectorySkipsEmptySlots(t *testing.T) {
	buf := newFormattedSector(t, "TEST DISK", "8A")
	dirSector := make([]byte, BytesPerSector)
	putEntry(dirSector[0:], 0x82, 17, 0, "FIRST", 1)
	// slot 1 left zeroed: empty
	putEntry(dirSector[2*DirEntrySize:], 0x81, 19, 5, "SECOND", 2) // SEQ
	putEntry(dirSector[3*DirEntrySize:], 0xC2, 20, 0, "LOCKED", 3) // locked PRG
	putEntry(dirSector[4*DirEntrySize:], 0x02, 21, 0, "SPLAT", 4)  // unclosed PRG
	buf = append(buf, dirSector...)

	dir, err := NewDirectory(buf)
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}
	if len(dir.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(dir.Entries))
	}

	names := []string{"FIRST", "SECOND", "LOCKED", "SPLAT"}
	for i, want := range names {
		if dir.Entries[i].Name != want {
			t.Errorf("entry %d name = %q, want %q", i, dir.Entries[i].Name, want)
		}
	}
	if dir.Entries[1].Offset != 2*DirEntrySize {
		t.Errorf("entry 1 offset = %d, want %d", dir.Entries[1].Offset, 2*DirEntrySize)
	}
	if dir.Entries[1].Type != FileSEQ {
		t.Errorf("entry 1 type = %v, want SEQ", dir.Entries[1].Type)
	}
	if !dir.Entries[2].Locked {
		t.Error("entry 2 should be locked")
	}
	if dir.Entries[3].Closed {
		t.Error("entry 3 should be unclosed")
	}
}

func TestDirectoryInvalidFileType(t *testing.T) {
	buf := newFormattedSector(t, "TEST DISK", "8A")
	dirSector := make([]byte, BytesPerSector)
	putEntry(dirSector[0:], 0x85, 17, 0, "BAD", 1) // type bits 5: out of range
	buf = append(buf, dirSector...)

	if _, err := NewDirectory(buf); !errors.Is(err, ErrInvalidFileType) {
		t.Errorf("NewDirectory error = %v, want ErrInvalidFileType", err)
	}
}

func TestDirectoryTooSmall(t *testing.T) {
	for _, size := range []int{0, 255, 256, 256 + DirEntrySize - 1} {
		if _, err := NewDirectory(make([]byte, size)); !errors.Is(err, ErrBufferTooSmall) {
			t.Errorf("NewDirectory(%d bytes) error = %v, want ErrBufferTooSmall", size, err)
		}
	}
}

func TestDirectoryRescan(t *testing.T) {
	buf := newFormattedSector(t, "TEST DISK", "8A")
	dirSector := make([]byte, BytesPerSector)
	putEntry(dirSector[0:], 0x82, 17, 0, "HELLO", 5)
	buf = append(buf, dirSector...)

	dir, err := NewDirectory(buf)
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}

	// Mutate the BAM underneath the directory: cached fields keep their
	// parse-time values until Rescan.
	dir.BAM.Bytes()[0x04] = 0 // track 1: no free sectors
	if dir.BlocksFree != 664 {
		t.Errorf("BlocksFree before Rescan = %d, want cached 664", dir.BlocksFree)
	}
	if err := dir.Rescan(); err != nil {
		t.Fatalf("Rescan failed: %v", err)
	}
	if dir.BlocksFree != 664-21 {
		t.Errorf("BlocksFree after Rescan = %d, want %d", dir.BlocksFree, 664-21)
	}
}

func TestFileTypeString(t *testing.T) {
	want := map[FileType]string{
		FileDEL: "DEL",
		FileSEQ: "SEQ",
		FilePRG: "PRG",
		FileUSR: "USR",
		FileREL: "REL",
	}
	for ft, name := range want {
		if got := ft.String(); got != name {
			t.Errorf("FileType(%d).String() = %q, want %q", ft, got, name)
		}
	}
}
