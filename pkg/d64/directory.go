// file: pkg/d64/directory.go

package d64

import (
	"encoding/binary"
	"fmt"
)

// Directory slot layout (offsets within each 32-byte slot)
const (
	DirEntrySize = 32

	slotTypeOff   = 0x02
	slotTrackOff  = 0x03
	slotSectorOff = 0x04
	slotNameOff   = 0x05
	slotNameLen   = 16
	slotBlocksOff = 0x1E

	typeMask  = 0x07
	lockedBit = 0x40
	closedBit = 0x80
)

// FileType is the CBM DOS file type stored in the low three bits of a
// directory slot's type byte.
type FileType byte

const (
	FileDEL FileType = iota
	FileSEQ
	FilePRG
	FileUSR
	FileREL
)

var fileTypeNames = [...]string{"DEL", "SEQ", "PRG", "USR", "REL"}

func (t FileType) String() string {
	if int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return fmt.Sprintf("FileType(%d)", byte(t))
}

// Entry is one file's metadata parsed from a 32-byte directory slot.
type Entry struct {
	Offset int      // byte offset of the slot within the directory buffer
	Type   FileType // DEL/SEQ/PRG/USR/REL
	Locked bool     // ">" protected flag, bit 6 of the type byte
	Closed bool     // bit 7 of the type byte; clear means a splat (*) file
	Track  byte     // first track of the file's data chain
	Sector byte     // first sector of the file's data chain
	Name   string   // filename, padding stripped, converted to ASCII
	Blocks uint16   // file size in blocks, little-endian on disk
}

// Directory is the parsed directory of a disk: the BAM plus the list of
// non-empty file entries, with the display fields a listing needs.
//
// Title, ID, BlocksFree, Header and Entries are snapshots taken at parse
// time. Mutating the BAM afterwards does not refresh them; call Rescan or
// build a new Directory.
type Directory struct {
	BAM *BAM

	Title      string
	ID         string
	BlocksFree int
	Header     string
	Entries    []Entry

	dir []byte // directory slots, everything past the BAM sector
}

// NewDirectory parses a directory buffer: the first 256 bytes are the BAM
// sector, the rest is 32-byte directory slots in the order the caller
// collected them (normally track/sector chain order). The buffer must
// hold the BAM sector plus at least one slot.
func NewDirectory(buf []byte) (*Directory, error) {
	if len(buf) < BytesPerSector+DirEntrySize {
		return nil, fmt.Errorf("directory buffer is %d bytes: %w", len(buf), ErrBufferTooSmall)
	}
	bam, err := NewBAM(buf[:BytesPerSector])
	if err != nil {
		return nil, err
	}
	d := &Directory{
		BAM: bam,
		dir: buf[BytesPerSector:],
	}
	if err := d.Rescan(); err != nil {
		return nil, err
	}
	return d, nil
}

// Rescan re-derives the display fields and entry list from the underlying
// bytes. Callers use it after mutating the BAM through d.BAM.
func (d *Directory) Rescan() error {
	entries, err := parseEntries(d.dir)
	if err != nil {
		return err
	}
	d.Title = d.BAM.DiskName()
	d.ID = d.BAM.DiskID()
	d.BlocksFree = d.BAM.BlocksFree()
	d.Header = d.BAM.Header()
	d.Entries = entries
	return nil
}

// parseEntries walks the 32-byte slots in buffer order. Slots with a zero
// type byte are empty and skipped. A trailing partial slot is ignored.
func parseEntries(dir []byte) ([]Entry, error) {
	entries := make([]Entry, 0, len(dir)/DirEntrySize)
	for base := 0; base+DirEntrySize <= len(dir); base += DirEntrySize {
		typeByte := dir[base+slotTypeOff]
		if typeByte == 0 {
			continue
		}
		fileType := FileType(typeByte & typeMask)
		if int(fileType) >= len(fileTypeNames) {
			return nil, fmt.Errorf("slot at offset %#x has type byte %#02x: %w",
				base, typeByte, ErrInvalidFileType)
		}
		entries = append(entries, Entry{
			Offset: base,
			Type:   fileType,
			Locked: typeByte&lockedBit != 0,
			Closed: typeByte&closedBit != 0,
			Track:  dir[base+slotTrackOff],
			Sector: dir[base+slotSectorOff],
			Name:   PetToASCII(StripPadding(dir[base+slotNameOff : base+slotNameOff+slotNameLen])),
			Blocks: binary.LittleEndian.Uint16(dir[base+slotBlocksOff : base+slotBlocksOff+2]),
		})
	}
	return entries, nil
}
