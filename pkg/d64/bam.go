// file: pkg/d64/bam.go

package d64

import (
	"fmt"
	"strings"
)

// BAM sector layout (offsets within the 256-byte sector)
const (
	bamEntriesOff  = 0x04 // 35 groups of 4 bytes, one per track
	bamEntrySize   = 4
	bamDiskNameOff = 0x90 // 16 bytes, PETSCII, 0xA0 padded
	bamDiskNameLen = 16
	bamDiskIDOff   = 0xA2 // 2 bytes, PETSCII
	bamDosTypeOff  = 0xA5 // 2 bytes, PETSCII
)

// BAM is a view over the Block Allocation Map sector of a 1541 disk
// (track 18 sector 0 by convention). It holds the caller's buffer by
// reference: AllocateBlock/DeallocateBlock mutate the caller's bytes in
// place, and caller-side writes are visible through the BAM. A caller
// that needs isolation passes a copy.
type BAM struct {
	data []byte
}

// NewBAM wraps a BAM sector buffer. The buffer must be at least one
// sector (256 bytes) long.
func NewBAM(sector []byte) (*BAM, error) {
	if len(sector) < BytesPerSector {
		return nil, fmt.Errorf("BAM sector is %d bytes: %w", len(sector), ErrBufferTooSmall)
	}
	return &BAM{data: sector}, nil
}

// Bytes returns the underlying sector buffer. Callers use it to write the
// mutated sector back into the disk image.
func (b *BAM) Bytes() []byte {
	return b.data
}

// DiskName returns the disk name with 0xA0 padding stripped, as ASCII.
func (b *BAM) DiskName() string {
	return PetToASCII(StripPadding(b.data[bamDiskNameOff : bamDiskNameOff+bamDiskNameLen]))
}

// DiskID returns the two-character disk ID. The field is fixed width, so
// no padding is stripped.
func (b *BAM) DiskID() string {
	return PetToASCII(b.data[bamDiskIDOff : bamDiskIDOff+2])
}

// DOSType returns the two-character DOS version/format marker ("2A" on a
// stock 1541).
func (b *BAM) DOSType() string {
	return PetToASCII(b.data[bamDosTypeOff : bamDosTypeOff+2])
}

// Header renders the first line of a classic directory listing:
//
//	0 "DISKNAME        " ID 2A
//
// The name field is left-justified, never truncated, so an overlong disk
// name pushes the ID to the right.
func (b *BAM) Header() string {
	header := `0    "`
	header += fmt.Sprintf("%-19s", b.DiskName()+`"`)
	header += fmt.Sprintf("%-3s", b.DiskID())
	header += b.DOSType()
	return strings.ToUpper(header)
}

// BlocksFree returns the free-block total a 1541 prints at the end of a
// directory listing. It sums the per-track free-count bytes and always
// skips track 18, whose sectors hold the BAM and directory.
func (b *BAM) BlocksFree() int {
	free := 0
	for off := bamEntriesOff; off < 0x90; off += bamEntrySize {
		if off == bamEntrySize*DirTrack {
			continue
		}
		free += int(b.data[off])
	}
	return free
}

// BlocksAllocated returns the number of allocated sectors across all 35
// tracks, track 18 included. It trusts the stored free-count bytes rather
// than recounting bitmap bits; a BAM with inconsistent counts reports
// inconsistent totals, same as the drive would.
func (b *BAM) BlocksAllocated() int {
	allocated := 0
	for track := 1; track <= StandardTracks; track++ {
		allocated += SectorsPerTrack(track) - int(b.data[bamEntrySize*track])
	}
	return allocated
}

// TrackFreeCount returns the stored free-sector count byte for a track.
func (b *BAM) TrackFreeCount(track int) (int, error) {
	if track < 1 || track > StandardTracks {
		return 0, fmt.Errorf("track %d: %w", track, ErrInvalidTrack)
	}
	return int(b.data[bamEntrySize*track]), nil
}

// checkBlock validates that (track, sector) addresses a bit inside the
// 35-track bitmap.
func (b *BAM) checkBlock(track, sector int) error {
	if track < 1 || track > StandardTracks {
		return fmt.Errorf("track %d: %w", track, ErrInvalidTrack)
	}
	if sector < 0 || sector >= SectorsPerTrack(track) {
		return fmt.Errorf("track %d sector %d: %w", track, sector, ErrInvalidSector)
	}
	return nil
}

// bitmapPos returns the byte offset and bit mask for a block's bit in the
// allocation bitmap. Bit set means the sector is free.
func bitmapPos(track, sector int) (int, byte) {
	return bamEntrySize*track + 1 + sector/8, 1 << (sector % 8)
}

// IsBlockFree reports whether the sector's bitmap bit is set (free).
func (b *BAM) IsBlockFree(track, sector int) (bool, error) {
	if err := b.checkBlock(track, sector); err != nil {
		return false, err
	}
	off, mask := bitmapPos(track, sector)
	return b.data[off]&mask != 0, nil
}

// AllocateBlock clears the sector's bitmap bit, marking it allocated.
// Allocating an already-allocated block is a no-op. The per-track
// free-count byte is NOT adjusted; bit state and the cached count are
// separate fields on disk and callers keep them consistent themselves.
func (b *BAM) AllocateBlock(track, sector int) error {
	if err := b.checkBlock(track, sector); err != nil {
		return err
	}
	off, mask := bitmapPos(track, sector)
	b.data[off] &^= mask
	return nil
}

// DeallocateBlock sets the sector's bitmap bit, marking it free. Like
// AllocateBlock it is idempotent and leaves the free-count byte alone.
func (b *BAM) DeallocateBlock(track, sector int) error {
	if err := b.checkBlock(track, sector); err != nil {
		return err
	}
	off, mask := bitmapPos(track, sector)
	b.data[off] |= mask
	return nil
}
