// file: pkg/diskimage/diskimage.go

// Package diskimage loads D64 disk images into memory and hands sectors
// to the d64 package. It owns all file I/O; the d64 core only ever sees
// byte buffers.
package diskimage

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/emartisoft/C64-Collection/pkg/d64"
)

// Plain D64 image sizes. Variants with appended per-sector error bytes
// are not supported.
const (
	Size35Tracks = 174848 // 683 sectors
	Size40Tracks = 196608 // 768 sectors
)

var (
	ErrInvalidImageSize = errors.New("not a D64 image: unexpected file size")
	ErrInvalidChain     = errors.New("broken directory sector chain")
)

// DiskImage is a D64 image held fully in memory.
type DiskImage struct {
	data   []byte
	tracks int
}

// LoadFromBytes wraps an in-memory image. The buffer is held by
// reference, so sector writes through the image mutate the caller's copy.
func LoadFromBytes(data []byte) (*DiskImage, error) {
	var tracks int
	switch len(data) {
	case Size35Tracks:
		tracks = d64.StandardTracks
	case Size40Tracks:
		tracks = d64.MaxTracks
	default:
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrInvalidImageSize)
	}
	log.Debug().Int("bytes", len(data)).Int("tracks", tracks).Msg("image loaded")
	return &DiskImage{data: data, tracks: tracks}, nil
}

// LoadFromFile reads a D64 image from the host filesystem.
func LoadFromFile(path string) (*DiskImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	di, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return di, nil
}

// SaveToFile writes the image back to the host filesystem.
func (di *DiskImage) SaveToFile(path string) error {
	if err := os.WriteFile(path, di.data, 0644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	return nil
}

// Tracks returns the number of tracks in the image (35 or 40).
func (di *DiskImage) Tracks() int {
	return di.tracks
}

// Bytes returns the underlying image buffer.
func (di *DiskImage) Bytes() []byte {
	return di.data
}

func (di *DiskImage) checkSector(track, sector int) error {
	if track < 1 || track > di.tracks {
		return fmt.Errorf("track %d: %w", track, d64.ErrInvalidTrack)
	}
	if sector < 0 || sector >= d64.SectorsPerTrack(track) {
		return fmt.Errorf("track %d sector %d: %w", track, sector, d64.ErrInvalidSector)
	}
	return nil
}

// SectorData returns the 256-byte sector at (track, sector) as a view
// into the image buffer, not a copy.
func (di *DiskImage) SectorData(track, sector int) ([]byte, error) {
	if err := di.checkSector(track, sector); err != nil {
		return nil, err
	}
	off := d64.ByteOffset(track, sector)
	return di.data[off : off+d64.BytesPerSector], nil
}

// SetSectorData overwrites the sector at (track, sector).
func (di *DiskImage) SetSectorData(track, sector int, data []byte) error {
	if err := di.checkSector(track, sector); err != nil {
		return err
	}
	if len(data) != d64.BytesPerSector {
		return fmt.Errorf("sector data is %d bytes: %w", len(data), d64.ErrBufferTooSmall)
	}
	copy(di.data[d64.ByteOffset(track, sector):], data)
	return nil
}

// BAM returns the image's Block Allocation Map (track 18 sector 0),
// aliased into the image buffer so allocations are written through.
func (di *DiskImage) BAM() (*d64.BAM, error) {
	sector, err := di.SectorData(d64.DirTrack, 0)
	if err != nil {
		return nil, err
	}
	return d64.NewBAM(sector)
}

// DirectoryBuffer collects the BAM sector followed by every directory
// sector in chain order into one contiguous buffer, the form
// d64.NewDirectory expects. The chain starts at track 18 sector 1; each
// sector's first two bytes point to the next one, with a track byte of 0
// ending the chain. A pointer leaving the image or revisiting a sector
// means a corrupt directory.
func (di *DiskImage) DirectoryBuffer() ([]byte, error) {
	bam, err := di.SectorData(d64.DirTrack, 0)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 19*d64.BytesPerSector)
	buf = append(buf, bam...)

	seen := make(map[[2]int]bool)
	track, sector := d64.DirTrack, d64.DirSector
	for track != 0 {
		if seen[[2]int{track, sector}] {
			return nil, fmt.Errorf("directory chain loops at track %d sector %d: %w",
				track, sector, ErrInvalidChain)
		}
		seen[[2]int{track, sector}] = true

		data, err := di.SectorData(track, sector)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidChain, err)
		}
		log.Debug().Int("track", track).Int("sector", sector).Msg("directory sector")
		buf = append(buf, data...)
		track, sector = int(data[0]), int(data[1])
	}
	return buf, nil
}

// Directory parses the image's directory.
func (di *DiskImage) Directory() (*d64.Directory, error) {
	buf, err := di.DirectoryBuffer()
	if err != nil {
		return nil, err
	}
	return d64.NewDirectory(buf)
}
