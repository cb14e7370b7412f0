// file: pkg/d64/geometry.go

package d64

const (
	BytesPerSector = 256
	StandardTracks = 35 // tracks covered by the BAM
	MaxTracks      = 40 // extended images
	DirTrack       = 18 // track holding BAM and directory
	DirSector      = 1  // first directory sector on the dir track
)

// SectorsPerTrack returns the number of sectors on a track. The 1541
// records fewer sectors on the inner tracks (constant angular velocity),
// giving four zones. Tracks outside [1,40] return 0.
func SectorsPerTrack(track int) int {
	switch {
	case track < 1:
		return 0
	case track < 18:
		return 21
	case track < 25:
		return 19
	case track < 31:
		return 18
	case track < 41:
		return 17
	default:
		return 0
	}
}

// SectorIndex returns the absolute linear sector number of (track, sector)
// counting from track 1 sector 0. The sector argument is not range-checked;
// callers validate it where that matters.
func SectorIndex(track, sector int) int {
	index := 0
	for t := 1; t < track; t++ {
		index += SectorsPerTrack(t)
	}
	return index + sector
}

// ByteOffset returns the byte position of (track, sector) inside a flat
// D64 image buffer.
func ByteOffset(track, sector int) int {
	return BytesPerSector * SectorIndex(track, sector)
}
