// file: pkg/d64/errors.go

package d64

import "errors"

var (
	ErrInvalidTrack    = errors.New("invalid track number")
	ErrInvalidSector   = errors.New("invalid sector number")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrBufferTooSmall  = errors.New("buffer too small")
)
