package mashup

import "errors"

var (
	ErrSourceNotFound    = errors.New("audio file not found")
	ErrSourceUnreadable  = errors.New("audio file could not be read")
	ErrInvalidSegment    = errors.New("invalid segment")
	ErrSegmentOutOfRange = errors.New("segment exceeds song duration")
	ErrEncodingFailure   = errors.New("failed to write mashup")
)
