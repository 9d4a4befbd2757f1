package timecode

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimecode = errors.New("invalid timecode")
	ErrInvalidRate     = errors.New("invalid frame rate")
	ErrNegativeFrame   = errors.New("negative frame")
)

// RateMismatchError reports a timecode whose frames field does not fit the
// rate it is read at. It usually means the media's declared rate and its
// embedded timecode disagree.
type RateMismatchError struct {
	Timecode Timecode
	Rate     Rate
}

func (e *RateMismatchError) Error() string {
	return fmt.Sprintf("timecode to frame rate mismatch: %s at %v fps (frames must be below %d)",
		e.Timecode, e.Rate, e.Rate.Base())
}
