package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rate is a frame rate in frames per second, such as 23.976 or 25.
//
// Digit arithmetic always happens at the rounded base (24 for 23.976, 30 for
// 29.97). Whether a rate counts in drop-frame is not a property of the number
// and is passed alongside it.
type Rate float64

// Common rates.
const (
	Rate23976 Rate = 23.976
	Rate24    Rate = 24
	Rate25    Rate = 25
	Rate2997  Rate = 29.97
	Rate30    Rate = 30
	Rate50    Rate = 50
	Rate5994  Rate = 59.94
	Rate60    Rate = 60
)

// ParseRate reads a decimal rate such as "29.97".
func ParseRate(s string) (Rate, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	r := Rate(f)
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r, nil
}

// Validate checks that the rate rounds to a usable time base.
func (r Rate) Validate() error {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) || r.Base() < 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, f)
	}
	return nil
}

// Base is the nominal number of frames in one second of timecode.
func (r Rate) Base() int {
	return int(math.Round(float64(r)))
}

// DropFramesPerMinute is the count of frame numbers skipped at the start of
// every minute not divisible by ten: 2 at base 30, 4 at base 60.
func (r Rate) DropFramesPerMinute() int {
	return dropFrames(r.Base())
}

func (r Rate) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// round(base * 0.0666...)
func dropFrames(base int) int {
	return int(math.Round(float64(base) / 15))
}
