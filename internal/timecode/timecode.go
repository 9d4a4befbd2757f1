// Package timecode converts between HH:MM:SS:FF timecodes and absolute
// frame counts.
//
// A Timecode is only digits. The frame it names depends on the Rate it is
// read at and on whether the source uses drop-frame numbering, so every
// conversion takes both explicitly. See http://andrewduncan.net/timecodes/
// for an introduction to the drop-frame system.
package timecode

import (
	"fmt"
	"strconv"
)

// Zero is the first timecode of any timeline.
var Zero = Timecode{}

// Timecode holds the four fields of an HH:MM:SS:FF timecode.
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

// Parse reads a timecode in the fixed HH:MM:SS:FF shape: four two digit
// fields separated by colons. It does not check the frames field against a
// rate; ToFrame does that.
func Parse(code string) (Timecode, error) {
	if len(code) != 11 {
		return Timecode{}, fmt.Errorf("%w: %q", ErrInvalidTimecode, code)
	}
	codes := [4]int{}
	for i := 0; i < len(code); i += 3 {
		if i > 0 && code[i-1] != ':' {
			return Timecode{}, fmt.Errorf("%w: %q", ErrInvalidTimecode, code)
		}
		d0, d1 := code[i], code[i+1]
		if d0 < '0' || d0 > '9' || d1 < '0' || d1 > '9' {
			return Timecode{}, fmt.Errorf("%w: %q", ErrInvalidTimecode, code)
		}
		codes[i/3] = int(d0-'0')*10 + int(d1-'0')
	}
	tc := Timecode{
		Hours:   codes[0],
		Minutes: codes[1],
		Seconds: codes[2],
		Frames:  codes[3],
	}
	if tc.Minutes > 59 || tc.Seconds > 59 {
		return Timecode{}, fmt.Errorf("%w: %q", ErrInvalidTimecode, code)
	}
	return tc, nil
}

// MustParse is like Parse but panics on error. It is meant for constants.
func MustParse(code string) Timecode {
	tc, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return tc
}

// String renders the timecode with every field zero padded to two digits.
func (t Timecode) String() string {
	codes := [4]int{t.Hours, t.Minutes, t.Seconds, t.Frames}
	b := make([]byte, 0, 11)
	for i, c := range codes {
		if i > 0 {
			b = append(b, ':')
		}
		if c < 10 {
			b = append(b, '0')
		}
		b = strconv.AppendInt(b, int64(c), 10)
	}
	return string(b)
}

// TotalMinutes is the number of whole minutes before the timecode.
func (t Timecode) TotalMinutes() int {
	return 60*t.Hours + t.Minutes
}

// Less reports whether t comes before u in field order.
func (t Timecode) Less(u Timecode) bool {
	a := [4]int{t.Hours, t.Minutes, t.Seconds, t.Frames}
	b := [4]int{u.Hours, u.Minutes, u.Seconds, u.Frames}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (t Timecode) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timecode) UnmarshalText(p []byte) error {
	tc, err := Parse(string(p))
	if err != nil {
		return err
	}
	*t = tc
	return nil
}
