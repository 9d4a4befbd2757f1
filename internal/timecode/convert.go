package timecode

import "fmt"

// ToFrame returns the absolute frame that tc names at rate.
//
// The frames field must be below rate.Base(). A larger value is reported as
// a *RateMismatchError and is never clamped. With drop set the drop-frame
// count is applied as is, including to frame numbers the drop-frame system
// skips; use IsDropped to detect those.
func ToFrame(tc Timecode, rate Rate, drop bool) (int64, error) {
	if err := rate.Validate(); err != nil {
		return 0, err
	}
	if tc.Hours < 0 || tc.Minutes < 0 || tc.Seconds < 0 || tc.Frames < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTimecode, tc)
	}
	base := int64(rate.Base())
	if int64(tc.Frames) >= base {
		return 0, &RateMismatchError{Timecode: tc, Rate: rate}
	}

	h, m, s, f := int64(tc.Hours), int64(tc.Minutes), int64(tc.Seconds), int64(tc.Frames)
	totalMinutes := 60*h + m
	if !drop {
		return (totalMinutes*60+s)*base + f, nil
	}

	dropFrames := int64(rate.DropFramesPerMinute())
	hourFrames := base * 60 * 60
	minuteFrames := base * 60
	frame := hourFrames*h + minuteFrames*m + base*s + f
	frame -= dropFrames * (totalMinutes - totalMinutes/10)
	return frame, nil
}

// IsDropped reports whether tc is a frame number the drop-frame system skips
// at rate: the first frames of every minute not divisible by ten.
func IsDropped(tc Timecode, rate Rate) bool {
	if rate.Validate() != nil {
		return false
	}
	totalMinutes := 60*tc.Hours + tc.Minutes
	return tc.Seconds == 0 && tc.Frames < rate.DropFramesPerMinute() && totalMinutes%10 != 0
}

// ParseFrame parses code and converts it with ToFrame.
func ParseFrame(code string, rate Rate, drop bool) (int64, error) {
	tc, err := Parse(code)
	if err != nil {
		return 0, err
	}
	return ToFrame(tc, rate, drop)
}

// FromFrame renders an absolute frame as non-drop timecode at the integer
// base. ToFrame(FromFrame(f, b), Rate(b), false) == f for every f >= 0.
// Hours are not wrapped at 24.
func FromFrame(frame int64, base int) (Timecode, error) {
	if base < 1 {
		return Timecode{}, fmt.Errorf("%w: base %d", ErrInvalidRate, base)
	}
	if frame < 0 {
		return Timecode{}, fmt.Errorf("%w: %d", ErrNegativeFrame, frame)
	}
	b := int64(base)
	tc := Timecode{}
	tc.Hours = int(frame / (3600 * b))
	frame %= 3600 * b
	tc.Minutes = int(frame / (60 * b))
	frame %= 60 * b
	tc.Seconds = int(frame / b)
	tc.Frames = int(frame % b)
	return tc, nil
}

// FromFrameDrop renders an absolute frame as drop-frame timecode at the
// integer base. It is the inverse of ToFrame with drop set. The compound
// flow never uses it: timeline timecode is always rendered with FromFrame.
func FromFrameDrop(frame int64, base int) (Timecode, error) {
	if base < 1 {
		return Timecode{}, fmt.Errorf("%w: base %d", ErrInvalidRate, base)
	}
	if frame < 0 {
		return Timecode{}, fmt.Errorf("%w: %d", ErrNegativeFrame, frame)
	}
	b := int64(base)
	drop := int64(dropFrames(base))
	tenMinuteFrames := b*600 - 9*drop // frames in a full ten minute chunk
	minuteFrames := b*60 - drop       // frames in a minute that drops

	chunks := frame / tenMinuteFrames
	rem := frame % tenMinuteFrames
	frame += 9 * drop * chunks
	if rem > drop {
		// the first minute of a chunk keeps all its frame numbers
		frame += drop * ((rem - drop) / minuteFrames)
	}
	return FromFrame(frame, base)
}
