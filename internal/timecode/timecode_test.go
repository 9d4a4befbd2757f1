package timecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		code    string
		want    Timecode
		wantErr bool
	}{
		{code: "00:00:00:00", want: Timecode{}},
		{code: "12:14:20:17", want: Timecode{Hours: 12, Minutes: 14, Seconds: 20, Frames: 17}},
		{code: "99:59:59:59", want: Timecode{Hours: 99, Minutes: 59, Seconds: 59, Frames: 59}},
		{code: "00:00:00:30", want: Timecode{Frames: 30}},
		{code: "1:00:00:00", wantErr: true},
		{code: "01:00:00:00:00", wantErr: true},
		{code: "01-00-00-00", wantErr: true},
		{code: "01:00:00;00", wantErr: true},
		{code: "aa:00:00:00", wantErr: true},
		{code: "00:60:00:00", wantErr: true},
		{code: "00:00:60:00", wantErr: true},
		{code: "", wantErr: true},
	}
	for _, c := range cases {
		got, err := Parse(c.code)
		if c.wantErr {
			assert.ErrorIs(t, err, ErrInvalidTimecode, c.code)
			continue
		}
		require.NoError(t, err, c.code)
		assert.Equal(t, c.want, got, c.code)
		assert.Equal(t, c.code, got.String())
	}
}

func TestTimecodeString(t *testing.T) {
	assert.Equal(t, "00:00:00:00", Zero.String())
	assert.Equal(t, "01:02:03:04", Timecode{1, 2, 3, 4}.String())
	assert.Equal(t, "100:00:00:00", Timecode{Hours: 100}.String())
}

func TestTimecodeLess(t *testing.T) {
	assert.True(t, MustParse("00:00:59:29").Less(MustParse("00:01:00:02")))
	assert.True(t, MustParse("00:00:00:01").Less(MustParse("00:00:01:00")))
	assert.False(t, MustParse("01:00:00:00").Less(MustParse("00:59:59:29")))
	assert.False(t, Zero.Less(Zero))
}

func TestTimecodeText(t *testing.T) {
	var tc Timecode
	require.NoError(t, tc.UnmarshalText([]byte("10:00:00:12")))
	assert.Equal(t, Timecode{Hours: 10, Frames: 12}, tc)
	p, err := tc.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "10:00:00:12", string(p))
	assert.Error(t, tc.UnmarshalText([]byte("bogus")))
}

func TestRate(t *testing.T) {
	cases := []struct {
		rate Rate
		base int
		drop int
	}{
		{rate: Rate23976, base: 24, drop: 2},
		{rate: Rate24, base: 24, drop: 2},
		{rate: Rate25, base: 25, drop: 2},
		{rate: Rate2997, base: 30, drop: 2},
		{rate: Rate5994, base: 60, drop: 4},
		{rate: Rate50, base: 50, drop: 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.base, c.rate.Base(), c.rate.String())
		assert.Equal(t, c.drop, c.rate.DropFramesPerMinute(), c.rate.String())
	}
}

func TestParseRate(t *testing.T) {
	r, err := ParseRate("29.97")
	require.NoError(t, err)
	assert.Equal(t, Rate2997, r)
	assert.Equal(t, "29.97", r.String())

	r, err = ParseRate(" 24 ")
	require.NoError(t, err)
	assert.Equal(t, 24, r.Base())

	for _, s := range []string{"", "fps", "0", "-25", "0.4", "NaN", "Inf"} {
		_, err := ParseRate(s)
		assert.ErrorIs(t, err, ErrInvalidRate, s)
	}
}
