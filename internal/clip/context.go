package clip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ilog "github.com/MokshC/Compound/internal/log"
	"github.com/MokshC/Compound/internal/timecode"
)

// DefaultMediaRate is reported for items that have no source media.
const DefaultMediaRate = timecode.Rate23976

// Options tune Gather and Plan.
type Options struct {
	// DefaultRate is the rate of items without source media. Zero means
	// DefaultMediaRate.
	DefaultRate timecode.Rate
	// NamePrefix is prepended to the compound name of items with media.
	NamePrefix string
}

// DefaultOptions returns the options the original tool ran with.
func DefaultOptions() Options {
	return Options{DefaultRate: DefaultMediaRate, NamePrefix: "_"}
}

// SourceMedia is the typed view of an item's source media properties.
type SourceMedia struct {
	FileName      string
	Rate          timecode.Rate
	DropFrame     bool
	StartTimecode timecode.Timecode
}

// Timing is the source position of an item at the timeline cut point.
type Timing struct {
	MediaStartFrame  int64 // frame of the media's embedded start timecode
	LeftOffsetFrames int64 // trim applied on the timeline
	StartFrame       int64 // MediaStartFrame + LeftOffsetFrames
}

// Context is everything the conversion needs about one timeline item. It is
// filled once by Gather and never calls back into the host.
type Context struct {
	Item         Item
	Name         string
	TimelineRate timecode.Rate
	LeftOffset   int64

	defaultRate timecode.Rate
	media       *SourceMedia
}

// Gather reads the context of the host's selected item.
func Gather(ctx context.Context, host Host, opts Options) (*Context, error) {
	item, ok, err := host.SelectedItem(ctx)
	if err != nil {
		return nil, fmt.Errorf("get selected item: %w", err)
	}
	if !ok {
		return nil, ErrNoSelection
	}
	return GatherItem(ctx, host, item, opts)
}

// GatherItem reads the context of one item. A missing source media is not
// an error: the returned context reports no media and default timing.
func GatherItem(ctx context.Context, host Host, item Item, opts Options) (*Context, error) {
	logger := ilog.WithComponentFromContext(ctx, "clip")

	c := &Context{Item: item, defaultRate: opts.DefaultRate}
	if c.defaultRate == 0 {
		c.defaultRate = DefaultMediaRate
	}
	var err error
	if c.Name, err = host.DisplayName(ctx, item); err != nil {
		return nil, fmt.Errorf("get name of %s: %w", item, err)
	}
	rate, err := host.TimelineFrameRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("get timeline frame rate: %w", err)
	}
	c.TimelineRate = timecode.Rate(rate)

	hasMedia, err := host.HasSourceMedia(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("check media of %s: %w", item, err)
	}
	if !hasMedia {
		logger.Debug().Str(ilog.FieldItem, string(item)).Msg("item has no source media, using defaults")
		return c, nil
	}

	media, err := readMedia(ctx, host, item)
	if errors.Is(err, ErrMissingMedia) {
		logger.Warn().Err(err).Str(ilog.FieldItem, string(item)).Msg("media properties unavailable, using defaults")
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if c.LeftOffset, err = host.LeftOffsetFrames(ctx, item); err != nil {
		return nil, fmt.Errorf("get left offset of %s: %w", item, err)
	}
	c.media = media

	logger.Debug().
		Str(ilog.FieldItem, string(item)).
		Str(ilog.FieldFile, media.FileName).
		Stringer(ilog.FieldFPS, media.Rate).
		Bool(ilog.FieldDropFrame, media.DropFrame).
		Stringer(ilog.FieldSourceTC, media.StartTimecode).
		Int64(ilog.FieldLeftOffset, c.LeftOffset).
		Msg("gathered source media")
	return c, nil
}

func readMedia(ctx context.Context, host Host, item Item) (*SourceMedia, error) {
	props := make(map[Property]string, len(Properties))
	for _, name := range Properties {
		v, err := host.MediaProperty(ctx, item, name)
		if err != nil {
			return nil, fmt.Errorf("get %q of %s: %w", name, item, err)
		}
		props[name] = v
	}

	rate, err := timecode.ParseRate(props[PropFPS])
	if err != nil {
		return nil, fmt.Errorf("media of %s: %w", item, err)
	}
	start, err := timecode.Parse(strings.TrimSpace(props[PropStartTC]))
	if err != nil {
		return nil, fmt.Errorf("start timecode of %s: %w", item, err)
	}
	return &SourceMedia{
		FileName:      props[PropFileName],
		Rate:          rate,
		DropFrame:     parseDropFrame(props[PropDropFrame]),
		StartTimecode: start,
	}, nil
}

// The host reports "0" for non-drop media.
func parseDropFrame(s string) bool {
	s = strings.TrimSpace(s)
	return s != "0" && s != ""
}

// Media returns the item's source media, if any.
func (c *Context) Media() (SourceMedia, bool) {
	if c.media == nil {
		return SourceMedia{}, false
	}
	return *c.media, true
}

// HasMedia reports whether the item has source media.
func (c *Context) HasMedia() bool {
	return c.media != nil
}

// Rate is the source media rate, or the default rate without media.
func (c *Context) Rate() timecode.Rate {
	if c.media == nil {
		return c.defaultRate
	}
	return c.media.Rate
}

// Timing converts the media start timecode and adds the left offset. Items
// without media start at frame 0.
func (c *Context) Timing() (Timing, error) {
	if c.media == nil {
		return Timing{}, nil
	}
	start, err := timecode.ToFrame(c.media.StartTimecode, c.media.Rate, c.media.DropFrame)
	if err != nil {
		return Timing{}, fmt.Errorf("media start of %s: %w", c.Item, err)
	}
	return Timing{
		MediaStartFrame:  start,
		LeftOffsetFrames: c.LeftOffset,
		StartFrame:       start + c.LeftOffset,
	}, nil
}

// StartTimecode renders the effective start frame at the timeline's rate.
// The source rate is only used to read the media's own timecode.
func (c *Context) StartTimecode() (timecode.Timecode, error) {
	if c.media == nil {
		return timecode.Zero, nil
	}
	timing, err := c.Timing()
	if err != nil {
		return timecode.Timecode{}, err
	}
	if err := c.TimelineRate.Validate(); err != nil {
		return timecode.Timecode{}, fmt.Errorf("timeline: %w", err)
	}
	tc, err := timecode.FromFrame(timing.StartFrame, c.TimelineRate.Base())
	if err != nil {
		return timecode.Timecode{}, fmt.Errorf("start of %s: %w", c.Item, err)
	}
	return tc, nil
}

// FileName is the media file name, empty without media.
func (c *Context) FileName() string {
	if c.media == nil {
		return ""
	}
	return c.media.FileName
}

func (c *Context) String() string {
	return "Clip Item [" + c.FileName() + "]"
}
