// Package clip gathers the timing of a timeline item from the editing host
// and turns it into a compound clip request.
//
// The host is reached only through Host. Every query happens in Gather, the
// timecode math runs on the returned Context, and the single command is sent
// by Create afterwards.
package clip

import (
	"context"
	"errors"
)

var (
	// ErrHostUnavailable means the editing host could not be reached. Nothing
	// should be converted when it occurs.
	ErrHostUnavailable = errors.New("host unavailable")

	// ErrMissingMedia is returned by hosts asked for media properties of an
	// item without source media. Gather recovers from it with defaults.
	ErrMissingMedia = errors.New("item has no source media")

	// ErrNoSelection means the host has no current item to work on.
	ErrNoSelection = errors.New("no item selected")

	// ErrUnknownItem is returned by hosts for handles they do not know.
	ErrUnknownItem = errors.New("unknown item")
)

// Item is a host handle for a timeline item.
type Item string

// Property names a media pool property of an item's source media.
type Property string

const (
	PropFPS       Property = "FPS"
	PropDropFrame Property = "Drop frame"
	PropStartTC   Property = "Start TC"
	PropFileName  Property = "File Name"
)

// Properties lists every property Gather reads.
var Properties = []Property{PropFPS, PropDropFrame, PropStartTC, PropFileName}

// CompoundOptions are the options of a create compound clip command.
type CompoundOptions struct {
	StartTimecode string `yaml:"startTimecode" json:"startTimecode"`
	Name          string `yaml:"name" json:"name"`
}

// Host is the editing application as seen by this package.
type Host interface {
	// SelectedItem returns the current item. ok is false when nothing is
	// selected.
	SelectedItem(ctx context.Context) (item Item, ok bool, err error)
	HasSourceMedia(ctx context.Context, item Item) (bool, error)
	// MediaProperty returns a property of the item's source media as the
	// host displays it. Items without media return ErrMissingMedia.
	MediaProperty(ctx context.Context, item Item, name Property) (string, error)
	LeftOffsetFrames(ctx context.Context, item Item) (int64, error)
	TimelineFrameRate(ctx context.Context) (float64, error)
	DisplayName(ctx context.Context, item Item) (string, error)
	CreateCompoundClip(ctx context.Context, items []Item, opts CompoundOptions) error
}

// Lister is implemented by hosts that can enumerate their timeline items.
type Lister interface {
	Items(ctx context.Context) ([]Item, error)
}
