// Package snapshot implements clip.Host over a YAML export of an editing
// session: the project, the current timeline and its items.
//
// The export is produced by a bridge running inside the editing application.
// Commands issued against the snapshot are recorded in a journal for the
// bridge to replay.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MokshC/Compound/internal/clip"
	"github.com/MokshC/Compound/internal/journal"
)

// File is the snapshot document.
type File struct {
	Project  string       `yaml:"project"`
	Timeline Timeline     `yaml:"timeline"`
	Selected string       `yaml:"selected,omitempty"`
	Items    []ItemRecord `yaml:"items"`
}

// Timeline describes the current timeline.
type Timeline struct {
	Name      string  `yaml:"name"`
	FrameRate float64 `yaml:"frameRate"`
}

// ItemRecord is one timeline item. Media is absent for generators, titles and
// other items without source media; its keys are clip.Property names.
type ItemRecord struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	LeftOffset int64             `yaml:"leftOffset"`
	Media      map[string]string `yaml:"media,omitempty"`
}

// Host answers clip.Host queries from a snapshot.
type Host struct {
	journal.Journal

	file  File
	index map[clip.Item]*ItemRecord
}

// Load reads and decodes the snapshot at path. Failures wrap
// clip.ErrHostUnavailable.
func Load(path string) (*Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot: %v", clip.ErrHostUnavailable, err)
	}
	h, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", clip.ErrHostUnavailable, path, err)
	}
	return h, nil
}

// Decode reads a snapshot document. Unknown keys are rejected.
func Decode(r io.Reader) (*Host, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty snapshot")
		}
		return nil, fmt.Errorf("strict snapshot parse error: %w", err)
	}
	return New(f)
}

// New indexes f.
func New(f File) (*Host, error) {
	h := &Host{file: f, index: make(map[clip.Item]*ItemRecord, len(f.Items))}
	for i := range f.Items {
		it := &h.file.Items[i]
		if strings.TrimSpace(it.ID) == "" {
			return nil, fmt.Errorf("item %d: missing id", i)
		}
		id := clip.Item(it.ID)
		if _, dup := h.index[id]; dup {
			return nil, fmt.Errorf("duplicate item id %q", it.ID)
		}
		for k := range it.Media {
			if !knownProperty(k) {
				return nil, fmt.Errorf("item %q: unknown media property %q", it.ID, k)
			}
		}
		h.index[id] = it
	}
	if f.Selected != "" {
		if _, ok := h.index[clip.Item(f.Selected)]; !ok {
			return nil, fmt.Errorf("selected item %q not in snapshot", f.Selected)
		}
	}
	return h, nil
}

func knownProperty(name string) bool {
	for _, p := range clip.Properties {
		if string(p) == name {
			return true
		}
	}
	return false
}

// Project is the project name recorded in the snapshot.
func (h *Host) Project() string { return h.file.Project }

// TimelineName is the name of the snapshot's timeline.
func (h *Host) TimelineName() string { return h.file.Timeline.Name }

func (h *Host) lookup(item clip.Item) (*ItemRecord, error) {
	it, ok := h.index[item]
	if !ok {
		return nil, fmt.Errorf("%w: %q", clip.ErrUnknownItem, item)
	}
	return it, nil
}

func (h *Host) SelectedItem(ctx context.Context) (clip.Item, bool, error) {
	if h.file.Selected == "" {
		return "", false, nil
	}
	return clip.Item(h.file.Selected), true, nil
}

func (h *Host) HasSourceMedia(ctx context.Context, item clip.Item) (bool, error) {
	it, err := h.lookup(item)
	if err != nil {
		return false, err
	}
	return len(it.Media) > 0, nil
}

func (h *Host) MediaProperty(ctx context.Context, item clip.Item, name clip.Property) (string, error) {
	it, err := h.lookup(item)
	if err != nil {
		return "", err
	}
	if len(it.Media) == 0 {
		return "", clip.ErrMissingMedia
	}
	v, ok := it.Media[string(name)]
	if !ok {
		return "", fmt.Errorf("%w: property %q", clip.ErrMissingMedia, name)
	}
	return v, nil
}

func (h *Host) LeftOffsetFrames(ctx context.Context, item clip.Item) (int64, error) {
	it, err := h.lookup(item)
	if err != nil {
		return 0, err
	}
	return it.LeftOffset, nil
}

func (h *Host) TimelineFrameRate(ctx context.Context) (float64, error) {
	return h.file.Timeline.FrameRate, nil
}

func (h *Host) DisplayName(ctx context.Context, item clip.Item) (string, error) {
	it, err := h.lookup(item)
	if err != nil {
		return "", err
	}
	return it.Name, nil
}

// Items lists the timeline items in snapshot order.
func (h *Host) Items(ctx context.Context) ([]clip.Item, error) {
	items := make([]clip.Item, 0, len(h.file.Items))
	for _, it := range h.file.Items {
		items = append(items, clip.Item(it.ID))
	}
	return items, nil
}

var (
	_ clip.Host   = (*Host)(nil)
	_ clip.Lister = (*Host)(nil)
)
