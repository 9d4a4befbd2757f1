// Package journal records the commands sent to the editing host so a bridge
// running inside the host can replay them.
package journal

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/MokshC/Compound/internal/clip"
	ilog "github.com/MokshC/Compound/internal/log"
)

// CommandCreateCompoundClip is the only command the tool issues.
const CommandCreateCompoundClip = "createCompoundClip"

// Entry is one recorded host command.
type Entry struct {
	Command string               `yaml:"command"`
	Items   []clip.Item          `yaml:"items"`
	Options clip.CompoundOptions `yaml:"options"`
}

// Document is the on-disk form of a journal.
type Document struct {
	RunID    string  `yaml:"runId,omitempty"`
	Commands []Entry `yaml:"commands"`
}

// Journal collects host commands in the order they were issued.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
}

// CreateCompoundClip records a create compound clip command. Hosts embed a
// Journal to satisfy that part of clip.Host.
func (j *Journal) CreateCompoundClip(ctx context.Context, items []clip.Item, opts clip.CompoundOptions) error {
	if len(items) == 0 {
		return fmt.Errorf("create compound clip: no items")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, Entry{
		Command: CommandCreateCompoundClip,
		Items:   append([]clip.Item(nil), items...),
		Options: opts,
	})
	return nil
}

// Entries returns a copy of the recorded commands.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Encode writes the journal as YAML.
func (j *Journal) Encode(ctx context.Context, w io.Writer) error {
	doc := Document{
		RunID:    ilog.RunIDFromContext(ctx),
		Commands: j.Entries(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	return enc.Close()
}

// WriteFile replaces path with the encoded journal atomically.
func (j *Journal) WriteFile(ctx context.Context, path string) error {
	logger := ilog.WithComponentFromContext(ctx, "journal")

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending journal file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending journal file")
		}
	}()

	if err := j.Encode(ctx, pendingFile); err != nil {
		return err
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace journal file: %w", err)
	}
	logger.Info().Str(ilog.FieldPath, path).Int("commands", len(j.Entries())).Msg("journal written")
	return nil
}

// Read decodes a journal document.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode journal: %w", err)
	}
	return &doc, nil
}
