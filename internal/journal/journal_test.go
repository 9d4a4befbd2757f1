package journal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MokshC/Compound/internal/clip"
	ilog "github.com/MokshC/Compound/internal/log"
)

func TestJournalRecordsInOrder(t *testing.T) {
	var j Journal
	ctx := context.Background()
	require.NoError(t, j.CreateCompoundClip(ctx, []clip.Item{"V1-1"},
		clip.CompoundOptions{StartTimecode: "01:00:00:00", Name: "_A001"}))
	require.NoError(t, j.CreateCompoundClip(ctx, []clip.Item{"V1-2"},
		clip.CompoundOptions{StartTimecode: "00:00:00:00", Name: "Title"}))
	assert.Error(t, j.CreateCompoundClip(ctx, nil, clip.CompoundOptions{}))

	want := []Entry{
		{Command: CommandCreateCompoundClip, Items: []clip.Item{"V1-1"},
			Options: clip.CompoundOptions{StartTimecode: "01:00:00:00", Name: "_A001"}},
		{Command: CommandCreateCompoundClip, Items: []clip.Item{"V1-2"},
			Options: clip.CompoundOptions{StartTimecode: "00:00:00:00", Name: "Title"}},
	}
	if diff := cmp.Diff(want, j.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestJournalEncode(t *testing.T) {
	var j Journal
	ctx := ilog.ContextWithRunID(context.Background(), "run-1")
	require.NoError(t, j.CreateCompoundClip(ctx, []clip.Item{"V1-1"},
		clip.CompoundOptions{StartTimecode: "00:59:58:00", Name: "_A001C003"}))

	var buf bytes.Buffer
	require.NoError(t, j.Encode(ctx, &buf))
	out := buf.String()
	assert.Contains(t, out, "runId: run-1")
	assert.Contains(t, out, "command: createCompoundClip")
	assert.Contains(t, out, `startTimecode: "00:59:58:00"`)

	doc, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Commands, 1)
	assert.Equal(t, "_A001C003", doc.Commands[0].Options.Name)
}

func TestJournalWriteFile(t *testing.T) {
	var j Journal
	ctx := context.Background()
	require.NoError(t, j.CreateCompoundClip(ctx, []clip.Item{"clip.mov"},
		clip.CompoundOptions{StartTimecode: "10:00:00:00", Name: "_clip"}))

	path := filepath.Join(t.TempDir(), "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, j.WriteFile(ctx, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := Read(f)
	require.NoError(t, err)
	if diff := cmp.Diff(j.Entries(), doc.Commands); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
