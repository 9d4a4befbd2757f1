package report

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MokshC/Compound/internal/clip"
	"github.com/MokshC/Compound/internal/config"
	"github.com/MokshC/Compound/internal/snapshot"
	"github.com/MokshC/Compound/internal/timecode"
)

const session = `
project: Feature
timeline:
  name: Reel 1
  frameRate: 23.976
items:
  - id: V1-0001
    name: Opening Title
  - id: V1-0002
    name: A001C003
    leftOffset: 48
    media:
      File Name: A001C003.mov
      FPS: "23.976"
      Drop frame: "0"
      Start TC: "14:22:08:11"
  - id: V1-0003
    name: B004C012
    leftOffset: 120
    media:
      File Name: B004C012.mxf
      FPS: "29.97"
      Drop frame: "1"
      Start TC: "00:10:00:00"
  - id: V1-0004
    name: Broken
    media:
      File Name: broken.mov
      FPS: "25"
      Drop frame: "0"
      Start TC: "01:00:00:25"
`

func loadSession(t *testing.T) *snapshot.Host {
	t.Helper()
	h, err := snapshot.Decode(strings.NewReader(session))
	require.NoError(t, err)
	return h
}

func TestBuild(t *testing.T) {
	rows, err := Build(context.Background(), loadSession(t), clip.DefaultOptions())
	require.NoError(t, err)

	want := []Row{
		{
			Item: "V1-0001", Name: "Opening Title", FPS: "23.976",
			TimelineFPS: "23.976", TimelineBase: 24,
			StartTimecode: "00:00:00:00", CompoundName: "Opening Title",
		},
		{
			Item: "V1-0002", Name: "A001C003", FileName: "A001C003.mov", HasMedia: true,
			FPS: "23.976", SourceTimecode: "14:22:08:11",
			LeftOffset: 48, MediaStartFrame: 1241483, StartFrame: 1241531,
			TimelineFPS: "23.976", TimelineBase: 24,
			StartTimecode: "14:22:10:11", CompoundName: "_A001C003",
		},
		{
			Item: "V1-0003", Name: "B004C012", FileName: "B004C012.mxf", HasMedia: true,
			FPS: "29.97", DropFrame: true, SourceTimecode: "00:10:00:00",
			LeftOffset: 120, MediaStartFrame: 17982, StartFrame: 18102,
			TimelineFPS: "23.976", TimelineBase: 24,
			StartTimecode: "00:12:34:06", CompoundName: "_B004C012",
		},
		{
			Item: "V1-0004", Name: "Broken", FileName: "broken.mov", HasMedia: true,
			FPS: "25", SourceTimecode: "01:00:00:25",
			TimelineFPS: "23.976", TimelineBase: 24,
			CompoundName: "_Broken",
		},
	}
	if diff := cmp.Diff(want, rows, cmpopts.IgnoreFields(Row{}, "Err")); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}

	var mismatch *timecode.RateMismatchError
	assert.True(t, errors.As(rows[3].Err, &mismatch))
	assert.NotEmpty(t, rows[3].ErrorText())
	for _, r := range rows[:3] {
		assert.NoError(t, r.Err, r.Item)
		assert.Empty(t, r.ErrorText())
	}
}

func TestRenderText(t *testing.T) {
	rows, err := Build(context.Background(), loadSession(t), clip.DefaultOptions())
	require.NoError(t, err)

	cols, err := Compile([]config.Field{
		{Name: "Clip", Value: "{{.Name}}"},
		{Name: "Start", Value: "{{.StartTimecode}}"},
		{Name: "Drop", Value: "{{if .HasMedia}}{{dropTC .MediaStartFrame 30}}{{end}}"},
		{Name: "Dir", Value: "{{dirname (remap .FileName \"B004\" \"/proxy/B004\")}}"},
	})
	require.NoError(t, err)

	table, errs := Render(rows, cols)
	assert.Empty(t, errs)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, table, ","))
	want := strings.Join([]string{
		"Clip,Start,Drop,Dir",
		"Opening Title,00:00:00:00,,.",
		"A001C003,14:22:10:11,11:30:24:05,.",
		"B004C012,00:12:34:06,00:10:00:00,/proxy",
		"Broken,,00:00:00:00,.",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderTemplateFailure(t *testing.T) {
	cols, err := Compile([]config.Field{
		{Name: "Bad", Value: "{{tc .StartFrame 0}}"},
		{Name: "Name", Value: "{{.Name}}"},
	})
	require.NoError(t, err)

	table, errs := Render([]Row{{Item: "x", Name: "x"}}, cols)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], timecode.ErrInvalidRate)
	assert.Equal(t, []string{"", "x"}, table.Cells[1])
}

func TestCompileError(t *testing.T) {
	_, err := Compile([]config.Field{{Name: "Bad", Value: "{{nope .Name}}"}})
	assert.Error(t, err)
}

func TestWriteExcel(t *testing.T) {
	rows, err := Build(context.Background(), loadSession(t), clip.DefaultOptions())
	require.NoError(t, err)
	cols, err := Compile(config.DefaultFields)
	require.NoError(t, err)
	table, _ := Render(rows, cols)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteExcel(context.Background(), path, "Reel 1", table))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	for _, c := range []struct{ cell, want string }{
		{"A1", "Item"},
		{"I1", "Start TC"},
		{"A3", "V1-0002"},
		{"I3", "14:22:10:11"},
		{"J4", "_B004C012"},
		{"E4", "DF"},
	} {
		got, err := f.GetCellValue("Reel 1", c.cell)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, c.cell)
	}
}
