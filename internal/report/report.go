// Package report tabulates the compound clip timing of every item a host
// knows about.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/MokshC/Compound/internal/clip"
	"github.com/MokshC/Compound/internal/config"
	ilog "github.com/MokshC/Compound/internal/log"
	"github.com/MokshC/Compound/internal/timecode"
)

// Source is a host that can list its items.
type Source interface {
	clip.Host
	clip.Lister
}

// Row is the timing of one item. Templates in the report fields are
// executed against it.
type Row struct {
	Item            string
	Name            string
	FileName        string
	HasMedia        bool
	FPS             string
	DropFrame       bool
	SourceTimecode  string
	LeftOffset      int64
	MediaStartFrame int64
	StartFrame      int64
	TimelineFPS     string
	TimelineBase    int
	StartTimecode   string
	CompoundName    string
	Err             error
}

// ErrorText is the row's error message, empty when the row is complete.
func (r Row) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Build gathers one row per item, in host order. Item failures are kept on
// the row; only a failure to list items is returned.
func Build(ctx context.Context, src Source, opts clip.Options) ([]Row, error) {
	logger := ilog.WithComponentFromContext(ctx, "report")

	items, err := src.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row := buildRow(ctx, src, item, opts)
		if row.Err != nil {
			logger.Debug().Err(row.Err).Str(ilog.FieldItem, row.Item).Msg("incomplete row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildRow(ctx context.Context, src Source, item clip.Item, opts clip.Options) Row {
	row := Row{Item: string(item)}
	c, err := clip.GatherItem(ctx, src, item, opts)
	if err != nil {
		row.Err = err
		return row
	}
	row.Name = c.Name
	row.FileName = c.FileName()
	row.FPS = c.Rate().String()
	row.TimelineFPS = c.TimelineRate.String()
	row.TimelineBase = c.TimelineRate.Base()
	row.CompoundName = c.CompoundName(opts.NamePrefix)
	if m, ok := c.Media(); ok {
		row.HasMedia = true
		row.DropFrame = m.DropFrame
		row.SourceTimecode = m.StartTimecode.String()
	}

	timing, err := c.Timing()
	if err != nil {
		row.Err = err
		return row
	}
	row.LeftOffset = timing.LeftOffsetFrames
	row.MediaStartFrame = timing.MediaStartFrame
	row.StartFrame = timing.StartFrame

	start, err := c.StartTimecode()
	if err != nil {
		row.Err = err
		return row
	}
	row.StartTimecode = start.String()
	return row
}

// FieldFuncs are available to field templates.
var FieldFuncs = template.FuncMap{
	"remap": func(path, from, to string) string {
		if !strings.HasPrefix(path, from) {
			return path
		}
		return strings.Replace(path, from, to, 1)
	},
	"dirname":  filepath.Dir,
	"basename": filepath.Base,
	"abspath":  filepath.Abs,
	"upper":    strings.ToUpper,
	// tc renders a frame as non-drop timecode at an integer base.
	"tc": func(frame int64, base int) (string, error) {
		tc, err := timecode.FromFrame(frame, base)
		if err != nil {
			return "", err
		}
		return tc.String(), nil
	},
	// dropTC renders a frame as drop-frame timecode at an integer base.
	"dropTC": func(frame int64, base int) (string, error) {
		tc, err := timecode.FromFrameDrop(frame, base)
		if err != nil {
			return "", err
		}
		return tc.String(), nil
	},
}

// Column is a compiled report field.
type Column struct {
	Name string
	tmpl *template.Template
}

// Compile parses the field templates.
func Compile(fields []config.Field) ([]Column, error) {
	cols := make([]Column, 0, len(fields))
	for _, field := range fields {
		t, err := template.New(field.Name).Funcs(FieldFuncs).Parse(field.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		cols = append(cols, Column{Name: field.Name, tmpl: t})
	}
	return cols, nil
}

// Table is a grid of cells; row 0 holds the labels.
type Table struct {
	Cells [][]string
}

// NewTable allocates an i by j table.
func NewTable(i, j int) *Table {
	cells := make([][]string, i)
	for i := range cells {
		cells[i] = make([]string, j)
	}
	return &Table{Cells: cells}
}

// Render executes every column against every row. A column that fails on a
// row leaves its cell empty; the failures are returned alongside the table.
func Render(rows []Row, cols []Column) (*Table, []error) {
	table := NewTable(len(rows)+1, len(cols)) // +1 for label
	for j, col := range cols {
		table.Cells[0][j] = col.Name
	}
	var errs []error
	for i, row := range rows {
		for j, col := range cols {
			out := strings.Builder{}
			if err := col.tmpl.Execute(&out, row); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", row.Item, col.Name, err))
				continue
			}
			table.Cells[i+1][j] = strings.TrimSpace(out.String())
		}
	}
	return table, errs
}
