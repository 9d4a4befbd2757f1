package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/xuri/excelize/v2"

	ilog "github.com/MokshC/Compound/internal/log"
)

// WriteText prints the table one line per row, cells joined by sep.
func WriteText(w io.Writer, table *Table, sep string) error {
	for _, row := range table.Cells {
		if _, err := io.WriteString(w, strings.Join(row, sep)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Workbook converts the table into a single sheet workbook.
func Workbook(table *Table, sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		f.SetSheetName("Sheet1", sheet)
	}
	for i, row := range table.Cells {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	return f, nil
}

// WriteExcel replaces path with an xlsx rendering of the table. An existing
// file is overwritten atomically.
func WriteExcel(ctx context.Context, path, sheet string, table *Table) error {
	logger := ilog.WithComponentFromContext(ctx, "report")

	f, err := Workbook(table, sheet)
	if err != nil {
		return err
	}

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending report file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending report file")
		}
	}()

	if err := f.Write(pendingFile); err != nil {
		return fmt.Errorf("write report data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace report file: %w", err)
	}
	logger.Info().Str(ilog.FieldPath, path).Int("rows", len(table.Cells)-1).Msg("report written")
	return nil
}
