package storage

import (
	"fmt"
	"io"

	"go-job-trend-analyzer/internal/models"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet written by ExportXLSX.
const SheetName = "Jobs"

// ExportXLSX writes the collection as a one-sheet workbook: a header row, then one row per listing.
func ExportXLSX(c models.Collection, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	if err := setRow(f, 1, models.Columns); err != nil {
		return err
	}
	for i, l := range c.Listings {
		if err := setRow(f, i+2, l.Record()); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &vals)
}
