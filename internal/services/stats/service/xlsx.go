package service

import (
	"io"
	"strings"

	perr "brreg/internal/platform/errors"
	dom "brreg/internal/services/stats/domain"

	"github.com/xuri/excelize/v2"
)

// SummarySheet is the first sheet of the workbook
const SummarySheet = "Summary"

// WriteXLSX writes the report as a workbook: a Summary sheet with one row per
// form and the grand total, then one sheet per form listing every shard
func WriteXLSX(w io.Writer, r dom.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return perr.IOf(err, "xlsx: rename sheet")
	}
	rows := [][]any{{"Organisation form", "Companies", "CSV files", "Readable files"}}
	for _, fs := range r.Forms {
		rows = append(rows, []any{fs.Form, fs.Total, fs.Files, fs.Readable})
	}
	rows = append(rows, []any{"TOTAL", r.Total, nil, r.Files})
	if err := setRows(f, SummarySheet, rows); err != nil {
		return err
	}

	for _, fs := range r.Forms {
		name := SheetName(fs.Form)
		if _, err := f.NewSheet(name); err != nil {
			return perr.IOf(err, "xlsx: sheet %s", name)
		}
		rows := [][]any{{"Shard", "Companies", "Share %"}}
		for _, s := range fs.Shards {
			rows = append(rows, []any{s.Key, s.Rows, s.Pct})
		}
		if err := setRows(f, name, rows); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return perr.IOf(err, "xlsx: write workbook")
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return perr.IOf(err, "xlsx: cell")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return perr.IOf(err, "xlsx: %s row %d", sheet, i+1)
		}
	}
	return nil
}

// SheetName makes a form code a legal, distinct worksheet name
func SheetName(form string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, form)
	if strings.EqualFold(name, SummarySheet) {
		name = "_" + name
	}
	if len([]rune(name)) > 31 {
		name = string([]rune(name)[:31])
	}
	return name
}
