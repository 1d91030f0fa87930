package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/report/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names of the statistics workbook, in tab order
const (
	SheetStatistics = "Statistics"
	SheetMonthly    = "Monthly"
	SheetTopBooks   = "TopBooks"
	SheetTopMembers = "TopMembers"
	SheetCopies     = "Copies"
)

func (s *reportService) ExportStatistics(ctx context.Context) (*model.Export, error) {
	stats, err := s.repo.Statistics(ctx, s.now())
	if err != nil {
		return nil, err
	}
	copies, err := s.repo.CopiesCatalog(ctx)
	if err != nil {
		return nil, err
	}

	f, err := buildStatisticsWorkbook(stats, copies)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}

	return &model.Export{
		Filename:    fmt.Sprintf("library-statistics-%s.xlsx", stats.GeneratedAt.Format("20060102-150405")),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func buildStatisticsWorkbook(stats *model.Statistics, copies []model.CopyCatalogEntry) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetStatistics); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetMonthly, SheetTopBooks, SheetTopMembers, SheetCopies} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, headerStyle: headerStyle}

	w.table(SheetStatistics, []string{"Metric", "Value"}, [][]interface{}{
		{"Total loans", stats.TotalLoans},
		{"Active loans", stats.ActiveLoans},
		{"Returned loans", stats.ReturnedLoans},
		{"Overdue loans", stats.OverdueLoans},
		{"Total copies", stats.TotalCopies},
		{"Available copies", stats.AvailableCopies},
		{"Generated at", stats.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	})

	monthly := make([][]interface{}, 0, len(stats.LoansPerMonth))
	for _, m := range stats.LoansPerMonth {
		monthly = append(monthly, []interface{}{m.Month, m.Count})
	}
	w.table(SheetMonthly, []string{"Month", "Loans"}, monthly)

	books := make([][]interface{}, 0, len(stats.TopBooks))
	for _, b := range stats.TopBooks {
		books = append(books, []interface{}{b.Title, b.Count, b.BookID.String()})
	}
	w.table(SheetTopBooks, []string{"Title", "Loans", "Book ID"}, books)

	members := make([][]interface{}, 0, len(stats.TopMembers))
	for _, m := range stats.TopMembers {
		members = append(members, []interface{}{m.Name, m.NationalID, m.Count})
	}
	w.table(SheetTopMembers, []string{"Name", "National ID", "Loans"}, members)

	rows := make([][]interface{}, 0, len(copies))
	for _, c := range copies {
		rows = append(rows, []interface{}{
			c.Title,
			strings.Join(c.Authors, ", "),
			c.ISBN,
			c.Format,
			c.Language,
			c.Number,
			c.Available,
			c.CopyID.String(),
		})
	}
	w.table(SheetCopies, []string{"Title", "Authors", "ISBN", "Format", "Language", "Copy #", "Available", "Copy ID"}, rows)

	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter keeps the first error so table writes can be chained
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) table(sheet string, headers []string, rows [][]interface{}) {
	if w.err != nil {
		return
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if w.err = w.f.SetCellValue(sheet, cell, header); w.err != nil {
			return
		}
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if w.err = w.f.SetCellStyle(sheet, "A1", lastHeader, w.headerStyle); w.err != nil {
		return
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if w.err = w.f.SetSheetRow(sheet, cell, &row); w.err != nil {
			return
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	w.err = w.f.SetColWidth(sheet, "A", lastCol, 20)
}
