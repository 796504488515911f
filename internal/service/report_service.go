package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tenure-registry/internal/models"

	"github.com/xuri/excelize/v2"
)

// ReportService writes the reviewer-facing error workbook for a validated
// session: one row per record that needs attention.
type ReportService struct {
	reportPath string
}

func NewReportService(reportPath string) *ReportService {
	return &ReportService{reportPath: reportPath}
}

// ExportErrorReport writes an Excel workbook listing every record with
// errors, warnings, or an unresolved duplicate. Returns the saved path.
func (s *ReportService) ExportErrorReport(sessionCode string, records []*models.ImportRecord) (string, error) {
	if err := os.MkdirAll(s.reportPath, 0o755); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Validation Issues"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)

	headers := []string{"Record ID", "Type", "Status", "Errors", "Warnings", "Duplicate Of"}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F8D7DA"},
			Pattern: 1,
		},
	})
	warningStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FFF3CD"},
			Pattern: 1,
		},
	})

	row := 2
	for _, record := range records {
		if record.Status != models.StatusError &&
			record.Status != models.StatusWarning &&
			record.Status != models.StatusDuplicate {
			continue
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), record.RecordID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), record.RecordType)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(record.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), strings.Join(record.Errors, "; "))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), strings.Join(record.Warnings, "; "))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), record.DuplicateOf)

		statusCell := fmt.Sprintf("C%d", row)
		switch record.Status {
		case models.StatusError:
			f.SetCellStyle(sheetName, statusCell, statusCell, errorStyle)
		case models.StatusWarning, models.StatusDuplicate:
			f.SetCellStyle(sheetName, statusCell, statusCell, warningStyle)
		}

		row++
	}

	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 50)
	f.SetColWidth(sheetName, "F", "F", 25)

	f.DeleteSheet("Sheet1")

	outputPath := filepath.Join(s.reportPath, fmt.Sprintf("import_issues_%s.xlsx", sessionCode))
	if err := f.SaveAs(outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}
