package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type AttendanceRow struct {
	EmployeeID  string
	FullName    string
	ProjectName string
	WorkDay     string
	Status      string
	TotalHours  string
	ExitCount   int
}

type WageRow struct {
	EmployeeID  string
	FullName    string
	ProjectName string
	WorkDay     string
	HourlyRate  float64
	WorkedHours float64
	Total       float64
	Status      string
}

// AttendanceSheet renders the day-sheet rows into an xlsx workbook.
func AttendanceSheet(rows []AttendanceRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Employee ID", "Full Name", "Project", "Work Day", "Status", "Total Hours", "Exits"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		rowNum := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.EmployeeID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.ProjectName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.WorkDay)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.TotalHours)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.ExitCount)
	}

	return f, nil
}

// WageSheet renders wage records into an xlsx workbook.
func WageSheet(rows []WageRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Employee ID", "Full Name", "Project", "Work Day", "Hourly Rate", "Worked Hours", "Total", "Status"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		rowNum := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.EmployeeID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.ProjectName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.WorkDay)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.HourlyRate)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.WorkedHours)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.Total)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), row.Status)
	}

	return f, nil
}
