package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportExporter renders report rows as a downloadable file.
type ReportExporter interface {
	ExportVisitorRegister(format string, rows []VisitorRegisterRow) ([]byte, string, string, error)
	ExportPaymentCollections(format string, rows []PaymentCollectionRow) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) ExportVisitorRegister(format string, rows []VisitorRegisterRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatExcel:
		data, err := e.exportVisitorRegisterExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("visitor_register_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportVisitorRegisterCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("visitor_register_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for visitor register: %s", format)
	}
}

func (e *reportExporter) exportVisitorRegisterCSV(rows []VisitorRegisterRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Phone", "Type", "Unit", "Guard", "Check In", "Check Out", "Flagged"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		checkOut := ""
		if r.CheckOutAt != nil {
			checkOut = r.CheckOutAt.Format("2006-01-02 15:04:05")
		}

		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.Phone,
			r.VisitorType,
			r.UnitName,
			r.GuardName,
			r.CheckInAt.Format("2006-01-02 15:04:05"),
			checkOut,
			strconv.FormatBool(r.IsFlagged),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportVisitorRegisterExcel(rows []VisitorRegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Visitor Register"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Name", "Phone", "Type", "Unit", "Guard", "Check In", "Check Out", "Flagged"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		checkOut := ""
		if r.CheckOutAt != nil {
			checkOut = r.CheckOutAt.Format("2006-01-02 15:04:05")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.VisitorType)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.UnitName)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.GuardName)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.CheckInAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), checkOut)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.IsFlagged)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) ExportPaymentCollections(format string, rows []PaymentCollectionRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatExcel:
		data, err := e.exportPaymentCollectionsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("payment_collections_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportPaymentCollectionsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("payment_collections_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for payment collections: %s", format)
	}
}

func (e *reportExporter) exportPaymentCollectionsCSV(rows []PaymentCollectionRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Building", "Unit", "Tenant", "Amount", "Status", "Method", "Due Date", "Paid Date"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		paidDate := ""
		if r.PaidDate != nil {
			paidDate = r.PaidDate.Format("2006-01-02")
		}

		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.BuildingName,
			r.UnitName,
			r.TenantName,
			fmt.Sprintf("%.2f", r.Amount),
			r.Status,
			r.Method,
			r.DueDate.Format("2006-01-02"),
			paidDate,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportPaymentCollectionsExcel(rows []PaymentCollectionRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Payment Collections"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Building", "Unit", "Tenant", "Amount", "Status", "Method", "Due Date", "Paid Date"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		paidDate := ""
		if r.PaidDate != nil {
			paidDate = r.PaidDate.Format("2006-01-02")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.BuildingName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.UnitName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.TenantName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Method)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.DueDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), paidDate)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
