package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PayslipPDF renders the payslip with its computed lines as a PDF
// document.
func (s *Service) PayslipPDF(ctx context.Context, payslipID string) ([]byte, error) {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return nil, err
	}
	employee, err := s.store.GetEmployee(ctx, slip.EmployeeID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.ListLines(ctx, payslipID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employee.Name))
	pdf.Ln(7)
	if slip.Number != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Number: %s", slip.Number))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", slip.DateFrom.Format("2006-01-02"), slip.DateTo.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 8, "Code", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Rate", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	var total float64
	for _, line := range lines {
		pdf.CellFormat(30, 8, line.Code, "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 8, line.Name, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.2f", line.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", line.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += line.Total
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(145, 8, "Net", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", total), "1", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
