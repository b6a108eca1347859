package infra

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SalesSheetRow is one line of the sales export.
type SalesSheetRow struct {
	Date          time.Time
	VoucherNumber string
	Product       string
	Quantity      int
	CustomerName  string
	CustomerPhone string
	Total         decimal.Decimal
	Profit        decimal.Decimal
	Paid          decimal.Decimal
	Due           decimal.Decimal
}

var salesHeaders = []string{"Date", "Voucher", "Product", "Qty", "Customer", "Phone", "Total", "Profit", "Paid", "Due"}

// WriteSalesWorkbook renders the rows plus a totals line as an .xlsx into w.
func WriteSalesWorkbook(w io.Writer, rows []SalesSheetRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range salesHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("excel: header: %w", err)
		}
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	total, profit, paid, due := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i, r := range rows {
		line := i + 2
		values := []interface{}{
			r.Date.Format("2006-01-02 15:04"),
			r.VoucherNumber,
			r.Product,
			r.Quantity,
			r.CustomerName,
			r.CustomerPhone,
			r.Total.InexactFloat64(),
			r.Profit.InexactFloat64(),
			r.Paid.InexactFloat64(),
			r.Due.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("excel: row %d: %w", line, err)
			}
		}
		total = total.Add(r.Total)
		profit = profit.Add(r.Profit)
		paid = paid.Add(r.Paid)
		due = due.Add(r.Due)
	}

	last := len(rows) + 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", last), "TOTAL")
	for col, v := range []decimal.Decimal{total, profit, paid, due} {
		cell, _ := excelize.CoordinatesToCellName(7+col, last)
		_ = f.SetCellValue(sheet, cell, v.InexactFloat64())
	}

	return f.Write(w)
}
