package infra

// pdf.go: payment voucher generation using go-pdf/fpdf.
// A7-size receipt with the business header, voucher numbers, customer,
// the payment and the balance left after it. Saved as
// storagePath/{voucher}.pdf; regenerating overwrites the same file.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PaymentVoucherDoc is everything printed on a payment voucher.
type PaymentVoucherDoc struct {
	BusinessName      string
	BusinessPhone     string
	BusinessAddress   string
	VoucherNumber     string
	SaleVoucherNumber string
	PaymentDate       time.Time
	CustomerName      string
	CustomerPhone     string
	ProductName       string
	Quantity          int
	TotalAmount       decimal.Decimal
	PaymentAmount     decimal.Decimal
	PaidToDate        decimal.Decimal
	DueAfterPayment   decimal.Decimal
}

// GeneratePaymentVoucherPDF writes the voucher and returns the file path.
func GeneratePaymentVoucherPDF(doc PaymentVoucherDoc, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, doc.VoucherNumber+".pdf")

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, doc.BusinessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if doc.BusinessAddress != "" {
		pdf.CellFormat(contentW, 4, doc.BusinessAddress, "", 1, "C", false, 0, "")
	}
	if doc.BusinessPhone != "" {
		pdf.CellFormat(contentW, 4, doc.BusinessPhone, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Payment Voucher", "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Voucher info ─────────────────────────────────────────────────────────
	labelW := contentW * 0.42
	valueW := contentW - labelW
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(labelW, 4.5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 4.5, value, "", 1, "R", false, 0, "")
	}
	row("Voucher", doc.VoucherNumber)
	row("Sale voucher", doc.SaleVoucherNumber)
	row("Date", doc.PaymentDate.Format("02/01/2006 15:04"))
	row("Customer", doc.CustomerName)
	row("Phone", doc.CustomerPhone)
	row("Product", truncate(doc.ProductName, 24))
	row("Quantity", fmt.Sprintf("%d", doc.Quantity))

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Amounts ──────────────────────────────────────────────────────────────
	row("Sale total", doc.TotalAmount.StringFixed(2))
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "PAID NOW", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, doc.PaymentAmount.StringFixed(2), "", 1, "R", false, 0, "")
	row("Paid to date", doc.PaidToDate.StringFixed(2))
	row("Remaining due", doc.DueAfterPayment.StringFixed(2))

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your payment", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
