package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Voucher prefixes.
const (
	SaleVoucherPrefix    = "V"
	PaymentVoucherPrefix = "PV"
)

// Clock supplies the current time.
type Clock func() time.Time

// VoucherIssuer mints PREFIX-YYYYMMDD-NNNN numbers. Sequences are per business,
// prefix and calendar day in the configured location, start at 0001 and are
// handed out by a locked counter row inside the caller's transaction.
type VoucherIssuer struct {
	seq   repository.VoucherSequenceRepository
	loc   *time.Location
	clock Clock
}

func NewVoucherIssuer(seq repository.VoucherSequenceRepository, loc *time.Location, clock Clock) *VoucherIssuer {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &VoucherIssuer{seq: seq, loc: loc, clock: clock}
}

// Now is the issuer's clock in its business location.
func (v *VoucherIssuer) Now() time.Time { return v.clock().In(v.loc) }

// Issue returns the next voucher number for the day of at.
func (v *VoucherIssuer) Issue(tx *gorm.DB, businessID uuid.UUID, prefix string, at time.Time) (string, error) {
	day := at.In(v.loc).Format("20060102")
	n, err := v.seq.NextTx(tx, businessID, prefix, day)
	if err != nil {
		return "", fmt.Errorf("issue %s voucher: %w", prefix, err)
	}
	return FormatVoucher(prefix, day, n), nil
}

// FormatVoucher renders a voucher number. Sequences past 9999 widen instead of wrapping.
func FormatVoucher(prefix, day string, n int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, n)
}

// ParseVoucher splits a voucher number into its prefix, day and sequence.
func ParseVoucher(voucher string) (prefix, day string, n int, err error) {
	parts := strings.Split(voucher, "-")
	if len(parts) != 3 || len(parts[1]) != 8 {
		return "", "", 0, fmt.Errorf("malformed voucher %q", voucher)
	}
	if _, err := time.Parse("20060102", parts[1]); err != nil {
		return "", "", 0, fmt.Errorf("malformed voucher day %q", parts[1])
	}
	n, err = strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", "", 0, fmt.Errorf("malformed voucher sequence %q", parts[2])
	}
	return parts[0], parts[1], n, nil
}
