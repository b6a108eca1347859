package worker

// voucher_worker.go
// Renders payment voucher PDFs off the request path and, when the business
// has an email address, queues the mail that carries it.

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VoucherJobPayload is the job envelope sent to QueueVoucher.
type VoucherJobPayload struct {
	RealizationID string `json:"realization_id"`
}

// VoucherRenderer writes the PDF for a payment and reports who should receive it.
type VoucherRenderer interface {
	RenderVoucherPDF(ctx context.Context, realizationID uuid.UUID) (path string, recipient string, err error)
}

// EmailEnqueuer is satisfied by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type VoucherWorker struct {
	renderer VoucherRenderer
	emails   EmailEnqueuer
}

func NewVoucherWorker(renderer VoucherRenderer, emails EmailEnqueuer) *VoucherWorker {
	return &VoucherWorker{renderer: renderer, emails: emails}
}

func (w *VoucherWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload VoucherJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("voucher_worker: invalid payload")
		return nil
	}
	id, err := uuid.Parse(payload.RealizationID)
	if err != nil {
		log.Error().Str("realization_id", payload.RealizationID).Msg("voucher_worker: bad realization id")
		return nil
	}

	path, recipient, err := w.renderer.RenderVoucherPDF(ctx, id)
	if err != nil {
		return fmt.Errorf("voucher_worker: render %s: %w", id, err)
	}
	log.Info().Str("path", path).Msg("voucher_worker: PDF written")

	if recipient == "" || w.emails == nil {
		return nil
	}
	voucher := trimExt(filepath.Base(path))
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: recipient,
		Subject: "Payment voucher " + voucher,
		Body:    "Attached is payment voucher " + voucher + ".",
		PDFPath: path,
	})
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
