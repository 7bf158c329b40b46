package services

import (
	"context"

	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/mail"
	"github.com/marinesurvey/inspector/internal/server/models"
)

// QuotationService forwards quotation requests to the sales mailbox.
type QuotationService struct {
	sender    mail.Sender
	recipient string
	log       logging.Logger
}

func NewQuotationService(sender mail.Sender, recipient string, log logging.Logger) *QuotationService {
	return &QuotationService{sender: sender, recipient: recipient, log: log.With("module", "quotations")}
}

func (s *QuotationService) Send(ctx context.Context, q models.QuotationRequest) error {
	if err := q.Validate(); err != nil {
		return common.WrapError(common.ErrorValidation, err.Error(), err)
	}
	if s.recipient == "" {
		return common.NewError(common.ErrorInternal, "Email transport is not configured")
	}

	subject, body, err := mail.RenderQuotation(q)
	if err != nil {
		return internal(err)
	}

	if err := s.sender.Send(ctx, s.recipient, subject, body); err != nil {
		s.log.Error(ctx, "quotation email failed", "error", err)
		return common.WrapError(common.ErrorInternal, "Failed to send email", err)
	}

	s.log.Info(ctx, "quotation email sent", "ship_type", q.ShipType, "service_type", q.ServiceType)
	return nil
}
