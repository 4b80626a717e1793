package qrcode

import (
	"encoding/json"
	"strings"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// TicketQRType marks a payload as an event ticket.
const TicketQRType = "ticket"

const defaultSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService builds the ticket QR renderer from the qrcode config section
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size, level := defaultSize, "M"
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		level = cfg.QRCode.ErrorCorrectionLevel
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: recoveryLevel(level),
	}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GenerateTicketQR renders {ticket_order_id, code, type:"ticket"} as a PNG
func (s *qrcodeService) GenerateTicketQR(ticketOrderID uuid.UUID, code string) ([]byte, error) {
	jsonData, err := json.Marshal(service.TicketQRPayload{
		TicketOrderID: ticketOrderID,
		Code:          code,
		Type:          TicketQRType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseTicketQR validates scanned text; every failure is ErrInvalidTicketQR
func (s *qrcodeService) ParseTicketQR(qrData string) (*service.TicketQRPayload, error) {
	var data service.TicketQRPayload
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidTicketQR, "failed to unmarshal QR code data")
	}

	if data.Type != TicketQRType {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTicketQR, "invalid QR code type: %s", data.Type)
	}

	if data.TicketOrderID == uuid.Nil || data.Code == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidTicketQR, "missing ticket order id or code")
	}

	return &data, nil
}
