package service

import (
	"github.com/google/uuid"
)

// TicketQRPayload is the content encoded in a ticket QR code.
type TicketQRPayload struct {
	TicketOrderID uuid.UUID `json:"ticket_order_id"`
	Code          string    `json:"code"`
	Type          string    `json:"type"`
}

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateTicketQR renders the ticket payload as a PNG.
	GenerateTicketQR(ticketOrderID uuid.UUID, code string) ([]byte, error)

	// ParseTicketQR decodes the scanned payload text.
	ParseTicketQR(qrData string) (*TicketQRPayload, error)
}
