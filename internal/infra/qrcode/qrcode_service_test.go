package qrcode

import (
	"encoding/json"
	"testing"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryLevel(t *testing.T) {
	tests := []struct {
		in   string
		want qrcode.RecoveryLevel
	}{
		{"L", qrcode.Low},
		{"m", qrcode.Medium},
		{"Q", qrcode.High},
		{"H", qrcode.Highest},
		{"invalid", qrcode.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, recoveryLevel(tt.in))
		})
	}
}

func TestQRCodeService_GenerateTicketQR(t *testing.T) {
	sizes := []int{128, 256, 512}

	for _, size := range sizes {
		svc := NewQRCodeService(&config.Config{QRCode: &config.QRCodeConfig{Size: size, ErrorCorrectionLevel: "M"}})

		qrBytes, err := svc.GenerateTicketQR(uuid.New(), "ABCD1234")
		require.NoError(t, err)
		require.Greater(t, len(qrBytes), 4)

		// PNG magic number
		assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
	}
}

func TestQRCodeService_ParseTicketQR(t *testing.T) {
	svc := NewQRCodeService(&config.Config{})
	orderID := uuid.New()

	valid, err := json.Marshal(service.TicketQRPayload{TicketOrderID: orderID, Code: "ABCD1234", Type: TicketQRType})
	require.NoError(t, err)

	payload, err := svc.ParseTicketQR(string(valid))
	require.NoError(t, err)
	assert.Equal(t, orderID, payload.TicketOrderID)
	assert.Equal(t, "ABCD1234", payload.Code)

	wrongType, err := json.Marshal(service.TicketQRPayload{TicketOrderID: orderID, Code: "X", Type: "subscription"})
	require.NoError(t, err)
	missingCode, err := json.Marshal(service.TicketQRPayload{TicketOrderID: orderID, Type: TicketQRType})
	require.NoError(t, err)

	for name, input := range map[string]string{
		"invalid json": "invalid json",
		"wrong type":   string(wrongType),
		"missing code": string(missingCode),
		"bad uuid":     `{"ticket_order_id":"not-a-uuid","code":"X","type":"ticket"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseTicketQR(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidTicketQR))
		})
	}
}
