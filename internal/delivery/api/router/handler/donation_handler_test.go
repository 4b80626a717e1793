package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeDonations) Donate(_ context.Context, input *usecase.DonateInput) (*usecase.DonationOutput, error) {
	if input.CampaignID != nil && *input.CampaignID == f.closed {
		return nil, domainerrors.ErrCampaignClosed
	}
	f.donated = input

	return &usecase.DonationOutput{
		Donation: &entity.Donation{
			ID:         uuid.New(),
			UserID:     input.UserID,
			CampaignID: input.CampaignID,
			Reference:  "DON-1",
			Amount:     input.Amount,
			Status:     entity.DonationStatusPending,
		},
		CheckoutURL: "https://pay.test/DON-1",
	}, nil
}

func TestDonationHandler_Donate(t *testing.T) {
	donations := &fakeDonations{closed: uuid.New()}
	h := NewDonationHandler(DonationHandlerParams{DonationUC: donations})
	donorID := uuid.New()
	campaignID := uuid.New()

	e := newTestEcho()
	e.POST("/donations", h.Donate)
	e.POST("/me/donations", h.Donate, asUser(donorID))

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/donations", `{"donor_email":"not-an-email","amount":"0"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Errors, "donor_name")
	assert.Contains(t, body.Errors, "donor_email")
	assert.Contains(t, body.Errors, "amount")
	assert.Contains(t, body.Errors, "payment_method")
	assert.Nil(t, donations.donated)

	payload := `{"campaign_id":"` + campaignID.String() + `","donor_name":"Ada","donor_email":"ada@example.com","amount":"25.50","payment_method":"card"}`

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/donations", payload))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, donations.donated.UserID, "anonymous donors are not linked")
	assert.Equal(t, "25.5", donations.donated.Amount.String())

	var out usecase.DonationOutput
	require.NoError(t, json.Unmarshal(body.Data, &out))
	assert.Equal(t, "DON-1", out.Donation.Reference)
	assert.Equal(t, "https://pay.test/DON-1", out.CheckoutURL)

	rec, _ = serve(t, e, jsonRequest(http.MethodPost, "/me/donations", payload))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, donations.donated.UserID)
	assert.Equal(t, donorID, *donations.donated.UserID)

	closed := `{"campaign_id":"` + donations.closed.String() + `","donor_name":"Ada","donor_email":"ada@example.com","amount":"10","payment_method":"card"}`
	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/donations", closed))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CAMPAIGN_CLOSED", body.Code)
}
