package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "*********0004", MaskCardNumber("4000000000004"))
	assert.Equal(t, "1234", MaskCardNumber("1234"))
	assert.Equal(t, "****", MaskCardNumber("123"))
	assert.Equal(t, "****", MaskCardNumber(""))
}

func TestNew_MasksCardAndDropsSecurityCode(t *testing.T) {
	now := time.Now()
	p := New(Details{
		OrderID:   uuid.New(),
		Amount:    decimal.RequireFromString("33.50"),
		Currency:  currency.CurrencyBRL,
		PayerName: "Ana Souza",
		Card:      CardDetails{Number: "5500000000000004", Expiry: "12/2030", SecurityCode: "123"},
		Method:    MethodCredit,
	}, now)

	assert.Equal(t, StatusAwaitingConfirmation, p.Status)
	assert.Equal(t, "************0004", p.MaskedCardNumber)
	assert.Equal(t, "12/2030", p.CardExpiry)
	assert.False(t, strings.Contains(p.MaskedCardNumber, "5500"))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		current Status
		trigger Trigger
		want    Status
		wantErr bool
	}{
		{StatusAwaitingConfirmation, TriggerConfirm, StatusConfirmed, false},
		{StatusAwaitingConfirmation, TriggerDecline, StatusDeclined, false},
		{StatusAwaitingConfirmation, TriggerCancel, StatusCancelled, false},
		{StatusConfirmed, TriggerCompensate, StatusAwaitingConfirmation, false},
		{StatusConfirmed, TriggerConfirm, "", true},
		{StatusConfirmed, TriggerCancel, "", true},
		{StatusDeclined, TriggerConfirm, "", true},
		{StatusCancelled, TriggerConfirm, "", true},
		{StatusAwaitingConfirmation, TriggerCompensate, "", true},
		{StatusDeclined, TriggerCompensate, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"_"+string(tt.trigger), func(t *testing.T) {
			got, err := Transition(tt.current, tt.trigger)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrBusinessRule)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource(t *testing.T) {
	assert.Equal(t, StatusAwaitingConfirmation, Source(TriggerConfirm))
	assert.Equal(t, StatusConfirmed, Source(TriggerCompensate))
	assert.Equal(t, StatusAwaitingConfirmation, Source(TriggerDecline))
	assert.Equal(t, StatusAwaitingConfirmation, Source(TriggerCancel))
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 3, Page{Size: 10, TotalItems: 21}.TotalPages())
	assert.Equal(t, 0, Page{Size: 10}.TotalPages())
	assert.Equal(t, 0, Page{TotalItems: 4}.TotalPages())
}
