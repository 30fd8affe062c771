package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	memoryrepo "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/payment/memory"
	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/orderpay/pkg/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderClient struct {
	err error
}

func (s *stubOrderClient) MarkOrderPaid(context.Context, uuid.UUID) error {
	return s.err
}

func setup(t *testing.T) (http.Handler, *stubOrderClient) {
	t.Helper()

	orders := &stubOrderClient{}
	svc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithPaymentRepository(memoryrepo.NewPaymentRepository()),
		paymentsvc.WithOrderClient(orders),
	)

	router := chi.NewRouter()
	router.Route("/api", NewHandler(svc).Routes)

	return router, orders
}

func body(orderID uuid.UUID) string {
	return `{
		"orderId": "` + orderID.String() + `",
		"amount": "33.50",
		"currency": "brl",
		"payerName": "Ana Souza",
		"cardNumber": "4111111111111111",
		"cardExpiry": "09/2030",
		"securityCode": "123",
		"method": "credit"
	}`
}

func do(t *testing.T, h http.Handler, method, path, payload string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestCreatePayment(t *testing.T) {
	h, _ := setup(t)
	orderID := uuid.New()

	rec := do(t, h, http.MethodPost, "/api/payments", body(orderID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "4111111111111111")
	assert.NotContains(t, rec.Body.String(), "securityCode")

	p := decode[paymentResponse](t, rec)
	assert.Equal(t, orderID, p.OrderID)
	assert.Equal(t, "************1111", p.MaskedCardNumber)
	assert.Equal(t, "33.50", p.Amount)
	assert.Equal(t, "BRL", p.Currency)
	assert.Equal(t, "CREDIT", p.Method)
	assert.Equal(t, "AWAITING_CONFIRMATION", p.Status)

	dup := do(t, h, http.MethodPost, "/api/payments", body(orderID))
	assert.Equal(t, http.StatusConflict, dup.Code)
}

func TestCreatePayment_Validation(t *testing.T) {
	h, _ := setup(t)
	valid := body(uuid.New())

	tests := []struct {
		name    string
		replace [2]string
	}{
		{"short card", [2]string{"4111111111111111", "411111"}},
		{"letters in card", [2]string{"4111111111111111", "41111111111111AB"}},
		{"bad expiry", [2]string{"09/2030", "2030-09"}},
		{"long cvv", [2]string{`"123"`, `"1234"`}},
		{"zero amount", [2]string{`"33.50"`, `"0"`}},
		{"fraction of a cent", [2]string{`"33.50"`, `"33.505"`}},
		{"unknown method", [2]string{`"credit"`, `"pix"`}},
		{"unknown currency", [2]string{`"brl"`, `"jpy"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/payments", strings.Replace(valid, tt.replace[0], tt.replace[1], 1))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decode[response.Problem](t, rec).Status)
		})
	}
}

func TestConfirmPayment(t *testing.T) {
	h, orders := setup(t)
	p := decode[paymentResponse](t, do(t, h, http.MethodPost, "/api/payments", body(uuid.New())))
	path := "/api/payments/" + p.ID.String()

	orders.err = errs.NotFound("order %s not found", p.OrderID)
	rec := do(t, h, http.MethodPost, path+"/confirm", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "AWAITING_CONFIRMATION", decode[paymentResponse](t, do(t, h, http.MethodGet, path, "")).Status)

	orders.err = nil
	rec = do(t, h, http.MethodPost, path+"/confirm", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", decode[paymentResponse](t, rec).Status)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodPost, path+"/confirm", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodPost, path+"/cancel", "").Code)
}

func TestDeclineAndCancel(t *testing.T) {
	h, _ := setup(t)

	declined := decode[paymentResponse](t, do(t, h, http.MethodPost, "/api/payments", body(uuid.New())))
	rec := do(t, h, http.MethodPost, "/api/payments/"+declined.ID.String()+"/decline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DECLINED", decode[paymentResponse](t, rec).Status)

	cancelled := decode[paymentResponse](t, do(t, h, http.MethodPost, "/api/payments", body(uuid.New())))
	rec = do(t, h, http.MethodPost, "/api/payments/"+cancelled.ID.String()+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CANCELLED", decode[paymentResponse](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/api/payments/"+cancelled.ID.String()+"/confirm", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReplaceAndDeletePayment(t *testing.T) {
	h, _ := setup(t)
	first := decode[paymentResponse](t, do(t, h, http.MethodPost, "/api/payments", body(uuid.New())))
	second := decode[paymentResponse](t, do(t, h, http.MethodPost, "/api/payments", body(uuid.New())))

	newOrder := uuid.New()
	replacement := strings.Replace(body(newOrder), "4111111111111111", "5500000000000004", 1)
	rec := do(t, h, http.MethodPut, "/api/payments/"+first.ID.String(), replacement)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	replaced := decode[paymentResponse](t, rec)
	assert.Equal(t, newOrder, replaced.OrderID)
	assert.Equal(t, "************0004", replaced.MaskedCardNumber)

	rec = do(t, h, http.MethodPut, "/api/payments/"+second.ID.String(), body(newOrder))
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/payments/"+first.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/payments/"+first.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/payments/"+first.ID.String(), "").Code)
}

func TestListPayments(t *testing.T) {
	h, _ := setup(t)
	for range 3 {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/payments", body(uuid.New())).Code)
	}

	rec := do(t, h, http.MethodGet, "/api/payments?page=2&size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[pageResponse](t, rec)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	rec = do(t, h, http.MethodGet, "/api/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	defaults := decode[pageResponse](t, rec)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, paymentsvc.DefaultPageSize, defaults.Size)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/payments?size=1000", "").Code)
}
