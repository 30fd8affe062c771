package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	auditmemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/audit/memory"
	ordermemory "github.com/corray333/backend-labs/orderpay/internal/dal/repositories/order/memory"
	"github.com/corray333/backend-labs/orderpay/internal/service/models/event"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/notificationsvc"
	"github.com/corray333/backend-labs/orderpay/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/orderpay/pkg/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pizzaOrder = `{
	"items": [
		{"name": "Pizza", "description": "Large", "unitPrice": "10.00", "quantity": 2},
		{"name": "Soda", "unitPrice": "5.50", "quantity": 1, "note": "no ice"}
	],
	"notes": "ring the bell"
}`

type fixture struct {
	router        http.Handler
	notifications *notificationsvc.NotificationService
}

func setup(t *testing.T) fixture {
	t.Helper()

	orderRepo := ordermemory.NewOrderRepository()
	orderSvc := ordersvc.MustNewOrderService(ordersvc.WithOrderRepository(orderRepo))
	notificationSvc := notificationsvc.MustNewNotificationService(
		notificationsvc.WithAuditRepository(auditmemory.NewAuditRepository()),
		notificationsvc.WithOrderReader(orderRepo),
	)

	router := chi.NewRouter()
	router.Route("/api", NewHandler(orderSvc, notificationSvc).Routes)

	return fixture{router: router, notifications: notificationSvc}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestCreateOrder(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/api/orders", pizzaOrder)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	o := decode[orderResponse](t, rec)
	assert.Equal(t, "/api/orders/"+o.ID.String(), rec.Header().Get("Location"))
	assert.Equal(t, "PLACED", o.Status.Code)
	assert.Equal(t, "Order Received", o.Status.Title)
	assert.Equal(t, 3, o.ItemCount)
	assert.Equal(t, "25.50", o.Financials.Subtotal)
	assert.Equal(t, "8.00", o.Financials.DeliveryFee)
	assert.Equal(t, "0.00", o.Financials.Discount)
	assert.Equal(t, "33.50", o.Financials.Total)
	assert.Equal(t, "20.00", o.Items[0].Subtotal)
	assert.Len(t, o.Number, 6)

	dup := f.do(t, http.MethodPost, "/api/orders", pizzaOrder)
	require.Equal(t, http.StatusOK, dup.Code)
	assert.Equal(t, o.ID, decode[orderResponse](t, dup).ID)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		body string
	}{
		{"no items", `{"items": []}`},
		{"zero quantity", `{"items": [{"name": "Pizza", "unitPrice": "10.00", "quantity": 0}]}`},
		{"too many", `{"items": [{"name": "Pizza", "unitPrice": "10.00", "quantity": 51}]}`},
		{"free item", `{"items": [{"name": "Pizza", "unitPrice": "0", "quantity": 1}]}`},
		{"fraction of a cent", `{"items": [{"name": "Pizza", "unitPrice": "10.005", "quantity": 1}]}`},
		{"missing name", `{"items": [{"unitPrice": "10.00", "quantity": 1}]}`},
		{"long notes", `{"items": [{"name": "Pizza", "unitPrice": "1.00", "quantity": 1}], "notes": "` +
			strings.Repeat("x", 301) + `"}`},
		{"malformed", `{"items": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/orders", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decode[response.Problem](t, rec).Status)
		})
	}
}

func TestGetOrder(t *testing.T) {
	f := setup(t)
	created := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/orders", pizzaOrder))

	rec := f.do(t, http.MethodGet, "/api/orders/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Number, decode[orderResponse](t, rec).Number)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/orders/42", "").Code)
}

func TestListOrders(t *testing.T) {
	f := setup(t)
	created := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/orders", pizzaOrder))

	rec := f.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	summaries := decode[[]orderSummaryResponse](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, created.ID, summaries[0].ID)
	assert.Equal(t, "25.50", summaries[0].Subtotal)
	assert.Equal(t, "33.50", summaries[0].Total)
	assert.Equal(t, 3, summaries[0].ItemCount)

	rec = f.do(t, http.MethodGet, "/api/orders?status=paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]orderSummaryResponse](t, rec))

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/orders?status=LOST", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/orders?createdAfter=yesterday", "").Code)
}

func TestUpdateOrder(t *testing.T) {
	f := setup(t)
	created := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/orders", pizzaOrder))
	path := "/api/orders/" + created.ID.String()

	rec := f.do(t, http.MethodPut, path, `{"items": [{"name": "Salad", "unitPrice": "7.25", "quantity": 2}], "notes": "vegan"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[orderResponse](t, rec)
	assert.Equal(t, "14.50", updated.Financials.Subtotal)
	assert.Equal(t, "vegan", updated.Notes)
	assert.Equal(t, created.Number, updated.Number)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, path+"/cancel", "").Code)

	rec = f.do(t, http.MethodPut, path, pizzaOrder)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetStatusAndCancel(t *testing.T) {
	f := setup(t)
	created := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/orders", pizzaOrder))
	path := "/api/orders/" + created.ID.String()

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPatch, path+"/status", `{"status": "PAID"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPatch, path+"/status", `{"status": "LOST"}`).Code)

	rec := f.do(t, http.MethodPatch, path+"/status", `{"status": "delivered"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DELIVERED", decode[orderResponse](t, rec).Status.Code)

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPost, path+"/cancel", "").Code)
}

func TestMarkPaid(t *testing.T) {
	f := setup(t)
	created := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/orders", pizzaOrder))
	path := "/api/orders/" + created.ID.String()

	rec := f.do(t, http.MethodPut, path+"/paid", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, "PAID", decode[orderResponse](t, f.do(t, http.MethodGet, path, "")).Status.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPut, path+"/paid", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPut, "/api/orders/"+uuid.NewString()+"/paid", "").Code)
}

func TestListPaymentNotifications(t *testing.T) {
	f := setup(t)
	created := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/orders", pizzaOrder))

	evt := event.PaymentConfirmed{
		PaymentID:        uuid.New(),
		OrderID:          created.ID,
		Amount:           decimal.RequireFromString("33.50"),
		Currency:         "BRL",
		MaskedCardNumber: "************1111",
		ConfirmedAt:      time.Now(),
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	require.NoError(t, f.notifications.ProcessPaymentConfirmed(context.Background(), evt, payload))

	rec := f.do(t, http.MethodGet, "/api/orders/"+created.ID.String()+"/payment-notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)

	logs := decode[[]notificationResponse](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, evt.PaymentID, logs[0].PaymentID)
	assert.Equal(t, "33.50", logs[0].Amount)

	rec = f.do(t, http.MethodGet, "/api/orders/"+uuid.NewString()+"/payment-notifications", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
