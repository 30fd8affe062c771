package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client calls the order service REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// MustNewClient creates a client for order_client.http.base_url.
func MustNewClient() *Client {
	baseURL := viper.GetString("order_client.http.base_url")
	if baseURL == "" {
		panic("order_client.http.base_url is not set in config")
	}

	slog.Info("HTTP client configured for order service", "base_url", baseURL)

	return NewClient(baseURL, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewClient creates a client with the given base URL and http.Client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type problem struct {
	Message string `json:"message"`
}

// MarkOrderPaid sends PUT /api/orders/{id}/paid.
func (c *Client) MarkOrderPaid(ctx context.Context, orderID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/orders/%s/paid", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call order service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := readProblem(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errs.New(errs.ErrNotFound, "order %s not found: %s", orderID, detail)
	case http.StatusConflict:
		return errs.New(errs.ErrConflict, "order %s was modified concurrently: %s", orderID, detail)
	case http.StatusUnprocessableEntity:
		return errs.New(errs.ErrBusinessRule, "order %s cannot be marked as paid: %s", orderID, detail)
	case http.StatusBadRequest:
		return errs.New(errs.ErrValidation, "order service rejected order id %s: %s", orderID, detail)
	default:
		return fmt.Errorf("order service responded with status %d: %s", resp.StatusCode, detail)
	}
}

func readProblem(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return "no details"
	}

	var p problem
	if err := json.Unmarshal(raw, &p); err == nil && p.Message != "" {
		return p.Message
	}

	return strings.TrimSpace(string(raw))
}
