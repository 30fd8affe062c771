package order

import (
	"time"

	"github.com/google/uuid"
)

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids          []uuid.UUID `json:"ids,omitempty"`
	Statuses     []Status    `json:"statuses,omitempty"`
	CreatedAfter time.Time   `json:"createdAfter,omitempty"`
	Limit        int         `json:"limit,omitempty"`
	Offset       int         `json:"offset,omitempty"`
}
