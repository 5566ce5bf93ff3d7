package source

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RawRecord is one line of a JSONL ledger export. Amount accepts a JSON
// string or number; timestamp accepts RFC 3339 text or epoch milliseconds.
type RawRecord struct {
	ID              string          `json:"id,omitempty"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TimeCost        *float64        `json:"timeCost,omitempty"`
	IsRecurring     bool            `json:"isRecurring,omitempty"`
	RecurringStatus string          `json:"recurringStatus,omitempty"`
	MonthsDuration  *float64        `json:"monthsDuration,omitempty"`
	Note            string          `json:"note,omitempty"`
	Timestamp       json.RawMessage `json:"timestamp,omitempty"`
	Date            string          `json:"date,omitempty"`
}
