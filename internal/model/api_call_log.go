package model

import "time"

// APICallLog mirrors the `api_call_log` table. Rows are written by the
// audit consumer, never by request handlers, and the service never reads
// them back.
type APICallLog struct {
	ID            uint64    `json:"id"`
	APIEndpoint   string    `json:"api_endpoint"`
	SuccessStatus bool      `json:"success_status"`
	CallDate      time.Time `json:"call_date"`
	ChangedField  *string   `json:"changed_field,omitempty"`
	OldValue      *string   `json:"old_value,omitempty"`
	NewValue      *string   `json:"new_value,omitempty"`
	ErrorLog      *string   `json:"error_log,omitempty"`
}
