// Package queue carries the audit side channel over RabbitMQ: the payload
// type, a fire-and-forget publisher and the background consumer that lands
// events in the api_call_log table.
package queue

// AuditEvent is published after every API operation. It carries the
// outcome tuple the call log records: which endpoint ran, whether it
// succeeded, what field changed (for mutations) and the error text on
// failure. Consumers need nothing beyond this payload.
type AuditEvent struct {
	Endpoint     string `json:"endpoint"`
	Success      bool   `json:"success"`
	ChangedField string `json:"changed_field,omitempty"`
	OldValue     string `json:"old_value,omitempty"`
	NewValue     string `json:"new_value,omitempty"`
	ErrorLog     string `json:"error_log,omitempty"`
	LoggedAt     string `json:"logged_at"`
}
