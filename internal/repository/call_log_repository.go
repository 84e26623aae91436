package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/starbase-io/roster/internal/model"
)

// CallLogRepo writes rows into the 'api_call_log' table. Only the audit
// consumer uses it; request handlers publish events to the broker instead
// of touching this table directly.
type CallLogRepo struct{ DB *sql.DB }

func NewCallLogRepo(db *sql.DB) *CallLogRepo { return &CallLogRepo{DB: db} }

// Insert appends one call-log row. A zero CallDate is stamped with the
// current UTC time.
func (r *CallLogRepo) Insert(ctx context.Context, entry model.APICallLog) error {
	if entry.CallDate.IsZero() {
		entry.CallDate = time.Now().UTC()
	}
	const q = `INSERT INTO api_call_log
	           (api_endpoint, success_status, call_date, changed_field, old_value, new_value, error_log)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, q,
		entry.APIEndpoint, entry.SuccessStatus, entry.CallDate,
		nullableStr(entry.ChangedField), nullableStr(entry.OldValue),
		nullableStr(entry.NewValue), nullableStr(entry.ErrorLog))
	return err
}

func nullableStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
