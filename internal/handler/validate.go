package handler

import (
	"context"
	"strings"
	"time"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// missingFields checks required field values pairwise against their names
// and returns the validation message listing every blank one, e.g.
// "Name, Rank cannot be null or empty". An empty return means all fields
// are present. Validation runs here at the boundary so the service never
// sees a request with blank required fields from HTTP callers.
func missingFields(names, values []string) string {
	var blank []string
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			blank = append(blank, names[i])
		}
	}
	if len(blank) == 0 {
		return ""
	}
	return strings.Join(blank, ", ") + " cannot be null or empty"
}

// auditValidationFailure records a request rejected before it reached the
// service, mirroring what the service logs for its own failures.
func auditValidationFailure(ctx context.Context, audit service.AuditLogger, endpoint, msg string) {
	if audit == nil {
		return
	}
	audit.Log(ctx, model.APICallLog{
		APIEndpoint:   endpoint,
		SuccessStatus: false,
		CallDate:      time.Now().UTC(),
		ErrorLog:      &msg,
	})
}

// parseDate accepts a bare date or a full RFC3339 timestamp; the time
// portion, if any, is discarded downstream.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
