// Package audit stores compliance audit events.
package audit

import (
	"context"
	"fmt"
	"time"

	"caregiver-matcher/internal/models"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
)

const (
	DefaultTable = "hipaa_audit_log"

	// RetentionDays keeps audit rows for seven years.
	RetentionDays = 2557
)

// RetentionDate is the date until which an event recorded at t must be kept.
func RetentionDate(t time.Time) time.Time {
	return t.AddDate(0, 0, RetentionDays)
}

// PostgresLogger appends events to an insert-only audit table.
type PostgresLogger struct {
	db    *sqlx.DB
	table string
}

func NewPostgresLogger(db *sqlx.DB, table string) *PostgresLogger {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresLogger{db: db, table: table}
}

func (l *PostgresLogger) LogEvent(ctx context.Context, event models.AuditEvent) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(l.table)
	ib.Cols(
		"event_id", "event_type", "user_email", "resource_type", "resource_id",
		"details", "sensitivity_level", "compliance_logged", "event_timestamp", "retention_date",
	)
	ib.Values(
		event.EventID, event.EventType, event.UserEmail, event.ResourceType, event.ResourceID,
		event.Details, string(event.Sensitivity), event.ComplianceLogged, event.Timestamp,
		RetentionDate(event.Timestamp),
	)

	query, args := ib.Build()
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit event %s: %w", event.EventType, err)
	}
	return nil
}
