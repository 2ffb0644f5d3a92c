package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog groups a driver's status-change events for one calendar day in the
// driver's home-terminal time zone. It is computed on demand while the day is
// uncertified; certification persists it as a concrete, immutable record.
type DailyLog struct {
	ID       uuid.UUID `json:"id"`
	DriverID uuid.UUID `json:"driver_id"`
	// Date is midnight at the start of the log's calendar day, in the
	// driver's home-terminal time zone.
	Date   time.Time           `json:"date"`
	Events []StatusChangeEvent `json:"events"`

	IsCertified            bool       `json:"is_certified"`
	CertifiedBy            string     `json:"certified_by,omitempty"`
	CertifiedAt            *time.Time `json:"certified_at,omitempty"`
	CertificationSignature string     `json:"certification_signature,omitempty"`
}

// AuditEvent records a compliance-relevant administrative action, such as a
// driver uncertifying a previously certified day. Audit events are append-only.
type AuditEvent struct {
	ID         uuid.UUID `json:"id"`
	DriverID   uuid.UUID `json:"driver_id"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Audit actions recorded by the certification workflow.
const (
	AuditActionUncertify = "log.uncertify"
)
