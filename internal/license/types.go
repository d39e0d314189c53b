package license

import (
	"time"

	"github.com/pfkeygen/internal/history"
)

// MaxValidityDays is the largest period that still fits the fourth segment.
const MaxValidityDays = LifetimeSegment - 1

// Request describes one key to issue.
type Request struct {
	DeviceID     string `json:"device_id"`
	Customer     string `json:"customer"`
	ValidityDays int    `json:"validity_days"`
}

// Issued is the result of a successful issue.
type Issued struct {
	GenerationID string         `json:"generation_id"`
	IssuedAt     time.Time      `json:"issued_at"`
	Record       history.Record `json:"record"`
}

// DateFormatter renders dates stored in history records.
type DateFormatter interface {
	Format(t time.Time) string
}
