package license

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pfkeygen/internal/history"
)

// Service validates requests, derives keys and records them in history.
type Service struct {
	deriver *Deriver
	store   *history.Store
	dates   DateFormatter
	now     func() time.Time
}

func NewService(deriver *Deriver, store *history.Store, dates DateFormatter) *Service {
	return &Service{deriver: deriver, store: store, dates: dates, now: time.Now}
}

// WithClock returns a copy of s whose key timestamps and record dates come from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{deriver: s.deriver.WithClock(now), store: s.store, dates: s.dates, now: now}
}

// Validate normalizes req in place and rejects unusable input.
func (r *Request) Validate() error {
	r.DeviceID = strings.TrimSpace(r.DeviceID)
	r.Customer = strings.TrimSpace(r.Customer)
	if r.DeviceID == "" {
		return ErrEmptyDeviceID
	}
	if r.ValidityDays < 0 || r.ValidityDays > MaxValidityDays {
		return ErrInvalidValidity
	}
	return nil
}

// Issue derives a key for req and prepends it to the history log.
func (s *Service) Issue(ctx context.Context, req Request) (*Issued, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := s.now()
	rec := history.Record{
		Key:           s.deriver.DeriveAt(req.DeviceID, req.ValidityDays, t.UnixMilli()),
		DeviceID:      req.DeviceID,
		CustomerLabel: req.Customer,
		CreatedAt:     s.dates.Format(t),
		Expiry:        history.LifetimeExpiry,
		ValidityDays:  req.ValidityDays,
	}
	if rec.CustomerLabel == "" {
		rec.CustomerLabel = history.AnonymousLabel
	}
	if req.ValidityDays > 0 {
		rec.Expiry = s.dates.Format(t.Add(time.Duration(req.ValidityDays) * 24 * time.Hour))
	}

	issued := &Issued{GenerationID: uuid.NewString(), IssuedAt: t, Record: rec}
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}

	log.Info().
		Str("generation_id", issued.GenerationID).
		Str("device_id", rec.DeviceID).
		Int("validity_days", rec.ValidityDays).
		Msg("License key issued")
	return issued, nil
}

// History returns the generation log, newest first.
func (s *Service) History(ctx context.Context) []history.Record {
	return s.store.List(ctx)
}

// Capacity returns how many records the log retains.
func (s *Service) Capacity() int { return s.store.Capacity() }

// Clear empties the generation log. Callers confirm with the operator first.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	log.Info().Str("slot", s.store.Slot()).Msg("License history cleared")
	return nil
}

// Verify checks a key against a device id.
func (s *Service) Verify(key, deviceID string) (Key, error) {
	return s.deriver.Verify(strings.TrimSpace(key), strings.TrimSpace(deviceID))
}
