package license

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfkeygen/internal/datefmt"
	"github.com/pfkeygen/internal/history"
	"github.com/pfkeygen/internal/kvstore"
)

type brokenStorage struct{ *kvstore.MemoryStore }

func (b *brokenStorage) Write(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func newTestService(t *testing.T, storage history.Storage) *Service {
	t.Helper()
	dates, err := datefmt.New(datefmt.LocaleID, time.UTC)
	require.NoError(t, err)
	store := history.NewStore(storage, history.DefaultOptions())
	return NewService(NewDeriver(DefaultConfig()), store, dates).WithClock(fixedClock(fixedMillis))
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, kvstore.NewMemoryStore())

	issued, err := svc.Issue(ctx, Request{DeviceID: "  MACHINE-ABC-123 ", Customer: " Budi ", ValidityDays: 30})
	require.NoError(t, err)

	want := history.Record{
		Key:           "PF-3346-5209-0950-0030-3433",
		DeviceID:      "MACHINE-ABC-123",
		CustomerLabel: "Budi",
		CreatedAt:     "1 Jan 2026",
		Expiry:        "31 Jan 2026",
		ValidityDays:  30,
	}
	if diff := cmp.Diff(want, issued.Record); diff != "" {
		t.Errorf("issued record mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, issued.GenerationID)
	assert.Equal(t, fixedMillis, issued.IssuedAt.UnixMilli())

	got := svc.History(ctx)
	require.Len(t, got, 1)
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("history record mismatch (-want +got):\n%s", diff)
	}
}

func TestIssueLifetimeAnonymous(t *testing.T) {
	svc := newTestService(t, kvstore.NewMemoryStore())

	issued, err := svc.Issue(context.Background(), Request{DeviceID: "MACHINE-ABC-123"})
	require.NoError(t, err)
	assert.Equal(t, history.AnonymousLabel, issued.Record.CustomerLabel)
	assert.Equal(t, history.LifetimeExpiry, issued.Record.Expiry)
	assert.Equal(t, "PF-3346-5209-0950-9999-3433", issued.Record.Key)
	assert.True(t, issued.Record.IsLifetime())
}

func TestIssueRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, kvstore.NewMemoryStore())

	_, err := svc.Issue(ctx, Request{DeviceID: "   ", ValidityDays: 30})
	assert.ErrorIs(t, err, ErrEmptyDeviceID)

	_, err = svc.Issue(ctx, Request{DeviceID: "MACHINE-ABC-123", ValidityDays: -1})
	assert.ErrorIs(t, err, ErrInvalidValidity)

	_, err = svc.Issue(ctx, Request{DeviceID: "MACHINE-ABC-123", ValidityDays: 10000})
	assert.ErrorIs(t, err, ErrInvalidValidity)

	_, err = svc.Issue(ctx, Request{DeviceID: "MACHINE-ABC-123", ValidityDays: LifetimeSegment})
	assert.ErrorIs(t, err, ErrInvalidValidity, "9999 is reserved for lifetime keys")

	_, err = svc.Issue(ctx, Request{DeviceID: "MACHINE-ABC-123", ValidityDays: MaxValidityDays})
	assert.NoError(t, err)

	assert.Len(t, svc.History(ctx), 1, "rejected requests are not recorded")
}

func TestIssuePropagatesStorageFailure(t *testing.T) {
	svc := newTestService(t, &brokenStorage{MemoryStore: kvstore.NewMemoryStore()})

	issued, err := svc.Issue(context.Background(), Request{DeviceID: "MACHINE-ABC-123", ValidityDays: 30})
	assert.Nil(t, issued)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestClearAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, kvstore.NewMemoryStore())

	issued, err := svc.Issue(ctx, Request{DeviceID: "MACHINE-ABC-123", ValidityDays: 7})
	require.NoError(t, err)

	k, err := svc.Verify(" "+issued.Record.Key+" ", "MACHINE-ABC-123")
	require.NoError(t, err)
	assert.Equal(t, 7, k.ValidityDays())

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, svc.History(ctx))
	require.NoError(t, svc.Clear(ctx))
}
