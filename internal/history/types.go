package history

import (
	"context"
	"strings"
)

const (
	// keyPrefix starts every persisted license key.
	keyPrefix = "PF-"
	// AnonymousLabel replaces an empty customer label.
	AnonymousLabel = "Anonymous"
	// LifetimeExpiry is stored as expiry for keys without an expiration date.
	LifetimeExpiry = "Lifetime"
)

// Record is one completed key generation. The JSON field names are the
// persisted format and must not change.
type Record struct {
	Key           string `json:"key"`
	DeviceID      string `json:"deviceId"`
	CustomerLabel string `json:"customerLabel"`
	CreatedAt     string `json:"createdAt"`
	Expiry        string `json:"expiry"`
	ValidityDays  int    `json:"validityDays"`
}

// IsLifetime reports whether the record has no expiration date.
func (r Record) IsLifetime() bool { return r.ValidityDays == 0 }

// wellFormed reports whether a decoded entry carries a key and a device id.
// A nil entry is not well formed.
func (r *Record) wellFormed() bool {
	return r != nil && strings.HasPrefix(r.Key, keyPrefix) && r.DeviceID != ""
}

// Storage is a persistent key-value slot provider.
// Read returns ok=false when the key is absent. Delete of a missing key is not an error.
type Storage interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
