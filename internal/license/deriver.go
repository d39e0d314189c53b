package license

import (
	"fmt"
	"time"
	"unicode/utf16"
)

const (
	// KeyPrefix is the literal prefix of every key.
	KeyPrefix = "PF-"
	// LifetimeSegment is written in the fourth segment for keys without expiry.
	LifetimeSegment = 9999

	segmentMod = 10000
)

// Deriver turns a device identifier and a validity period into a license key.
// The output depends only on its inputs, the configured secret and the clock.
type Deriver struct {
	cfg Config
	now func() time.Time
}

// NewDeriver creates a Deriver reading wall-clock time.
func NewDeriver(cfg Config) *Deriver {
	return &Deriver{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of d that reads time from now.
func (d *Deriver) WithClock(now func() time.Time) *Deriver {
	return &Deriver{cfg: d.cfg, now: now}
}

// Derive returns a key of the form PF-NNNN-NNNN-NNNN-NNNN-NNNN.
// Callers must reject an empty deviceID and a negative validityDays first.
func (d *Deriver) Derive(deviceID string, validityDays int) string {
	return d.DeriveAt(deviceID, validityDays, d.now().UnixMilli())
}

// DeriveAt is Derive with an explicit millisecond timestamp.
func (d *Deriver) DeriveAt(deviceID string, validityDays int, millis int64) string {
	h := MachineHash(deviceID, d.cfg.Secret)
	seg := hashSegments(h)

	days := int64(validityDays)
	if days == 0 {
		days = LifetimeSegment
	}

	stamp := millis % segmentMod
	if stamp < 0 {
		stamp += segmentMod
	}
	tail := stamp ^ seg[0]
	if !d.cfg.Widens() {
		tail %= segmentMod
	}

	return fmt.Sprintf("%s%04d-%04d-%04d-%04d-%04d", KeyPrefix, seg[0], seg[1], seg[2], days, tail)
}

// MachineHash is the 32-bit rolling hash over the UTF-16 code units of
// deviceID+secret, returned as an absolute value. Each step is
// hash = hash<<5 - hash + c with int32 wraparound.
func MachineHash(deviceID, secret string) int64 {
	var hash int32
	for _, c := range utf16.Encode([]rune(deviceID + secret)) {
		hash = (hash << 5) - hash + int32(c)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return h
}

// hashSegments returns the three device-bound segments of a key.
func hashSegments(h int64) [3]int64 {
	return [3]int64{
		h % segmentMod,
		(h >> 4) % segmentMod,
		(h >> 8) % segmentMod,
	}
}
