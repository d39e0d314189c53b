package license

import (
	"regexp"
	"strconv"
)

// The last group accepts five digits so keys issued with OverflowWiden still parse.
var keyPattern = regexp.MustCompile(`^PF-(\d{4})-(\d{4})-(\d{4})-(\d{4})-(\d{4,5})$`)

// Key is a parsed license key.
type Key struct {
	Raw      string
	Segments [5]int64
}

// ValidityDays decodes the fourth segment; 0 means lifetime.
func (k Key) ValidityDays() int {
	if k.Segments[3] == LifetimeSegment {
		return 0
	}
	return int(k.Segments[3])
}

// IsLifetime reports whether the key never expires.
func (k Key) IsLifetime() bool { return k.Segments[3] == LifetimeSegment }

// ParseKey checks the key format and splits it into numeric segments.
func ParseKey(raw string) (Key, error) {
	m := keyPattern.FindStringSubmatch(raw)
	if m == nil {
		return Key{}, ErrMalformedKey
	}
	k := Key{Raw: raw}
	for i := range k.Segments {
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return Key{}, ErrMalformedKey
		}
		k.Segments[i] = n
	}
	return k, nil
}

// Verify checks that key was derived for deviceID with the configured secret.
// Only the three device-bound segments are compared; the last segment
// depends on the issue time and cannot be recomputed.
func (d *Deriver) Verify(raw, deviceID string) (Key, error) {
	k, err := ParseKey(raw)
	if err != nil {
		return Key{}, err
	}
	if deviceID == "" {
		return Key{}, ErrEmptyDeviceID
	}
	want := hashSegments(MachineHash(deviceID, d.cfg.Secret))
	for i, v := range want {
		if k.Segments[i] != v {
			return k, ErrDeviceMismatch
		}
	}
	return k, nil
}
