package license

import "fmt"

// Overflow policies for the fifth key segment.
const (
	// OverflowWrap reduces the fifth segment mod 10000 so every key keeps
	// five 4-digit groups.
	OverflowWrap = "wrap"
	// OverflowWiden emits the raw XOR value, which can be five digits.
	// This is byte-identical to keys issued by the legacy web tool.
	OverflowWiden = "widen"
)

// DefaultSecret is the secret shared with the client extension that checks keys.
const DefaultSecret = "PromptForge-2026-MAnggi-Secret"

// Config holds the key derivation settings.
type Config struct {
	Secret   string // Appended to the device id before hashing
	Overflow string // wrap|widen
}

// DefaultConfig returns the settings compatible with already issued keys.
func DefaultConfig() Config {
	return Config{
		Secret:   DefaultSecret,
		Overflow: OverflowWrap,
	}
}

// Validate checks that the overflow policy is known.
func (c Config) Validate() error {
	switch c.Overflow {
	case OverflowWrap, OverflowWiden:
		return nil
	default:
		return fmt.Errorf("unknown segment overflow policy %q (want %s or %s)", c.Overflow, OverflowWrap, OverflowWiden)
	}
}

// Widens returns true if the fifth segment is emitted without reduction.
func (c Config) Widens() bool { return c.Overflow == OverflowWiden }
