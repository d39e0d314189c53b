// Package device resolves the identifier of the machine the tool runs on,
// so an operator can issue a key for their own host.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/rs/zerolog/log"
)

// LocalID returns an app-scoped identifier for this machine. It prefers the
// HMAC-protected form keyed by appID, then the raw machine id, and finally a
// host fingerprint when the OS exposes no machine id at all.
func LocalID(appID string) string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id
	}
	log.Debug().Err(err).Msg("Protected machine id unavailable")

	id, err = machineid.ID()
	if err == nil {
		return id
	}
	log.Warn().Err(err).Msg("Machine id unavailable, falling back to host fingerprint")
	return Fingerprint(appID)
}

// Fingerprint hashes the short hostname and platform with appID. It is
// stable across runs but changes when the host is renamed.
func Fingerprint(appID string) string {
	raw := strings.Join([]string{appID, safeHostname(), runtime.GOOS, runtime.GOARCH}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func safeHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	parts := strings.Split(h, ".")
	return parts[0]
}

// Normalize trims and upper-cases an identifier the way operators paste it.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
