// Package gate implements the admin session gate: a trusted-device flag set
// once through a setup token, then a shared password per session. Both checks
// are plain comparisons against configured values.
package gate

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// State is the gate's position for one device and session.
type State string

const (
	StateLockedUntrusted State = "locked-untrusted"
	StateLockedTrusted   State = "locked-trusted"
	StateUnlocked        State = "unlocked"
)

// Flag keys.
const (
	TrustedDeviceKey = "is_trusted_device"
	AuthenticatedKey = "admin_authenticated"
)

// MissingPasswordWarning is shown on the gate while no admin password is configured.
const MissingPasswordWarning = "Warning: ADMIN_PASSWORD is not set; every unlock attempt will fail."

var (
	// ErrUntrustedDevice rejects a password submitted from a device without the trusted flag.
	ErrUntrustedDevice = errors.New("device is not trusted")
	// ErrInvalidSetupToken rejects a setup token that does not match the configured one.
	ErrInvalidSetupToken = errors.New("invalid setup token")
	// ErrInvalidPassword rejects a wrong password.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrPasswordNotConfigured is returned for every unlock while no password is configured.
	ErrPasswordNotConfigured = errors.New("admin password is not configured")
)

// FlagStore persists boolean flags by key.
type FlagStore interface {
	Get(key string) bool
	Set(key string) error
	Clear(key string) error
}

// Config holds the two configured secrets.
type Config struct {
	SetupToken string
	Password   string
}

// Gate evaluates the trust and password checks. It holds no per-session state;
// callers pass the device and session flag stores on every call.
type Gate struct {
	setupToken   []byte
	passwordHash []byte
}

// New builds a gate. An empty password is accepted and leaves the gate
// misconfigured rather than failing start-up. Passwords of any length are
// accepted: bcrypt only sees a fixed-size digest of the whole string.
func New(cfg Config) (*Gate, error) {
	g := &Gate{setupToken: []byte(cfg.SetupToken)}
	if cfg.Password == "" {
		return g, nil
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	g.passwordHash = hash
	return g, nil
}

// Misconfigured reports whether no admin password is configured.
func (g *Gate) Misconfigured() bool {
	return len(g.passwordHash) == 0
}

// Warning returns the banner text for the gate page, or "" when configured.
func (g *Gate) Warning() string {
	if g.Misconfigured() {
		return MissingPasswordWarning
	}
	return ""
}

// State reports where the gate stands. Without the trusted flag the session
// flag is ignored.
func (g *Gate) State(device, session FlagStore) State {
	if !device.Get(TrustedDeviceKey) {
		return StateLockedUntrusted
	}
	if session.Get(AuthenticatedKey) {
		return StateUnlocked
	}
	return StateLockedTrusted
}

// Trust marks the device as trusted when token matches the configured setup
// token. An unset setup token never matches.
func (g *Gate) Trust(device FlagStore, token string) error {
	if len(g.setupToken) == 0 || subtle.ConstantTimeCompare([]byte(token), g.setupToken) != 1 {
		return ErrInvalidSetupToken
	}
	return device.Set(TrustedDeviceKey)
}

// Unlock authenticates the session. The trust check runs first and rejects
// regardless of the password.
func (g *Gate) Unlock(device, session FlagStore, password string) error {
	if !device.Get(TrustedDeviceKey) {
		return ErrUntrustedDevice
	}
	if g.Misconfigured() {
		return ErrPasswordNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, passwordDigest(password)); err != nil {
		return ErrInvalidPassword
	}
	return session.Set(AuthenticatedKey)
}

// Lock ends the session. The trusted-device flag stays.
func (g *Gate) Lock(session FlagStore) error {
	return session.Clear(AuthenticatedKey)
}

// Forget revokes the device: both flags are cleared and the setup token is
// needed again.
func (g *Gate) Forget(device, session FlagStore) error {
	if err := session.Clear(AuthenticatedKey); err != nil {
		return err
	}
	return device.Clear(TrustedDeviceKey)
}

// passwordDigest maps a password of any length to 64 hex bytes, inside
// bcrypt's 72-byte input limit, so equality covers the whole string.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	digest := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(digest, sum[:])
	return digest
}
