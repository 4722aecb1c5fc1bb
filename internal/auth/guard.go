// Package auth implements the admin login guard: a salted-hash credential
// check wrapped in a lockout state machine that survives restarts, plus the
// JWT session tokens handed out after a successful login.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
)

// Credentials is the configured admin identity. PasswordHash is the hex
// encoding of SHA-256(password + Salt).
type Credentials struct {
	Username     string
	PasswordHash string
	Salt         string
}

// State is the persisted guard state.
type State struct {
	Authenticated  bool      `json:"authenticated"`
	FailedAttempts int       `json:"failed_attempts"`
	LockedUntil    time.Time `json:"locked_until"`
}

// StateStore persists guard state across restarts.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// Result reports the outcome of a login attempt.
type Result struct {
	OK bool
	// AttemptsRemaining is set on a failed attempt while unlocked.
	AttemptsRemaining int
	// Locked is true when the guard is in lockout; LockedForMinutes is the
	// countdown shown to the user, ceil of the remaining duration.
	Locked           bool
	LockedForMinutes int
}

type Guard struct {
	creds       Credentials
	maxAttempts int
	lockout     time.Duration
	states      StateStore
	log         logging.Logger
	now         func() time.Time

	mu    sync.Mutex
	state State
}

func NewGuard(creds Credentials, maxAttempts int, lockout time.Duration, states StateStore, log logging.Logger) (*Guard, error) {
	state, err := states.Load()
	if err != nil {
		return nil, fmt.Errorf("load guard state: %w", err)
	}
	return &Guard{
		creds:       creds,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		states:      states,
		log:         log,
		now:         time.Now,
		state:       state,
	}, nil
}

// Login runs one attempt through the state machine. While locked the
// credentials are not consulted and the counter does not move.
func (g *Guard) Login(ctx context.Context, username, password string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	if g.state.LockedUntil.After(now) {
		return Result{Locked: true, LockedForMinutes: g.minutesUntilUnlock(now)}, nil
	}
	if !g.state.LockedUntil.IsZero() {
		// Lockout expired: the failure window starts over.
		g.state.FailedAttempts = 0
		g.state.LockedUntil = time.Time{}
	}

	if g.checkCredentials(username, password) {
		g.state = State{Authenticated: true}
		if err := g.states.Save(g.state); err != nil {
			return Result{}, fmt.Errorf("save guard state: %w", err)
		}
		g.log.Info(ctx, "admin login succeeded", "username", username)
		return Result{OK: true}, nil
	}

	g.state.Authenticated = false
	g.state.FailedAttempts++
	if g.state.FailedAttempts >= g.maxAttempts {
		g.state.LockedUntil = now.Add(g.lockout)
		g.log.Warn(ctx, "admin login locked out",
			"attempts", g.state.FailedAttempts, "locked_until", g.state.LockedUntil)
	} else {
		g.log.Warn(ctx, "admin login failed", "attempts", g.state.FailedAttempts)
	}
	if err := g.states.Save(g.state); err != nil {
		return Result{}, fmt.Errorf("save guard state: %w", err)
	}

	if g.state.LockedUntil.After(now) {
		return Result{Locked: true, LockedForMinutes: g.minutesUntilUnlock(now)}, nil
	}
	return Result{AttemptsRemaining: g.maxAttempts - g.state.FailedAttempts}, nil
}

// Logout clears authentication and resets the failure counter.
func (g *Guard) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = State{}
	if err := g.states.Save(g.state); err != nil {
		return fmt.Errorf("save guard state: %w", err)
	}
	g.log.Info(ctx, "admin logged out")
	return nil
}

// Locked reports whether the guard currently rejects all attempts, and how
// many minutes of lockout remain.
func (g *Guard) Locked() (bool, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if !g.state.LockedUntil.After(now) {
		return false, 0
	}
	return true, g.minutesUntilUnlock(now)
}

func (g *Guard) minutesUntilUnlock(now time.Time) int {
	remaining := g.state.LockedUntil.Sub(now)
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func (g *Guard) checkCredentials(username, password string) bool {
	sum := sha256.Sum256([]byte(password + g.creds.Salt))
	hash := hex.EncodeToString(sum[:])

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(hash), []byte(g.creds.PasswordHash)) == 1
	return userOK && passOK
}
