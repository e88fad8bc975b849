// Package session implements the admin session gate: a fixed credential
// pair, with the live session recorded as a flag plus login timestamp in the
// key-value store and a fixed expiry window.
package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ShriHariStore/internal/kvstore"
)

const (
	keyAuthenticated = "adminAuthenticated"
	keyLoginTime     = "adminLoginTime"

	DefaultWindow = 24 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Credentials struct {
	Username string
	Password string
}

// DefaultCredentials is the single admin account the original storefront
// shipped with. One fixed admin on one device; not a real security boundary.
func DefaultCredentials() Credentials {
	return Credentials{Username: "admin", Password: "shrihari2024"}
}

type Gate struct {
	log      *zap.Logger
	kv       kvstore.Store
	username string
	hash     []byte
	window   time.Duration
	now      func() time.Time
}

type Option func(*Gate)

func WithWindow(d time.Duration) Option {
	return func(g *Gate) { g.window = d }
}

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func NewGate(kv kvstore.Store, log *zap.Logger, creds Credentials, opts ...Option) (*Gate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	g := &Gate{
		log:      log,
		kv:       kv,
		username: creds.Username,
		hash:     hash,
		window:   DefaultWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gate) Window() time.Duration { return g.window }

// Login verifies the credential pair and stamps the session keys. A failed
// comparison mutates nothing. The username is trimmed; the password is
// compared exactly.
func (g *Gate) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)

	if username != g.username {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if err := g.kv.Set(ctx, keyAuthenticated, "true"); err != nil {
		return err
	}
	millis := strconv.FormatInt(g.now().UnixMilli(), 10)
	if err := g.kv.Set(ctx, keyLoginTime, millis); err != nil {
		return err
	}
	return nil
}

// Check reports whether a live session exists. An expired session is cleared
// as a side effect, so a later Check sees a clean logged-out state.
func (g *Gate) Check(ctx context.Context) (bool, error) {
	flag, found, err := g.kv.Get(ctx, keyAuthenticated)
	if err != nil {
		return false, err
	}
	if !found || flag != "true" {
		return false, nil
	}

	raw, found, err := g.kv.Get(ctx, keyLoginTime)
	if err != nil {
		return false, err
	}
	if !found {
		return false, g.Logout(ctx)
	}

	loginAt := cast.ToInt64(raw)
	if g.now().UnixMilli()-loginAt < g.window.Milliseconds() {
		return true, nil
	}

	return false, g.Logout(ctx)
}

func (g *Gate) Logout(ctx context.Context) error {
	if err := g.kv.Remove(ctx, keyAuthenticated); err != nil {
		return err
	}
	return g.kv.Remove(ctx, keyLoginTime)
}
