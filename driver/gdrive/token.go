package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/oauth2"
)

// ExpiryWindow is how long before its expiry an access token is replaced.
const ExpiryWindow = 5 * time.Minute

var (
	// ErrTokenRevoked is returned once Google rejects the refresh token.
	// The stored token is marked inactive and the driver needs setup again.
	ErrTokenRevoked = errors.New("mediabox/gdrive: refresh token revoked or expired")

	// ErrNeedsSetup is returned when no active refresh token is available.
	ErrNeedsSetup = errors.New("mediabox/gdrive: no active refresh token; authorize the application first")
)

// StoredToken is the persisted form of an OAuth token.
type StoredToken struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType,omitempty"`
	Expiry       time.Time `json:"expiry"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Expired reports whether the access token is gone or within ExpiryWindow
// of expiring at now.
func (t *StoredToken) Expired(now time.Time) bool {
	if t.AccessToken == "" {
		return true
	}
	return !t.Expiry.IsZero() && !now.Add(ExpiryWindow).Before(t.Expiry)
}

// Token converts t for use with oauth2.
func (t *StoredToken) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// TokenStore keeps one token in a JSON file.
type TokenStore struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewTokenStore returns a store for the token file at path on fs.
func NewTokenStore(fs afero.Fs, path string) *TokenStore {
	return &TokenStore{fs: fs, path: path, now: time.Now}
}

// Load returns the stored token, or nil when none was saved yet.
func (s *TokenStore) Load() (*StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *TokenStore) load() (*StoredToken, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("mediabox/gdrive: read token: %w", err)
	}
	tok := &StoredToken{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("mediabox/gdrive: decode token %s: %w", s.path, err)
	}
	return tok, nil
}

// Save stores tok as the active token. An empty refresh token keeps the
// previously stored one, since Google omits it from refresh responses.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &StoredToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Active:       true,
		UpdatedAt:    s.now().UTC(),
	}
	if st.RefreshToken == "" {
		if prev, err := s.load(); err == nil && prev != nil {
			st.RefreshToken = prev.RefreshToken
		}
	}
	return s.write(st)
}

// Deactivate marks the stored token unusable.
func (s *TokenStore) Deactivate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil || st == nil {
		return err
	}
	st.Active = false
	st.UpdatedAt = s.now().UTC()
	return s.write(st)
}

// NeedsSetup reports whether the store lacks an active refresh token.
func (s *TokenStore) NeedsSetup() bool {
	st, err := s.Load()
	return err != nil || st == nil || !st.Active || st.RefreshToken == ""
}

func (s *TokenStore) write(st *StoredToken) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0600); err != nil {
		return fmt.Errorf("mediabox/gdrive: write token: %w", err)
	}
	return s.fs.Rename(tmp, s.path)
}

// NewTokenSource returns a token source that refreshes through conf,
// replaces access tokens ExpiryWindow before they expire and saves every
// refreshed token to store. store may be nil. refreshToken seeds the
// source; when empty the stored refresh token is used.
func NewTokenSource(ctx context.Context, conf *oauth2.Config, store *TokenStore, refreshToken string) (oauth2.TokenSource, error) {
	var initial *oauth2.Token
	if store != nil {
		st, err := store.Load()
		if err != nil {
			return nil, err
		}
		if st != nil && st.Active && (refreshToken == "" || refreshToken == st.RefreshToken) {
			initial = st.Token()
			refreshToken = st.RefreshToken
		}
	}
	if refreshToken == "" {
		return nil, ErrNeedsSetup
	}

	r := &refresher{ctx: ctx, conf: conf, store: store, refreshToken: refreshToken}
	return oauth2.ReuseTokenSourceWithExpiry(initial, r, ExpiryWindow), nil
}

// refresher exchanges the refresh token for a new access token on every call.
type refresher struct {
	ctx   context.Context
	conf  *oauth2.Config
	store *TokenStore

	mu           sync.Mutex
	refreshToken string
	revoked      bool
}

func (r *refresher) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.revoked {
		return nil, ErrTokenRevoked
	}

	tok, err := r.conf.TokenSource(r.ctx, &oauth2.Token{RefreshToken: r.refreshToken}).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.ErrorCode == "invalid_grant" {
			r.revoked = true
			if r.store != nil {
				_ = r.store.Deactivate()
			}
			return nil, fmt.Errorf("%w: %v", ErrTokenRevoked, err)
		}
		return nil, fmt.Errorf("mediabox/gdrive: refresh token: %w", err)
	}

	if tok.RefreshToken == "" {
		tok.RefreshToken = r.refreshToken
	} else {
		r.refreshToken = tok.RefreshToken
	}
	if r.store != nil {
		if err := r.store.Save(tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}
