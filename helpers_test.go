package goOAuth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var testSecret = []byte("engine-test-secret-that-is-long-enough!!")

func newTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = testSecret
	cfg.OIDC.Issuer = "http://auth.test"
	// Low-cost hashing keeps the suite fast; production minimums still hold.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.MinLength = 8
	return cfg
}

func buildTestEngine(t *testing.T, mutate ...func(*Config)) (*Engine, *fakeRepo) {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	repo := newFakeRepo()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(newTestRedis(t)).
		WithRepository(repo).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, repo
}

// seedLoginUser creates a user with a real password hash and returns its id.
func (r *fakeRepo) seedLoginUser(t *testing.T, e *Engine, username, plaintext, role string) int64 {
	t.Helper()

	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	return r.seedUser(User{
		Username:      username,
		Email:         username + "@test.local",
		Name:          username,
		PasswordHash:  hash,
		Role:          role,
		EmailVerified: true,
	})
}

// fakeRepo is an in-memory Repository for engine tests.
type fakeRepo struct {
	mu sync.Mutex

	users        map[int64]*User
	clients      map[string]*Client
	codes        map[string]*AuthCodeRecord
	accessTokens map[int64]*AccessTokenRecord
	refresh      map[string]*RefreshTokenRecord
	settings     map[string]string
	invites      map[string]bool
	auditLog     []AuditLogEntry

	nextUserID   int64
	nextAccessID int64

	// verifyRedirect, when set, replaces the default exact-match rule.
	verifyRedirect func(clientID, uri string) (bool, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        make(map[int64]*User),
		clients:      make(map[string]*Client),
		codes:        make(map[string]*AuthCodeRecord),
		accessTokens: make(map[int64]*AccessTokenRecord),
		refresh:      make(map[string]*RefreshTokenRecord),
		settings:     make(map[string]string),
		invites:      make(map[string]bool),
	}
}

func (r *fakeRepo) seedUser(u User) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextUserID++
	u.ID = r.nextUserID
	r.users[u.ID] = &u
	return u.ID
}

func (r *fakeRepo) seedClient(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = &c
}

func (r *fakeRepo) seedInvite(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites[code] = true
}

func (r *fakeRepo) CreateUser(_ context.Context, user *User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextUserID++
	stored := *user
	stored.ID = r.nextUserID
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeRepo) FindUserByID(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	out := *user
	return &out, nil
}

func (r *fakeRepo) FindUserByUsername(_ context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			out := *user
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdateLoginInfo(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		user.LastLoginAt = at
	}
	return nil
}

func (r *fakeRepo) FindClientByID(_ context.Context, id string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	out := *client
	return &out, nil
}

func (r *fakeRepo) VerifyRedirectURI(_ context.Context, clientID, uri string) (bool, error) {
	r.mu.Lock()
	override := r.verifyRedirect
	client, ok := r.clients[clientID]
	r.mu.Unlock()

	if override != nil {
		return override(clientID, uri)
	}
	if !ok {
		return false, nil
	}
	return client.RedirectURI == uri, nil
}

func (r *fakeRepo) SaveAuthCode(_ context.Context, rec *AuthCodeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	r.codes[stored.Code] = &stored
	return nil
}

func (r *fakeRepo) ConsumeAuthCode(_ context.Context, code string) (*AuthCodeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.codes[code]
	if !ok || rec.Used {
		return nil, nil
	}
	rec.Used = true
	out := *rec
	return &out, nil
}

func (r *fakeRepo) SaveAccessToken(_ context.Context, rec *AccessTokenRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextAccessID++
	stored := *rec
	stored.ID = r.nextAccessID
	r.accessTokens[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeRepo) SaveRefreshToken(_ context.Context, rec *RefreshTokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	r.refresh[stored.Token] = &stored
	return nil
}

func (r *fakeRepo) DeleteTokensFor(_ context.Context, userID int64, clientID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted []string
	for id, rec := range r.accessTokens {
		if rec.UserID != userID || rec.ClientID != clientID {
			continue
		}
		deleted = append(deleted, rec.Token)
		delete(r.accessTokens, id)
		for token, refresh := range r.refresh {
			if refresh.AccessTokenID == id {
				delete(r.refresh, token)
			}
		}
	}
	return deleted, nil
}

func (r *fakeRepo) GetSetting(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (r *fakeRepo) SetSetting(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[key] = value
	return nil
}

func (r *fakeRepo) AppendAuditLog(_ context.Context, entry *AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.auditLog = append(r.auditLog, *entry)
	return nil
}

func (r *fakeRepo) VerifyAndUseInviteCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.invites[code] {
		return false, nil
	}
	r.invites[code] = false
	return true, nil
}

func (r *fakeRepo) auditLogEntries() []AuditLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]AuditLogEntry, len(r.auditLog))
	copy(out, r.auditLog)
	return out
}

func (r *fakeRepo) accessTokenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accessTokens)
}

func (r *fakeRepo) refreshTokenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refresh)
}

func (r *fakeRepo) authCode(code string) *AuthCodeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.codes[code]
	if !ok {
		return nil
	}
	out := *rec
	return &out
}
