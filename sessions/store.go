package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/portalhq/go-portal-auth/internal/utils"
)

// DefaultNamespace prefixes the durable storage keys of a store unless
// overridden with WithNamespace.
const DefaultNamespace = "portal_session"

// Store is the single source of truth for which roles are currently
// authenticated. It keeps an in-process record per role and mirrors each
// record into durable Storage so sessions survive a restart. The in-process
// cache is authoritative for the current process lifetime: durable writes
// that fail are logged and swallowed, and durable records that cannot be
// parsed read as absent.
type Store struct {
	namespace string
	storage   Storage
	logger    zerolog.Logger
	nowTime   func() time.Time

	mu    sync.Mutex
	cache map[Role]*Session
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(st *Store) {
		st.nowTime = nowFunc
	}
}

// WithNamespace sets the prefix used for durable storage keys.
func WithNamespace(namespace string) StoreOption {
	return func(st *Store) {
		st.namespace = namespace
	}
}

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(st *Store) {
		st.logger = logger
	}
}

// NewStore initializes a Store backed by the given durable storage.
func NewStore(storage Storage, options ...StoreOption) (*Store, error) {
	if storage == nil {
		return nil, errors.New("[NewStore] storage is required")
	}

	st := &Store{
		namespace: DefaultNamespace,
		storage:   storage,
		logger:    zerolog.Nop(),
		nowTime:   time.Now,
		cache:     make(map[Role]*Session),
	}

	for _, opt := range options {
		opt(st)
	}

	return st, nil
}

// StoreSession records a session for the role, unconditionally overwriting
// any prior one. A ttl of zero means no expiry is computed and the session
// lives until cleared.
func (st *Store) StoreSession(role Role, identity *Identity, accessToken, refreshToken string, ttl time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session := &Session{
		Identity:     identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if ttl > 0 {
		session.ExpiresAt = utils.Ptr(st.nowTime().Add(ttl))
	}

	st.cache[role] = session

	serialized, err := json.Marshal(session)
	if err != nil {
		st.logger.Warn().Err(err).Str("role", string(role)).Msg("failed to serialize session for durable storage")
		return
	}
	if err := st.storage.Set(st.key(role), string(serialized)); err != nil {
		// the cache stays authoritative for this process lifetime
		st.logger.Warn().Err(err).Str("role", string(role)).Msg("failed to persist session")
	}
}

// GetSession returns the session stored for the role, or nil when none
// exists. Durable records are read through into the cache on first access.
func (st *Store) GetSession(role Role) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.getSession(role)
}

// HasValidSession reports whether the role holds a usable session. A session
// whose expiry has elapsed is cleared as a side effect (lazy eviction).
func (st *Store) HasValidSession(role Role) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.hasValidSession(role)
}

// ClearSession removes both the cached and the durable record for the role.
// Idempotent.
func (st *Store) ClearSession(role Role) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.clearSession(role)
}

// ActiveRoles returns the roles with a valid session, in fixed enumeration
// order.
func (st *Store) ActiveRoles() []Role {
	st.mu.Lock()
	defer st.mu.Unlock()

	active := make([]Role, 0, len(AllRoles))
	for _, role := range AllRoles {
		if st.hasValidSession(role) {
			active = append(active, role)
		}
	}
	return active
}

func (st *Store) getSession(role Role) *Session {
	if session, ok := st.cache[role]; ok {
		return session
	}

	raw, err := st.storage.Get(st.key(role))
	if err != nil {
		return nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// an unreadable record reads as absent rather than failing the caller
		st.logger.Warn().Err(err).Str("role", string(role)).Msg("discarding unparseable session record")
		return nil
	}

	st.cache[role] = &session
	return &session
}

func (st *Store) hasValidSession(role Role) bool {
	session := st.getSession(role)
	if session == nil || session.Identity == nil || session.AccessToken == "" {
		return false
	}
	if session.Expired(st.nowTime()) {
		st.clearSession(role)
		return false
	}
	return true
}

func (st *Store) clearSession(role Role) {
	delete(st.cache, role)
	if err := st.storage.Remove(st.key(role)); err != nil && !errors.Is(err, NotFoundErr) {
		st.logger.Warn().Err(err).Str("role", string(role)).Msg("failed to remove persisted session")
	}
}

func (st *Store) key(role Role) string {
	return fmt.Sprintf("%s_%s", st.namespace, role)
}
