package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carelink/authcore/internal"
	"github.com/carelink/authcore/rbac"
)

// ErrStoreUnavailable wraps any backing-store transport failure so callers
// can distinguish infrastructure trouble from ordinary misses.
var ErrStoreUnavailable = errors.New("session store unavailable")

// ErrSessionCorrupt is returned when a stored session blob cannot be decoded.
var ErrSessionCorrupt = errors.New("session record corrupt")

// DefaultMaxConcurrent caps simultaneous sessions per user. Creating one
// past the cap evicts the user's oldest session first.
const DefaultMaxConcurrent = 3

// Config controls a session [Store].
type Config struct {
	// Prefix namespaces every key written by the store.
	Prefix string

	// MaxConcurrent is the per-user session cap. Zero means
	// DefaultMaxConcurrent.
	MaxConcurrent int

	// Lifetimes overrides the built-in role lifetime table when non-nil.
	Lifetimes map[rbac.Role]time.Duration
}

// Store manages session records in Redis. Each session lives under its own
// key with a TTL matching its absolute expiry, and a per-user set indexes
// the user's session IDs for the concurrency cap and bulk revocation.
type Store struct {
	rdb           redis.UniversalClient
	prefix        string
	maxConcurrent int
	lifetimes     map[rbac.Role]time.Duration

	now func() time.Time
}

// NewStore creates a session [Store] backed by the given Redis client.
func NewStore(rdb redis.UniversalClient, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = "authcore"
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Store{
		rdb:           rdb,
		prefix:        cfg.Prefix,
		maxConcurrent: cfg.MaxConcurrent,
		lifetimes:     cfg.Lifetimes,
		now:           time.Now,
	}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":sess:" + sessionID
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

func (s *Store) lifetimeFor(role rbac.Role) time.Duration {
	if s.lifetimes != nil {
		if d, ok := s.lifetimes[role]; ok {
			return d
		}
		return defaultLifetime
	}
	return LifetimeForRole(role)
}

// NewSession describes the identity and device context for a session being
// created.
type NewSession struct {
	UserID   string
	Role     rbac.Role
	TenantID string

	Metadata Metadata

	MFAVerified      bool
	ProviderVerified bool
}

// Create persists a new session for req.UserID with a lifetime derived from
// the role. If the user is at the concurrency cap, the oldest session by
// creation time is destroyed first; the loop handles the (rare) case of
// finding more than one slot over the cap after a partial failure.
func (s *Store) Create(ctx context.Context, req NewSession) (*Session, error) {
	if req.UserID == "" {
		return nil, errors.New("session: user id required")
	}

	for {
		active, err := s.ListForUser(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if len(active) < s.maxConcurrent {
			break
		}
		oldest := active[0]
		for _, sess := range active[1:] {
			if sess.CreatedAt.Before(oldest.CreatedAt) {
				oldest = sess
			}
		}
		if err := s.Destroy(ctx, oldest.ID); err != nil {
			return nil, err
		}
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("session: generate id: %w", err)
	}

	now := s.now().UTC()
	lifetime := s.lifetimeFor(req.Role)
	sess := &Session{
		ID:               sid.String(),
		UserID:           req.UserID,
		Role:             req.Role,
		TenantID:         req.TenantID,
		CreatedAt:        now,
		LastActivity:     now,
		ExpiresAt:        now.Add(lifetime),
		Metadata:         req.Metadata,
		MFAVerified:      req.MFAVerified,
		ProviderVerified: req.ProviderVerified,
	}

	data, err := encodeSession(sess)
	if err != nil {
		return nil, err
	}

	sessionKey := s.key(sess.ID)
	userKey := s.userKey(sess.UserID)

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey, data, lifetime)
		pipe.SAdd(ctx, userKey, sess.ID)
		// The index must outlive the longest member, never the reverse.
		pipe.Expire(ctx, userKey, lifetime)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return sess, nil
}

// Get retrieves a session by ID. A missing session returns (nil, nil). A
// session past its absolute expiry is destroyed on the way out and also
// returns (nil, nil), so the store self-heals when Redis expiry lags.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	data, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sess, err := decodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}

	if sess.Expired(s.now()) {
		if err := s.Destroy(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return sess, nil
}

// ListForUser returns the user's live sessions. Index entries whose session
// key has already expired are pruned from the set as a side effect.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*Session, error) {
	userKey := s.userKey(userID)

	ids, err := s.rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := s.now()
	var stale []interface{}
	sessions := make([]*Session, 0, len(ids))
	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				stale = append(stale, ids[i])
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, cmdErr)
		}
		sess, decErr := decodeSession(data)
		if decErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, decErr)
		}
		if sess.Expired(now) {
			stale = append(stale, ids[i])
			continue
		}
		sessions = append(sessions, sess)
	}

	if len(stale) > 0 {
		if err := s.rdb.SRem(ctx, userKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		for _, id := range stale {
			if err := s.rdb.Del(ctx, s.key(id.(string))).Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}
	}

	return sessions, nil
}

// Activity is the network context of one authenticated request.
type Activity struct {
	IPAddress string
	UserAgent string
}

// ActivityResult reports the refreshed session plus any suspicion raised by
// comparing the activity against the session's original device binding.
type ActivityResult struct {
	Session    *Session
	Suspicious bool
	Reasons    []string
}

// RecordActivity bumps the session's last-activity time and checks the
// request's network context against the binding captured at creation. A
// suspicious match is reported, never acted on; revocation is the caller's
// decision. The absolute expiry is never extended.
func (s *Store) RecordActivity(ctx context.Context, sessionID string, act Activity) (*ActivityResult, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	suspicious, reasons := inspectActivity(sess, act)

	sess.LastActivity = s.now().UTC()
	data, err := encodeSession(sess)
	if err != nil {
		return nil, err
	}
	// KeepTTL: activity must never push out the absolute expiry.
	if err := s.rdb.Set(ctx, s.key(sessionID), data, redis.KeepTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &ActivityResult{
		Session:    sess,
		Suspicious: suspicious,
		Reasons:    reasons,
	}, nil
}

// Renew replaces a live session with a fresh one carrying the same identity,
// device binding, and verification flags, restarting the role lifetime. The
// old session is destroyed. A missing or expired session returns (nil, nil).
func (s *Store) Renew(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	if err := s.Destroy(ctx, sessionID); err != nil {
		return nil, err
	}

	return s.Create(ctx, NewSession{
		UserID:           sess.UserID,
		Role:             sess.Role,
		TenantID:         sess.TenantID,
		Metadata:         sess.Metadata,
		MFAVerified:      sess.MFAVerified,
		ProviderVerified: sess.ProviderVerified,
	})
}

// Destroy removes a session and its index entry. Destroying a session that
// does not exist is a no-op.
func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	key := s.key(sessionID)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sess, err := decodeSession(data)
	if err != nil {
		// Still remove the corrupt blob.
		if delErr := s.rdb.Del(ctx, key).Err(); delErr != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, delErr)
		}
		return nil
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, s.userKey(sess.UserID), sessionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// DestroyAllForUser removes every session for a user and returns how many
// live records were deleted. Used for password changes and account-wide
// revocation.
func (s *Store) DestroyAllForUser(ctx context.Context, userID string) (int, error) {
	userKey := s.userKey(userID)

	ids, err := s.rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}

	var deleted int64
	if len(keys) > 0 {
		deleted, err = s.rdb.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	if err := s.rdb.Del(ctx, userKey).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return int(deleted), nil
}

// Ping reports whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
