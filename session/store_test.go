package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carelink/authcore/rbac"
)

func newStoreTest(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewStore(rdb, Config{Prefix: "test"}), mr, rdb
}

func patientSession() NewSession {
	return NewSession{
		UserID:   "u-1",
		Role:     rbac.RolePatient,
		TenantID: "t-1",
		Metadata: Metadata{
			IPAddress: "203.0.113.10",
			UserAgent: "carelink-ios/3.2",
		},
		MFAVerified: false,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	created, err := store.Create(ctx, patientSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty session id")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.UserID != "u-1" || got.Role != rbac.RolePatient || got.TenantID != "t-1" {
		t.Fatalf("identity mismatch: %+v", got)
	}
	if got.Metadata.IPAddress != "203.0.113.10" {
		t.Fatalf("metadata not persisted: %+v", got.Metadata)
	}

	wantExpiry := got.CreatedAt.Add(4 * time.Hour)
	if !got.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("patient lifetime: want expiry %v, got %v", wantExpiry, got.ExpiresAt)
	}
}

func TestRoleLifetimes(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	cases := []struct {
		role rbac.Role
		want time.Duration
	}{
		{rbac.RolePharmacist, 12 * time.Hour},
		{rbac.RoleDoctor, 12 * time.Hour},
		{rbac.RoleNurse, 12 * time.Hour},
		{rbac.RolePatient, 4 * time.Hour},
		{rbac.RoleDelivery, 30 * time.Minute},
		{rbac.Role("unknown"), time.Hour},
	}
	for i, tc := range cases {
		sess, err := store.Create(ctx, NewSession{UserID: "u-lifetime-" + string(rune('a'+i)), Role: tc.role})
		if err != nil {
			t.Fatalf("create %s: %v", tc.role, err)
		}
		if got := sess.ExpiresAt.Sub(sess.CreatedAt); got != tc.want {
			t.Errorf("role %s: want lifetime %v, got %v", tc.role, tc.want, got)
		}
	}
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	store, _, _ := newStoreTest(t)

	got, err := store.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}
}

func TestGetExpiredDestroysLazily(t *testing.T) {
	store, _, rdb := newStoreTest(t)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }

	sess, err := store.Create(ctx, NewSession{UserID: "u-exp", Role: rbac.RoleDelivery})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Redis TTL lags; the record is still physically present past expiry.
	store.now = func() time.Time { return base.Add(31 * time.Minute) }

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expired session served: %+v", got)
	}

	if n, _ := rdb.Exists(ctx, "test:sess:"+sess.ID).Result(); n != 0 {
		t.Fatal("expired session record not destroyed")
	}
	if member, _ := rdb.SIsMember(ctx, "test:user:u-exp", sess.ID).Result(); member {
		t.Fatal("expired session still indexed")
	}
}

func TestConcurrencyCapEvictsOldest(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	base := time.Now()
	clock := base
	store.now = func() time.Time { return clock }

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := store.Create(ctx, NewSession{UserID: "u-cap", Role: rbac.RoleDoctor})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, sess.ID)
		clock = clock.Add(time.Minute)
	}

	fourth, err := store.Create(ctx, NewSession{UserID: "u-cap", Role: rbac.RoleDoctor})
	if err != nil {
		t.Fatalf("create fourth: %v", err)
	}

	if got, _ := store.Get(ctx, ids[0]); got != nil {
		t.Fatal("oldest session survived past the cap")
	}
	for _, id := range []string{ids[1], ids[2], fourth.ID} {
		got, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if got == nil {
			t.Fatalf("session %s evicted but was not the oldest", id)
		}
	}

	active, err := store.ListForUser(ctx, "u-cap")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("want 3 active sessions, got %d", len(active))
	}
}

func TestRecordActivityBumpsWithoutExtendingExpiry(t *testing.T) {
	store, mr, _ := newStoreTest(t)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }

	sess, err := store.Create(ctx, patientSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ttlBefore := mr.TTL("test:sess:" + sess.ID)

	store.now = func() time.Time { return base.Add(10 * time.Minute) }

	res, err := store.RecordActivity(ctx, sess.ID, Activity{
		IPAddress: "203.0.113.10",
		UserAgent: "carelink-ios/3.2",
	})
	if err != nil {
		t.Fatalf("record activity: %v", err)
	}
	if res == nil || res.Session == nil {
		t.Fatal("expected activity result")
	}
	if res.Suspicious {
		t.Fatalf("matching context flagged suspicious: %v", res.Reasons)
	}
	if !res.Session.LastActivity.After(sess.LastActivity) {
		t.Fatal("last activity not advanced")
	}
	if !res.Session.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatal("absolute expiry changed by activity")
	}
	if ttlAfter := mr.TTL("test:sess:" + sess.ID); ttlAfter != ttlBefore {
		t.Fatalf("redis ttl changed by activity: %v -> %v", ttlBefore, ttlAfter)
	}
}

func TestRecordActivityFlagsContextChanges(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, patientSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := store.RecordActivity(ctx, sess.ID, Activity{
		IPAddress: "198.51.100.7",
		UserAgent: "curl/8.5",
	})
	if err != nil {
		t.Fatalf("record activity: %v", err)
	}
	if !res.Suspicious {
		t.Fatal("changed ip and user agent not flagged")
	}
	if len(res.Reasons) != 2 {
		t.Fatalf("want 2 reasons, got %v", res.Reasons)
	}

	// Suspicion is a signal only; the session must still be live.
	if got, _ := store.Get(ctx, sess.ID); got == nil {
		t.Fatal("suspicious session was revoked")
	}
}

func TestRecordActivityMissingSession(t *testing.T) {
	store, _, _ := newStoreTest(t)

	res, err := store.RecordActivity(context.Background(), "gone", Activity{})
	if err != nil {
		t.Fatalf("record activity: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result for missing session, got %+v", res)
	}
}

func TestRenewIssuesFreshSession(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }

	orig, err := store.Create(ctx, NewSession{
		UserID:      "u-renew",
		Role:        rbac.RoleNurse,
		Metadata:    Metadata{IPAddress: "203.0.113.9", DeviceID: "dev-7"},
		MFAVerified: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Hour) }

	renewed, err := store.Renew(ctx, orig.ID)
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if renewed == nil {
		t.Fatal("expected renewed session")
	}
	if renewed.ID == orig.ID {
		t.Fatal("renewal reused the session id")
	}
	if renewed.UserID != orig.UserID || renewed.Role != orig.Role {
		t.Fatalf("identity not carried forward: %+v", renewed)
	}
	if !renewed.MFAVerified {
		t.Fatal("mfa flag not carried forward")
	}
	if renewed.Metadata.DeviceID != "dev-7" {
		t.Fatal("device binding not carried forward")
	}
	if got := renewed.ExpiresAt.Sub(renewed.CreatedAt); got != 12*time.Hour {
		t.Fatalf("renewal lifetime: want 12h, got %v", got)
	}

	if old, _ := store.Get(ctx, orig.ID); old != nil {
		t.Fatal("original session survived renewal")
	}
}

func TestRenewMissingSession(t *testing.T) {
	store, _, _ := newStoreTest(t)

	renewed, err := store.Renew(context.Background(), "gone")
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if renewed != nil {
		t.Fatalf("expected nil for missing session, got %+v", renewed)
	}
}

func TestDestroyIdempotent(t *testing.T) {
	store, _, rdb := newStoreTest(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, patientSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Destroy(ctx, sess.ID); err != nil {
		t.Fatalf("first destroy: %v", err)
	}
	if err := store.Destroy(ctx, sess.ID); err != nil {
		t.Fatalf("second destroy: %v", err)
	}

	if member, _ := rdb.SIsMember(ctx, "test:user:u-1", sess.ID).Result(); member {
		t.Fatal("destroyed session still indexed")
	}
}

func TestDestroyAllForUser(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, NewSession{UserID: "u-all", Role: rbac.RolePatient}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	other, err := store.Create(ctx, NewSession{UserID: "u-other", Role: rbac.RolePatient})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}

	count, err := store.DestroyAllForUser(ctx, "u-all")
	if err != nil {
		t.Fatalf("destroy all: %v", err)
	}
	if count != 3 {
		t.Fatalf("want 3 destroyed, got %d", count)
	}

	active, err := store.ListForUser(ctx, "u-all")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("sessions survived bulk revocation: %d", len(active))
	}

	if got, _ := store.Get(ctx, other.ID); got == nil {
		t.Fatal("unrelated user's session was destroyed")
	}
}

func TestListForUserPrunesStaleIndex(t *testing.T) {
	store, mr, rdb := newStoreTest(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, NewSession{UserID: "u-stale", Role: rbac.RolePatient})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	keep, err := store.Create(ctx, NewSession{UserID: "u-stale", Role: rbac.RolePatient})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate Redis expiring the record out from under the index.
	mr.Del("test:sess:" + sess.ID)

	active, err := store.ListForUser(ctx, "u-stale")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != keep.ID {
		t.Fatalf("want only the live session, got %d", len(active))
	}

	if member, _ := rdb.SIsMember(ctx, "test:user:u-stale", sess.ID).Result(); member {
		t.Fatal("stale index entry not pruned")
	}
}

func TestLifetimeOverrides(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	store := NewStore(rdb, Config{
		Prefix: "test",
		Lifetimes: map[rbac.Role]time.Duration{
			rbac.RoleDoctor: 2 * time.Hour,
		},
	})

	sess, err := store.Create(context.Background(), NewSession{UserID: "u-ovr", Role: rbac.RoleDoctor})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := sess.ExpiresAt.Sub(sess.CreatedAt); got != 2*time.Hour {
		t.Fatalf("override lifetime: want 2h, got %v", got)
	}

	// Roles absent from an override table fall back to the default.
	sess, err = store.Create(context.Background(), NewSession{UserID: "u-ovr2", Role: rbac.RoleNurse})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := sess.ExpiresAt.Sub(sess.CreatedAt); got != time.Hour {
		t.Fatalf("override fallback: want 1h, got %v", got)
	}
}
