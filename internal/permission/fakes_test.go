package permission_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

var (
	errStoreDown    = errors.New("store unreachable")
	errDenylistDown = errors.New("denylist unreachable")
)

// fakeStore is an in-memory permission store counting how often it is read.
type fakeStore struct {
	mu        sync.Mutex
	grants    map[uint64][]permission.RoleGrant
	overrides map[uint64][]permission.Override
	fail      bool
	reads     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		grants:    make(map[uint64][]permission.RoleGrant),
		overrides: make(map[uint64][]permission.Override),
	}
}

func (s *fakeStore) RolePermissions(_ context.Context, userID uint64) ([]permission.RoleGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.fail {
		return nil, errStoreDown
	}

	return s.grants[userID], nil
}

func (s *fakeStore) UserOverrides(_ context.Context, userID uint64) ([]permission.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return nil, errStoreDown
	}

	return s.overrides[userID], nil
}

func (s *fakeStore) resolutions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reads
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// fakeVerifier accepts the tokens it knows and rejects everything else.
// Every credential fails with err when it is set.
type fakeVerifier struct {
	identities map[string]permission.Identity
	err        error
}

func (v fakeVerifier) Verify(_ context.Context, raw string) (permission.Identity, error) {
	if v.err != nil {
		return permission.Identity{}, v.err
	}

	id, ok := v.identities[raw]
	if !ok {
		return permission.Identity{}, fmt.Errorf("%w: token is expired", permission.ErrInvalidCredential)
	}

	return id, nil
}
