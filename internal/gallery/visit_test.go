package gallery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/domain/selections"
	"proofing-app/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu        sync.Mutex
	album     albums.Album
	committed map[string][]string
	status    map[string]payments.Status
	clients   map[string]*clients.Client

	selectedErr error
	block       chan struct{}
}

func newMemStore() *memStore {
	return &memStore{
		album: albums.Album{
			ID: "A", PhotographerID: 1, Name: "Wedding", PricePerPhoto: 15, MaxSelections: 2, ShareToken: "tok",
			Photos: []albums.Photo{{ID: "p1", AlbumID: "A"}, {ID: "p2", AlbumID: "A"}, {ID: "p3", AlbumID: "A"}},
		},
		committed: map[string][]string{},
		status:    map[string]payments.Status{},
		clients:   map[string]*clients.Client{},
	}
}

func (m *memStore) AlbumByShareToken(_ context.Context, token string) (*albums.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token != m.album.ShareToken {
		return nil, errors.New("not found")
	}
	a := m.album
	return &a, nil
}

func (m *memStore) SelectedPhotoIDs(_ context.Context, _, clientID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectedErr != nil {
		return nil, m.selectedErr
	}
	return append([]string(nil), m.committed[clientID]...), nil
}

func (m *memStore) PaymentStatus(_ context.Context, _, clientID string) (payments.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status[clientID].OrPending(), nil
}

func (m *memStore) ReplaceSelections(_ context.Context, _, clientID string, ids []string) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed[clientID] = append([]string(nil), ids...)
	return nil
}

func (m *memStore) MatchOrCreateClient(_ context.Context, pid uint, c clients.Contact) (*clients.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.clients[c.Email]; ok {
		return existing, nil
	}
	cl := &clients.Client{ID: "client-" + c.Email, PhotographerID: pid, Name: c.Name, Email: c.Email}
	m.clients[c.Email] = cl
	return cl, nil
}

func TestOpenReturnsSameVisit(t *testing.T) {
	r := NewRegistry(newMemStore(), session.NewMemoryCache(0))
	ctx := context.Background()

	v1, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	v2, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	other, err := r.Open(ctx, "visitor-2", "tok")
	require.NoError(t, err)

	assert.Same(t, v1, v2)
	assert.NotSame(t, v1, other)
	assert.Equal(t, selections.StateUnidentified, v1.Machine.State())
}

func TestOpenUnknownToken(t *testing.T) {
	r := NewRegistry(newMemStore(), session.NewMemoryCache(0))
	_, err := r.Open(context.Background(), "visitor-1", "nope")
	assert.Error(t, err)
}

func TestIdentifyFinalizeAndReturn(t *testing.T) {
	store := newMemStore()
	cache := session.NewMemoryCache(0)
	r := NewRegistry(store, cache)
	ctx := context.Background()

	v, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)

	_, err = v.Machine.Toggle("p1")
	require.ErrorIs(t, err, selections.ErrIdentityRequired)

	id, err := r.Identify(ctx, v, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "client-ana@example.com", id.ClientID)
	assert.Equal(t, []string{"p1"}, v.Machine.Snapshot().Selected)

	_, err = v.Machine.Toggle("p3")
	require.NoError(t, err)
	require.NoError(t, v.Machine.Finalize(ctx))
	assert.Equal(t, []string{"p1", "p3"}, store.committed[id.ClientID])

	// a fresh registry (process restart) restores from the cache and the store
	again, err := NewRegistry(store, cache).Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	snap := again.Machine.Snapshot()
	assert.Equal(t, selections.StateFinalized, snap.State)
	assert.Equal(t, []string{"p1", "p3"}, snap.Selected)
}

func TestIdentifyOnAnotherDeviceLoadsCommittedSet(t *testing.T) {
	store := newMemStore()
	store.committed["client-ana@example.com"] = []string{"p2"}
	r := NewRegistry(store, session.NewMemoryCache(0))
	ctx := context.Background()

	v, err := r.Open(ctx, "phone", "tok")
	require.NoError(t, err)
	_, err = r.Identify(ctx, v, clients.Contact{Name: "Ana M", Email: "ana@example.com"})
	require.NoError(t, err)

	assert.Equal(t, selections.StateFinalized, v.Machine.State())
	assert.Equal(t, []string{"p2"}, v.Machine.Snapshot().Selected)
}

func TestPaymentStatusFollowsStore(t *testing.T) {
	store := newMemStore()
	r := NewRegistry(store, session.NewMemoryCache(0))
	ctx := context.Background()

	v, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)

	status, err := r.PaymentStatus(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPending, status)

	_, err = r.Identify(ctx, v, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	store.status["client-ana@example.com"] = payments.StatusPaid

	status, err = r.PaymentStatus(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPaid, status)
}

func TestSweepDropsIdleVisits(t *testing.T) {
	r := NewRegistry(newMemStore(), session.NewMemoryCache(0))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	v1, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = r.Open(ctx, "visitor-2", "tok")
	require.NoError(t, err)

	assert.Equal(t, 1, r.Sweep(30*time.Minute))

	v1again, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	assert.NotSame(t, v1, v1again)
}

func TestOpenPicksUpAlbumChanges(t *testing.T) {
	store := newMemStore()
	r := NewRegistry(store, session.NewMemoryCache(0))
	ctx := context.Background()

	v, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	_, err = r.Identify(ctx, v, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = v.Machine.Toggle("p1")
	require.NoError(t, err)

	store.mu.Lock()
	store.album.MaxSelections = 5
	store.album.PricePerPhoto = 99
	store.album.Photos = append(store.album.Photos, albums.Photo{ID: "p4", AlbumID: "A"})
	store.mu.Unlock()

	again, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	require.Same(t, v, again)

	album := again.Album()
	assert.Equal(t, 5, album.MaxSelections)
	assert.EqualValues(t, 99, album.PricePerPhoto)
	assert.Len(t, album.Photos, 4)

	on, err := again.Machine.Toggle("p4")
	require.NoError(t, err)
	assert.True(t, on)

	snap := again.Machine.Snapshot()
	assert.Equal(t, 5, snap.MaxSelections)
	assert.Equal(t, []string{"p1", "p4"}, snap.Selected)
}

func TestIdentifyWhileFinalizingKeepsIdentity(t *testing.T) {
	store := newMemStore()
	store.block = make(chan struct{})
	r := NewRegistry(store, session.NewMemoryCache(0))
	ctx := context.Background()

	v, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	_, err = r.Identify(ctx, v, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = v.Machine.Toggle("p1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- v.Machine.Finalize(ctx) }()
	require.Eventually(t, func() bool {
		return v.Machine.State() == selections.StateFinalizing
	}, time.Second, 5*time.Millisecond)

	_, err = r.Identify(ctx, v, clients.Contact{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, selections.ErrInvalidTransition)

	close(store.block)
	require.NoError(t, <-done)

	id, err := v.Session.Resolve(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "client-ana@example.com", id.ClientID)
	assert.Equal(t, "client-ana@example.com", v.Machine.Snapshot().ClientID)
}

func TestIdentifyRestoreFailureKeepsPreviousIdentity(t *testing.T) {
	store := newMemStore()
	r := NewRegistry(store, session.NewMemoryCache(0))
	ctx := context.Background()

	v, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	_, err = r.Identify(ctx, v, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	store.mu.Lock()
	store.selectedErr = errors.New("db down")
	store.mu.Unlock()

	_, err = r.Identify(ctx, v, clients.Contact{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, session.ErrIdentityResolution)

	id, err := v.Session.Resolve(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "client-ana@example.com", id.ClientID)
	assert.Equal(t, "client-ana@example.com", v.Machine.Snapshot().ClientID)
}

func TestIdentifyRestoreFailureOnFirstVisitClearsCache(t *testing.T) {
	store := newMemStore()
	store.selectedErr = errors.New("db down")
	r := NewRegistry(store, session.NewMemoryCache(0))
	ctx := context.Background()

	v, err := r.Open(ctx, "visitor-1", "tok")
	require.NoError(t, err)
	_, err = r.Identify(ctx, v, clients.Contact{Name: "Ana", Email: "ana@example.com"})
	require.Error(t, err)

	id, err := v.Session.Resolve(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, selections.StateUnidentified, v.Machine.State())
}
