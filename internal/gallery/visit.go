package gallery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/domain/selections"
	"proofing-app/internal/logging"
	"proofing-app/internal/session"
)

// Store is what a gallery visit needs from the record store.
type Store interface {
	AlbumByShareToken(ctx context.Context, token string) (*albums.Album, error)
	SelectedPhotoIDs(ctx context.Context, albumID, clientID string) ([]string, error)
	PaymentStatus(ctx context.Context, albumID, clientID string) (payments.Status, error)
	selections.Committer
	session.Directory
}

// Visit is one visitor browsing one gallery.
type Visit struct {
	Session *session.Session
	Machine *selections.Machine

	mu       sync.RWMutex
	album    albums.Album
	lastSeen time.Time
}

// Album is the gallery as loaded by the current request.
func (v *Visit) Album() albums.Album {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.album
}

func (v *Visit) refresh(album albums.Album, now time.Time) {
	v.mu.Lock()
	v.album = album
	v.lastSeen = now
	v.mu.Unlock()

	v.Machine.Reconfigure(album.MaxSelections, photoIDs(album))
}

func (v *Visit) idleSince() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastSeen
}

// Registry holds the in-memory visits, keyed by visitor and album.
type Registry struct {
	store  Store
	cache  session.Cache
	now    func() time.Time
	mu     sync.Mutex
	visits map[string]*Visit
}

func NewRegistry(store Store, cache session.Cache) *Registry {
	return &Registry{
		store:  store,
		cache:  cache,
		now:    time.Now,
		visits: make(map[string]*Visit),
	}
}

// Open loads the gallery by share token and returns the visitor's visit,
// creating it on first contact. Every call applies the freshly loaded album
// to the visit. A new visit resolves the cached identity and, when found,
// reloads that client's committed selection.
func (r *Registry) Open(ctx context.Context, visitor, token string) (*Visit, error) {
	album, err := r.store.AlbumByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	scope := session.Scope{Visitor: visitor, AlbumID: album.ID}
	key := scope.Key()

	r.mu.Lock()
	v, ok := r.visits[key]
	r.mu.Unlock()
	if ok {
		v.refresh(*album, r.now())
		return v, nil
	}

	v = &Visit{
		Session:  session.New(scope, album.PhotographerID, r.cache, r.store),
		Machine:  selections.NewMachine(album.ID, album.MaxSelections, photoIDs(*album), r.store),
		album:    *album,
		lastSeen: r.now(),
	}

	id, err := v.Session.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if id != nil {
		if err := r.restore(ctx, v, id.ClientID); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.visits[key]; ok {
		return existing, nil
	}
	r.visits[key] = v
	return v, nil
}

// Identify runs match-or-create for the contact, caches the identity for this
// gallery and reloads the client's committed selection. When the selection
// cannot be reloaded the previously cached identity is put back, so the cache
// and the machine keep naming the same client.
func (r *Registry) Identify(ctx context.Context, v *Visit, contact clients.Contact) (*session.Identity, error) {
	if v.Machine.State() == selections.StateFinalizing {
		return nil, selections.ErrInvalidTransition
	}

	prev, err := v.Session.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	id, err := v.Session.Persist(ctx, contact)
	if err != nil {
		return nil, err
	}
	if err := r.restore(ctx, v, id.ClientID); err != nil {
		if rerr := v.Session.Remember(ctx, prev); rerr != nil {
			logging.Logger.WithError(rerr).WithField("album_id", v.Session.Scope().AlbumID).Error("failed to roll back cached identity")
		}
		return nil, err
	}
	return id, nil
}

func (r *Registry) restore(ctx context.Context, v *Visit, clientID string) error {
	committed, err := r.store.SelectedPhotoIDs(ctx, v.Album().ID, clientID)
	if err != nil {
		return fmt.Errorf("%w: %w", session.ErrIdentityResolution, err)
	}
	return v.Machine.Identify(clientID, committed)
}

// PaymentStatus reads the live ledger status for the visit's client.
func (r *Registry) PaymentStatus(ctx context.Context, v *Visit) (payments.Status, error) {
	clientID := v.Machine.Snapshot().ClientID
	if clientID == "" {
		return payments.StatusPending, nil
	}
	return r.store.PaymentStatus(ctx, v.Album().ID, clientID)
}

// Sweep forgets visits idle for longer than maxIdle and returns how many.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for key, v := range r.visits {
		if v.idleSince().Before(cutoff) && v.Machine.State() != selections.StateFinalizing {
			delete(r.visits, key)
			removed++
		}
	}
	return removed
}

func photoIDs(album albums.Album) []string {
	ids := make([]string, 0, len(album.Photos))
	for _, p := range album.Photos {
		ids = append(ids, p.ID)
	}
	return ids
}
