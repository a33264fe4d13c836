package session

import (
	"context"
	"errors"
	"fmt"

	"proofing-app/internal/domain/clients"
)

// ErrIdentityResolution means the visitor could not be identified right now.
// Selection stays blocked until identification succeeds.
var ErrIdentityResolution = errors.New("cannot identify you right now")

var ErrIncompleteContact = errors.New("name and email or whatsapp are required")

// Identity is the cached view of the client behind a gallery visit.
type Identity struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}

// Scope keys identities per gallery: one browser may be a different client in
// each album it visits.
type Scope struct {
	Visitor string
	AlbumID string
}

func (s Scope) Key() string {
	return s.Visitor + ":" + s.AlbumID
}

// Cache is the local identity store, read and written by key.
type Cache interface {
	Load(ctx context.Context, key string) (*Identity, error)
	Save(ctx context.Context, key string, id Identity) error
	Clear(ctx context.Context, key string) error
}

// Directory is the backing client store.
type Directory interface {
	MatchOrCreateClient(ctx context.Context, photographerID uint, contact clients.Contact) (*clients.Client, error)
}

// Session resolves and persists the identity for one gallery scope.
type Session struct {
	scope          Scope
	photographerID uint
	cache          Cache
	dir            Directory
}

func New(scope Scope, photographerID uint, cache Cache, dir Directory) *Session {
	return &Session{scope: scope, photographerID: photographerID, cache: cache, dir: dir}
}

func (s *Session) Scope() Scope { return s.scope }

// Resolve returns the cached identity, or nil when the visitor has not
// identified in this gallery.
func (s *Session) Resolve(ctx context.Context) (*Identity, error) {
	id, err := s.cache.Load(ctx, s.scope.Key())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityResolution, err)
	}
	return id, nil
}

// Persist matches the contact against existing clients (email or whatsapp),
// creating one owned by the album's photographer when none matches, and then
// caches the result. Nothing is cached on failure.
func (s *Session) Persist(ctx context.Context, contact clients.Contact) (*Identity, error) {
	contact = contact.Normalize()
	if contact.Name == "" || !contact.HasKey() {
		return nil, ErrIncompleteContact
	}

	c, err := s.dir.MatchOrCreateClient(ctx, s.photographerID, contact)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityResolution, err)
	}

	id := Identity{
		ClientID: c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Whatsapp: c.Whatsapp,
	}
	if err := s.cache.Save(ctx, s.scope.Key(), id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityResolution, err)
	}
	return &id, nil
}

// Remember puts a previously resolved identity back in the cache; nil clears
// it.
func (s *Session) Remember(ctx context.Context, id *Identity) error {
	if id == nil {
		return s.Forget(ctx)
	}
	return s.cache.Save(ctx, s.scope.Key(), *id)
}

// Forget drops the cached identity for this gallery only.
func (s *Session) Forget(ctx context.Context) error {
	return s.cache.Clear(ctx, s.scope.Key())
}
