package selections

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

type State string

const (
	StateUnidentified State = "unidentified"
	StateBrowsing     State = "browsing"
	StateFinalizing   State = "finalizing"
	StateFinalized    State = "finalized"
)

var (
	ErrIdentityRequired  = errors.New("identify yourself before selecting photos")
	ErrQuotaExceeded     = errors.New("selection limit reached")
	ErrEmptySelection    = errors.New("select at least one photo before finishing")
	ErrUnknownPhoto      = errors.New("photo does not belong to this album")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
)

// FinalizeError is returned when the durable commit fails. The machine is back
// in browsing with the selection intact.
type FinalizeError struct {
	Err error
}

func (e *FinalizeError) Error() string { return "finalize selection: " + e.Err.Error() }
func (e *FinalizeError) Unwrap() error { return e.Err }

// Committer durably replaces the selection set of an (album, client) pair.
type Committer interface {
	ReplaceSelections(ctx context.Context, albumID, clientID string, photoIDs []string) error
}

// Snapshot is a read-only copy of the machine.
type Snapshot struct {
	State         State    `json:"state"`
	ClientID      string   `json:"client_id,omitempty"`
	Selected      []string `json:"selected"`
	MaxSelections int      `json:"max_selections"`
	Remaining     int      `json:"remaining"`
}

// Machine tracks one visit's selection for one album.
type Machine struct {
	mu sync.Mutex

	albumID   string
	max       int
	photos    map[string]struct{}
	committer Committer

	state    State
	clientID string
	chosen   map[string]struct{}
	pending  string
}

// NewMachine starts unidentified. photoIDs is the album's photo set; toggles
// outside it are rejected.
func NewMachine(albumID string, maxSelections int, photoIDs []string, committer Committer) *Machine {
	photos := make(map[string]struct{}, len(photoIDs))
	for _, id := range photoIDs {
		photos[id] = struct{}{}
	}
	return &Machine{
		albumID:   albumID,
		max:       maxSelections,
		photos:    photos,
		committer: committer,
		state:     StateUnidentified,
		chosen:    map[string]struct{}{},
	}
}

// Identify binds the machine to a client. A non-empty committed set puts the
// machine straight into finalized; otherwise it browses and applies the
// toggle that was attempted before identification, if any.
func (m *Machine) Identify(clientID string, committed []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if clientID == "" {
		return ErrIdentityRequired
	}
	if m.state == StateFinalizing {
		return ErrInvalidTransition
	}

	m.clientID = clientID
	m.chosen = map[string]struct{}{}
	for _, id := range committed {
		m.chosen[id] = struct{}{}
	}

	pending := m.pending
	m.pending = ""

	if len(m.chosen) > 0 {
		m.state = StateFinalized
		return nil
	}

	m.state = StateBrowsing
	if pending != "" {
		if _, err := m.toggleLocked(pending); err != nil && !errors.Is(err, ErrQuotaExceeded) {
			return err
		}
	}
	return nil
}

// Toggle flips one photo and reports whether it is now selected.
func (m *Machine) Toggle(photoID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateUnidentified:
		if _, ok := m.photos[photoID]; !ok {
			return false, ErrUnknownPhoto
		}
		m.pending = photoID
		return false, ErrIdentityRequired
	case StateBrowsing:
		return m.toggleLocked(photoID)
	default:
		return m.isChosen(photoID), ErrInvalidTransition
	}
}

// Reconfigure applies the album's current quota and photo set. The chosen
// set is kept; while the visitor can still edit, photos that left the album
// are dropped from it.
func (m *Machine) Reconfigure(maxSelections int, photoIDs []string) {
	photos := make(map[string]struct{}, len(photoIDs))
	for _, id := range photoIDs {
		photos[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.max = maxSelections
	m.photos = photos
	if _, ok := photos[m.pending]; !ok {
		m.pending = ""
	}
	if m.state == StateUnidentified || m.state == StateBrowsing {
		for id := range m.chosen {
			if _, ok := photos[id]; !ok {
				delete(m.chosen, id)
			}
		}
	}
}

func (m *Machine) toggleLocked(photoID string) (bool, error) {
	if _, ok := m.photos[photoID]; !ok {
		return false, ErrUnknownPhoto
	}
	if _, ok := m.chosen[photoID]; ok {
		delete(m.chosen, photoID)
		return false, nil
	}
	if len(m.chosen) >= m.max {
		return false, ErrQuotaExceeded
	}
	m.chosen[photoID] = struct{}{}
	return true, nil
}

func (m *Machine) isChosen(photoID string) bool {
	_, ok := m.chosen[photoID]
	return ok
}

// Finalize commits the current set. The lock is released while the commit
// runs so that snapshots report finalizing.
func (m *Machine) Finalize(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateBrowsing {
		m.mu.Unlock()
		if m.state == StateUnidentified {
			return ErrIdentityRequired
		}
		return ErrInvalidTransition
	}
	if len(m.chosen) == 0 {
		m.mu.Unlock()
		return ErrEmptySelection
	}
	if len(m.chosen) > m.max {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d selected, limit is %d", ErrQuotaExceeded, len(m.chosen), m.max)
	}
	m.state = StateFinalizing
	clientID := m.clientID
	ids := m.selectedLocked()
	m.mu.Unlock()

	err := m.committer.ReplaceSelections(ctx, m.albumID, clientID, ids)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateBrowsing
		return &FinalizeError{Err: err}
	}
	m.state = StateFinalized
	return nil
}

// Review reopens a finalized selection for editing without clearing it.
func (m *Machine) Review() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateFinalized {
		return fmt.Errorf("%w: review from %s", ErrInvalidTransition, m.state)
	}
	m.state = StateBrowsing
	return nil
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.max - len(m.chosen)
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		State:         m.state,
		ClientID:      m.clientID,
		Selected:      m.selectedLocked(),
		MaxSelections: m.max,
		Remaining:     remaining,
	}
}

func (m *Machine) selectedLocked() []string {
	out := make([]string, 0, len(m.chosen))
	for id := range m.chosen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
