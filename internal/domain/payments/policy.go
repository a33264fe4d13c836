package payments

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStatus        = errors.New("unknown payment status")
	ErrTransitionNotAllowed = errors.New("payment status transition not allowed")
)

// LedgerWriteError wraps a failed ledger upsert. The ledger keeps its last
// committed value.
type LedgerWriteError struct {
	AlbumID  string
	ClientID string
	Err      error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger write %s/%s: %v", e.AlbumID, e.ClientID, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }

const (
	PolicyOpen     = "open"
	PolicyWorkflow = "workflow"
)

// Policy decides whether the photographer may move an order from one status
// to another.
type Policy interface {
	Allow(from, to Status) bool
}

type openPolicy struct{}

func (openPolicy) Allow(from, to Status) bool { return to.Valid() }

// workflowPolicy is the opt-in transition table. Setting the current status
// again is always a no-op success.
type workflowPolicy struct{}

var workflowTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusPending, StatusCancelled},
	StatusCancelled: {StatusPending},
}

func (workflowPolicy) Allow(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	from = from.OrPending()
	if from == to {
		return true
	}
	for _, next := range workflowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyFor returns the policy named by config; unknown names fall back to open.
func PolicyFor(name string) Policy {
	if name == PolicyWorkflow {
		return workflowPolicy{}
	}
	return openPolicy{}
}

// CheckTransition returns ErrTransitionNotAllowed when the policy refuses.
func CheckTransition(p Policy, from, to Status) error {
	if p == nil {
		p = openPolicy{}
	}
	if !p.Allow(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from.OrPending(), to)
	}
	return nil
}
