package syncer

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// ErrCycleInFlight is returned when a cycle or an id migration already holds
// the scope. The second invocation is dropped.
var ErrCycleInFlight = fmt.Errorf("sync cycle dropped: %w", ledger.ErrScopeBusy)

// FatalPrefix tags LastSyncError values written by an aborted cycle.
const FatalPrefix = "fatal: "

type Phase string

const (
	PhasePull Phase = "pull"
	PhasePush Phase = "push"
)

// CollectionError is a pull or push failure isolated to one collection.
type CollectionError struct {
	Collection string
	Phase      Phase
	Err        error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Collection, e.Phase, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// FatalError aborts a whole cycle. Nothing merged by the cycle is persisted
// after it is raised.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return FatalPrefix + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func joinMessages(errs []*CollectionError) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "; ")
}
