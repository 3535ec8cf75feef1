package lifecycle

import (
	"errors"
	"fmt"

	id "catwatch/pkg/domain"
)

// Kind classifies controller failures for the presenter.
type Kind string

const (
	KindQuery          Kind = "query"
	KindUpdate         Kind = "update"
	KindDelete         Kind = "delete"
	KindNotification   Kind = "notification"
	KindIneligibleEdit Kind = "ineligible_edit"
)

var (
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("lifecycle: controller closed")
	// ErrSuperseded is returned by a Load whose result was discarded because a
	// newer Load started before it finished.
	ErrSuperseded = errors.New("lifecycle: load superseded")
	// ErrEditWindowClosed is the cause of every KindIneligibleEdit failure.
	ErrEditWindowClosed = errors.New("edit window has closed")
)

// Failure is a classified error surfaced by the controller. SightingID is
// nil for query failures.
type Failure struct {
	Kind       Kind
	SightingID id.SightingID
	Err        error
}

func (f *Failure) Error() string {
	if f.SightingID.IsNil() {
		return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s failure for sighting %s: %v", f.Kind, f.SightingID, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsKind reports whether err is, or wraps, a Failure of kind k.
func IsKind(err error, k Kind) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind == k
	}
	return false
}

func newFailure(kind Kind, sightingID id.SightingID, err error) *Failure {
	return &Failure{Kind: kind, SightingID: sightingID, Err: err}
}
