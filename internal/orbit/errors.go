package orbit

import "fmt"

// Kind classifies a lane failure.
type Kind uint8

const (
	// KindNone is the zero value: no error.
	KindNone Kind = iota

	// KindOutsideDomain means a field or flux query left the evaluator's
	// valid domain.
	KindOutsideDomain

	// KindUnphysical means an integration result failed a validity check.
	KindUnphysical
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindOutsideDomain:
		return "outside domain"
	case KindUnphysical:
		return "unphysical result"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Module identifies which part of the code surfaced a lane error.
type Module uint8

const (
	ModNone Module = iota
	ModOrbitStep
	ModMarker
)

func (m Module) String() string {
	switch m {
	case ModNone:
		return "none"
	case ModOrbitStep:
		return "orbit-step"
	case ModMarker:
		return "marker"
	default:
		return fmt.Sprintf("module(%d)", uint8(m))
	}
}

// LaneError is a per-lane error value. The zero value means no error.
// Where carries a short provenance token naming the failed check or the
// evaluation stage that raised the error.
type LaneError struct {
	Kind   Kind
	Module Module
	Where  string
}

// OK reports whether the lane has no error.
func (e LaneError) OK() bool { return e.Kind == KindNone }

// Tag returns a copy of the error attributed to module m.
func (e LaneError) Tag(m Module) LaneError {
	e.Module = m
	return e
}

func (e LaneError) Error() string {
	if e.OK() {
		return "ok"
	}
	return fmt.Sprintf("%s: %s at %s", e.Module, e.Kind, e.Where)
}

// Raise creates an untagged lane error with a provenance token.
func Raise(k Kind, where string) LaneError {
	return LaneError{Kind: k, Where: where}
}
