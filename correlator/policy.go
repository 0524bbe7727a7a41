package correlator

import "fmt"

// EmitMode gates emission per run: every run, passing runs only, or
// failing runs only.
type EmitMode string

const (
	EmitAll       EmitMode = "all"
	EmitOnSuccess EmitMode = "success"
	EmitOnFailure EmitMode = "failure"
)

func (m EmitMode) Validate() error {
	switch m {
	case EmitAll, EmitOnSuccess, EmitOnFailure:
		return nil
	default:
		return fmt.Errorf("emit mode unsupported: %q", m)
	}
}

// shouldEmit is evaluated once per run against the overall success flag,
// never per event.
func (m EmitMode) shouldEmit(success bool) bool {
	switch m {
	case EmitOnSuccess:
		return success
	case EmitOnFailure:
		return !success
	default:
		return true
	}
}
