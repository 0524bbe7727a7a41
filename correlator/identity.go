package correlator

import (
	"strings"

	"github.com/google/uuid"
)

// runIDNamespace seeds name-based run identifiers. Changing it would break
// cross-process correlation, so it is fixed forever.
var runIDNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// DeriveRunID turns a run name into the run identifier carried on every
// event for that run.
//
// A non-empty name yields a version-5 UUID under a fixed namespace, so
// independent processes emitting events for the same logical run converge
// on the same identifier. An empty name yields a fresh random UUID, which
// is uncorrelatable across processes.
func DeriveRunID(runName string) string {
	runName = strings.TrimSpace(runName)
	if runName == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(runIDNamespace, []byte(runName)).String()
}
