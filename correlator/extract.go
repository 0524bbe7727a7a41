package correlator

import (
	"log/slog"
	"strings"
	"time"

	"github.com/correlator-io/correlator-go/openlineage"
)

// unknownName substitutes for any missing or malformed source field. The
// pipeline degrades to sentinels instead of aborting on partial input.
const unknownName = "unknown"

const unknownCheckpoint = "unknown_checkpoint"

// extractJobName builds the job name as {checkpoint}.{suite}. A missing
// suite name drops the suffix; a missing checkpoint name falls back to a
// sentinel so the job identity is never empty.
func extractJobName(checkpointName, suiteName string) string {
	checkpointName = strings.TrimSpace(checkpointName)
	if checkpointName == "" {
		checkpointName = unknownCheckpoint
	}
	suiteName = strings.TrimSpace(suiteName)
	if suiteName == "" {
		return checkpointName
	}
	return checkpointName + "." + suiteName
}

// extractRunTime is the START event timestamp: the result's own run time,
// or now when the result does not carry one.
func extractRunTime(result CheckpointResult, now time.Time) time.Time {
	if result.RunTime.IsZero() {
		return now
	}
	return result.RunTime
}

// extractDataset reads the dataset reference for one validation. The batch
// spec is authoritative; the active batch definition fills gaps. Whatever
// is still missing becomes the "unknown" sentinel, logged at warning.
func extractDataset(logger *slog.Logger, v ValidationResult) openlineage.Dataset {
	namespace := firstNonEmpty(v.BatchSpec.DatasourceName, v.BatchDefinition.DatasourceName)
	name := firstNonEmpty(v.BatchSpec.DataAssetName, v.BatchDefinition.DataAssetName)

	if namespace == "" {
		logger.Warn("batch metadata missing datasource name, using sentinel", "suite", v.SuiteName)
		namespace = unknownName
	}
	if name == "" {
		logger.Warn("batch metadata missing data asset name, using sentinel", "suite", v.SuiteName)
		name = unknownName
	}
	return openlineage.Dataset{Namespace: namespace, Name: name}
}

// extractAssertions maps per-assertion outcomes into facet entries,
// preserving source order.
func extractAssertions(logger *slog.Logger, v ValidationResult) []openlineage.Assertion {
	assertions := make([]openlineage.Assertion, 0, len(v.Results))
	for _, r := range v.Results {
		assertion := strings.TrimSpace(r.Assertion)
		if assertion == "" {
			logger.Warn("assertion result missing assertion name, using sentinel", "suite", v.SuiteName)
			assertion = unknownName
		}
		assertions = append(assertions, openlineage.Assertion{
			Assertion: assertion,
			Success:   r.Success,
			Column:    strings.TrimSpace(r.Column),
		})
	}
	return assertions
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
