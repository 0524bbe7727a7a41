package correlator

import (
	"log/slog"
	"time"

	"github.com/correlator-io/correlator-go/openlineage"
)

// buildRunEvents assembles the ordered event batch for one checkpoint run:
// for each validation a START event followed by its terminal event, so a
// run with N validations yields exactly 2N events. START events carry job
// and run identity only; terminal events carry the dataset reference with
// data-quality facets attached.
func buildRunEvents(logger *slog.Logger, result CheckpointResult, runID string, jobNamespace string, now time.Time) []openlineage.RunEvent {
	startTime := openlineage.FormatEventTime(extractRunTime(result, now))
	endTime := openlineage.FormatEventTime(now)
	run := openlineage.Run{RunID: runID}

	events := make([]openlineage.RunEvent, 0, 2*len(result.Validations))
	for _, v := range result.Validations {
		job := openlineage.Job{
			Namespace: jobNamespace,
			Name:      extractJobName(result.CheckpointName, v.SuiteName),
		}

		events = append(events, openlineage.RunEvent{
			EventType: openlineage.EventStart,
			EventTime: startTime,
			Producer:  producerURI,
			Run:       run,
			Job:       job,
		})

		eventType := openlineage.EventComplete
		if !v.Success {
			eventType = openlineage.EventFail
		}

		dataset := extractDataset(logger, v)
		dataset.InputFacets = &openlineage.InputFacets{
			DataQualityMetrics:    openlineage.NewDataQualityMetricsFacet(producerURI),
			DataQualityAssertions: openlineage.NewDataQualityAssertionsFacet(producerURI, extractAssertions(logger, v)),
		}

		events = append(events, openlineage.RunEvent{
			EventType: eventType,
			EventTime: endTime,
			Producer:  producerURI,
			Run:       run,
			Job:       job,
			Inputs:    []openlineage.Dataset{dataset},
		})
	}
	return events
}
