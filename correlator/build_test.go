package correlator

import (
	"testing"
	"time"

	"github.com/correlator-io/correlator-go/openlineage"
)

func sampleCheckpointResult() CheckpointResult {
	return CheckpointResult{
		Success:        true,
		CheckpointName: "daily",
		RunName:        "nightly-2024-01-15",
		RunTime:        time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Validations: []ValidationResult{
			{
				Success:   true,
				SuiteName: "users_suite",
				BatchSpec: BatchPointer{DatasourceName: "postgres_prod", DataAssetName: "public.users"},
				Results: []AssertionResult{
					{Assertion: "expect_column_values_to_not_be_null", Success: true, Column: "user_id"},
					{Assertion: "expect_column_values_to_be_unique", Success: true, Column: "email"},
				},
			},
		},
	}
}

func TestBuildRunEvents_TwoPerValidation(t *testing.T) {
	result := sampleCheckpointResult()
	result.Validations = append(result.Validations, ValidationResult{
		Success:   false,
		SuiteName: "orders_suite",
		BatchSpec: BatchPointer{DatasourceName: "postgres_prod", DataAssetName: "public.orders"},
	})
	now := time.Date(2024, 1, 15, 10, 35, 0, 0, time.UTC)

	events := buildRunEvents(discardLogger(), result, "run-1", "default", now)
	if len(events) != 4 {
		t.Fatalf("len(events)=%d, want 4", len(events))
	}

	wantTypes := []openlineage.EventType{
		openlineage.EventStart,
		openlineage.EventComplete,
		openlineage.EventStart,
		openlineage.EventFail,
	}
	for i, want := range wantTypes {
		if events[i].EventType != want {
			t.Fatalf("events[%d].EventType=%s, want %s", i, events[i].EventType, want)
		}
	}

	if events[1].Job.Name != "daily.users_suite" {
		t.Fatalf("events[1].Job.Name=%q", events[1].Job.Name)
	}
	if events[3].Job.Name != "daily.orders_suite" {
		t.Fatalf("events[3].Job.Name=%q", events[3].Job.Name)
	}
}

func TestBuildRunEvents_Timestamps(t *testing.T) {
	result := sampleCheckpointResult()
	now := time.Date(2024, 1, 15, 10, 35, 0, 0, time.UTC)

	events := buildRunEvents(discardLogger(), result, "run-1", "default", now)
	if events[0].EventTime != "2024-01-15T10:30:00.000Z" {
		t.Fatalf("start EventTime=%q, want result run time", events[0].EventTime)
	}
	if events[1].EventTime != "2024-01-15T10:35:00.000Z" {
		t.Fatalf("terminal EventTime=%q, want now", events[1].EventTime)
	}
}

func TestBuildRunEvents_FacetsOnTerminalOnly(t *testing.T) {
	events := buildRunEvents(discardLogger(), sampleCheckpointResult(), "run-1", "default", time.Unix(1700000000, 0).UTC())

	start, terminal := events[0], events[1]
	if start.Inputs != nil {
		t.Fatalf("start event carries inputs: %+v", start.Inputs)
	}
	if len(terminal.Inputs) != 1 {
		t.Fatalf("len(terminal.Inputs)=%d, want 1", len(terminal.Inputs))
	}

	facets := terminal.Inputs[0].InputFacets
	if facets == nil || facets.DataQualityAssertions == nil || facets.DataQualityMetrics == nil {
		t.Fatalf("terminal event missing data quality facets: %+v", facets)
	}
	if got := len(facets.DataQualityAssertions.Assertions); got != 2 {
		t.Fatalf("len(assertions)=%d, want 2", got)
	}
	if facets.DataQualityAssertions.Producer != producerURI {
		t.Fatalf("facet producer=%q, want %q", facets.DataQualityAssertions.Producer, producerURI)
	}
}

func TestBuildRunEvents_SharedRunIdentity(t *testing.T) {
	events := buildRunEvents(discardLogger(), sampleCheckpointResult(), "run-1", "marketing", time.Unix(1700000000, 0).UTC())
	for i, event := range events {
		if event.Run.RunID != "run-1" {
			t.Fatalf("events[%d].Run.RunID=%q, want run-1", i, event.Run.RunID)
		}
		if event.Job.Namespace != "marketing" {
			t.Fatalf("events[%d].Job.Namespace=%q, want marketing", i, event.Job.Namespace)
		}
		if event.Producer != producerURI {
			t.Fatalf("events[%d].Producer=%q", i, event.Producer)
		}
		if err := event.Validate(); err != nil {
			t.Fatalf("events[%d] invalid: %v", i, err)
		}
	}
}

func TestBuildRunEvents_EmptyResult(t *testing.T) {
	events := buildRunEvents(discardLogger(), CheckpointResult{}, "run-1", "default", time.Unix(1700000000, 0).UTC())
	if len(events) != 0 {
		t.Fatalf("len(events)=%d, want 0", len(events))
	}
}
