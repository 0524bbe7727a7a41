// Package openlineage defines the subset of the OpenLineage event model
// that the correlator emits: run events with job/run identity and
// data-quality input facets.
package openlineage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	EventStart    EventType = "START"
	EventComplete EventType = "COMPLETE"
	EventFail     EventType = "FAIL"
)

const (
	dataQualityMetricsSchemaURL    = "https://openlineage.io/spec/facets/1-0-0/DataQualityMetricsInputDatasetFacet.json"
	dataQualityAssertionsSchemaURL = "https://openlineage.io/spec/facets/1-0-0/DataQualityAssertionsDatasetFacet.json"

	// eventTimeLayout is the single wire timestamp format. Millisecond
	// precision, always UTC, so identical inputs serialize byte-identically.
	eventTimeLayout = "2006-01-02T15:04:05.000Z"
)

// RunEvent is one lineage event on the wire. Inputs are only present on
// terminal (COMPLETE/FAIL) events.
type RunEvent struct {
	EventType EventType `json:"eventType"`
	EventTime string    `json:"eventTime"`
	Producer  string    `json:"producer"`
	Run       Run       `json:"run"`
	Job       Job       `json:"job"`
	Inputs    []Dataset `json:"inputs,omitempty"`
}

type Run struct {
	RunID string `json:"runId"`
}

type Job struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// Dataset is an input dataset reference with optional data-quality facets.
type Dataset struct {
	Namespace   string       `json:"namespace"`
	Name        string       `json:"name"`
	InputFacets *InputFacets `json:"inputFacets,omitempty"`
}

type InputFacets struct {
	DataQualityMetrics    *DataQualityMetricsFacet    `json:"dataQualityMetrics,omitempty"`
	DataQualityAssertions *DataQualityAssertionsFacet `json:"dataQualityAssertions,omitempty"`
}

// DataQualityMetricsFacet carries column-level metrics. The emitter has no
// row counts available, so ColumnMetrics stays empty; rowCount is omitted
// rather than mis-reported from assertion counts.
type DataQualityMetricsFacet struct {
	Producer      string         `json:"_producer"`
	SchemaURL     string         `json:"_schemaURL"`
	ColumnMetrics map[string]any `json:"columnMetrics"`
}

type DataQualityAssertionsFacet struct {
	Producer   string      `json:"_producer"`
	SchemaURL  string      `json:"_schemaURL"`
	Assertions []Assertion `json:"assertions"`
}

// Assertion is one data-quality rule outcome. Order within a facet matches
// the order of the source validation results.
type Assertion struct {
	Assertion string `json:"assertion"`
	Success   bool   `json:"success"`
	Column    string `json:"column,omitempty"`
}

func NewDataQualityMetricsFacet(producer string) *DataQualityMetricsFacet {
	return &DataQualityMetricsFacet{
		Producer:      producer,
		SchemaURL:     dataQualityMetricsSchemaURL,
		ColumnMetrics: map[string]any{},
	}
}

func NewDataQualityAssertionsFacet(producer string, assertions []Assertion) *DataQualityAssertionsFacet {
	if assertions == nil {
		assertions = []Assertion{}
	}
	return &DataQualityAssertionsFacet{
		Producer:   producer,
		SchemaURL:  dataQualityAssertionsSchemaURL,
		Assertions: assertions,
	}
}

// FormatEventTime renders t in the wire timestamp format.
func FormatEventTime(t time.Time) string {
	return t.UTC().Format(eventTimeLayout)
}

func (t EventType) Terminal() bool {
	return t == EventComplete || t == EventFail
}

func (e RunEvent) Validate() error {
	switch e.EventType {
	case EventStart, EventComplete, EventFail:
	default:
		return fmt.Errorf("eventType unsupported: %q", e.EventType)
	}
	if strings.TrimSpace(e.EventTime) == "" {
		return errors.New("eventTime is required")
	}
	if _, err := time.Parse(eventTimeLayout, e.EventTime); err != nil {
		return fmt.Errorf("eventTime malformed: %w", err)
	}
	if strings.TrimSpace(e.Producer) == "" {
		return errors.New("producer is required")
	}
	if strings.TrimSpace(e.Run.RunID) == "" {
		return errors.New("run.runId is required")
	}
	if strings.TrimSpace(e.Job.Namespace) == "" {
		return errors.New("job.namespace is required")
	}
	if strings.TrimSpace(e.Job.Name) == "" {
		return errors.New("job.name is required")
	}
	return nil
}
