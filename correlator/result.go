package correlator

import "time"

// CheckpointResult is the documented shape of one checkpoint run as handed
// over by the host validation framework. The correlator treats it as
// read-only for the duration of one Run call and never mutates it.
//
// Fields may be missing or empty; extraction degrades to sentinels rather
// than failing.
type CheckpointResult struct {
	// Success is the overall outcome of the checkpoint run.
	Success bool `json:"success"`

	CheckpointName string `json:"checkpoint_name"`

	// RunName, when present, correlates events across processes: the same
	// run name always derives the same run identifier.
	RunName string `json:"run_name"`

	// RunTime is when the checkpoint run started. Zero means unknown.
	RunTime time.Time `json:"run_time"`

	Validations []ValidationResult `json:"validations"`
}

// ValidationResult is one suite's result within a checkpoint run.
type ValidationResult struct {
	Success   bool   `json:"success"`
	SuiteName string `json:"suite_name"`

	// BatchSpec names the validated data batch. BatchDefinition is the
	// fallback location some framework versions populate instead.
	BatchSpec       BatchPointer `json:"batch_spec"`
	BatchDefinition BatchPointer `json:"active_batch_definition"`

	// Results holds per-assertion outcomes in evaluation order.
	Results []AssertionResult `json:"results"`
}

type BatchPointer struct {
	DatasourceName string `json:"datasource_name"`
	DataAssetName  string `json:"data_asset_name"`
}

// AssertionResult is one data-quality rule outcome from the host framework.
type AssertionResult struct {
	Assertion string `json:"assertion"`
	Success   bool   `json:"success"`
	Column    string `json:"column,omitempty"`
}
