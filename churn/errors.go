// Package churn implements the device-churn scoring pipeline: schema
// normalization of raw warranty sheets, alignment to a trained model's
// feature space, inference for the neural, ensemble and boosted-tree
// families, feature-importance explanation and evaluation reporting.
package churn

import "fmt"

// SchemaError reports input data that cannot be normalized into the
// canonical schema, such as an empty sheet or a sheet with no usable
// columns. It maps to a client error at the HTTP layer.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s", e.Reason)
}

// NewSchemaError creates a SchemaError with a formatted reason.
func NewSchemaError(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// ArtifactError reports a model bundle that is missing, corrupt or
// internally inconsistent. Artifacts are validated once at load time
// so that a bad bundle fails at startup rather than mid-request.
type ArtifactError struct {
	Path   string
	Reason string
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("artifact error: %s", e.Reason)
	}
	return fmt.Sprintf("artifact error (%s): %s", e.Path, e.Reason)
}

// NewArtifactError creates an ArtifactError with a formatted reason.
func NewArtifactError(path, format string, args ...any) *ArtifactError {
	return &ArtifactError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
