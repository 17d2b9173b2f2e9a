package biofouling

import "fmt"

// InsufficientDataError reports that a computation had too few usable
// samples. Component models degrade to flagged scores instead of returning
// this; operations that cannot degrade, like peer benchmarking, return it.
type InsufficientDataError struct {
	Subject  string
	Samples  int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d samples, need %d", e.Subject, e.Samples, e.Required)
}

// InvalidConfigurationError is fatal at startup, never per-evaluation.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid engine configuration: " + e.Reason
}
