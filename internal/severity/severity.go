// Package severity provides severity levels for validation findings.
//
// Errors make a request invalid. Warnings (deprecated operations,
// malformed but tolerated query strings, ignored parameters) are reported
// alongside without affecting validity.
package severity

// Severity indicates how serious a validation finding is.
type Severity int

const (
	// SeverityError marks a finding that makes the request invalid.
	SeverityError Severity = iota

	// SeverityWarning marks a finding that is reported but tolerated.
	SeverityWarning

	// SeverityInfo marks an informational note.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the level name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
