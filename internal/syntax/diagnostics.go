package syntax

import (
	"fmt"
	"strings"
)

// DiagCode is a stable diagnostic code. The code space has bands: lex (L*),
// parse (P*), semantic (S001…S008), resolve (R*), and binding (B*).
type DiagCode string

const (
	// Lex errors.
	LexUnterminatedBrace DiagCode = "L001"
	LexUnexpectedChar    DiagCode = "L002"
	LexEmptyIdentifier   DiagCode = "L003"
	LexStraySeparator    DiagCode = "L004"

	// Parse errors.
	ParseMissingClosingBrace DiagCode = "P001"
	ParseUnexpectedToken     DiagCode = "P002"
	ParseMalformedOption     DiagCode = "P003"
	ParseInvalidConstraint   DiagCode = "P004"

	// Semantic errors.
	SemDuplicateParameterNames       DiagCode = "S001"
	SemConflictingOptionalParameters DiagCode = "S002"
	SemCatchAllNotAtEnd              DiagCode = "S003"
	SemMixedCatchAllWithOptional     DiagCode = "S004"
	SemDuplicateOptionAlias          DiagCode = "S005"
	SemOptionalBeforeRequired        DiagCode = "S006"
	SemInvalidEndOfOptionsSeparator  DiagCode = "S007"
	SemOptionsAfterEndOfOptions      DiagCode = "S008"

	// Resolve errors. Position carries an argv index, not a byte offset.
	ResolveNoMatch               DiagCode = "R001"
	ResolveUnexpectedToken       DiagCode = "R002"
	ResolveRequiredOptionMissing DiagCode = "R003"
	ResolveRequiredParamMissing  DiagCode = "R004"

	// Binding errors.
	BindConversionFailed DiagCode = "B001"
	BindMissingParameter DiagCode = "B002"
)

// Kind returns the diagnostic band name used in formatted output.
func (c DiagCode) Kind() string {
	switch {
	case strings.HasPrefix(string(c), "L"):
		return "Lex"
	case strings.HasPrefix(string(c), "P"):
		return "Parse"
	case strings.HasPrefix(string(c), "S"):
		return "Semantic"
	case strings.HasPrefix(string(c), "R"):
		return "Resolve"
	case strings.HasPrefix(string(c), "B"):
		return "Binding"
	default:
		return "Unknown"
	}
}

// Diagnostic is a typed error value citing a position in the pattern source
// (lex, parse, semantic) or an argv index (resolve).
type Diagnostic struct {
	Code       DiagCode
	Message    string
	Pos        int
	Length     int
	Suggestion string
}

// Format emits the one-line diagnostic form. A suggestion, when present, is
// appended on an indented line.
func (d *Diagnostic) Format() string {
	line := fmt.Sprintf("%s Error at position %d: %s", d.Code.Kind(), d.Pos, d.Message)
	if d.Suggestion != "" {
		line += "\n    " + d.Suggestion
	}
	return line
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format() }

// DiagnosticList aggregates diagnostics from one pipeline stage.
type DiagnosticList struct {
	Diagnostics []*Diagnostic
}

// Add appends a diagnostic to the list.
func (dl *DiagnosticList) Add(d *Diagnostic) {
	dl.Diagnostics = append(dl.Diagnostics, d)
}

// HasErrors reports whether the list is non-empty.
func (dl *DiagnosticList) HasErrors() bool { return len(dl.Diagnostics) > 0 }

// Error implements the error interface, formatting all diagnostics.
func (dl *DiagnosticList) Error() string {
	if len(dl.Diagnostics) == 0 {
		return "no diagnostics"
	}
	if len(dl.Diagnostics) == 1 {
		return dl.Diagnostics[0].Format()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(dl.Diagnostics))
	for i, d := range dl.Diagnostics {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, d.Format())
	}
	return sb.String()
}

// Unwrap returns the underlying diagnostics for errors.Is/As compatibility.
func (dl *DiagnosticList) Unwrap() []error {
	errs := make([]error, len(dl.Diagnostics))
	for i, d := range dl.Diagnostics {
		errs[i] = d
	}
	return errs
}
