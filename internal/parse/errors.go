package parse

import "fmt"

type StructuralErrorKind string

const (
	ErrSummaryMarkerNotFound StructuralErrorKind = "summary_marker_not_found"
	ErrOrdersHeaderNotFound  StructuralErrorKind = "orders_header_not_found"
	ErrEmptyCatalog          StructuralErrorKind = "empty_catalog"
	ErrTooFewColumns         StructuralErrorKind = "too_few_columns"
)

// StructuralError is fatal for the whole sheet: the caller must not commit
// any partial output. Per-order problems are Issues instead, never errors.
type StructuralError struct {
	Kind   StructuralErrorKind
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural parse error (%s): %s", e.Kind, e.Detail)
}

func structuralErr(kind StructuralErrorKind, format string, args ...any) *StructuralError {
	return &StructuralError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
