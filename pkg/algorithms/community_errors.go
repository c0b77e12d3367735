package algorithms

import (
	"errors"
	"fmt"
)

// Sentinel errors for community detection
var (
	// ErrInvalidInput is returned for malformed node or edge lists
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidGraph is returned when a node has a negative degree
	ErrInvalidGraph = errors.New("invalid graph: negative node degree")
	// ErrNumericDegenerate is returned when the quality score cannot be evaluated
	ErrNumericDegenerate = errors.New("numerically degenerate state")
	// ErrMissingKey signals an inconsistent dendrogram or partition
	ErrMissingKey = errors.New("missing partition key")
)

// noLevel marks a CommunityError that is not tied to a dendrogram level
const noLevel = -1

// CommunityError provides structured error information for detection operations.
type CommunityError struct {
	Op      string // Operation that failed (e.g., "AddEdge", "Quality")
	Level   int    // Dendrogram level, or -1
	Node    string // Offending node, formatted
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *CommunityError) Error() string {
	msg := e.Op
	if e.Level >= 0 {
		msg += fmt.Sprintf(" level %d", e.Level)
	}
	if e.Node != "" {
		msg += fmt.Sprintf(" node %s", e.Node)
	}
	if e.Context != "" {
		msg += fmt.Sprintf(" (%s)", e.Context)
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CommunityError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building CommunityErrors.
type ErrorBuilder struct {
	err CommunityError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: CommunityError{Op: op, Level: noLevel}}
}

// Level sets the dendrogram level.
func (b *ErrorBuilder) Level(level int) *ErrorBuilder {
	b.err.Level = level
	return b
}

// Node records the offending node id.
func (b *ErrorBuilder) Node(node any) *ErrorBuilder {
	b.err.Node = fmt.Sprint(node)
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	e := b.err
	return &e
}

// atLevel stamps level onto err if it is a CommunityError without one.
func atLevel(err error, level int) error {
	var ce *CommunityError
	if errors.As(err, &ce) && ce.Level == noLevel {
		stamped := *ce
		stamped.Level = level
		return &stamped
	}
	return err
}

// IsDegenerate reports whether err stems from an unevaluable quality score.
func IsDegenerate(err error) bool {
	return errors.Is(err, ErrNumericDegenerate)
}
