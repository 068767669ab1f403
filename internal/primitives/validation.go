package primitives

import (
	"errors"
	"fmt"
)

// Issue is one path-tagged validation failure.
type Issue struct {
	Path    Path   `json:"path" yaml:"path"`
	Message string `json:"error" yaml:"error"`
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError is an ordered list of issues. Validators return it to
// report field-specific failures.
type ValidationError struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// NewValidationError builds a ValidationError from issues.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// Add appends an issue at path.
func (e *ValidationError) Add(path Path, msg string) {
	e.Issues = append(e.Issues, Issue{Path: path, Message: msg})
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "validation failed"
	case 1:
		return e.Issues[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", e.Issues[0], len(e.Issues)-1)
	}
}

// Tree converts the issues into the nested error tree. An empty path sets
// the root message; a message and deeper issues at the same path coexist.
func (e *ValidationError) Tree() *ErrorNode {
	root := &ErrorNode{}
	if e == nil {
		return root
	}
	for _, is := range e.Issues {
		root = root.With(is.Path, is.Message)
	}
	return root
}

// ValidationErrorFromTree is the inverse of Tree, modulo ordering.
func ValidationErrorFromTree(n *ErrorNode) *ValidationError {
	return &ValidationError{Issues: n.Issues()}
}

// AsValidationError extracts a *ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrorTree converts any validator or submit error into state. Structured
// errors become their tree; anything else becomes a form-level message.
func ErrorTree(err error) *ErrorNode {
	if err == nil {
		return nil
	}
	if ve, ok := AsValidationError(err); ok {
		return ve.Tree()
	}
	return &ErrorNode{Message: err.Error()}
}
