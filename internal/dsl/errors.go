package dsl

import "fmt"

// SyntaxError wraps a participle parse failure for the debug grammar.
type SyntaxError struct {
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("debug command syntax error: %v", e.Message)
}
