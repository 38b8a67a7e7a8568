package parser

import (
	"fmt"

	"github.com/milkydeferwm/pagelistbot/ast"
)

// ErrorKind classifies why a query failed to parse.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	UnterminatedString
	UnknownIdentifier
	BadNumber
	TrailingInput
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnterminatedString:
		return "UnterminatedString"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case BadNumber:
		return "BadNumber"
	case TrailingInput:
		return "TrailingInput"
	default:
		return "Unknown"
	}
}

// SyntaxError is returned synchronously, before any stream is produced.
// No partial parses are returned: a caller's only recourse is to reject
// the whole query.
type SyntaxError struct {
	Kind    ErrorKind
	Span    ast.Span
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error (%v) at [%d,%d): %v", e.Kind, e.Span.Begin, e.Span.End, e.Message)
}
