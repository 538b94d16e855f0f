package bsn

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// ErrorKind distinguishes the parse failure kinds enumerated in spec §4.2.
type ErrorKind int

const (
	KindUnexpectedEOF ErrorKind = iota
	KindUnexpectedChar
	KindExpectedOpeningChar
	KindExpectedClosingChar
	KindFirstCharacterInTypeNameMustBeAlphabetic
	KindInvalidFieldCharacter
	KindInvalidIntCharacter
	KindInvalidValueCharacter
	KindInvalidStructCharacter
	KindGenericInstancesCannotBeEnumVariants
	KindTupleStructMissingComma
)

// String returns the taxonomy name used in error messages and tests.
func (k ErrorKind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "UnexpectedEOF"
	case KindUnexpectedChar:
		return "UnexpectedChar"
	case KindExpectedOpeningChar:
		return "ExpectedOpeningChar"
	case KindExpectedClosingChar:
		return "ExpectedClosingChar"
	case KindFirstCharacterInTypeNameMustBeAlphabetic:
		return "FirstCharacterInTypeNameMustBeAlphabetic"
	case KindInvalidFieldCharacter:
		return "InvalidFieldCharacter"
	case KindInvalidIntCharacter:
		return "InvalidIntCharacter"
	case KindInvalidValueCharacter:
		return "InvalidValueCharacter"
	case KindInvalidStructCharacter:
		return "InvalidStructCharacter"
	case KindGenericInstancesCannotBeEnumVariants:
		return "GenericInstancesCannotBeEnumVariants"
	case KindTupleStructMissingComma:
		return "TupleStructMissingComma"
	default:
		return "Unknown"
	}
}

// ParseError is the single error type returned by [Parse]. It carries the
// offending kind, the byte offset into the source, and — when applicable —
// the offending character, matching spec §4.2 "each carries the offending
// character when applicable". All parse errors are fatal for the enclosing
// parse; there is no partial result.
type ParseError struct {
	Kind ErrorKind
	// Offset is the byte position the error was detected at.
	Offset int
	// Char is the offending rune, or 0 if the kind carries none (e.g. EOF).
	Char rune
	// Source is attached by [Parse] once available, for
	// rendering a line/column-annotated snippet.
	Source string
}

// NewParseError constructs a ParseError with no offending character.
func NewParseError(kind ErrorKind, offset int) *ParseError {
	return &ParseError{Kind: kind, Offset: offset}
}

// WithChar attaches the offending character to the error.
func (e *ParseError) WithChar(r rune) *ParseError {
	e2 := *e
	e2.Char = r

	return &e2
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	line, col := lineCol(e.Source, e.Offset)

	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.Char != 0 {
		b.WriteString(": ")
		b.WriteString(strconv.QuoteRune(e.Char))
	}

	b.WriteString(" at line ")
	b.WriteString(strconv.Itoa(line))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(col))

	if snippet := renderSnippet(e.Source, line, col); snippet != "" {
		b.WriteString(":\n")
		b.WriteString(snippet)
	}

	return b.String()
}

// LogValue implements slog.LogValuer for structured error logging, in the
// style of the teacher's lang.Error.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Int("offset", e.Offset),
	}

	if e.Char != 0 {
		attrs = append(attrs, slog.String("char", string(e.Char)))
	}

	return slog.GroupValue(attrs...)
}

// Is supports errors.Is comparisons against a bare ErrorKind wrapped as an
// error via [KindError], so callers can write:
//
//	errors.Is(err, bsn.KindError(bsn.KindTupleStructMissingComma))
func (e *ParseError) Is(target error) bool {
	var ke kindError
	if errors.As(target, &ke) {
		return e.Kind == ErrorKind(ke)
	}

	return false
}

type kindError ErrorKind

func (k kindError) Error() string { return ErrorKind(k).String() }

// KindError wraps an ErrorKind as an error value usable with errors.Is
// against any ParseError of that kind.
func KindError(k ErrorKind) error { return kindError(k) }

func lineCol(source string, offset int) (line, col int) {
	line, col = 1, 1

	for i, r := range source {
		if i >= offset {
			break
		}

		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}

func renderSnippet(source string, line, col int) string {
	if source == "" {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}

	var b strings.Builder

	lineText := lines[line-1]
	lineNum := strconv.Itoa(line)

	b.WriteString("  ")
	b.WriteString(lineNum)
	b.WriteString(" | ")
	b.WriteString(lineText)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(lineNum)+5))

	if col > 0 {
		b.WriteString(strings.Repeat(" ", col-1))
	}

	b.WriteString("^")

	return b.String()
}
