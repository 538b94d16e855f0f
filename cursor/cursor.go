// Package cursor provides a byte-indexed UTF-8 cursor over a borrowed input
// slice, the foundation the bsn parser is built on (spec §4.1).
package cursor

import (
	"unicode/utf8"
)

// Cursor is a byte-indexed position into a borrowed input slice. All parsers
// built on top of it consume the cursor in place and, on success, leave it
// positioned at the first unconsumed byte; on failure the cursor's position
// is unspecified, since a parse error is fatal for the enclosing parse
// (spec §4.1, §4.2 "Side effects").
//
// Unlike the reference implementation this advances idx by the consumed
// rune's UTF-8 byte length rather than by one per character, so slices taken
// from src never split a multi-byte codepoint (see SPEC_FULL.md, Open
// Question 1). For ASCII input — the entire BSN token set outside of
// identifiers and string contents — this is observationally identical to
// the reference's per-character counting.
type Cursor struct {
	src []byte
	idx int
}

// New returns a Cursor positioned at the start of src. The caller must keep
// src alive for as long as any syntax node borrowed from this Cursor is in
// use.
func New(src []byte) *Cursor {
	return &Cursor{src: src}
}

// NewString is a convenience constructor for string input.
func NewString(src string) *Cursor {
	return New([]byte(src))
}

// Pos returns the current byte offset into the input.
func (c *Cursor) Pos() int { return c.idx }

// Len returns the number of unconsumed bytes remaining.
func (c *Cursor) Len() int { return len(c.src) - c.idx }

// Source returns the full input backing slice, for error snippet rendering.
func (c *Cursor) Source() []byte { return c.src }

// Slice returns the borrowed sub-slice src[from:c.idx], for capturing the
// span consumed since an earlier position.
func (c *Cursor) Slice(from int) []byte { return c.src[from:c.idx] }

// AtEOF reports whether the cursor has no remaining input.
func (c *Cursor) AtEOF() bool { return c.idx >= len(c.src) }

// Peek returns the next rune without consuming it. ok is false at EOF.
func (c *Cursor) Peek() (r rune, ok bool) {
	if c.AtEOF() {
		return 0, false
	}

	r, _ = utf8.DecodeRune(c.src[c.idx:])

	return r, true
}

// PeekIs reports whether the next rune equals r (false at EOF).
func (c *Cursor) PeekIs(r rune) bool {
	next, ok := c.Peek()

	return ok && next == r
}

// PeekAhead returns the rune n runes ahead of the current position without
// consuming anything, used by the parser's 2-character lookahead for "::".
// ok is false if fewer than n+1 runes remain.
func (c *Cursor) PeekAhead(n int) (r rune, ok bool) {
	idx := c.idx

	for range n {
		if idx >= len(c.src) {
			return 0, false
		}

		_, size := utf8.DecodeRune(c.src[idx:])
		idx += size
	}

	if idx >= len(c.src) {
		return 0, false
	}

	r, _ = utf8.DecodeRune(c.src[idx:])

	return r, true
}

// Next consumes and returns one rune, advancing idx by its UTF-8 byte
// length. ok is false at EOF and the cursor is left unchanged.
func (c *Cursor) Next() (r rune, ok bool) {
	if c.AtEOF() {
		return 0, false
	}

	r, size := utf8.DecodeRune(c.src[c.idx:])
	c.idx += size

	return r, true
}

// Advance unconditionally consumes one rune, for call sites that already
// verified (via Peek) that a rune is present.
func (c *Cursor) Advance() {
	if c.AtEOF() {
		return
	}

	_, size := utf8.DecodeRune(c.src[c.idx:])
	c.idx += size
}

// Accept consumes and returns true if the next rune equals r, otherwise
// leaves the cursor unchanged and returns false.
func (c *Cursor) Accept(r rune) bool {
	if !c.PeekIs(r) {
		return false
	}

	c.Advance()

	return true
}

// SkipWhitespace consumes runes while the next rune is ASCII whitespace
// (space, tab, newline, carriage return).
func (c *Cursor) SkipWhitespace() {
	for {
		r, ok := c.Peek()
		if !ok || !isWhitespace(r) {
			return
		}

		c.Advance()
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// IsAlpha reports whether r is an ASCII alphabetic character, the required
// first character of a BSN identifier (spec §3 "Invariants").
func IsAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsAlnum reports whether r is an ASCII alphanumeric character.
func IsAlnum(r rune) bool {
	return IsAlpha(r) || IsDigit(r)
}

// IsLowerAlnum reports whether r is an ASCII lowercase letter or digit,
// the character class allowed in BSN field names (plus '_', checked by
// the caller).
func IsLowerAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || IsDigit(r)
}
