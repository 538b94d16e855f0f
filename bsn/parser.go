package bsn

import (
	"github.com/ardnew/bsn/cursor"
)

// Parse parses a complete BSN document from src, returning the borrowed
// [Scene] tree on success. src must remain alive for as long as the
// returned tree (spec §4.2 "Scene ← whitespace Entity whitespace EOF").
func Parse(src []byte) (*Scene, error) {
	p := &parser{cur: cursor.New(src), src: src}

	p.cur.SkipWhitespace()

	root, err := p.parseEntity()
	if err != nil {
		return nil, p.wrap(err)
	}

	p.cur.SkipWhitespace()

	if !p.cur.AtEOF() {
		r, _ := p.cur.Peek()

		return nil, p.wrap(NewParseError(KindUnexpectedChar, p.cur.Pos()).WithChar(r))
	}

	return &Scene{Root: root}, nil
}

// ParseString is a convenience wrapper around [Parse] for string input.
func ParseString(src string) (*Scene, error) {
	return Parse([]byte(src))
}

type parser struct {
	cur *cursor.Cursor
	src []byte
}

// wrap attaches the original source to a *ParseError for snippet rendering,
// matching the teacher's pattern of deferring context formatting until the
// error is actually rendered.
func (p *parser) wrap(err error) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Source = string(p.src)

		return pe
	}

	return err
}

// parseEntity implements:
//
//	Entity ← ('#' Ident)? ( '(' Config* ')' | Config ) ( '[' Entity* ']' )?
func (p *parser) parseEntity() (*Entity, error) {
	e := &Entity{}

	if p.cur.Accept('#') {
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		e.Name = &name

		p.cur.SkipWhitespace()
	}

	if p.cur.Accept('(') {
		p.cur.SkipWhitespace()

		for !p.cur.PeekIs(')') {
			if p.cur.AtEOF() {
				return nil, NewParseError(KindUnexpectedEOF, p.cur.Pos())
			}

			cfg, err := p.parseConfig()
			if err != nil {
				return nil, err
			}

			e.Configs = append(e.Configs, cfg)

			p.cur.SkipWhitespace()
		}

		p.cur.Advance() // ')'
	} else {
		cfg, err := p.parseConfig()
		if err != nil {
			return nil, err
		}

		e.Configs = append(e.Configs, cfg)
	}

	p.cur.SkipWhitespace()

	if p.cur.Accept('[') {
		p.cur.SkipWhitespace()

		for !p.cur.PeekIs(']') {
			if p.cur.AtEOF() {
				return nil, NewParseError(KindUnexpectedEOF, p.cur.Pos())
			}

			child, err := p.parseEntity()
			if err != nil {
				return nil, err
			}

			e.Children = append(e.Children, child)

			p.cur.SkipWhitespace()
		}

		p.cur.Advance() // ']'
	}

	return e, nil
}

// parseConfig implements:
//
//	Config ← '@' String | TypePath whitespace ( Enum | Struct | ε )
func (p *parser) parseConfig() (EntityConfig, error) {
	if p.cur.Accept('@') {
		str, err := p.parseRawString()
		if err != nil {
			return EntityConfig{}, err
		}

		return EntityConfig{Kind: ConfigScene, ScenePath: str}, nil
	}

	tp, err := p.parseTypePath()
	if err != nil {
		return EntityConfig{}, err
	}

	p.cur.SkipWhitespace()

	body, err := p.parseSchematicType(tp)
	if err != nil {
		return EntityConfig{}, err
	}

	return EntityConfig{Kind: ConfigSchematic, TypePath: tp, Body: body}, nil
}

// parseSchematicType dispatches on the type path's enum-variant marker and
// the next character to select struct, enum, or the bare-empty-tuple form.
func (p *parser) parseSchematicType(tp *TypePath) (*SchematicType, error) {
	if tp.IsEnumVariantNext {
		variant, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		p.cur.SkipWhitespace()

		body, err := p.parseStructBody()
		if err != nil {
			return nil, err
		}

		return &SchematicType{
			Kind: SchematicEnum,
			Enum: &BsnEnum{Variant: variant, Body: *body},
		}, nil
	}

	body, err := p.parseStructBody()
	if err != nil {
		return nil, err
	}

	return &SchematicType{Kind: SchematicStruct, Struct: body}, nil
}

// parseStructBody implements:
//
//	Struct ← '{' Field* '}' | '(' ( Value ( ',' Value )* )? ')' | ε
//
// The ε alternative is the bare `Type` form (an empty tuple struct).
func (p *parser) parseStructBody() (*BsnStruct, error) {
	switch {
	case p.cur.PeekIs('{'):
		p.cur.Advance()
		p.cur.SkipWhitespace()

		var fields []Field

		for !p.cur.PeekIs('}') {
			if p.cur.AtEOF() {
				return nil, NewParseError(KindUnexpectedEOF, p.cur.Pos())
			}

			f, err := p.parseField()
			if err != nil {
				return nil, err
			}

			fields = append(fields, f)

			p.cur.SkipWhitespace()
		}

		p.cur.Advance() // '}'

		return &BsnStruct{Kind: StructNamed, Named: fields}, nil

	case p.cur.PeekIs('('):
		p.cur.Advance()
		p.cur.SkipWhitespace()

		var values []Value

		first := true

		for !p.cur.PeekIs(')') {
			if p.cur.AtEOF() {
				return nil, NewParseError(KindUnexpectedEOF, p.cur.Pos())
			}

			if !first {
				if !p.cur.Accept(',') {
					r, _ := p.cur.Peek()

					return nil, NewParseError(KindTupleStructMissingComma, p.cur.Pos()).WithChar(r)
				}

				p.cur.SkipWhitespace()
			}

			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}

			values = append(values, v)
			first = false

			p.cur.SkipWhitespace()
		}

		p.cur.Advance() // ')'

		return &BsnStruct{Kind: StructTuple, Tuple: values}, nil

	default:
		// Bare Type: an empty tuple struct (spec §6).
		return &BsnStruct{Kind: StructTuple}, nil
	}
}

// parseValue implements:
//
//	Value ← Number | String | Struct | Enum
func (p *parser) parseValue() (Value, error) {
	r, ok := p.cur.Peek()
	if !ok {
		return Value{}, NewParseError(KindUnexpectedEOF, p.cur.Pos())
	}

	switch {
	case r == '"':
		s, err := p.parseRawString()
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: ValueString, String: s}, nil

	case cursor.IsDigit(r):
		n, err := p.parseNumber()
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: ValueNumber, Number: n}, nil

	case r == '{' || r == '(':
		st, err := p.parseStructBody()
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: ValueStruct, Struct: st}, nil

	case cursor.IsAlpha(r):
		variant, err := p.parseIdent()
		if err != nil {
			return Value{}, err
		}

		p.cur.SkipWhitespace()

		body, err := p.parseStructBody()
		if err != nil {
			return Value{}, err
		}

		return Value{Kind: ValueEnum, Enum: &BsnEnum{Variant: variant, Body: *body}}, nil

	default:
		return Value{}, NewParseError(KindInvalidValueCharacter, p.cur.Pos()).WithChar(r)
	}
}

// parseField implements:
//
//	Field ← lowercase-ident ( '_' | lowercase-alnum )* ':' whitespace Value
func (p *parser) parseField() (Field, error) {
	start := p.cur.Pos()

	r, ok := p.cur.Peek()
	if !ok {
		return Field{}, NewParseError(KindUnexpectedEOF, p.cur.Pos())
	}

	if !cursor.IsLowerAlnum(r) || cursor.IsDigit(r) {
		return Field{}, NewParseError(KindInvalidFieldCharacter, p.cur.Pos()).WithChar(r)
	}

	p.cur.Advance()

	for {
		r, ok := p.cur.Peek()
		if !ok {
			break
		}

		if r == '_' || cursor.IsLowerAlnum(r) {
			p.cur.Advance()

			continue
		}

		if r == ':' {
			break
		}

		return Field{}, NewParseError(KindInvalidFieldCharacter, p.cur.Pos()).WithChar(r)
	}

	name := string(p.cur.Slice(start))

	if !p.cur.Accept(':') {
		r, _ := p.cur.Peek()

		return Field{}, NewParseError(KindExpectedOpeningChar, p.cur.Pos()).WithChar(r)
	}

	p.cur.SkipWhitespace()

	v, err := p.parseValue()
	if err != nil {
		return Field{}, err
	}

	return Field{Name: name, Value: v}, nil
}

// parseNumber implements:
//
//	Number ← digit+
func (p *parser) parseNumber() ([]byte, error) {
	start := p.cur.Pos()

	count := 0

	for {
		r, ok := p.cur.Peek()
		if !ok || !cursor.IsDigit(r) {
			break
		}

		p.cur.Advance()
		count++
	}

	if count == 0 {
		r, ok := p.cur.Peek()
		if !ok {
			return nil, NewParseError(KindUnexpectedEOF, p.cur.Pos())
		}

		return nil, NewParseError(KindInvalidIntCharacter, p.cur.Pos()).WithChar(r)
	}

	return p.cur.Slice(start), nil
}

// parseRawString implements:
//
//	String ← '"' (¬'"')* '"'
//
// No escape processing occurs; the returned slice is the exact borrowed
// content between the delimiting quotes (spec P3).
func (p *parser) parseRawString() ([]byte, error) {
	if !p.cur.Accept('"') {
		r, _ := p.cur.Peek()

		return nil, NewParseError(KindExpectedOpeningChar, p.cur.Pos()).WithChar(r)
	}

	start := p.cur.Pos()

	for {
		r, ok := p.cur.Peek()
		if !ok {
			return nil, NewParseError(KindUnexpectedEOF, p.cur.Pos())
		}

		if r == '"' {
			break
		}

		p.cur.Advance()
	}

	content := p.cur.Slice(start)
	p.cur.Advance() // closing '"'

	return content, nil
}

// parseIdent consumes a bare identifier: alphabetic first character,
// alphanumeric thereafter (spec §3 "Invariants").
func (p *parser) parseIdent() (string, error) {
	start := p.cur.Pos()

	r, ok := p.cur.Peek()
	if !ok {
		return "", NewParseError(KindUnexpectedEOF, p.cur.Pos())
	}

	if !cursor.IsAlpha(r) {
		return "", NewParseError(KindFirstCharacterInTypeNameMustBeAlphabetic, p.cur.Pos()).WithChar(r)
	}

	p.cur.Advance()

	for {
		r, ok := p.cur.Peek()
		if !ok || !cursor.IsAlnum(r) {
			break
		}

		p.cur.Advance()
	}

	return string(p.cur.Slice(start)), nil
}

// parseTypePath implements:
//
//	TypePath ← Ident ( '::' Ident )* ( '<' TypePath '>' )? (':' ⇒ enum_variant_next)?
func (p *parser) parseTypePath() (*TypePath, error) {
	first, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	tp := &TypePath{Segments: []string{first}}

	for {
		r1, ok1 := p.cur.Peek()
		r2, ok2 := p.cur.PeekAhead(1)

		if !ok1 || !ok2 || r1 != ':' || r2 != ':' {
			break
		}

		p.cur.Advance()
		p.cur.Advance()

		seg, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		tp.Segments = append(tp.Segments, seg)
	}

	if p.cur.Accept('<') {
		inner, err := p.parseTypePath()
		if err != nil {
			return nil, err
		}

		if !p.cur.Accept('>') {
			r, _ := p.cur.Peek()

			return nil, NewParseError(KindExpectedClosingChar, p.cur.Pos()).WithChar(r)
		}

		tp.Generic = inner
	}

	if p.cur.PeekIs(':') {
		r2, ok2 := p.cur.PeekAhead(1)
		if !ok2 || r2 != ':' {
			// Single ':' is the enum-variant marker, not a path separator.
			p.cur.Advance()

			if tp.Generic != nil {
				return nil, NewParseError(KindGenericInstancesCannotBeEnumVariants, p.cur.Pos())
			}

			tp.IsEnumVariantNext = true
		}
	}

	return tp, nil
}
