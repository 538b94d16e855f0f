// Package bsn implements the zero-copy, single-pass recursive-descent
// parser for the BSN scene language (spec §3, §4.2, §6) and the borrowed
// syntax tree it produces.
//
// Every node in the tree returned by [Parse] borrows byte slices from the
// input passed to it; the caller must keep that input alive for as long as
// the tree (or anything built from it, such as a resolved scene's entity
// names) is in use.
package bsn

// Scene is the root of a parsed BSN document (spec §3 "Scene").
type Scene struct {
	Root *Entity
}

// Entity is a single node of the parsed entity tree (spec §3 "Entity").
// Name is nil when the entity carries no "#Name" prefix.
type Entity struct {
	Name     *string
	Configs  []EntityConfig
	Children []*Entity
}

// ConfigKind discriminates the two forms an [EntityConfig] can take.
type ConfigKind int

const (
	// ConfigSchematic is a `TypePath Body` config attaching a component.
	ConfigSchematic ConfigKind = iota
	// ConfigScene is an `@"path"` sub-scene reference.
	ConfigScene
)

// EntityConfig is one config attached to an entity: either a schematic
// declaration or a sub-scene reference (spec §3 "EntityConfig").
type EntityConfig struct {
	Kind ConfigKind

	// Set when Kind == ConfigSchematic.
	TypePath *TypePath
	Body     *SchematicType

	// Set when Kind == ConfigScene. ScenePath is the exact borrowed content
	// between the delimiting quotes, with no escape processing (spec §3
	// "Invariants").
	ScenePath []byte
}

// SchematicKind discriminates a [SchematicType]'s two forms.
type SchematicKind int

const (
	// SchematicStruct is a plain struct body (tuple or named fields).
	SchematicStruct SchematicKind = iota
	// SchematicEnum is an enum variant body (`Type:Variant ...`).
	SchematicEnum
)

// SchematicType is the body attached to a schematic config
// (spec §3 "SchematicType").
type SchematicType struct {
	Kind   SchematicKind
	Struct *BsnStruct
	Enum   *BsnEnum
}

// StructKind discriminates a [BsnStruct]'s two forms.
type StructKind int

const (
	// StructTuple is a parenthesized, comma-separated value list.
	StructTuple StructKind = iota
	// StructNamed is a brace-delimited, whitespace-separated field list.
	StructNamed
)

// BsnStruct is either a tuple struct or a named-field struct
// (spec §3 "BsnStruct").
type BsnStruct struct {
	Kind  StructKind
	Tuple []Value
	Named []Field
}

// Empty reports whether the struct carries no values (the `Type` bare form,
// spec §6 "a bare Type denotes an empty tuple struct").
func (s *BsnStruct) Empty() bool {
	if s == nil {
		return true
	}

	switch s.Kind {
	case StructTuple:
		return len(s.Tuple) == 0
	case StructNamed:
		return len(s.Named) == 0
	default:
		return true
	}
}

// Field is one `name: value` pair of a named-field struct (spec §3 "Field").
// Name is validated at parse time to be lowercase alphanumerics plus '_'.
type Field struct {
	Name  string
	Value Value
}

// BsnEnum is an enum variant with its own struct body
// (spec §3 "BsnEnum").
type BsnEnum struct {
	Variant string
	Body    BsnStruct
}

// ValueKind discriminates a [Value]'s four forms.
type ValueKind int

const (
	// ValueStruct is a nested struct value.
	ValueStruct ValueKind = iota
	// ValueEnum is a nested enum value.
	ValueEnum
	// ValueNumber is a borrowed slice of ASCII digits.
	ValueNumber
	// ValueString is a borrowed slice of the exact string content.
	ValueString
)

// Value is any value appearing as a tuple element or named-field value
// (spec §3 "Value"). Exactly one of Struct/Enum/Number/String is set,
// selected by Kind — the same discriminated-union idiom the teacher's own
// AST uses for its Value type.
type Value struct {
	Kind   ValueKind
	Struct *BsnStruct
	Enum   *BsnEnum
	// Number is the exact source slice of the digits that produced it
	// (spec P2); numeric interpretation is deferred to package decode.
	Number []byte
	// String is the exact source slice between the delimiting quotes, with
	// no escape processing (spec P3).
	String []byte
}

// TypePath is a dotted identifier path, optionally carrying one generic
// argument and/or an enum-variant marker (spec §3 "Invariants").
//
//	Foo::Bar<Baz::Qux>:Variant
//	└─ Segments = [Foo Bar]   Generic.Segments = [Baz Qux]   IsEnumVariantNext
type TypePath struct {
	Segments []string
	// Generic is non-nil when the path carries a single `<TypePath>` group.
	// By the Generics-cannot-be-enum-variants rule, Generic != nil implies
	// IsEnumVariantNext == false.
	Generic *TypePath
	// IsEnumVariantNext is set when the path is suffixed by `:`, meaning the
	// following schematic body must be parsed as an enum (spec §4.2 Config).
	IsEnumVariantNext bool
}

// Full joins Segments with "::", the fully-qualified form used as the
// registry's primary lookup key (spec §4.4).
func (p *TypePath) Full() string {
	out := p.Segments[0]
	for _, seg := range p.Segments[1:] {
		out += "::" + seg
	}

	return out
}

// Short returns the last path segment, the registry's secondary lookup key
// (spec §4.4 "try full, then short").
func (p *TypePath) Short() string {
	return p.Segments[len(p.Segments)-1]
}

// String renders the path including any generic argument, for error
// messages and the round-trip pretty printer.
func (p *TypePath) String() string {
	s := p.Full()
	if p.Generic != nil {
		s += "<" + p.Generic.String() + ">"
	}

	return s
}
