package decode

import (
	"reflect"
	"strconv"

	"github.com/ardnew/bsn/bsn"
)

// Custom is implemented by a Go type that wants to take over its own
// decoding instead of the default struct/tuple/number mapping (spec §4.3
// "a type may opt out of the default FromBsn mapping").
type Custom interface {
	FromBsnValue(v bsn.Value) error
}

// Value decodes v into a newly allocated instance of typ, returning it as a
// reflect.Value addressable and assignable to typ (spec §4.3).
func Value(v bsn.Value, typ reflect.Type) (reflect.Value, error) {
	out := reflect.New(typ)

	if err := decodeInto(v, out); err != nil {
		return reflect.Value{}, err
	}

	return out.Elem(), nil
}

// decodeInto decodes v into the value pointed to by dst (dst.Kind() ==
// reflect.Ptr).
func decodeInto(v bsn.Value, dst reflect.Value) error {
	typ := dst.Elem().Type()

	if dst.CanInterface() {
		if custom, ok := dst.Interface().(Custom); ok {
			if err := custom.FromBsnValue(v); err != nil {
				return Wrap(typ, err)
			}

			return nil
		}
	}

	elem := dst.Elem()

	switch elem.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt(v, elem, typ)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decodeUint(v, elem, typ)

	case reflect.Float32, reflect.Float64:
		return decodeFloat(v, elem, typ)

	case reflect.String:
		return decodeString(v, elem, typ)

	case reflect.Bool:
		return decodeBool(v, elem, typ)

	case reflect.Struct:
		return decodeStruct(v, elem, typ)

	case reflect.Slice:
		return decodeSlice(v, elem, typ)

	case reflect.Ptr:
		inner := reflect.New(elem.Type().Elem())

		if err := decodeInto(v, inner); err != nil {
			return err
		}

		elem.Set(inner)

		return nil

	default:
		return NewError(KindMismatchedType, typ, "unsupported decode target kind "+elem.Kind().String())
	}
}

func decodeInt(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	if v.Kind != bsn.ValueNumber {
		return NewError(KindMismatchedType, typ, "expected a number value")
	}

	n, err := strconv.ParseInt(string(v.Number), 10, elem.Type().Bits())
	if err != nil {
		return NewError(KindMismatchedType, typ, "invalid integer literal "+string(v.Number))
	}

	elem.SetInt(n)

	return nil
}

func decodeUint(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	if v.Kind != bsn.ValueNumber {
		return NewError(KindMismatchedType, typ, "expected a number value")
	}

	n, err := strconv.ParseUint(string(v.Number), 10, elem.Type().Bits())
	if err != nil {
		return NewError(KindMismatchedType, typ, "invalid unsigned integer literal "+string(v.Number))
	}

	elem.SetUint(n)

	return nil
}

func decodeFloat(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	if v.Kind != bsn.ValueNumber {
		return NewError(KindMismatchedType, typ, "expected a number value")
	}

	f, err := strconv.ParseFloat(string(v.Number), elem.Type().Bits())
	if err != nil {
		return NewError(KindMismatchedType, typ, "invalid float literal "+string(v.Number))
	}

	elem.SetFloat(f)

	return nil
}

func decodeString(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	if v.Kind != bsn.ValueString {
		return NewError(KindMismatchedType, typ, "expected a string value")
	}

	elem.SetString(string(v.String))

	return nil
}

func decodeBool(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	// Rust-style bool schematics in BSN are represented as the unit enum
	// variants `true`/`false` rather than a numeric or string literal.
	if v.Kind != bsn.ValueEnum {
		return NewError(KindMismatchedType, typ, "expected the true or false enum variant")
	}

	switch v.Enum.Variant {
	case "true":
		elem.SetBool(true)
	case "false":
		elem.SetBool(false)
	default:
		return NewError(KindMismatchedType, typ, "unrecognized boolean variant "+v.Enum.Variant)
	}

	return nil
}

// decodeSlice decodes a tuple struct's elements into a Go slice, used for
// variable-length vector-like schematics.
func decodeSlice(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	if v.Kind != bsn.ValueStruct || v.Struct.Kind != bsn.StructTuple {
		return NewError(KindMismatchedType, typ, "expected a tuple struct")
	}

	out := reflect.MakeSlice(typ, len(v.Struct.Tuple), len(v.Struct.Tuple))

	for i, item := range v.Struct.Tuple {
		itemPtr := reflect.New(typ.Elem())

		if err := decodeInto(item, itemPtr); err != nil {
			return err
		}

		out.Index(i).Set(itemPtr.Elem())
	}

	elem.Set(out)

	return nil
}

// decodeStruct decodes either a tuple struct (positional) or a named-field
// struct (field-by-field) into a Go struct. An enum value decodes into the
// struct as its variant's body, matching spec §4.3's "Rust enum FromBsn maps
// the enum's body fields onto the target struct" note.
func decodeStruct(v bsn.Value, elem reflect.Value, typ reflect.Type) error {
	var body bsn.BsnStruct

	switch v.Kind {
	case bsn.ValueStruct:
		body = *v.Struct

	case bsn.ValueEnum:
		body = v.Enum.Body

	default:
		return NewError(KindMismatchedType, typ, "expected a struct or enum value")
	}

	switch body.Kind {
	case bsn.StructTuple:
		return decodeTupleStruct(body, elem, typ)
	case bsn.StructNamed:
		return decodeNamedStruct(body, elem, typ)
	default:
		return NewError(KindMismatchedType, typ, "unrecognized struct form")
	}
}

func decodeTupleStruct(body bsn.BsnStruct, elem reflect.Value, typ reflect.Type) error {
	if body.Empty() && elem.NumField() > 0 {
		// Bare `Type` form: leave the struct at its zero value (spec §6).
		return nil
	}

	if len(body.Tuple) != elem.NumField() {
		return NewError(KindMismatchedType, typ,
			"tuple arity mismatch: have "+strconv.Itoa(len(body.Tuple))+
				", want "+strconv.Itoa(elem.NumField()))
	}

	for i, v := range body.Tuple {
		field := elem.Field(i)

		if err := decodeInto(v, field.Addr()); err != nil {
			return Wrap(typ, err).WithField(typ.Field(i).Name)
		}
	}

	return nil
}

func decodeNamedStruct(body bsn.BsnStruct, elem reflect.Value, typ reflect.Type) error {
	index := make(map[string]int, elem.NumField())

	for i := range elem.NumField() {
		index[bsnFieldName(typ.Field(i))] = i
	}

	for _, f := range body.Named {
		i, ok := index[f.Name]
		if !ok {
			return NewError(KindUnexpectedField, typ, "no such field").WithField(f.Name)
		}

		field := elem.Field(i)

		if err := decodeInto(f.Value, field.Addr()); err != nil {
			return Wrap(typ, err).WithField(f.Name)
		}
	}

	return nil
}

// Merge implements the schematic property-bag merge policy (spec §4.4
// "apply_props": composite property bags recurse per-field so that a field
// left unset in overlay does not overwrite a set field in base). A field is
// considered unset when it holds its Go zero value; a struct field recurses
// so nested property bags merge the same way. Non-struct values, and
// mismatched types, replace base outright when overlay is non-zero.
func Merge(base, overlay reflect.Value) reflect.Value {
	if base.Kind() != reflect.Struct || overlay.Kind() != reflect.Struct || base.Type() != overlay.Type() {
		if overlay.IsZero() {
			return base
		}

		return overlay
	}

	out := reflect.New(base.Type()).Elem()

	for i := range base.NumField() {
		out.Field(i).Set(Merge(base.Field(i), overlay.Field(i)))
	}

	return out
}

// bsnFieldName derives the BSN-facing field name for a Go struct field: the
// `bsn:"name"` tag if present, otherwise the field name lowercased to match
// BSN's lowercase-identifier field grammar.
func bsnFieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("bsn"); ok && tag != "" {
		return tag
	}

	return lowerFirst(f.Name)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}

	return string(b)
}
