// Package decode implements FromBsn: conversion of a borrowed [bsn.Value]
// tree into a concrete reflect.Value of a registered Rust-like target shape
// (spec §4.3).
package decode

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// Kind discriminates the decode failure modes named in spec §4.3.
type Kind int

const (
	// KindMismatchedType is returned when a [bsn.Value]'s shape (number,
	// string, struct, enum) cannot decode into the target Go type.
	KindMismatchedType Kind = iota
	// KindUnexpectedField is returned when a named field in the BSN source
	// has no corresponding field on the target struct.
	KindUnexpectedField
	// KindMissingField names a required tuple position or named field that
	// is absent from the BSN source. No decoder in this package returns it:
	// a tuple of the wrong length is KindMismatchedType, and a named field
	// absent from the source keeps its zero value.
	KindMissingField
	// KindCustom carries an error produced by a type's own custom decode
	// hook, wrapped rather than replaced.
	KindCustom
)

// Error is returned by every function in this package. It wraps an
// optional cause and carries structured attributes for logging, following
// the same sentinel-and-wrap shape used throughout this module.
type Error struct {
	Kind  Kind
	Type  reflect.Type
	Field string
	msg   string
	err   error
}

// NewError constructs a decode [Error].
func NewError(kind Kind, typ reflect.Type, msg string) *Error {
	return &Error{Kind: kind, Type: typ, msg: msg}
}

// Wrap attaches a custom decode hook's error as the cause of a KindCustom
// error. If err already is, or wraps, an *Error, that *Error is returned
// unchanged.
func Wrap(typ reflect.Type, err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}

	return &Error{Kind: KindCustom, Type: typ, err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var typeName string

	if e.Type != nil {
		typeName = e.Type.String()
	}

	base := e.msg
	if base == "" && e.err != nil {
		base = e.err.Error()
	}

	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", typeName, e.Field, base)
	}

	return fmt.Sprintf("%s: %s", typeName, base)
}

// Unwrap supports errors.Is/As against a wrapped custom decode error.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("message", e.Error())}

	if e.Type != nil {
		attrs = append(attrs, slog.String("type", e.Type.String()))
	}

	if e.Field != "" {
		attrs = append(attrs, slog.String("field", e.Field))
	}

	return slog.GroupValue(attrs...)
}

// WithField returns a copy of e annotated with the offending field name.
func (e *Error) WithField(name string) *Error {
	e2 := *e
	e2.Field = name

	return &e2
}
