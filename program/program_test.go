package program

import (
	"context"
	"testing"
)

func TestCompileAndRun(t *testing.T) {
	ClearCache()

	p, err := Compile("health * 2", Env{Vars: map[string]any{"health": 0}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	result, err := p.Run(context.Background(), map[string]any{"health": 21})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result != 42 {
		t.Fatalf("result = %v; want 42", result)
	}
}

func TestCompileInvalidSource(t *testing.T) {
	ClearCache()

	_, err := Compile("health +* 2", Env{Vars: map[string]any{"health": 0}})
	if err == nil {
		t.Fatalf("expected a compile error")
	}

	pe, ok := err.(*Error)
	if !ok {
		t.Fatalf("err = %v; want *Error", err)
	}

	if pe.Kind != KindCompileFailed {
		t.Fatalf("Kind = %v; want KindCompileFailed", pe.Kind)
	}
}
