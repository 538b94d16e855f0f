package bsn

import (
	"errors"
	"testing"
)

func TestParseCanonicalEntity(t *testing.T) {
	src := `Div:X { hello: 123 world: { key: 49 } } [ #child Marker ]`

	scene, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	root := scene.Root
	if len(root.Configs) != 1 {
		t.Fatalf("Configs = %d; want 1", len(root.Configs))
	}

	cfg := root.Configs[0]
	if cfg.Kind != ConfigSchematic {
		t.Fatalf("Kind = %v; want ConfigSchematic", cfg.Kind)
	}

	if got := cfg.TypePath.String(); got != "Div" {
		t.Fatalf("TypePath = %q; want Div", got)
	}

	if cfg.Body.Kind != SchematicEnum {
		t.Fatalf("Body.Kind = %v; want SchematicEnum", cfg.Body.Kind)
	}

	if cfg.Body.Enum.Variant != "X" {
		t.Fatalf("Variant = %q; want X", cfg.Body.Enum.Variant)
	}

	named := cfg.Body.Enum.Body.Named
	if len(named) != 2 {
		t.Fatalf("Named fields = %d; want 2", len(named))
	}

	if named[0].Name != "hello" || string(named[0].Value.Number) != "123" {
		t.Fatalf("field[0] = %+v", named[0])
	}

	if named[1].Name != "world" || named[1].Value.Kind != ValueStruct {
		t.Fatalf("field[1] = %+v", named[1])
	}

	if len(root.Children) != 1 {
		t.Fatalf("Children = %d; want 1", len(root.Children))
	}

	child := root.Children[0]
	if child.Name == nil || *child.Name != "child" {
		t.Fatalf("child.Name = %v; want child", child.Name)
	}

	if got := child.Configs[0].TypePath.String(); got != "Marker" {
		t.Fatalf("child type = %q; want Marker", got)
	}

	if !child.Configs[0].Body.Struct.Empty() {
		t.Fatalf("Marker body should be empty")
	}
}

func TestParseEmptyMarkerBody(t *testing.T) {
	scene, err := ParseString("Marker")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	body := scene.Root.Configs[0].Body
	if body.Kind != SchematicStruct || !body.Struct.Empty() {
		t.Fatalf("Marker should parse as an empty tuple struct, got %+v", body)
	}
}

func TestParseTupleStructMissingComma(t *testing.T) {
	_, err := ParseString("Thing(1 2)")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v; want *ParseError", err)
	}

	if pe.Kind != KindTupleStructMissingComma {
		t.Fatalf("Kind = %v; want KindTupleStructMissingComma", pe.Kind)
	}
}

func TestParseInvalidFieldCharacter(t *testing.T) {
	_, err := ParseString("A { Field: 1 }")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v; want *ParseError", err)
	}

	if pe.Kind != KindInvalidFieldCharacter {
		t.Fatalf("Kind = %v; want KindInvalidFieldCharacter", pe.Kind)
	}

	if pe.Char != 'F' {
		t.Fatalf("Char = %q; want 'F'", pe.Char)
	}
}

func TestParseGenericCannotBeEnumVariant(t *testing.T) {
	_, err := ParseString("A<B>:X")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v; want *ParseError", err)
	}

	if pe.Kind != KindGenericInstancesCannotBeEnumVariants {
		t.Fatalf("Kind = %v; want KindGenericInstancesCannotBeEnumVariants", pe.Kind)
	}
}

func TestParseSceneReference(t *testing.T) {
	scene, err := ParseString(`@"scenes/enemy.bsn"`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	cfg := scene.Root.Configs[0]
	if cfg.Kind != ConfigScene {
		t.Fatalf("Kind = %v; want ConfigScene", cfg.Kind)
	}

	if string(cfg.ScenePath) != "scenes/enemy.bsn" {
		t.Fatalf("ScenePath = %q", cfg.ScenePath)
	}
}

func TestParseTupleStruct(t *testing.T) {
	scene, err := ParseString("Vec3(1, 2, 3)")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	tuple := scene.Root.Configs[0].Body.Struct.Tuple
	if len(tuple) != 3 {
		t.Fatalf("Tuple len = %d; want 3", len(tuple))
	}
}

func TestParseGenericTypePath(t *testing.T) {
	scene, err := ParseString("Handle<Mesh>(0)")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	tp := scene.Root.Configs[0].TypePath
	if tp.Generic == nil || tp.Generic.Full() != "Mesh" {
		t.Fatalf("Generic = %+v; want Mesh", tp.Generic)
	}
}

func TestParseMultipleConfigsOnOneEntity(t *testing.T) {
	scene, err := ParseString("(Transform Visibility)")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if len(scene.Root.Configs) != 2 {
		t.Fatalf("Configs = %d; want 2", len(scene.Root.Configs))
	}
}

// TestRoundTrip is property P1: parse, print, re-parse must agree.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		`Marker`,
		`Vec3(1, 2, 3)`,
		`Div:X { hello: 123 world: { key: 49 } } [ #child Marker ]`,
		`@"scenes/enemy.bsn"`,
		`(Transform Visibility)`,
	}

	for _, src := range sources {
		scene, err := ParseString(src)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", src, err)
		}

		printed := Print(scene)

		reparsed, err := ParseString(printed)
		if err != nil {
			t.Fatalf("re-parsing printed output %q: %v", printed, err)
		}

		if Print(reparsed) != printed {
			t.Fatalf("round trip unstable: %q != %q", Print(reparsed), printed)
		}
	}
}

// TestNumberIsOpaqueBytes is property P2: numeric interpretation is
// deferred; the parser only records the exact source slice.
func TestNumberIsOpaqueBytes(t *testing.T) {
	scene, err := ParseString("N(007)")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	got := string(scene.Root.Configs[0].Body.Struct.Tuple[0].Number)
	if got != "007" {
		t.Fatalf("Number = %q; want %q (no normalization)", got, "007")
	}
}

// TestStringHasNoEscapeProcessing is property P3.
func TestStringHasNoEscapeProcessing(t *testing.T) {
	scene, err := ParseString(`S("a\nb")`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	got := string(scene.Root.Configs[0].Body.Struct.Tuple[0].String)
	if got != `a\nb` {
		t.Fatalf("String = %q; want literal %q with no escape processing", got, `a\nb`)
	}
}

// TestErrorIsFatalNoPartialResult is property P4: a parse error never
// returns a partial tree alongside it.
func TestErrorIsFatalNoPartialResult(t *testing.T) {
	scene, err := ParseString("Thing(1 2)")
	if err == nil {
		t.Fatalf("expected error")
	}

	if scene != nil {
		t.Fatalf("scene = %+v; want nil alongside an error", scene)
	}
}

func TestParseErrorRendersSnippet(t *testing.T) {
	_, err := ParseString("A { Field: 1 }")

	msg := err.Error()
	if !contains(msg, "line 1") || !contains(msg, "^") {
		t.Fatalf("Error() = %q; want line/column and caret snippet", msg)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}

		return false
	})()
}
