package bsn

import "strings"

// Print renders a [Scene] back to BSN text. Re-parsing the result with
// [Parse] must reproduce a tree equal in structure and content to the
// original (spec P1, the round-trip property); whitespace and field order
// are not guaranteed to match the original source byte-for-byte.
func Print(s *Scene) string {
	var b strings.Builder

	printEntity(&b, s.Root)

	return b.String()
}

func printEntity(b *strings.Builder, e *Entity) {
	if e.Name != nil {
		b.WriteByte('#')
		b.WriteString(*e.Name)
		b.WriteByte(' ')
	}

	switch len(e.Configs) {
	case 1:
		printConfig(b, e.Configs[0])
	default:
		b.WriteByte('(')

		for i, cfg := range e.Configs {
			if i > 0 {
				b.WriteByte(' ')
			}

			printConfig(b, cfg)
		}

		b.WriteByte(')')
	}

	if len(e.Children) > 0 {
		b.WriteString(" [")

		for i, c := range e.Children {
			if i > 0 {
				b.WriteByte(' ')
			}

			printEntity(b, c)
		}

		b.WriteByte(']')
	}
}

func printConfig(b *strings.Builder, c EntityConfig) {
	if c.Kind == ConfigScene {
		b.WriteByte('@')
		b.WriteByte('"')
		b.Write(c.ScenePath)
		b.WriteByte('"')

		return
	}

	b.WriteString(c.TypePath.String())

	if c.Body == nil {
		return
	}

	if c.Body.Kind == SchematicEnum {
		b.WriteByte(':')
		b.WriteString(c.Body.Enum.Variant)
		printStruct(b, &c.Body.Enum.Body)

		return
	}

	printStruct(b, c.Body.Struct)
}

func printStruct(b *strings.Builder, s *BsnStruct) {
	if s == nil || s.Empty() {
		if s != nil && s.Kind == StructNamed {
			b.WriteString("{}")

			return
		}

		b.WriteString("()")

		return
	}

	switch s.Kind {
	case StructTuple:
		b.WriteByte('(')

		for i, v := range s.Tuple {
			if i > 0 {
				b.WriteString(", ")
			}

			printValue(b, v)
		}

		b.WriteByte(')')

	case StructNamed:
		b.WriteString(" {")

		for i, f := range s.Named {
			if i > 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(' ')
			}

			b.WriteString(f.Name)
			b.WriteString(": ")
			printValue(b, f.Value)
		}

		b.WriteString(" }")
	}
}

func printValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case ValueNumber:
		b.Write(v.Number)

	case ValueString:
		b.WriteByte('"')
		b.Write(v.String)
		b.WriteByte('"')

	case ValueStruct:
		printStruct(b, v.Struct)

	case ValueEnum:
		b.WriteString(v.Enum.Variant)
		body := v.Enum.Body
		printStruct(b, &body)
	}
}
