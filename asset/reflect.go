package asset

import "reflect"

// reflectTypeName returns the fully-qualified Go type name of v, used as
// the component-slot key in [MemoryEntityStore].
func reflectTypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
