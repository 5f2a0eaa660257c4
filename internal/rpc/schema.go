package rpc

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

var reflector = &jsonschema.Reflector{
	Anonymous:      true,
	DoNotReference: true,
	Mapper: func(t reflect.Type) *jsonschema.Schema {
		if t == decimalType {
			return &jsonschema.Schema{
				Type:    "string",
				Format:  "decimal",
				Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
			}
		}
		return nil
	},
}

// SchemaOf describes the JSON encoding of v. Top-level struct fields carry
// their validation rules under x-validate.
func SchemaOf(v any) *jsonschema.Schema {
	if v == nil {
		return nil
	}

	s := reflector.Reflect(v)
	s.Version = ""

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || s.Properties == nil {
		return s
	}

	for _, f := range reflect.VisibleFields(t) {
		rules := f.Tag.Get("validate")
		if rules == "" {
			continue
		}
		if prop, ok := s.Properties.Get(jsonName(f)); ok {
			if prop.Extras == nil {
				prop.Extras = map[string]any{}
			}
			prop.Extras["x-validate"] = rules
		}
	}
	return s
}
