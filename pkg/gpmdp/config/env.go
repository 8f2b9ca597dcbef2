package config

import (
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// GetEnvObject exposes the process environment as a cty object, one
// attribute per variable.
func GetEnvObject() cty.Value {
	attrs := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		attrs[envAttrName(name)] = cty.StringVal(value)
	}

	return cty.ObjectVal(attrs)
}

// envAttrName maps a variable name onto a valid HCL identifier. Invalid
// characters become underscores.
func envAttrName(name string) string {
	if name == "" {
		return "_"
	}

	return strings.Map(func() func(rune) rune {
		first := true
		return func(r rune) rune {
			valid := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			if !first {
				valid = valid || r == '-' || (r >= '0' && r <= '9')
			}
			first = false
			if !valid {
				return '_'
			}
			return r
		}
	}(), name)
}
