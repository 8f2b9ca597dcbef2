package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression applied to result values in place of
// the human readable output.
type Query struct {
	source string
	code   *gojq.Code
}

// CompileQuery parses and compiles a jq expression.
func CompileQuery(source string) (*Query, error) {
	parsed, err := gojq.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query %q: %w", source, err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query %q: %w", source, err)
	}

	return &Query{source: source, code: code}, nil
}

// Run applies the query to v and writes every result as one line of
// compact JSON. Structs are converted to plain maps first.
func (q *Query) Run(w io.Writer, v any) error {
	input, err := toPlain(v)
	if err != nil {
		return err
	}

	iter := q.code.Run(input)
	for {
		result, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := result.(error); isErr {
			return fmt.Errorf("query %q failed: %w", q.source, err)
		}

		line, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode query result: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
}

// toPlain converts v to the map/slice/primitive form gojq operates on.
func toPlain(v any) (any, error) {
	switch v.(type) {
	case nil, bool, string, float64, map[string]any, []any:
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query input: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query input: %w", err)
	}
	return out, nil
}
