package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gitmsg/internal/generate"
)

// JSONWriter outputs the result as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, res *generate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
