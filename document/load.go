package document

import (
	"errors"
	"fmt"
	"os"

	schematree "github.com/reoring/schematree"
)

// Load decodes data like Decode and reports failures as Issues: a duplicate
// key becomes duplicate_key at its document path, anything else parse_error
// at name. The underlying error stays reachable through errors.As.
func Load(name string, data []byte) (any, error) {
	v, err := Decode(data)
	if err == nil {
		return v, nil
	}
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		params := map[string]any{"key": dup.Key}
		if dup.Line > 0 {
			params["line"] = dup.Line
			params["column"] = dup.Col
		}
		return nil, schematree.Issues{{Path: dup.Path, Code: schematree.CodeDuplicateKey, Message: dup.Error(), Cause: dup, Params: params}}
	}
	return nil, schematree.Issues{{Path: name, Code: schematree.CodeParseError, Message: err.Error(), Cause: err}}
}

// LoadFile reads and loads a file. Read failures are returned wrapped, not as
// Issues.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(path, data)
}
