// Package backup converts the horse collection to and from the portable
// JSON backup document and moves those documents through a share target.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// FilePrefix and FileExt frame the dated backup file name.
const (
	FilePrefix = "haras_backup_"
	FileExt    = ".json"
)

// Export serializes horses as a JSON array indented with two spaces.
// Pictures are embedded verbatim. An empty collection exports as [].
func Export(horses []types.Horse) ([]byte, error) {
	if horses == nil {
		horses = []types.Horse{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(horses); err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ValidateImportDocument parses an import document. It only checks that the
// document is a JSON array whose first element, if any, carries a non-empty
// id; later elements and other fields are trusted as-is.
func ValidateImportDocument(data []byte) ([]types.Horse, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidJSON, err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: document is not an array", types.ErrInvalidSchema)
	}
	if len(items) > 0 {
		first, ok := items[0].(map[string]any)
		if !ok || !truthy(first["id"]) {
			return nil, fmt.Errorf("%w: first record has no id", types.ErrInvalidSchema)
		}
	}

	horses := []types.Horse{}
	if err := json.Unmarshal(data, &horses); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidSchema, err)
	}
	return horses, nil
}

// FileName returns haras_backup_<YYYY-MM-DD>.json for the UTC date of now.
func FileName(now time.Time) string {
	return FilePrefix + now.UTC().Format("2006-01-02") + FileExt
}

// truthy mirrors the loose truthiness backup files were written against:
// null, false, 0 and "" are false, everything else is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
