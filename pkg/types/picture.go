package types

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EncodePicture reads an image file and returns it as a self-contained
// data URI (data:image/<ext>;base64,<payload>), the form stored in
// Horse.Picture.
func EncodePicture(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading picture %s: %w", path, err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", fmt.Errorf("picture %s has no file extension", path)
	}
	return "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
