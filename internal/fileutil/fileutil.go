package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile indicates a file decoded to nothing but whitespace.
var ErrEmptyFile = errors.New("file has no content")

// legacyEncodings are tried, in order, when a file is not valid UTF-8.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"latin-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// ReadTextFile reads a subtitle file, trying UTF-8 (with or without BOM)
// first and then the common legacy single-byte encodings. It returns the
// decoded content and the name of the encoding that produced it.
func ReadTextFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))) == 0 {
		return "", "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	if utf8.Valid(data) {
		if bytes.HasPrefix(data, utf8BOM) {
			return string(bytes.TrimPrefix(data, utf8BOM)), "utf-8-sig", nil
		}
		return string(data), "utf-8", nil
	}

	for _, legacy := range legacyEncodings {
		decoded, err := legacy.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), legacy.name, nil
	}
	return "", "", fmt.Errorf("decode %s: no supported encoding applies", path)
}

// WriteTextFile writes content as UTF-8, creating parent directories as
// needed. Content is fully buffered by callers, so the write replaces the
// whole file in one shot.
func WriteTextFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
