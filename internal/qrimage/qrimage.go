// Package qrimage turns a base64-encoded PNG payload into a file on disk
// that the mail helper can attach by path.
package qrimage

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinSentinel in the payload argument position means the payload is read
// from standard input instead.
const StdinSentinel = "-"

const dataURIPrefix = "data:image/png;base64,"

// ReadPayload resolves the payload argument: the sentinel reads the whole
// of stdin and trims surrounding whitespace, anything else is returned
// as-is.
func ReadPayload(argument string, stdin io.Reader) (string, error) {
	if argument != StdinSentinel {
		return argument, nil
	}
	rawBytes, readErr := io.ReadAll(stdin)
	if readErr != nil {
		return "", fmt.Errorf("read payload from stdin: %w", readErr)
	}
	return strings.TrimSpace(string(rawBytes)), nil
}

// Normalize strips the optional data URI prefix, leaving raw base64 text.
func Normalize(payload string) string {
	return strings.TrimPrefix(payload, dataURIPrefix)
}

// Decode base64-decodes a normalized payload into image bytes.
func Decode(encoded string) ([]byte, error) {
	imageBytes, decodeErr := base64.StdEncoding.DecodeString(encoded)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", decodeErr)
	}
	return imageBytes, nil
}

// Save writes the decoded image to path, truncating any prior content.
// The bytes are written verbatim; no PNG validation is performed.
func Save(path string, imageBytes []byte) error {
	if writeErr := os.WriteFile(path, imageBytes, 0o600); writeErr != nil {
		return fmt.Errorf("write image to %s: %w", path, writeErr)
	}
	return nil
}
