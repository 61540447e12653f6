package extract

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"golang.org/x/net/html/charset"
)

var xmlEncRe = regexp.MustCompile(`(?i)<\?xml[^>]*encoding\s*=\s*["']([^"']+)["']`)

// decodeMarkup converts raw markup bytes to UTF-8, honoring the encoding
// declared in the XML prolog. The DoD exports frequently declare
// windows-1252; regex scanning over raw bytes would mangle those.
func decodeMarkup(data []byte) (string, error) {
	m := xmlEncRe.FindSubmatch(data)
	if m == nil {
		return string(data), nil
	}
	label := string(m[1])
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("charset %q: %w", label, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", label, err)
	}
	return string(decoded), nil
}
