// Package canon serializes request bodies into the exact bytes that get signed and sent
// Output is compact JSON, keys in struct field order, HTML characters left unescaped, no trailing newline.
// Callers serialize once and reuse the bytes, re-encoding is never safe after signing.
package canon

import (
	"bytes"
	"encoding/json"

	perr "kycdesk/internal/platform/errors"
)

// Marshal returns the canonical bytes of v
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode request body")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Compact re-renders raw JSON without insignificant whitespace
// used for remote response bodies before they are stored
func Compact(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "compact json")
	}
	return buf.Bytes(), nil
}
