// iojson are utilities for writing JSON output from a command line
// interface perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the standard error format type that is returned when errors
// happen.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	// Use json.Marshal to properly escape strings
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError builds a single-line JSON error object. If data cannot be
// marshaled, the marshal error is reported in its place.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.Marshal(Error{Message: msg, Data: data})
	if err != nil {
		return jsonError(msg, err)
	}

	return string(bits)
}

// WriteError writes a JSON error object as one line to w.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteWith writes obj as indented JSON to w. Marshal failures are
// reported on ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.Write", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr]
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}

// LineWriter writes one compact JSON document per line.
type LineWriter struct {
	enc *json.Encoder
}

// NewLineWriter creates a LineWriter on w.
func NewLineWriter(w io.Writer) *LineWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &LineWriter{enc: enc}
}

// Write encodes obj followed by a newline.
func (lw *LineWriter) Write(obj any) error {
	return lw.enc.Encode(obj)
}
