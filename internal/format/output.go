// Package format renders command output payloads.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write renders v as a JSON envelope to w. Pretty selects indented output
// for humans; the compact form is for piping.
func Write(w io.Writer, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
