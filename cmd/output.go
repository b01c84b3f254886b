package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var outputJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// readInput reads the named file, or stdin when the name is empty or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// envelope assembles {"_meta": {...}, <field>: payload}.
type envelope struct {
	doc []byte
	err error
}

func newEnvelope() *envelope {
	e := &envelope{doc: []byte(`{}`)}
	e.meta("version", Version)
	e.meta("generated_at", time.Now().UTC().Format(time.RFC3339))
	return e
}

func (e *envelope) meta(path string, value interface{}) *envelope {
	if e.err != nil {
		return e
	}
	e.doc, e.err = sjson.SetBytes(e.doc, "_meta."+path, value)
	return e
}

// payload marshals value under field.
func (e *envelope) payload(field string, value interface{}) *envelope {
	if e.err != nil {
		return e
	}
	raw, err := outputJSON.Marshal(value)
	if err != nil {
		e.err = fmt.Errorf("failed to encode %s: %w", field, err)
		return e
	}
	e.doc, e.err = sjson.SetRawBytes(e.doc, field, raw)
	return e
}

func (e *envelope) write(w io.Writer, indent bool) error {
	if e.err != nil {
		return e.err
	}
	out := e.doc
	if indent {
		out = pretty.Pretty(out)
	} else {
		out = append(out, '\n')
	}
	_, err := w.Write(out)
	return err
}
