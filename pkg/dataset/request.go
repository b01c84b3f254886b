package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

//go:embed request.schema.json
var requestSchemaJSON string

const requestSchemaURL = "prism://request.schema.json"

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the wire form of one transform call.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Dataset json.RawMessage `json:"dataset"`
	Options RequestOptions  `json:"options"`
}

// RequestOptions mirrors Options with string expressions and match mode.
// Expressions are "{{path}}" templates.
type RequestOptions struct {
	DataField         string `json:"datafield,omitempty"`
	DisplayField      string `json:"displayfield,omitempty"`
	DisplayLabel      string `json:"displaylabel,omitempty"`
	DisplayExpression string `json:"displayexpression,omitempty"`
	ImageExpression   string `json:"imageexpression,omitempty"`
	ImageField        string `json:"imagefield,omitempty"`
	OrderBy           string `json:"orderby,omitempty"`
	GroupBy           string `json:"groupby,omitempty"`
	DataPath          string `json:"dataPath,omitempty"`
	ItemChildren      string `json:"itemchildren,omitempty"`
	Match             string `json:"match,omitempty"`
	DateFormat        string `json:"dateformat,omitempty"`
	AllowEmpty        bool   `json:"allowEmpty,omitempty"`
	Offset            int    `json:"offset,omitempty"`
}

// ToOptions converts wire options into pipeline options.
func (o RequestOptions) ToOptions() (Options, error) {
	match, err := ParseMatchMode(o.Match)
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		DataField:    o.DataField,
		DisplayField: o.DisplayField,
		DisplayLabel: o.DisplayLabel,
		ImageField:   o.ImageField,
		OrderBy:      o.OrderBy,
		GroupBy:      o.GroupBy,
		DataPath:     o.DataPath,
		Match:        match,
		DateFormat:   o.DateFormat,
		AllowEmpty:   o.AllowEmpty,
		Offset:       o.Offset,
	}
	if o.DisplayExpression != "" {
		opts.DisplayExpression = TemplateExpression(o.DisplayExpression)
	}
	if o.ImageExpression != "" {
		opts.ImageExpression = TemplateExpression(o.ImageExpression)
	}
	if o.ItemChildren != "" {
		opts.Children = ChildrenField(o.ItemChildren)
	}
	return opts, opts.Validate()
}

// data returns the dataset for the pipeline; null and missing are nil.
func (r Request) data() interface{} {
	raw := bytes.TrimSpace(r.Dataset)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.RawMessage(raw)
}

// Response is the wire form of one transform result.
type Response struct {
	ID     string  `json:"id"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
	Code   string  `json:"code,omitempty"`
	Cached bool    `json:"cached,omitempty"`
}

var requestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(requestSchemaURL, strings.NewReader(requestSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add request schema: %w", err)
	}
	return compiler.Compile(requestSchemaURL)
})

// DecodeRequests decodes a single request object or an array of them and
// validates each against the request schema.
func DecodeRequests(data []byte) ([]Request, error) {
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, NewRequestError(-1, "", "input is not valid JSON", nil)
	}

	doc := gjson.ParseBytes(data)
	var raws []string
	switch {
	case doc.IsArray():
		doc.ForEach(func(_, value gjson.Result) bool {
			raws = append(raws, value.Raw)
			return true
		})
	case doc.IsObject():
		raws = []string{doc.Raw}
	default:
		return nil, NewRequestError(-1, "", "expected a request object or an array of requests", nil)
	}

	schema, err := requestSchema()
	if err != nil {
		return nil, err
	}

	requests := make([]Request, len(raws))
	for i, raw := range raws {
		id := gjson.Get(raw, "id").String()

		var instance interface{}
		if err := wireJSON.UnmarshalFromString(raw, &instance); err != nil {
			return nil, NewRequestError(i, id, "failed to parse request", err)
		}
		if err := schema.Validate(instance); err != nil {
			return nil, NewRequestError(i, id, strings.Join(validationMessages(err), "; "), err)
		}
		if err := wireJSON.UnmarshalFromString(raw, &requests[i]); err != nil {
			return nil, NewRequestError(i, id, "failed to decode request", err)
		}
	}
	return requests, nil
}

// validationMessages flattens nested schema errors into readable lines.
func validationMessages(err error) []string {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	return flattenValidationErrors(verr)
}

func flattenValidationErrors(err *jsonschema.ValidationError) []string {
	var messages []string
	if len(err.Causes) == 0 && err.Message != "" {
		if err.InstanceLocation != "" {
			messages = append(messages, fmt.Sprintf("at '%s': %s", err.InstanceLocation, err.Message))
		} else {
			messages = append(messages, err.Message)
		}
	}
	for _, cause := range err.Causes {
		messages = append(messages, flattenValidationErrors(cause)...)
	}
	return messages
}
