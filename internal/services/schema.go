package services

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/fetch_response.schema.json
var fetchResponseSchema []byte

// ResponseValidator checks backend payloads before they are decoded.
type ResponseValidator interface {
	ValidateFetchResponse(body []byte) error
}

type responseValidator struct {
	fetchSchema *gojsonschema.Schema
}

func NewResponseValidator() (ResponseValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(fetchResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch response schema: %w", err)
	}
	return &responseValidator{fetchSchema: schema}, nil
}

// ValidateFetchResponse implements ResponseValidator.
func (v *responseValidator) ValidateFetchResponse(body []byte) error {
	res, err := v.fetchSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("failed to parse fetch response: %w", err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
