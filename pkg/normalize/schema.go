package normalize

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/gruhabuddy/gruha/pkg/design"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Checker validates parsed model output against the response shape each
// action asks for. The check is advisory: callers report the outcome and
// never alter the client response because of it.
type Checker struct {
	schemas map[design.Action]*gojsonschema.Schema
}

// NewChecker compiles the embedded schema of every action.
func NewChecker() (*Checker, error) {
	c := &Checker{schemas: make(map[design.Action]*gojsonschema.Schema)}
	for _, action := range design.Actions() {
		raw, err := schemaFS.ReadFile("schemas/" + action.String() + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading schema for %s: %w", action, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", action, err)
		}
		c.schemas[action] = schema
	}
	return c, nil
}

// Check returns the schema violations of result for action. Unparsed
// results are not checked and report no violations.
func (c *Checker) Check(action design.Action, result Result) ([]string, error) {
	parsed, ok := result.(Parsed)
	if !ok {
		return nil, nil
	}

	schema, ok := c.schemas[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", design.ErrUnknownAction, action)
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(parsed.Value))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if res.Valid() {
		return nil, nil
	}

	violations := make([]string, len(res.Errors()))
	for i, desc := range res.Errors() {
		violations[i] = desc.String()
	}
	return violations, nil
}
