package card

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

//go:embed card.schema.json
var schemaJSON []byte

const schemaURL = "https://weekcards.local/card.schema.json"

// SupportedMajor is the card schema major version this build reads.
const SupportedMajor = "v1"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse card schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add card schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Validate checks data against the card schema and the schemaVersion
// compatibility rule.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}

	if m, ok := inst.(map[string]any); ok {
		if v, ok := m["schemaVersion"].(string); ok {
			return CheckVersion(v)
		}
	}
	return nil
}

// CheckVersion accepts versions such as "1", "1.2" or "v1.2.0" whose major
// version is SupportedMajor.
func CheckVersion(v string) error {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: schemaVersion %q is not a version", ErrInvalidCard, v)
	}
	if semver.Major(v) != SupportedMajor {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedVersion, v, SupportedMajor)
	}
	return nil
}
