package profile

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaID = "inmemory://fuzzkit/profile.schema.json"

//go:embed schema/profile.schema.json
var profileSchema []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaID, bytes.NewReader(profileSchema)); err != nil {
			compileErr = fmt.Errorf("add profile schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaID)
	})
	return compiledSchema, compileErr
}

// Schema returns the JSON Schema that profile documents must satisfy.
func Schema() []byte {
	return profileSchema
}

// validateTree checks a decoded document against the profile schema.
func validateTree(tree any) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("compile profile schema: %w", err)
	}
	if err := schema.Validate(tree); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
