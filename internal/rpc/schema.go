package rpc

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://tada.local/schemas/"

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	schemas = make(map[string]*jsonschema.Schema, len(Procedures))
	for _, proc := range Procedures {
		raw, err := schemaFS.ReadFile("schemas/" + proc + ".json")
		if err != nil {
			schemasErr = fmt.Errorf("read schema %s: %w", proc, err)
			return
		}
		url := schemaBaseURL + proc + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			schemasErr = fmt.Errorf("add schema %s: %w", proc, err)
			return
		}
		sch, err := compiler.Compile(url)
		if err != nil {
			schemasErr = fmt.Errorf("compile schema %s: %w", proc, err)
			return
		}
		schemas[proc] = sch
	}
}

// ValidateInput checks a raw JSON input against the procedure's schema.
// Unknown procedures yield CodeMethodNotSupported, invalid input
// CodeBadRequest.
func ValidateInput(proc string, raw []byte) error {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	sch, ok := schemas[proc]
	if !ok {
		return Errorf(CodeMethodNotSupported, "no such procedure %q", proc)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Errorf(CodeBadRequest, "invalid JSON: %v", err)
	}
	if err := sch.Validate(v); err != nil {
		return schemaError(err)
	}
	return nil
}

func schemaError(err error) *Error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Errorf(CodeBadRequest, "%v", err)
	}
	leaf := firstLeaf(ve)
	loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if loc == "" {
		return Errorf(CodeBadRequest, "%s", leaf.Message)
	}
	return Errorf(CodeBadRequest, "%s: %s", strings.ReplaceAll(loc, "/", "."), leaf.Message)
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
