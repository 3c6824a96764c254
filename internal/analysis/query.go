package analysis

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/nordkart/kvitt/internal/ledger"
)

//go:embed schema.cue
var schemaCUE string

// Query is one saved, named read-only query.
type Query struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	SQL         string `yaml:"sql"`
}

// File is the on-disk shape of a saved-query file.
type File struct {
	Queries []Query `yaml:"queries"`
}

// Load reads a saved-query file, validates it against the embedded CUE
// schema, and decodes it. Duplicate query names are rejected.
func Load(path string) ([]Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes saved-query file contents.
func Parse(data []byte) ([]Query, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile query schema: %w", err)
	}

	if err := cueyaml.Validate(data, schema); err != nil {
		return nil, ledger.NewValidationError("query", "file", err.Error())
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode queries file: %w", err)
	}

	seen := make(map[string]bool, len(f.Queries))
	for _, q := range f.Queries {
		if strings.TrimSpace(q.Name) == "" {
			return nil, ledger.NewValidationError("query", "name", "must not be empty")
		}
		if strings.TrimSpace(q.SQL) == "" {
			return nil, ledger.NewValidationError("query", "sql", "must not be empty")
		}
		if seen[q.Name] {
			return nil, ledger.NewValidationError("query", "name", fmt.Sprintf("duplicate query name %q", q.Name))
		}
		seen[q.Name] = true
	}
	return f.Queries, nil
}

// Find returns the query with the given name.
// Fails with NOT_FOUND if no query has that name.
func Find(queries []Query, name string) (Query, error) {
	for _, q := range queries {
		if q.Name == name {
			return q, nil
		}
	}
	return Query{}, &ledger.Error{Code: ledger.CodeNotFound, Message: fmt.Sprintf("no saved query named %q", name), Entity: "query"}
}
