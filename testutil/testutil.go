// Package testutil loads the plan fixtures shared by the package tests.
package testutil

import (
	"bytes"
	"embed"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"mit.edu/dsg/planval/proto"
)

//go:embed testdata/*.yaml
var fixtures embed.FS

// Fixtures lists the embedded plan fixtures by name.
func Fixtures() []string {
	entries, err := fixtures.ReadDir("testdata")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// ParsePlan decodes a plan from YAML. Unknown keys are an error.
func ParsePlan(data []byte) (*proto.Plan, error) {
	var p proto.Plan
	if err := decodeStrict(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseRel decodes a single relation from YAML.
func ParseRel(data []byte) (*proto.Rel, error) {
	var r proto.Rel
	if err := decodeStrict(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// LoadPlan returns a freshly decoded copy of the named fixture, so tests may
// modify it.
func LoadPlan(t testing.TB, name string) *proto.Plan {
	t.Helper()
	data, err := fixtures.ReadFile(path.Join("testdata", name))
	require.NoError(t, err)
	p, err := ParsePlan(data)
	require.NoError(t, err, "fixture %s", name)
	return p
}

// Rel decodes an inline YAML relation.
func Rel(t testing.TB, text string) *proto.Rel {
	t.Helper()
	r, err := ParseRel([]byte(text))
	require.NoError(t, err)
	return r
}

// Marshal renders v as YAML, for diffs in failure messages.
func Marshal(t testing.TB, v any) string {
	t.Helper()
	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	return string(out)
}
