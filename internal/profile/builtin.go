package profile

import _ "embed"

//go:embed profiles/kra-sandbox.toml
var kraSandboxTOML []byte

//go:embed profiles/demo.yaml
var demoYAML []byte

type builtin struct {
	data   []byte
	format Format
}

// builtinProfiles maps profile names to their embedded documents.
var builtinProfiles = map[string]builtin{
	"kra-sandbox": {data: kraSandboxTOML, format: FormatTOML},
	"demo":        {data: demoYAML, format: FormatYAML},
}

// Builtin returns the raw document and format of a built-in profile.
func Builtin(name string) ([]byte, Format, bool) {
	b, ok := builtinProfiles[name]
	if !ok {
		return nil, "", false
	}
	return b.data, b.format, true
}
