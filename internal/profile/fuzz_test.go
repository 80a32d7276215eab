package profile

import "testing"

func FuzzParseTOML(f *testing.F) {
	f.Add([]byte(demoTOML))
	f.Add([]byte(InitProfile("seed", FormatTOML)))
	f.Add([]byte{})
	f.Add([]byte(`[limits`))
	f.Add([]byte("name = 1\n[safety]\nforce_headers = 3\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic on any input; failures must be FormatErrors.
		p, err := Parse(data, FormatTOML)
		if err != nil {
			requireFormatError(t, err)
			return
		}
		if p.Safety.ForceHeaders == nil {
			t.Fatal("parsed profile without force_headers map")
		}
	})
}

func FuzzParseYAML(f *testing.F) {
	data, _, _ := Builtin("demo")
	f.Add(data)
	f.Add([]byte(InitProfile("seed", FormatYAML)))
	f.Add([]byte{})
	f.Add([]byte(`{{{not yaml at all`))
	f.Add([]byte("? [a]\n: b\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		p, err := Parse(data, FormatYAML)
		if err != nil {
			requireFormatError(t, err)
			return
		}
		if p.Name == "" {
			t.Fatal("parsed profile with empty name")
		}
	})
}
