package profile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

const demoTOML = `
name = "demo"
base_url = "https://sandbox.example"
endpoint = "/v1/ping"
method = "GET"

[limits]
concurrency = 1
rate_per_sec = 1
request_budget = 10
max_rate_per_sec = 5
allowed_methods = ["GET"]

[timeouts]
connect_ms = 2000
read_ms = 5000

[safety]
require_sandbox_flag = true
allowlist_hosts = ["sandbox.example"]
`

const demoJSON = `{
  "name": "demo",
  "base_url": "https://sandbox.example",
  "endpoint": "/v1/ping",
  "method": "GET",
  "limits": {"concurrency": 1, "rate_per_sec": 1, "request_budget": 10, "max_rate_per_sec": 5, "allowed_methods": ["GET"]},
  "timeouts": {"connect_ms": 2000, "read_ms": 5000},
  "safety": {"require_sandbox_flag": true, "allowlist_hosts": ["sandbox.example"]}
}`

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func requireFormatError(t *testing.T, err error) *FormatError {
	t.Helper()
	if err == nil {
		t.Fatal("expected FormatError, got nil")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T: %v", err, err)
	}
	return fe
}

func TestLoadBuiltinDemo(t *testing.T) {
	p, err := Load("demo")
	if err != nil {
		t.Fatalf("failed to load demo profile: %v", err)
	}
	if p.Name != "demo" {
		t.Errorf("expected name demo, got %s", p.Name)
	}
	if p.BaseURL != "https://sandbox.example" {
		t.Errorf("unexpected base_url %s", p.BaseURL)
	}
	if p.Limits.RequestBudget != 10 || p.Limits.MaxRatePerSec != 5 {
		t.Errorf("unexpected limits %+v", p.Limits)
	}
	if !p.Safety.RequireSandboxFlag {
		t.Error("expected require_sandbox_flag=true")
	}
	if p.Safety.ForceHeaders == nil || len(p.Safety.ForceHeaders) != 0 {
		t.Errorf("expected empty force_headers map, got %v", p.Safety.ForceHeaders)
	}
}

func TestLoadBuiltinKRASandbox(t *testing.T) {
	p, err := Load("kra-sandbox")
	if err != nil {
		t.Fatalf("failed to load kra-sandbox profile: %v", err)
	}
	if p.Name != "kra-sandbox" {
		t.Errorf("expected name kra-sandbox, got %s", p.Name)
	}
	if p.Safety.ForceHeaders["X-Fuzzkit-Sandbox"] != "true" {
		t.Errorf("expected forced sandbox header, got %v", p.Safety.ForceHeaders)
	}
	if p.Timeouts.ConnectMS != 3000 {
		t.Errorf("expected connect_ms 3000, got %d", p.Timeouts.ConnectMS)
	}
}

func TestFormatsDecodeIdentically(t *testing.T) {
	fromTOML, err := Parse([]byte(demoTOML), FormatTOML)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	fromJSON, err := Parse([]byte(demoJSON), FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	data, _, _ := Builtin("demo")
	fromYAML, err := Parse(data, FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}

	if !reflect.DeepEqual(fromTOML, fromYAML) {
		t.Errorf("toml and yaml differ:\n%+v\n%+v", fromTOML, fromYAML)
	}
	if !reflect.DeepEqual(fromTOML, fromJSON) {
		t.Errorf("toml and json differ:\n%+v\n%+v", fromTOML, fromJSON)
	}
}

func TestLoadFromFileDetectsFormat(t *testing.T) {
	for name, content := range map[string]string{
		"target.toml": demoTOML,
		"target.json": demoJSON,
	} {
		path := writeProfile(t, name, content)
		p, hash, err := LoadWithHash(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name != "demo" {
			t.Errorf("%s: expected name demo, got %s", name, p.Name)
		}
		if hash != Hash([]byte(content)) {
			t.Errorf("%s: hash mismatch", name)
		}
	}
}

func TestForceHeadersDefaultEmpty(t *testing.T) {
	p, err := Parse([]byte(demoTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if p.Safety.ForceHeaders == nil {
		t.Fatal("expected non-nil force_headers")
	}
	if len(p.Safety.ForceHeaders) != 0 {
		t.Errorf("expected empty force_headers, got %v", p.Safety.ForceHeaders)
	}
}

func TestForceHeadersPreserveCase(t *testing.T) {
	doc := demoTOML + "\n[safety.force_headers]\nX-Trace-Id = \"fuzz\"\n"
	p, err := Parse([]byte(doc), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if p.Safety.ForceHeaders["X-Trace-Id"] != "fuzz" {
		t.Errorf("expected header name kept as configured, got %v", p.Safety.ForceHeaders)
	}
}

func TestStoredValuesNotNormalized(t *testing.T) {
	doc := strings.Replace(demoTOML, `method = "GET"`, `method = "get"`, 1)
	doc = strings.Replace(doc, `allowlist_hosts = ["sandbox.example"]`, `allowlist_hosts = ["SandBox.Example"]`, 1)
	p, err := Parse([]byte(doc), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if p.Method != "get" {
		t.Errorf("expected method kept as 'get', got %q", p.Method)
	}
	if p.Safety.AllowlistHosts[0] != "SandBox.Example" {
		t.Errorf("expected host kept as configured, got %q", p.Safety.AllowlistHosts[0])
	}
}

func TestMissingRequiredFieldIsFormatError(t *testing.T) {
	doc := strings.Replace(demoTOML, `method = "GET"`, "", 1)
	_, err := Parse([]byte(doc), FormatTOML)
	fe := requireFormatError(t, err)
	if !strings.Contains(fe.Error(), "method") {
		t.Errorf("expected detail to mention the missing field, got %v", fe)
	}
}

func TestMissingSectionIsFormatError(t *testing.T) {
	doc := demoTOML[:strings.Index(demoTOML, "[timeouts]")] + demoTOML[strings.Index(demoTOML, "[safety]"):]
	_, err := Parse([]byte(doc), FormatTOML)
	requireFormatError(t, err)
}

func TestWrongTypeIsFormatError(t *testing.T) {
	doc := strings.Replace(demoTOML, "rate_per_sec = 1", `rate_per_sec = "fast"`, 1)
	_, err := Parse([]byte(doc), FormatTOML)
	requireFormatError(t, err)
}

func TestNegativeIntegerIsFormatError(t *testing.T) {
	doc := strings.Replace(demoTOML, "request_budget = 10", "request_budget = -1", 1)
	_, err := Parse([]byte(doc), FormatTOML)
	requireFormatError(t, err)
}

func TestOverflowIsFormatError(t *testing.T) {
	doc := strings.Replace(demoTOML, "rate_per_sec = 1", "rate_per_sec = 5000000000", 1)
	_, err := Parse([]byte(doc), FormatTOML)
	requireFormatError(t, err)
}

func TestEmptyNameIsFormatError(t *testing.T) {
	doc := strings.Replace(demoTOML, `name = "demo"`, `name = ""`, 1)
	_, err := Parse([]byte(doc), FormatTOML)
	requireFormatError(t, err)
}

func TestZeroBudgetLoads(t *testing.T) {
	doc := strings.Replace(demoTOML, "request_budget = 10", "request_budget = 0", 1)
	p, err := Parse([]byte(doc), FormatTOML)
	if err != nil {
		t.Fatalf("zero budget is a guardrail concern, not a format error: %v", err)
	}
	if p.Limits.RequestBudget != 0 {
		t.Errorf("expected budget 0, got %d", p.Limits.RequestBudget)
	}
}

func TestInvalidBaseURLLoads(t *testing.T) {
	doc := strings.Replace(demoTOML, `base_url = "https://sandbox.example"`, `base_url = "not a url"`, 1)
	if _, err := Parse([]byte(doc), FormatTOML); err != nil {
		t.Fatalf("base_url is checked by the guardrails, not the loader: %v", err)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	doc := "description = \"extra\"\n" + demoTOML
	if _, err := Parse([]byte(doc), FormatTOML); err != nil {
		t.Errorf("expected unknown field to be ignored, got %v", err)
	}
}

func TestSyntaxErrorKeepsParserDetail(t *testing.T) {
	_, err := Parse([]byte("name = \"demo\nbase_url ="), FormatTOML)
	requireFormatError(t, err)
	var de *toml.DecodeError
	if !errors.As(err, &de) {
		t.Errorf("expected toml.DecodeError in chain, got %v", err)
	}
}

func TestEmptyYAMLIsFormatError(t *testing.T) {
	_, err := Parse([]byte(""), FormatYAML)
	requireFormatError(t, err)
}

func TestGarbageJSONIsFormatError(t *testing.T) {
	_, err := Parse([]byte("{{{"), FormatJSON)
	requireFormatError(t, err)
}

func TestLoadSetsSourceOnFormatError(t *testing.T) {
	path := writeProfile(t, "broken.toml", "name = 1\n")
	_, err := Load(path)
	fe := requireFormatError(t, err)
	if fe.Source != path {
		t.Errorf("expected source %s, got %s", path, fe.Source)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestLoadMissingFileIsNotFormatError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		t.Error("missing file must not be reported as FormatError")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist in chain, got %v", err)
	}
}

func TestFileShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	doc := strings.Replace(demoTOML, `name = "demo"`, `name = "local-demo"`, 1)
	if err := os.WriteFile("demo", []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := Load("demo")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "local-demo" {
		t.Errorf("expected file to win over built-in, got %s", p.Name)
	}
}

func TestInitProfileParses(t *testing.T) {
	for _, f := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		p, err := Parse([]byte(InitProfile("starter", f)), f)
		if err != nil {
			t.Fatalf("%s template does not parse: %v", f, err)
		}
		if p.Name != "starter" {
			t.Errorf("%s: expected name starter, got %s", f, p.Name)
		}
	}
}

func TestListIncludesBuiltinsAndDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.toml", "b.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	names := List(dir)
	want := map[string]bool{
		"demo":                       true,
		"kra-sandbox":                true,
		filepath.Join(dir, "a.toml"): true,
		filepath.Join(dir, "b.yaml"): true,
	}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected entry %s", n)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"profiles/kra-sandbox.toml": FormatTOML,
		"p.YAML":                    FormatYAML,
		"p.yml":                     FormatYAML,
		"p.json":                    FormatJSON,
		"noext":                     FormatTOML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Errorf("expected yaml, got %s (%v)", f, err)
	}
	if _, err := ParseFormat("ini"); err == nil {
		t.Error("expected error for unknown format")
	}
}
