package profile

import "fmt"

// InitProfile returns a commented starter document for a new target profile.
// JSON has no comments, so FormatJSON gets the bare shape.
func InitProfile(name string, format Format) string {
	switch format {
	case FormatYAML:
		return fmt.Sprintf(`name: %q
base_url: https://sandbox.example
endpoint: /
method: GET

# Session limits. rate_per_sec must not exceed max_rate_per_sec,
# and request_budget must be at least 1.
limits:
  concurrency: 1
  rate_per_sec: 1
  request_budget: 10
  max_rate_per_sec: 5
  allowed_methods: [GET]

# Carried for the transport; not checked before a run.
timeouts:
  connect_ms: 3000
  read_ms: 10000

# Hosts and methods are matched case-insensitively.
# Anything not listed is rejected.
safety:
  require_sandbox_flag: true
  allowlist_hosts: [sandbox.example]
  # force_headers:
  #   X-Sandbox: "true"
`, name)
	case FormatJSON:
		return fmt.Sprintf(`{
  "name": %q,
  "base_url": "https://sandbox.example",
  "endpoint": "/",
  "method": "GET",
  "limits": {
    "concurrency": 1,
    "rate_per_sec": 1,
    "request_budget": 10,
    "max_rate_per_sec": 5,
    "allowed_methods": ["GET"]
  },
  "timeouts": {"connect_ms": 3000, "read_ms": 10000},
  "safety": {
    "require_sandbox_flag": true,
    "allowlist_hosts": ["sandbox.example"],
    "force_headers": {}
  }
}
`, name)
	default:
		return fmt.Sprintf(`name = %q
base_url = "https://sandbox.example"
endpoint = "/"
method = "GET"

# Session limits. rate_per_sec must not exceed max_rate_per_sec,
# and request_budget must be at least 1.
[limits]
concurrency = 1
rate_per_sec = 1
request_budget = 10
max_rate_per_sec = 5
allowed_methods = ["GET"]

# Carried for the transport; not checked before a run.
[timeouts]
connect_ms = 3000
read_ms = 10000

# Hosts and methods are matched case-insensitively.
# Anything not listed is rejected.
[safety]
require_sandbox_flag = true
allowlist_hosts = ["sandbox.example"]

# [safety.force_headers]
# X-Sandbox = "true"
`, name)
	}
}
