package policy

import "testing"

func FuzzEvaluateBaseURL(f *testing.F) {
	f.Add("https://sandbox.example", "GET")
	f.Add("not a url", "get")
	f.Add("http://[::1]:8080/", "POST")
	f.Add("", "")
	f.Add("https://SANDBOX.example:443/a/b?c=d#e", "delete")
	f.Add("%zz://bad", "GET")

	f.Fuzz(func(t *testing.T, baseURL, method string) {
		p := demoProfile()
		p.BaseURL = baseURL
		p.Method = method

		// Must not panic, and must agree with the full violation list.
		v := Evaluate(p, sandboxFlags)
		all := Violations(p, sandboxFlags)
		if v.Permitted != (len(all) == 0) {
			t.Fatalf("Evaluate permitted=%v but %d violations", v.Permitted, len(all))
		}
		if !v.Permitted && all[0] != v {
			t.Fatalf("Evaluate=%+v, first violation=%+v", v, all[0])
		}
		if v.Permitted {
			if _, ok := Host(baseURL); !ok {
				t.Fatalf("permitted profile with unparsable base_url %q", baseURL)
			}
		}
	})
}
