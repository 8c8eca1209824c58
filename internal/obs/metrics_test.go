package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/metrics":                    "/metrics",
		"/v1/users":                   "/v1/users",
		"/v1/users/abc":               "/v1/users/:id",
		"/v1/users/abc/password":      "/v1/users/:id/password",
		"/v1/employees/abc":           "/v1/employees/:id",
		"/v1/employees/abc/ilbam":     "/v1/employees/:id/ilbam",
		"/v1/projects/abc/recommend":  "/v1/projects/:id/recommend",
		"/v1/projects/abc/extra":      "/v1/projects/abc/extra",
		"/v1/assignments/abc":         "/v1/assignments/:id",
		"/v1/auth/login":              "/v1/auth/login",
		"/v1/employees?department=it": "/v1/employees",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
