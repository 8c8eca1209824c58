package httpapi

import "testing"

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]struct {
		header  string
		token   string
		wantErr bool
	}{
		"plain":           {header: "Bearer abc.def.ghi", token: "abc.def.ghi"},
		"case insensitve": {header: "bearer abc.def.ghi", token: "abc.def.ghi"},
		"padded":          {header: "  Bearer abc.def.ghi  ", token: "abc.def.ghi"},
		"empty":           {header: "", wantErr: true},
		"wrong scheme":    {header: "Basic dXNlcjpwYXNz", wantErr: true},
		"scheme only":     {header: "Bearer ", wantErr: true},
	}
	for name, tc := range cases {
		token, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if token != tc.token {
			t.Fatalf("%s: got %q, want %q", name, token, tc.token)
		}
	}
}

func TestIsPublicPath(t *testing.T) {
	public := []string{"/v1/auth/login", "/v1/auth/refresh", "/healthz", "/readyz", "/metrics", "/openapi.yaml", "/"}
	for _, p := range public {
		if !isPublicPath(p) {
			t.Fatalf("expected %s to be public", p)
		}
	}
	private := []string{"/v1/auth/me", "/v1/auth/logout", "/v1/users", "/v1/employees/abc", "/v1/activity"}
	for _, p := range private {
		if isPublicPath(p) {
			t.Fatalf("expected %s to require a token", p)
		}
	}
}
