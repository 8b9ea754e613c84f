package router

import (
	"testing"
)

func TestPatternMatch(t *testing.T) {
	pattern := MustCompile("/post/[slug]")

	tests := []struct {
		name        string
		path        string
		expectMatch bool
		expectedVal string
	}{
		{name: "slug", path: "/post/hello-world", expectMatch: true, expectedVal: "hello-world"},
		{name: "trailing slash", path: "/post/hello-world/", expectMatch: true, expectedVal: "hello-world"},
		{name: "escaped", path: "/post/ol%C3%A1", expectMatch: true, expectedVal: "olá"},
		{name: "shorter", path: "/post", expectMatch: false},
		{name: "longer", path: "/post/hello/live", expectMatch: false},
		{name: "other static", path: "/note/hello", expectMatch: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, ok := pattern.Match(tc.path)
			if ok != tc.expectMatch {
				t.Fatalf("expected match=%v for %q, got %v", tc.expectMatch, tc.path, ok)
			}
			if !tc.expectMatch {
				return
			}
			if params["slug"] != tc.expectedVal {
				t.Fatalf("expected slug %q, got %q", tc.expectedVal, params["slug"])
			}
		})
	}
}

func TestPatternFormat(t *testing.T) {
	pattern := MustCompile("/post/[slug]")

	got, err := pattern.Format(map[string]string{"slug": "como-utilizar-hooks"})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "/post/como-utilizar-hooks" {
		t.Fatalf("expected formatted path, got %q", got)
	}

	if _, err := pattern.Format(map[string]string{}); err == nil {
		t.Fatal("expected missing param error")
	}
}

func TestCompileRejectsInvalidPatterns(t *testing.T) {
	invalid := []string{"", "/post/[slug", "/post/[1slug]", "/post/[slug]/[slug]", "/po]st"}
	for _, raw := range invalid {
		if _, err := Compile(raw); err == nil {
			t.Fatalf("expected error for pattern %q", raw)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	if !IsValidSlug("como-utilizar-hooks") {
		t.Fatal("expected como-utilizar-hooks to be a valid slug")
	}
	if IsValidSlug("bad slug") {
		t.Fatal("expected slug with spaces to be invalid")
	}
	if IsValidSlug("") {
		t.Fatal("expected empty slug to be invalid")
	}
}
