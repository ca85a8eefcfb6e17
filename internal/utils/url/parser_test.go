package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.g2.com/products/notion/reviews",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestResolveURL(t *testing.T) {
	got := ResolveURL("https://example.com/a/b", "c")
	if got != "https://example.com/a/c" {
		t.Errorf("Expected https://example.com/a/c, got %s", got)
	}
}

func TestResolveAgainstHost(t *testing.T) {
	current := "https://www.g2.com/products/notion/reviews?page=1"
	cases := map[string]string{
		"/products/notion/reviews?page=2":                 "https://www.g2.com/products/notion/reviews?page=2",
		"https://www.g2.com/products/notion/reviews?p=3": "https://www.g2.com/products/notion/reviews?p=3",
		"products/notion/reviews?page=2":                  "https://www.g2.com/products/notion/reviews?page=2",
	}
	for href, want := range cases {
		got, err := ResolveAgainstHost(current, href)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", href, err)
		}
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}

	if _, err := ResolveAgainstHost(current, "  "); err == nil {
		t.Error("Expected error for empty href")
	}
	if _, err := ResolveAgainstHost("/relative/only", "/next"); err == nil {
		t.Error("Expected error for non-absolute current URL")
	}
}
