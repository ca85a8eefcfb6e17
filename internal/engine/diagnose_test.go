package engine

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func doc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{`<script id="__NEXT_DATA__" type="application/json">{}</script>`, "Next.js"},
		{`<div data-reactroot=""></div>`, "React"},
		{`<app-root ng-version="17.0.0"></app-root>`, "Angular"},
		{`<div class="review">Plain markup</div>`, ""},
	}
	for _, tt := range tests {
		if got := DetectFramework(tt.markup); got != tt.want {
			t.Errorf("DetectFramework(%q) = %q, want %q", tt.markup, got, tt.want)
		}
	}
}

func TestDiagnose(t *testing.T) {
	shell := doc(t, `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`)
	d := Diagnose(shell)
	if !d.NeedsJS || d.Scripts != 1 {
		t.Errorf("app shell: got %+v", d)
	}

	blocked := doc(t, `<html><body><div><div><div><h1>Please complete the CAPTCHA to continue</h1></div></div></div></body></html>`)
	d = Diagnose(blocked)
	if d.Challenge != "captcha" {
		t.Errorf("challenge = %q, want captcha", d.Challenge)
	}
	if d.NeedsJS {
		t.Error("static page without scripts should not need JS")
	}

	if d := Diagnose(nil); d != (Diagnosis{}) {
		t.Errorf("nil document: got %+v", d)
	}
}
