package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize("   "); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Ship it, 5 < 10"); got != "Ship it, 5 < 10" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesHandlersAndJavascriptLinks(t *testing.T) {
	tests := []string{
		`<p onclick="alert(1)">Click</p>`,
		`<a href="javascript:alert('xss')">Click</a>`,
		`<img src=x onerror="alert(1)">`,
	}
	for _, in := range tests {
		got := htmlsanitize.Sanitize(in)
		if strings.Contains(got, "alert") {
			t.Errorf("Sanitize(%q) = %q, expected dangerous content removed", in, got)
		}
	}
}

func TestSanitize_AllowsSafeLinks(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="https://example.com">Link</a>`)
	if !strings.Contains(got, "https://example.com") || !strings.Contains(got, "nofollow") {
		t.Errorf("expected safe link preserved with nofollow, got %q", got)
	}
}

func TestSanitize_AllowsLists(t *testing.T) {
	input := "<ul><li>One</li><li>Two</li></ul>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected list preserved, got %q", got)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  Launch plan  ", "Launch plan"},
		{"<b>Launch</b> plan", "Launch plan"},
		{"R&amp;D <i>budget</i>", "R&D budget"},
		{"<script>alert(1)</script>Roadmap", "Roadmap"},
		{"5 < 10", "5 < 10"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"<p>Hello</p>", false},
		{"5 < 10", true},
		{"5 > 3", true},
		{"a <b", true},
		{"</div>", false},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
