package pipeline

import (
	"strings"
	"testing"
)

func TestBodyMarkup_Text(t *testing.T) {
	t.Parallel()

	m := newBodyMarkup()

	tests := []struct {
		name     string
		body     string
		contains []string
		excludes []string
	}{
		{
			name:     "angle brackets escaped",
			body:     "Contact <Manager> today",
			contains: []string{"Contact &lt;Manager&gt; today"},
			excludes: []string{"<Manager>"},
		},
		{
			name:     "asterisks kept",
			body:     "Unit *price* x 2",
			contains: []string{"Unit *price* x 2"},
			excludes: []string{"<em>"},
		},
		{
			name:     "list and heading markers kept",
			body:     "1. first\n# Total",
			contains: []string{"1. first\n# Total"},
			excludes: []string{"<ol>", "<h1>"},
		},
		{
			name:     "backslash and tags kept",
			body:     `a\_b <b>bold</b>`,
			contains: []string{`a\_b &lt;b&gt;bold&lt;/b&gt;`},
			excludes: []string{"<b>"},
		},
		{
			name:     "blank lines kept",
			body:     "c\n\nd",
			contains: []string{"c\n\nd"},
			excludes: []string{"<br"},
		},
		{
			name:     "empty body",
			body:     "",
			contains: []string{`<p class="section-text"></p>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := m.text(tt.body)
			if !strings.HasPrefix(got, `<p class="section-text">`) || !strings.HasSuffix(got, "</p>") {
				t.Errorf("text(%q) = %q, want a section-text paragraph", tt.body, got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("text(%q) = %q, want to contain %q", tt.body, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("text(%q) = %q, must not contain %q", tt.body, got, bad)
				}
			}
		})
	}
}

func TestBodyMarkup_JSON(t *testing.T) {
	t.Parallel()

	m := newBodyMarkup()
	got, err := m.json(`{"name": "<script>alert(1)</script>"}`)
	if err != nil {
		t.Fatalf("json() error = %v", err)
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("json() = %q, want highlighted block", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("json() = %q, must not contain a raw script tag", got)
	}
}

func TestFenceJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body      string
		wantFence string
	}{
		{body: `{"a": 1}`, wantFence: "```"},
		{body: "{\"a\": \"```\"}", wantFence: "````"},
		{body: "{\"a\": \"`````\"}", wantFence: "``````"},
	}

	for _, tt := range tests {
		got := fenceJSON(tt.body)
		if !strings.HasPrefix(got, tt.wantFence+"json\n") {
			t.Errorf("fenceJSON(%q) opens with %q, want %q", tt.body, strings.SplitN(got, "\n", 2)[0], tt.wantFence+"json")
		}
		if !strings.HasSuffix(got, "\n"+tt.wantFence+"\n") {
			t.Errorf("fenceJSON(%q) closing fence mismatch: %q", tt.body, got)
		}
	}
}

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	css, err := highlightCSS()
	if err != nil {
		t.Fatalf("highlightCSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("highlight CSS missing .chroma rules: %q", css)
	}
}
