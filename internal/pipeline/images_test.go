package pipeline

import (
	"runtime"
	"strings"
	"testing"
)

func testImageDir() string {
	if runtime.GOOS == "windows" {
		return `C:\assets`
	}
	return "/srv/assets"
}

func TestResolveImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "relative image",
			input: `<p><img src="images/logo.png" alt="로고"></p>`,
			want:  `src="file://`,
		},
		{
			name:  "dot slash image",
			input: `<img src="./stamp.png">`,
			want:  `stamp.png"`,
		},
		{
			name:  "https unchanged",
			input: `<img src="https://example.com/logo.png">`,
			want:  `src="https://example.com/logo.png"`,
		},
		{
			name:  "data URI unchanged",
			input: `<img src="data:image/png;base64,AAAA">`,
			want:  `src="data:image/png;base64,AAAA"`,
		},
		{
			name:  "root path unchanged",
			input: `<img src="/etc/logo.png">`,
			want:  `src="/etc/logo.png"`,
		},
		{
			name:  "traversal unchanged",
			input: `<img src="../../etc/passwd">`,
			want:  `src="../../etc/passwd"`,
		},
		{
			name:  "links unchanged",
			input: `<a href="terms.pdf">약관</a>`,
			want:  `href="terms.pdf"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveImages(tt.input, testImageDir())
			if err != nil {
				t.Fatalf("ResolveImages() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ResolveImages() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestResolveImages_EmptyDirIsNoop(t *testing.T) {
	t.Parallel()

	in := `<img src="logo.png">`
	got, err := ResolveImages(in, "")
	if err != nil {
		t.Fatalf("ResolveImages() error = %v", err)
	}
	if got != in {
		t.Errorf("ResolveImages() = %q, want unchanged", got)
	}
}

func TestResolveImages_KeepsDocumentShape(t *testing.T) {
	t.Parallel()

	doc := `<!DOCTYPE html><html><head><title>견적</title></head>` +
		`<body><header><img src="logo.png"></header><p>끝</p></body></html>`
	got, err := ResolveImages(doc, testImageDir())
	if err != nil {
		t.Fatalf("ResolveImages() error = %v", err)
	}
	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("doctype lost: %q", got)
	}
	if strings.Count(got, "<html") != 1 || strings.Count(got, "<body") != 1 {
		t.Errorf("document wrapper duplicated: %q", got)
	}
	if !strings.Contains(got, `src="file://`) || !strings.Contains(got, "<p>끝</p>") {
		t.Errorf("document content not preserved: %q", got)
	}
}

func TestIsUnder(t *testing.T) {
	t.Parallel()

	dir := testImageDir()
	if !isUnder(dir+"/a/b.png", dir) && runtime.GOOS != "windows" {
		t.Error("nested file should be under dir")
	}
	if isUnder(dir+"/../x.png", dir) {
		t.Error("parent escape should not be under dir")
	}
	if isUnder(dir+"evil/x.png", dir) {
		t.Error("sibling prefix should not be under dir")
	}
}
