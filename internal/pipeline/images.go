package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveImages rewrites relative <img src> values in an HTML document to
// file:// URLs under imageDir, so logos and stamps referenced from a custom
// template load when the page is opened from a temp file. Sources that would
// leave imageDir, absolute paths and URLs are left untouched. An empty
// imageDir, or a document without images, is returned unchanged.
func ResolveImages(document, imageDir string) (string, error) {
	if imageDir == "" || !strings.Contains(document, "<img") {
		return document, nil
	}

	absDir, err := filepath.Abs(imageDir)
	if err != nil {
		return "", err
	}

	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}
	rewriteImages(root, absDir)

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteImages(n *html.Node, dir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativeSource(attr.Val) {
				continue
			}
			abs := filepath.Join(dir, filepath.FromSlash(attr.Val))
			if !isUnder(abs, dir) {
				continue
			}
			n.Attr[i].Val = fileURL(abs)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, dir)
	}
}

func isRelativeSource(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(src) && !strings.HasPrefix(src, "/")
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
