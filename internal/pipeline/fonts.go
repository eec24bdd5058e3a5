package pipeline

import (
	"strings"
)

// FontFamily is the name of the face declared by FontCSS.
const FontFamily = "BizdocSans"

// DefaultFonts is the Korean-capable fallback chain.
var DefaultFonts = []string{
	"Noto Sans KR",
	"Noto Sans CJK KR",
	"Malgun Gothic",
	"Apple SD Gothic Neo",
	"NanumGothic",
}

// FontCSS declares FontFamily as a chain of local() faces, regular and
// bold, and applies it to the page followed by the plain family names and
// the generic sans-serif. Hangul renders with the first installed family.
func FontCSS(families []string) string {
	if len(families) == 0 {
		families = DefaultFonts
	}

	quoted := make([]string, 0, len(families))
	locals := make([]string, 0, len(families))
	for _, f := range families {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		q := cssString(f)
		quoted = append(quoted, q)
		locals = append(locals, "local("+q+")")
	}
	src := strings.Join(locals, ", ")

	var b strings.Builder
	for _, weight := range []string{"400", "700"} {
		b.WriteString("@font-face{font-family:\"" + FontFamily + "\";font-weight:" + weight + ";src:" + src + ";}\n")
	}
	b.WriteString("html,body{font-family:\"" + FontFamily + "\"")
	for _, q := range quoted {
		b.WriteString("," + q)
	}
	b.WriteString(",sans-serif;}\n")
	return b.String()
}

// cssString quotes s as a CSS string literal.
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ", "<", `\3c `)
	return `"` + r.Replace(s) + `"`
}

// sanitizeCSS keeps stylesheet text from closing its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
