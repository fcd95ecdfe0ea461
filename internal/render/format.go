package render

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletPattern = regexp.MustCompile(`^-[ \t]+(.*)$`)

	// Quotes stay literal: the fragment is only ever placed in element content.
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// FormatSection converts the markdown subset used by the screening backend
// (bold markers, hyphen bullets, newlines) into an HTML fragment.
//
// The input is escaped before any markup is added, so the only tags in the
// result are <strong>, <ul>, <li> and <br>.
func FormatSection(text string) template.HTML {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = textEscaper.Replace(text)
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")

	lines := strings.Split(text, "\n")

	var b strings.Builder
	inList := false
	for i, line := range lines {
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			if !inList {
				if i > 0 {
					b.WriteString("<br>")
				}
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(m[1])
			b.WriteString("</li>")
			continue
		}

		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(line)
	}
	if inList {
		b.WriteString("</ul>")
	}

	return template.HTML(b.String())
}
