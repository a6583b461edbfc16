package notify

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("notify").
	Funcs(template.FuncMap{"md": escapeMarkdown}).
	ParseFS(templateFS, "templates/*.tmpl"))

const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escapeMarkdown backslash-escapes ASCII punctuation so user input renders
// as literal text, without links, emphasis or autolinked URLs.
func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// templateData is the input of every notification template.
type templateData struct {
	ProductName string
	Name        string
	Email       string
	SiteURL     string
	Reason      string
	Services    []string
}

// render executes the text and markdown variants of a template and converts
// the markdown into the HTML alternative.
func render(name string, data templateData) (text, html string, err error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name+".txt.tmpl", data); err != nil {
		return "", "", fmt.Errorf("rendering %s text: %w", name, err)
	}
	text = buf.String()

	var md bytes.Buffer
	if err := templates.ExecuteTemplate(&md, name+".md.tmpl", data); err != nil {
		return "", "", fmt.Errorf("rendering %s markdown: %w", name, err)
	}

	var out bytes.Buffer
	if err := markdown.Convert(md.Bytes(), &out); err != nil {
		return "", "", fmt.Errorf("converting %s markdown: %w", name, err)
	}
	return text, out.String(), nil
}
