package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Class names the stylesheet and the sanitizer policy agree on.
const (
	classEmoji     = "discord-emoji"
	classImage     = "content-image"
	classLink      = "content-link"
	classInline    = "inline-code"
	classCodeBlock = "code-block"
	classSpoiler   = "spoiler"
)

// DiscordHTMLRenderer overrides how images, links and code are rendered so
// they carry the feed's classes.
type DiscordHTMLRenderer struct {
	html.Config
}

func NewDiscordHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &DiscordHTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *DiscordHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *DiscordHTMLRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	class, alt := classImage, "image"
	if bytes.Contains(n.Destination, []byte("cdn.discordapp.com/emojis")) {
		class, alt = classEmoji, "emoji"
	}
	if text := plainText(n, source); len(text) > 0 {
		alt = string(text)
	}

	_, _ = w.WriteString(`<img src="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(alt)))
	_, _ = w.WriteString(`"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(` class="` + class + `">`)
	return ast.WalkSkipChildren, nil
}

func (r *DiscordHTMLRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_, _ = w.WriteString(`"`)
	}
	writeLinkAttrs(w)
	return ast.WalkContinue, nil
}

func (r *DiscordHTMLRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}
	url := n.URL(source)
	label := n.Label(source)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		url = append([]byte("mailto:"), url...)
	}
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(url, false)))
	_, _ = w.WriteString(`"`)
	writeLinkAttrs(w)
	_, _ = w.Write(util.EscapeHTML(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func writeLinkAttrs(w util.BufWriter) {
	_, _ = w.WriteString(` target="_blank" rel="noopener noreferrer" class="` + classLink + `">`)
}

func (r *DiscordHTMLRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<code class="` + classInline + `">`)
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch t := c.(type) {
		case *ast.Text:
			value = t.Segment.Value(source)
		case *ast.String:
			value = t.Value
		default:
			continue
		}
		if bytes.HasSuffix(value, []byte("\n")) {
			r.Writer.RawWrite(w, value[:len(value)-1])
			r.Writer.RawWrite(w, []byte(" "))
		} else {
			r.Writer.RawWrite(w, value)
		}
	}
	return ast.WalkSkipChildren, nil
}

// Only blocks with a language get the block class; the rest look like inline
// code inside a <pre>.
func (r *DiscordHTMLRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	class := classInline
	if lang := n.Language(source); len(lang) > 0 {
		class = classCodeBlock
	}
	r.writeCode(w, source, n, class)
	return ast.WalkSkipChildren, nil
}

func (r *DiscordHTMLRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	r.writeCode(w, source, node, classInline)
	return ast.WalkSkipChildren, nil
}

func (r *DiscordHTMLRenderer) writeCode(w util.BufWriter, source []byte, n ast.Node, class string) {
	_, _ = w.WriteString(`<pre><code class="` + class + `">`)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.Writer.RawWrite(w, line.Value(source))
	}
	_, _ = w.WriteString("</code></pre>\n")
}

// plainText concatenates the text below n, e.g. an image's alt text.
func plainText(n ast.Node, source []byte) []byte {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.Write(plainText(c, source))
		}
	}
	return []byte(b.String())
}
