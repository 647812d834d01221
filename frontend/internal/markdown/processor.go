package markdown

import (
	"bytes"
	stdhtml "html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/sociials/logs/shared/logger"
)

var (
	lineBreaks = regexp.MustCompile(`(?i)<br\s*/?>\n?|</p>|</li>|</h[1-6]>|</pre>|</tr>|</blockquote>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
)

type TextProcessor struct {
	pipeline *Pipeline
	md       goldmark.Markdown // message content: GFM, hard wraps, raw HTML
	embedMD  goldmark.Markdown // embed descriptions: plain CommonMark
	policy   *bluemonday.Policy
	strict   *bluemonday.Policy
}

// New creates a processor rendering <t:...> timestamps with layout in loc.
func New(layout string, loc *time.Location) *TextProcessor {
	opts := []html.Option{html.WithHardWraps(), html.WithUnsafe()}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(NewDiscordHTMLRenderer(opts...), 100)),
		),
	)

	embedMD := goldmark.New()

	return &TextProcessor{
		pipeline: NewPipeline(layout, loc),
		md:       md,
		embedMD:  embedMD,
		policy:   newPolicy(),
		strict:   bluemonday.StrictPolicy(),
	}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("class").Matching(regexp.MustCompile("^(" + classEmoji + "|" + classImage + ")$")).OnElements("img")
	p.AllowAttrs("class").Matching(regexp.MustCompile("^" + classLink + "$")).OnElements("a")
	p.AllowAttrs("class").Matching(regexp.MustCompile("^(" + classInline + "|" + classCodeBlock + ")$")).OnElements("code")
	p.AllowAttrs("class").Matching(regexp.MustCompile("^" + classSpoiler + "$")).OnElements("span")
	p.AllowElements("u", "del", "span")
	p.RequireNoFollowOnLinks(false)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return p
}

// RenderMessage turns raw Discord content into sanitized HTML.
func (tp *TextProcessor) RenderMessage(content string) string {
	if content == "" {
		return ""
	}
	return tp.policy.Sanitize(tp.render(tp.md, tp.pipeline.Apply(content)))
}

// RenderEmbedDescription renders embed text as plain markdown, without the
// Discord transforms.
func (tp *TextProcessor) RenderEmbedDescription(description string) string {
	if description == "" {
		return ""
	}
	return tp.policy.Sanitize(tp.render(tp.embedMD, description))
}

// PlainText renders content for a terminal: emojis become :name:, markup is
// dropped and line structure is kept.
func (tp *TextProcessor) PlainText(content string) string {
	if content == "" {
		return ""
	}
	text := emojiPattern.ReplaceAllString(content, ":${2}:")
	rendered := tp.render(tp.md, tp.pipeline.Apply(text))
	rendered = lineBreaks.ReplaceAllString(rendered, "\n")
	plain := stdhtml.UnescapeString(tp.strict.Sanitize(rendered))
	plain = blankRuns.ReplaceAllString(plain, "\n\n")
	return strings.TrimSpace(plain)
}

func (tp *TextProcessor) render(md goldmark.Markdown, text string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		logger.Log.Warn("markdown conversion failed", "error", err)
		return stdhtml.EscapeString(text)
	}
	return strings.TrimSpace(buf.String())
}
