package markdown

import (
	"regexp"
	"strconv"
	"time"
)

// transform is one Discord markup rewrite applied to the whole text.
type transform struct {
	name    string
	pattern *regexp.Regexp
	replace func(groups []string) string
}

// Pipeline rewrites Discord-specific markup into markdown and inline HTML.
// Transforms run in order; each sees the output of the previous one.
type Pipeline struct {
	transforms []transform
}

var (
	emojiPattern     = regexp.MustCompile(`<(a?):(\w+):(\d+)>`)
	userPattern      = regexp.MustCompile(`<@!?(\d+)>`)
	channelPattern   = regexp.MustCompile(`<#(\d+)>`)
	rolePattern      = regexp.MustCompile(`<@&(\d+)>`)
	timestampPattern = regexp.MustCompile(`<t:(\d+)(?::[tTdDfFR])?>`)
	// Delimiter runs are consumed whole so a rewritten text holds no
	// pair for a second pass.
	underlinePattern = regexp.MustCompile(`_{2,}([\s\S]+?)_{2,}`)
	spoilerPattern   = regexp.MustCompile(`\|{2,}([\s\S]+?)\|{2,}`)
	strikePattern    = regexp.MustCompile(`~{2,}([\s\S]+?)~{2,}`)
)

const emojiCDN = "https://cdn.discordapp.com/emojis/"

// NewPipeline builds the transform list. Timestamps are rendered with layout
// in loc.
func NewPipeline(layout string, loc *time.Location) *Pipeline {
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{transforms: []transform{
		{"emoji", emojiPattern, func(g []string) string {
			return "![" + g[2] + "](" + EmojiURL(g[3], g[1] == "a") + ")"
		}},
		{"user", userPattern, constant("**@user**")},
		{"channel", channelPattern, constant("**#channel**")},
		{"role", rolePattern, constant("**@role**")},
		{"timestamp", timestampPattern, func(g []string) string {
			sec, err := strconv.ParseInt(g[1], 10, 64)
			if err != nil {
				return g[0]
			}
			return time.Unix(sec, 0).In(loc).Format(layout)
		}},
		{"underline", underlinePattern, wrap("<u>", "</u>")},
		{"spoiler", spoilerPattern, wrap(`<span class="spoiler">`, "</span>")},
		{"strikethrough", strikePattern, wrap("<del>", "</del>")},
	}}
}

// EmojiURL is the CDN address of a custom emoji at inline size.
func EmojiURL(id string, animated bool) string {
	ext := "png"
	if animated {
		ext = "gif"
	}
	return emojiCDN + id + "." + ext + "?size=24"
}

func (p *Pipeline) Apply(text string) string {
	for _, t := range p.transforms {
		t := t
		text = t.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return t.replace(t.pattern.FindStringSubmatch(match))
		})
	}
	return text
}

func constant(s string) func([]string) string {
	return func([]string) string { return s }
}

func wrap(open, close string) func([]string) string {
	return func(g []string) string { return open + g[1] + close }
}
