// Package status derives a traffic-light color from a status update.
package status

import (
	"strings"

	"github.com/sociials/logs/shared/domain"
)

// Emoji ids the status channel uses as explicit markers.
const (
	EmojiFixed = "583069431131799562"
	EmojiIssue = "583069404540174359"
	EmojiDown  = "585068644258676766"
)

type rule struct {
	color domain.StatusColor
	match func(raw, lower string) bool
}

// rules are checked in order; the first match wins. Emoji markers beat
// keywords, and green keywords beat orange beat red.
var rules = []rule{
	{domain.StatusGreen, contains(EmojiFixed)},
	{domain.StatusOrange, contains(EmojiIssue)},
	{domain.StatusRed, contains(EmojiDown)},
	{domain.StatusGreen, keywords("fixed", "resolved", "completed", "operational", "deployed", "stable")},
	{domain.StatusOrange, keywords("investigating", "monitoring", "identified", "issue", "maintenance", "looking for")},
	{domain.StatusRed, keywords("down", "outage", "failure", "critical", "offline")},
}

// Classify returns the color of a raw message. Unmatched content is gray.
func Classify(content string) domain.StatusColor {
	lower := strings.ToLower(content)
	for _, r := range rules {
		if r.match(content, lower) {
			return r.color
		}
	}
	return domain.StatusGray
}

func contains(id string) func(raw, lower string) bool {
	return func(raw, _ string) bool {
		return strings.Contains(raw, id)
	}
}

func keywords(words ...string) func(raw, lower string) bool {
	return func(_, lower string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}
