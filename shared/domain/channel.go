package domain

// ChannelType selects which Discord feed a request is about.
type ChannelType string

const (
	Announcements ChannelType = "announcements"
	Status        ChannelType = "status"
)

// ChannelTypes lists the feeds in tab order.
var ChannelTypes = []ChannelType{Announcements, Status}

// ParseChannelType maps a query value to a feed. Anything other than "status"
// falls back to announcements.
func ParseChannelType(s string) ChannelType {
	if ChannelType(s) == Status {
		return Status
	}
	return Announcements
}

func (c ChannelType) String() string {
	return string(c)
}

// Title is the heading shown above the feed.
func (c ChannelType) Title() string {
	if c == Status {
		return "Status Updates"
	}
	return "Recent Announcements"
}

// Label is the tab caption.
func (c ChannelType) Label() string {
	if c == Status {
		return "Status"
	}
	return "Announcements"
}
