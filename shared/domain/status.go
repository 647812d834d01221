package domain

// StatusColor is the indicator shown next to a status-feed message.
type StatusColor string

const (
	StatusGreen  StatusColor = "green"
	StatusOrange StatusColor = "orange"
	StatusRed    StatusColor = "red"
	StatusGray   StatusColor = "gray"
)

func (s StatusColor) String() string {
	return string(s)
}
