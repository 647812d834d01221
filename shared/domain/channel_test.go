package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannelType(t *testing.T) {
	tests := []struct {
		input    string
		expected ChannelType
	}{
		{"status", Status},
		{"announcements", Announcements},
		{"", Announcements},
		{"STATUS", Announcements},
		{"unknown", Announcements},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseChannelType(tt.input))
		})
	}
}

func TestChannelTypeLabels(t *testing.T) {
	assert.Equal(t, "Status Updates", Status.Title())
	assert.Equal(t, "Recent Announcements", Announcements.Title())
	assert.Equal(t, "Status", Status.Label())
	assert.Equal(t, "Announcements", Announcements.Label())
}
