package processor

import (
	"regexp"
	"testing"
)

func TestExtractPhoneNumber(t *testing.T) {
	testCases := []struct {
		name     string
		key      *MessageKey
		expected string
	}{
		{
			name:     "Standard WhatsApp address",
			key:      &MessageKey{RemoteJid: "5511999@s.whatsapp.net"},
			expected: "5511999",
		},
		{
			name:     "Bare number without delimiter",
			key:      &MessageKey{RemoteJid: "5511999"},
			expected: "5511999",
		},
		{
			name:     "Alt address used as last resort",
			key:      &MessageKey{RemoteJid: "group-xyz@g.us", RemoteJidAlt: "12345@lid"},
			expected: "12345",
		},
		{
			name:     "Alt only",
			key:      &MessageKey{RemoteJidAlt: "72615733555244@lid"},
			expected: "72615733555244",
		},
		{
			name:     "Alt without delimiter",
			key:      &MessageKey{RemoteJidAlt: "5511888"},
			expected: "5511888",
		},
		{
			name:     "Standard address wins over alt",
			key:      &MessageKey{RemoteJid: "5511@s.whatsapp.net", RemoteJidAlt: "999@lid"},
			expected: "5511",
		},
		{
			name:     "Neither field present",
			key:      &MessageKey{},
			expected: "",
		},
		{
			name:     "Nil key",
			key:      nil,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPhoneNumber(tc.key); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestCurrentTimestamp_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	if ts := CurrentTimestamp(); !pattern.MatchString(ts) {
		t.Errorf("Expected timestamp in YYYY-MM-DD HH:MM:SS format, got %q", ts)
	}
}
