package processor

import (
	"strings"
	"time"
)

const whatsappSuffix = "@s.whatsapp.net"

// ExtractPhoneNumber derives the canonical phone identifier from a message
// key. Precedence: a remoteJid carrying the standard WhatsApp suffix wins,
// then a bare remoteJid without an address delimiter, then remoteJidAlt.
// Returns "" when no usable field is present.
func ExtractPhoneNumber(key *MessageKey) string {
	if key == nil {
		return ""
	}

	if key.RemoteJid != "" {
		if strings.Contains(key.RemoteJid, whatsappSuffix) {
			return key.RemoteJid[:strings.Index(key.RemoteJid, "@")]
		}
		if !strings.Contains(key.RemoteJid, "@") {
			return key.RemoteJid
		}
	}

	if key.RemoteJidAlt != "" {
		if idx := strings.Index(key.RemoteJidAlt, "@"); idx != -1 {
			return key.RemoteJidAlt[:idx]
		}
		return key.RemoteJidAlt
	}

	return ""
}

// CurrentTimestamp returns the local time in the format the Mensagens table
// expects.
func CurrentTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
