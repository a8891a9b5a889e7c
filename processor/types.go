package processor

// WebhookPayload is the Evolution API webhook envelope. Only the fields the
// pipeline reads are decoded; everything else is ignored.
type WebhookPayload struct {
	Event     string     `json:"event"`
	Instance  string     `json:"instance"`
	Data      *EventData `json:"data,omitempty"`
	ServerURL string     `json:"server_url"`
	APIKey    string     `json:"apikey"`
}

type EventData struct {
	MessageType string       `json:"messageType"`
	Message     *MessageBody `json:"message,omitempty"`
	Key         *MessageKey  `json:"key,omitempty"`
}

type MessageBody struct {
	Conversation string        `json:"conversation,omitempty"`
	ImageMessage *ImageMessage `json:"imageMessage,omitempty"`
	AudioMessage *AudioMessage `json:"audioMessage,omitempty"`
}

type ImageMessage struct {
	Caption  string `json:"caption,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
}

type AudioMessage struct {
	Mimetype string `json:"mimetype,omitempty"`
	Seconds  int    `json:"seconds,omitempty"`
}

type MessageKey struct {
	RemoteJid    string `json:"remoteJid,omitempty"`
	RemoteJidAlt string `json:"remoteJidAlt,omitempty"`
	ID           string `json:"id,omitempty"`
	FromMe       bool   `json:"fromMe,omitempty"`
}

// Result reports whether a webhook event was handled and, when it was not,
// why it was skipped.
type Result struct {
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
}

func (p WebhookPayload) key() *MessageKey {
	if p.Data == nil {
		return nil
	}
	return p.Data.Key
}

func (p WebhookPayload) conversationText() string {
	if p.Data == nil || p.Data.Message == nil {
		return ""
	}
	return p.Data.Message.Conversation
}

func (p WebhookPayload) imageCaption() string {
	if p.Data == nil || p.Data.Message == nil || p.Data.Message.ImageMessage == nil {
		return ""
	}
	return p.Data.Message.ImageMessage.Caption
}

func (p WebhookPayload) messageID() string {
	if key := p.key(); key != nil {
		return key.ID
	}
	return ""
}

func (p WebhookPayload) fromMe() bool {
	if key := p.key(); key != nil {
		return key.FromMe
	}
	return false
}
