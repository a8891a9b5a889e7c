package processor

import (
	"context"

	"github.com/soldoriente/evolution-bridge/supabase"
)

// EvolutionClientInterface defines the media retrieval methods the processor needs.
type EvolutionClientInterface interface {
	GetMediaBase64(ctx context.Context, serverURL, instance, apikey, messageID string) (string, error)
}

// GroqClientInterface defines the transcription methods the processor needs.
type GroqClientInterface interface {
	Transcribe(ctx context.Context, base64Audio string) (string, error)
}

// StorageClientInterface defines the object storage methods the processor needs.
type StorageClientInterface interface {
	UploadImage(ctx context.Context, base64Image, telefone string) (string, error)
}

// SupabaseClientInterface defines the persistence methods the processor needs.
type SupabaseClientInterface interface {
	SaveMessage(ctx context.Context, msg supabase.Message) error
}

// CacheClientInterface defines the optional media cache. A nil cache is valid
// and disables caching.
type CacheClientInterface interface {
	GetMedia(ctx context.Context, messageID string) (string, bool)
	SetMedia(ctx context.Context, messageID, base64Data string)
}
