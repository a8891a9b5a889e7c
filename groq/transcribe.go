package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
)

// Transcribe decodes a base64-encoded audio payload and sends it to the
// transcription API. Returns the transcribed text, which may be empty when
// the model produced no output.
func (c *Client) Transcribe(ctx context.Context, base64Audio string) (string, error) {
	audioData, err := decodeBase64(base64Audio)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio payload: %w", err)
	}

	log.Info().
		Int("audio_size", len(audioData)).
		Str("model", DefaultModel).
		Msg("Transcribing audio")

	transcription, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audioData), "audio.ogg", "audio/ogg"),
		Model:          DefaultModel,
		Language:       openai.String("pt"),
		ResponseFormat: openai.AudioResponseFormatJSON,
		Temperature:    openai.Float(0.5),
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	log.Info().
		Str("transcribed_text", transcription.Text).
		Msg("Audio transcription completed")

	return transcription.Text, nil
}

// decodeBase64 decodes a base64 string, tolerating a data-URL prefix.
func decodeBase64(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx != -1 {
			data = data[idx+1:]
		}
	}
	return base64.StdEncoding.DecodeString(data)
}
