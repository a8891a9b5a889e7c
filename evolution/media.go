package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type mediaResponse struct {
	Base64 string `json:"base64"`
}

// GetMediaBase64 fetches the base64 payload of a media message. Server errors
// and transport failures are retried with a fixed delay; any other failure
// status aborts on the attempt that saw it. The returned string may be empty
// when the platform has no media for the message.
func (c *Client) GetMediaBase64(ctx context.Context, serverURL, instance, apikey, messageID string) (string, error) {
	url := fmt.Sprintf("%s/chat/getBase64FromMediaMessage/%s", serverURL, instance)

	payload, err := json.Marshal(map[string]string{
		"message.key.id": messageID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal media request: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		log.Info().
			Int("attempt", attempt).
			Int("max_attempts", c.maxAttempts).
			Str("message_id", messageID).
			Msg("Fetching media from Evolution API")

		base64Data, retryable, err := c.fetchMedia(ctx, url, apikey, payload)
		if err == nil {
			return base64Data, nil
		}

		lastErr = err
		if !retryable || attempt == c.maxAttempts {
			return "", err
		}

		log.Warn().
			Err(err).
			Str("message_id", messageID).
			Dur("retry_delay", c.retryDelay).
			Msg("Media fetch failed, retrying")

		if err := c.wait(ctx); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Client) fetchMedia(ctx context.Context, url, apikey string, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apikey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", true, fmt.Errorf("server error: HTTP %d", resp.StatusCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read response body: %w", err)
	}

	var media mediaResponse
	if err := json.Unmarshal(body, &media); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal media response: %w", err)
	}

	return media.Base64, false, nil
}

func (c *Client) wait(ctx context.Context) error {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
