package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const messagesTable = "Mensagens"

// Message is the normalized record persisted for every processed webhook.
// The fields mirror the columns of the Mensagens table exactly, so the
// encoder never emits a column the table does not have.
type Message struct {
	Telefone  string `json:"telefone"`
	Instancia string `json:"instancia"`
	Remetente string `json:"remetente"`
	Mensagem  string `json:"mensagem"`
	CriadoEm  string `json:"criado_em"`
}

func (c *Client) SaveMessage(ctx context.Context, msg Message) error {
	log.Info().
		Str("telefone", msg.Telefone).
		Str("instancia", msg.Instancia).
		Str("remetente", msg.Remetente).
		Msg("Saving message to Supabase")

	if _, _, err := c.insert(ctx, messagesTable, msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	log.Info().Str("telefone", msg.Telefone).Msg("Message saved")
	return nil
}

// CheckConnection probes the messages table for the health endpoint.
func (c *Client) CheckConnection(ctx context.Context) error {
	url := fmt.Sprintf("%s/rest/v1/%s?select=id&limit=1", c.baseURL, messagesTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if !isSuccessStatusCode(resp.StatusCode) {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
