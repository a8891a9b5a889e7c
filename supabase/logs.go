package supabase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const logsTable = "logs"

const (
	maxLogMessageLen = 5000
	maxLogPayloadLen = 10000
)

// LogEntry mirrors the logs table. The deployed schema drifted between
// criado_em and created_at, so both are sent and the insert falls back to a
// minimal column subset when the table rejects one of them.
type LogEntry struct {
	Tipo        string `json:"tipo"`
	Mensagem    string `json:"mensagem"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	Body        string `json:"body,omitempty"`
	Response    string `json:"response,omitempty"`
	QueryParams string `json:"query_params,omitempty"`
	CriadoEm    string `json:"criado_em,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// SaveLog inserts a request log row. Failures here must never disturb the
// main pipeline, so every error path logs and returns nil.
func (c *Client) SaveLog(ctx context.Context, entry LogEntry) error {
	entry.Mensagem = truncate(entry.Mensagem, maxLogMessageLen)
	entry.Body = truncate(entry.Body, maxLogPayloadLen)
	entry.Response = truncate(entry.Response, maxLogPayloadLen)

	body, _, err := c.insert(ctx, logsTable, entry)
	if err == nil {
		return nil
	}

	if !isUndefinedColumnError(body) {
		log.Error().Err(err).Str("tipo", entry.Tipo).Msg("Failed to save request log to Supabase")
		return nil
	}

	log.Warn().
		Str("tipo", entry.Tipo).
		Msg("Log table rejected a column, retrying with minimal subset")

	minimal := LogEntry{
		Tipo:     entry.Tipo,
		Mensagem: entry.Mensagem,
		CriadoEm: entry.CriadoEm,
	}

	if _, _, err := c.insert(ctx, logsTable, minimal); err != nil {
		log.Error().Err(err).Str("tipo", entry.Tipo).Msg("Failed to save minimal request log to Supabase")
	}

	return nil
}

// isUndefinedColumnError detects the PostgREST schema-mismatch responses
// (PGRST204 schema cache miss, 42703 undefined column).
func isUndefinedColumnError(body []byte) bool {
	s := string(body)
	return strings.Contains(s, "PGRST204") || strings.Contains(s, "42703")
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// LogTypeForPath classifies a request path for the tipo column.
func LogTypeForPath(path string) string {
	switch {
	case strings.Contains(path, "webhook/messages"):
		return "Mensagem"
	case strings.Contains(path, "health"):
		return "Health"
	case strings.Contains(path, "stats"):
		return "Stats"
	case strings.Contains(path, "webhook"):
		return "Webhook"
	default:
		return "API"
	}
}

// Summarize builds the mensagem column value for a request log row.
func Summarize(method, path string) string {
	return fmt.Sprintf("%s %s", method, path)
}
