package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/soldoriente/evolution-bridge/processor"
	"github.com/soldoriente/evolution-bridge/reqlog"
	"github.com/soldoriente/evolution-bridge/supabase"
)

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(logger.New())

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	s.app.Use(s.captureRequest)
}

// captureRequest snapshots each transaction into the ring buffer and mirrors
// it to the logs table. The dashboard page is skipped — its HTML responses
// would crowd out the traffic the dashboard exists to show.
func (s *Server) captureRequest(c fiber.Ctx) error {
	err := c.Next()

	if c.Path() == "/dashboard" {
		return err
	}

	entry := reqlog.Entry{
		Method: c.Method(),
		Path:   c.Path(),
		URL:    c.OriginalURL(),
		Headers: map[string]string{
			"content-type": c.Get("Content-Type"),
			"user-agent":   c.Get("User-Agent"),
			"origin":       c.Get("Origin"),
		},
		Body:     string(c.Body()),
		Query:    c.Queries(),
		Response: string(c.Response().Body()),
	}

	recorded := s.requestLog.Record(entry)

	if s.logMirror != nil {
		go s.mirrorToSupabase(recorded)
	}

	return err
}

// mirrorToSupabase persists a request snapshot to the logs table. Runs
// detached from the request; failures are logged inside SaveLog and never
// reach the caller.
func (s *Server) mirrorToSupabase(entry reqlog.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recordedAt, parseErr := time.Parse(time.RFC3339, entry.Timestamp)
	if parseErr != nil {
		recordedAt = time.Now()
	}

	logEntry := supabase.LogEntry{
		Tipo:      supabase.LogTypeForPath(entry.Path),
		Mensagem:  summarizeRequest(entry),
		Method:    entry.Method,
		Path:      entry.Path,
		Body:      entry.Body,
		Response:  entry.Response,
		CriadoEm:  recordedAt.UTC().Format("2006-01-02 15:04:05"),
		CreatedAt: recordedAt.UTC().Format(time.RFC3339),
	}

	if len(entry.Query) > 0 {
		if queryJSON, err := json.Marshal(entry.Query); err == nil {
			logEntry.QueryParams = string(queryJSON)
		}
	}

	if err := s.logMirror.SaveLog(ctx, logEntry); err != nil {
		log.Warn().Err(err).Str("path", entry.Path).Msg("Request log mirror failed")
	}
}

// summarizeRequest builds the mensagem column value. Webhook message
// deliveries are summarized from the payload itself so the log reads as a
// conversation transcript.
func summarizeRequest(entry reqlog.Entry) string {
	summary := supabase.Summarize(entry.Method, entry.Path)

	if !strings.Contains(entry.Path, "webhook") || entry.Body == "" {
		return summary
	}

	var payload processor.WebhookPayload
	if err := json.Unmarshal([]byte(entry.Body), &payload); err != nil {
		return summary
	}

	text := ""
	if payload.Data != nil && payload.Data.Message != nil {
		msg := payload.Data.Message
		switch {
		case msg.Conversation != "":
			text = msg.Conversation
		case msg.ImageMessage != nil && msg.ImageMessage.Caption != "":
			text = msg.ImageMessage.Caption
		case msg.AudioMessage != nil:
			text = "Áudio recebido"
		case msg.ImageMessage != nil:
			text = "Imagem recebida"
		}
	}

	event := payload.Event
	if event == "" {
		event = "Webhook"
	}

	if text != "" {
		return fmt.Sprintf("[%s] %s", event, text)
	}
	return fmt.Sprintf("[%s] %s", event, summary)
}
