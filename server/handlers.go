package server

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/soldoriente/evolution-bridge/processor"
)

const (
	serviceName    = "API Sol do Oriente"
	serviceVersion = "1.0.0"

	healthCheckTimeout = 5 * time.Second
)

func (s *Server) webhookHandler(c fiber.Ctx) error {
	var payload processor.WebhookPayload
	if err := c.Bind().JSON(&payload); err != nil {
		log.Error().Err(err).Msg("Error parsing webhook JSON")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Payload inválido",
		})
	}

	if payload.Event == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Campo 'event' é obrigatório",
		})
	}

	messageType := ""
	if payload.Data != nil {
		messageType = payload.Data.MessageType
	}

	log.Info().
		Str("event", payload.Event).
		Str("message_type", messageType).
		Str("instance", payload.Instance).
		Msg("Webhook received")

	// Answer before the pipeline runs so the Evolution API never waits on
	// media fetches or transcription.
	go s.processWebhook(payload)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Webhook recebido e em processamento",
	})
}

func (s *Server) processWebhook(payload processor.WebhookPayload) {
	result, err := s.messageProcessor.ProcessMessage(context.Background(), payload)
	if err != nil {
		log.Error().
			Err(err).
			Str("event", payload.Event).
			Str("instance", payload.Instance).
			Msg("Error processing webhook message")
		return
	}

	if !result.Processed {
		log.Debug().Str("reason", result.Reason).Msg("Webhook event skipped")
		return
	}

	log.Info().Str("event", payload.Event).Msg("Webhook message processed")
}

type serviceStatus struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) healthHandler(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	services := map[string]serviceStatus{
		"supabase": checkService(ctx, s.supabaseCheck),
		"minio":    checkService(ctx, s.minioCheck),
	}

	if s.redisPing != nil {
		status := serviceStatus{Connected: true}
		if err := s.redisPing.Ping(ctx); err != nil {
			status = serviceStatus{Connected: false, Error: err.Error()}
		}
		services["redis"] = status
	}

	allOk := true
	for _, status := range services {
		if !status.Connected {
			allOk = false
		}
	}

	health := fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	}

	if !allOk {
		health["status"] = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(health)
	}

	return c.JSON(health)
}

func checkService(ctx context.Context, checker HealthChecker) serviceStatus {
	if checker == nil {
		return serviceStatus{Connected: false, Error: "not configured"}
	}
	if err := checker.CheckConnection(ctx); err != nil {
		return serviceStatus{Connected: false, Error: err.Error()}
	}
	return serviceStatus{Connected: true}
}

func (s *Server) listRequestsHandler(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries := s.requestLog.List(limit)

	return c.JSON(fiber.Map{
		"success":  true,
		"total":    len(entries),
		"requests": entries,
	})
}

func (s *Server) requestStatsHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   s.requestLog.Stats(),
	})
}

func (s *Server) getRequestHandler(c fiber.Ctx) error {
	entry, ok := s.requestLog.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Requisição não encontrada",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"request": entry,
	})
}

func (s *Server) clearRequestsHandler(c fiber.Ctx) error {
	s.requestLog.Clear()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Requisições limpas com sucesso",
	})
}

func (s *Server) rootHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    serviceName,
		"version": serviceVersion,
		"status":  "running",
		"endpoints": fiber.Map{
			"webhook":   "/webhook/messages",
			"health":    "/health",
			"requests":  "/requests",
			"dashboard": "/dashboard",
		},
	})
}
