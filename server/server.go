package server

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/soldoriente/evolution-bridge/processor"
	"github.com/soldoriente/evolution-bridge/reqlog"
	"github.com/soldoriente/evolution-bridge/supabase"
)

// HealthChecker is implemented by dependency clients probed by /health.
type HealthChecker interface {
	CheckConnection(ctx context.Context) error
}

// Pinger is implemented by the optional Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LogMirror persists request log entries to the logs table.
type LogMirror interface {
	SaveLog(ctx context.Context, entry supabase.LogEntry) error
}

type Server struct {
	app              *fiber.App
	messageProcessor *processor.MessageProcessor
	requestLog       *reqlog.Store
	logMirror        LogMirror
	supabaseCheck    HealthChecker
	minioCheck       HealthChecker
	redisPing        Pinger
}

// New builds the HTTP server. logMirror, supabaseCheck, minioCheck and
// redisPing may be nil, which disables the corresponding feature or check.
func New(
	messageProcessor *processor.MessageProcessor,
	requestLog *reqlog.Store,
	logMirror LogMirror,
	supabaseCheck HealthChecker,
	minioCheck HealthChecker,
	redisPing Pinger,
) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	server := &Server{
		app:              app,
		messageProcessor: messageProcessor,
		requestLog:       requestLog,
		logMirror:        logMirror,
		supabaseCheck:    supabaseCheck,
		minioCheck:       minioCheck,
		redisPing:        redisPing,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) {
	log.Info().Str("port", port).Msg("Starting webhook server")

	err := s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
