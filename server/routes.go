package server

func (s *Server) setupRoutes() {
	s.app.Post("/webhook/messages", s.webhookHandler)
	s.app.Post("/", s.webhookHandler)

	s.app.Get("/health", s.healthHandler)

	s.app.Get("/requests", s.listRequestsHandler)
	s.app.Get("/requests/stats", s.requestStatsHandler)
	s.app.Get("/requests/:id", s.getRequestHandler)
	s.app.Delete("/requests", s.clearRequestsHandler)

	s.app.Get("/dashboard", s.dashboardHandler)
	s.app.Get("/", s.rootHandler)
}
