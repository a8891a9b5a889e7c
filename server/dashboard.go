package server

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/soldoriente/evolution-bridge/reqlog"
)

const dashboardRefreshSeconds = 5

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta http-equiv="refresh" content="{{.Refresh}}">
  <title>Dashboard - API Sol do Oriente</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      min-height: 100vh;
      padding: 20px;
      color: #333;
    }
    .container { max-width: 1400px; margin: 0 auto; }
    .header {
      background: white;
      border-radius: 12px;
      padding: 30px;
      margin-bottom: 20px;
      box-shadow: 0 4px 6px rgba(0,0,0,0.1);
    }
    .header h1 { color: #667eea; margin-bottom: 10px; font-size: 2em; }
    .stats {
      display: grid;
      grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
      gap: 15px;
      margin-top: 20px;
    }
    .stat-card {
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      color: white;
      border-radius: 8px;
      padding: 20px;
      text-align: center;
    }
    .stat-card .value { font-size: 2em; font-weight: bold; }
    .stat-card .label { opacity: 0.85; margin-top: 5px; }
    .requests {
      background: white;
      border-radius: 12px;
      padding: 30px;
      box-shadow: 0 4px 6px rgba(0,0,0,0.1);
    }
    table { width: 100%; border-collapse: collapse; }
    th, td { text-align: left; padding: 10px 12px; border-bottom: 1px solid #eee; }
    th { color: #667eea; }
    .method {
      display: inline-block;
      padding: 2px 10px;
      border-radius: 4px;
      color: white;
      font-size: 0.85em;
      background: #667eea;
    }
    .method.POST { background: #38a169; }
    .method.DELETE { background: #e53e3e; }
    .empty { text-align: center; color: #999; padding: 40px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>API Sol do Oriente</h1>
      <p>Requisições recentes (atualiza a cada {{.Refresh}}s)</p>
      <div class="stats">
        <div class="stat-card">
          <div class="value">{{.Stats.Total}}</div>
          <div class="label">Total armazenado</div>
        </div>
        {{range $method, $count := .Stats.ByMethod}}
        <div class="stat-card">
          <div class="value">{{$count}}</div>
          <div class="label">{{$method}}</div>
        </div>
        {{end}}
      </div>
    </div>
    <div class="requests">
      {{if .Entries}}
      <table>
        <tr><th>Quando</th><th>Método</th><th>Caminho</th><th>Resposta</th></tr>
        {{range .Entries}}
        <tr>
          <td>{{.Timestamp}}</td>
          <td><span class="method {{.Method}}">{{.Method}}</span></td>
          <td>{{.Path}}</td>
          <td>{{.Response}}</td>
        </tr>
        {{end}}
      </table>
      {{else}}
      <div class="empty">Nenhuma requisição registrada ainda</div>
      {{end}}
    </div>
  </div>
</body>
</html>
`))

type dashboardData struct {
	Refresh int
	Stats   reqlog.Stats
	Entries []reqlog.Entry
}

func (s *Server) dashboardHandler(c fiber.Ctx) error {
	data := dashboardData{
		Refresh: dashboardRefreshSeconds,
		Stats:   s.requestLog.Stats(),
		Entries: s.requestLog.List(25),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard")
		return c.Status(fiber.StatusInternalServerError).SendString("Erro ao renderizar dashboard")
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}
