package web

import (
	"html/template"
	"net/http"

	"zoom-attendance-llm/attendance"
)

type pageData struct {
	Message            string
	HasSession         bool
	Provider           string
	Attendees          []attendance.Entry
	DefaultModel       string
	DefaultGeminiModel string
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Meeting Attendance Counter</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
.msg { background: #eef6ff; border: 1px solid #99c; padding: 8px; }
form { margin: 1em 0; }
</style>
</head>
<body>
<h1>Meeting Attendance Counter</h1>
{{if .Message}}<p class="msg">{{.Message}}</p>{{end}}

{{if not .HasSession}}
<p>Enter an API credential to start a counting session. The key is kept in
memory for this session only.</p>
<form method="post" action="/session">
  <label>Provider
    <select name="provider">
      <option value="openrouter">OpenRouter</option>
      <option value="gemini">Gemini</option>
    </select>
  </label>
  <label>API key <input type="password" name="api_key" required></label>
  <label>Model <input type="text" name="model" value="{{.DefaultModel}}"></label>
  <button type="submit">Start session</button>
</form>
{{else}}
<p>Provider: {{.Provider}}</p>
<form method="post" action="/capture" enctype="multipart/form-data">
  <label>Participant panel screenshot
    <input type="file" name="image" accept="image/png,image/jpeg" required>
  </label>
  <button type="submit">Analyze</button>
</form>

<h2>Attendees ({{len .Attendees}})</h2>
{{if .Attendees}}
<table>
  <tr><th>Name</th><th>First seen</th><th>Count</th></tr>
  {{range .Attendees}}
  <tr>
    <td>{{.Name}}</td>
    <td>{{.FirstSeen.Format "2006-01-02 15:04:05"}}</td>
    <td>{{.Count}}</td>
  </tr>
  {{end}}
</table>
<form method="get" action="/export.csv"><button type="submit">Download CSV</button></form>
{{else}}
<p>No attendees recorded yet. Upload a screenshot to begin.</p>
{{end}}
<form method="post" action="/reset"><button type="submit">Clear data</button></form>
{{end}}
</body>
</html>
`))

func (s *Server) renderIndex(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("template render failed")
	}
}
