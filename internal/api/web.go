package api

import (
	"html/template"
	"log"
	"net/http"

	"github.com/google/uuid"
)

const sessionCookieName = "session_id"

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<title>Rental Analysis Agent</title>
<style>
body { font-family: sans-serif; max-width: 48em; margin: 2em auto; padding: 0 1em; }
textarea { width: 100%; height: 4em; }
.answer { white-space: pre-wrap; background: #f4f4f4; padding: 1em; border-radius: 4px; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>Rental Analysis Agent</h1>
<p>Ask a question about historical home-rental data, or request a forecast.</p>
<form method="POST" action="/ask">
<textarea name="q" placeholder="e.g. What was the average rent in zip code 01012 for the past year?">{{.Query}}</textarea>
<p><button type="submit">Submit Query</button></p>
</form>
{{if .Answer}}
<h2>Answer</h2>
<div class="answer">{{.Answer}}</div>
{{end}}
{{if .ChartID}}
<h2>Forecast Chart</h2>
<img src="/api/charts/{{.ChartID}}" alt="forecast chart">
{{end}}
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexPage struct {
	Query   string
	Answer  string
	ChartID string
}

func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	renderIndex(w, indexPage{})
}

func (h *APIHandler) AskFormHandler(w http.ResponseWriter, r *http.Request) {
	query := r.FormValue("q")
	if query == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sessionID := h.sessionIDFromCookie(w, r)

	answer, err := h.agent.Run(r.Context(), sessionID, query, nil)
	if err != nil {
		log.Printf("Error running agent for session %s: %v", sessionID, err)
		answer = "I'm sorry, I encountered an error while processing your request."
	}

	page := indexPage{Query: query, Answer: answer}
	if chartID, ok := h.charts.TakeLatest(); ok {
		page.ChartID = chartID
	}
	renderIndex(w, page)
}

// sessionIDFromCookie keeps one conversation per browser: reuse the
// cookie when present, mint and set one otherwise.
func (h *APIHandler) sessionIDFromCookie(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
	})
	return sessionID
}

func renderIndex(w http.ResponseWriter, page indexPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		log.Printf("Error rendering index template: %v", err)
	}
}
