// ABOUTME: Template rendering functions for the web app
// ABOUTME: Loads templates from the embedded filesystem and renders them

package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
)

type pageData struct {
	Title string
	Error string
}

type dashboardData struct {
	Title       string
	Email       string
	APIKey      string
	MCPURL      string
	ConnectDocs template.HTML
}

// renderPage renders a page template inside the base layout with the given
// HTTP status.
func (a *App) renderPage(w http.ResponseWriter, page string, status int, data any) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render page", "page", page, "error", err)
	}
}

func (a *App) renderLanding(w http.ResponseWriter) {
	a.renderPage(w, "landing.html", http.StatusOK, pageData{Title: "Welcome"})
}

func (a *App) renderSignup(w http.ResponseWriter, status int, errorMsg string) {
	a.renderPage(w, "signup.html", status, pageData{Title: "Sign Up", Error: errorMsg})
}

func (a *App) renderLogin(w http.ResponseWriter, status int, errorMsg string) {
	a.renderPage(w, "login.html", status, pageData{Title: "Sign In", Error: errorMsg})
}

func (a *App) renderDashboard(w http.ResponseWriter, email, apiKey, mcpURL string) {
	data := dashboardData{
		Title:       "Dashboard",
		Email:       email,
		APIKey:      apiKey,
		MCPURL:      mcpURL,
		ConnectDocs: a.connectDocs(),
	}
	a.renderPage(w, "dashboard.html", http.StatusOK, data)
}

// connectDocs converts the embedded connect guide from markdown to HTML.
func (a *App) connectDocs() template.HTML {
	md, err := docsFS.ReadFile("docs/connect.md")
	if err != nil {
		a.logger.Error("failed to read connect docs", "error", err)
		return ""
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		a.logger.Error("failed to convert connect docs", "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
