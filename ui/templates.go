package ui

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"
)

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written page.
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("Template error", zap.String("template", templateName), zap.Error(err))
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("Error writing template response", zap.Error(err))
	}
}
