package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// markdownRenderer turns article bodies into HTML. Bodies written in the rich
// text editor are already HTML and pass through untouched.
type markdownRenderer struct {
	engine goldmark.Markdown
	logger *zap.Logger
}

func newMarkdownRenderer(logger *zap.Logger) *markdownRenderer {
	return &markdownRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
		logger: logger,
	}
}

func (r *markdownRenderer) render(source string) template.HTML {
	var buffer bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buffer); err != nil {
		r.logger.Warn("markdown conversion failed", zap.Error(err))
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buffer.String())
}

func loadTemplates(renderer *markdownRenderer) (*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": renderer.render,
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func statusForError(err error) int {
	switch svcerr.KindOf(err) {
	case svcerr.KindNotFound:
		return http.StatusNotFound
	case svcerr.KindForbidden:
		return http.StatusForbidden
	case svcerr.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "The page you are looking for does not exist."
	case http.StatusForbidden:
		return "You are not allowed to access this article."
	case http.StatusBadRequest:
		return "The request could not be processed."
	default:
		return "Something went wrong. Please try again later."
	}
}

// renderError shows error.html. An empty message falls back to a generic one for the status.
func (h *httpHandler) renderError(c *gin.Context, err error, message string) {
	status := statusForError(err)
	if message == "" {
		message = defaultMessage(status)
	}
	c.HTML(status, "error.html", gin.H{
		"Title":     http.StatusText(status),
		"Status":    status,
		"Message":   message,
		"Code":      svcerr.CodeOf(err),
		"RequestID": c.GetString(requestIDContextKey),
	})
}

func (h *httpHandler) respondJSONError(c *gin.Context, err error, message string) {
	c.JSON(statusForError(err), gin.H{
		"message": message,
		"code":    svcerr.CodeOf(err),
	})
}
