package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/articles"
	"github.com/MarcoPoloResearchLab/inkwell/internal/auth"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const authorIDContextKey = "inkwell_author_id"

var (
	errMissingUserService    = errors.New("user service dependency required")
	errMissingArticleService = errors.New("article service dependency required")
	errMissingSessionIssuer  = errors.New("session issuer dependency required")
	errMissingValidator      = errors.New("session validator dependency required")
)

// SessionIssuer signs session tokens for newly registered authors.
type SessionIssuer interface {
	IssueSessionToken(ctx context.Context, authorID users.UserID) (string, time.Time, error)
}

// SessionValidator resolves the session cookie on an incoming request.
type SessionValidator interface {
	ValidateRequest(r *http.Request) (auth.SessionClaims, error)
	CookieName() string
}

// Dependencies wires the services behind the HTTP surface.
type Dependencies struct {
	Users          *users.Service
	Articles       *articles.Service
	Sessions       SessionIssuer
	Validator      SessionValidator
	AllowedOrigins []string
	SecureCookies  bool
	Logger         *zap.Logger
}

// NewHTTPHandler builds the gin engine serving the author and reader pages.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Users == nil {
		return nil, errMissingUserService
	}
	if deps.Articles == nil {
		return nil, errMissingArticleService
	}
	if deps.Sessions == nil {
		return nil, errMissingSessionIssuer
	}
	if deps.Validator == nil {
		return nil, errMissingValidator
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := loadTemplates(newMarkdownRenderer(logger))
	if err != nil {
		return nil, err
	}
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(requestLogger(logger))
	if len(deps.AllowedOrigins) > 0 {
		router.Use(corsMiddleware(deps.AllowedOrigins))
	}
	router.SetHTMLTemplate(templates)
	router.StaticFS("/static", http.FS(assets))

	handler := &httpHandler{
		users:         deps.Users,
		articles:      deps.Articles,
		sessions:      deps.Sessions,
		validator:     deps.Validator,
		secureCookies: deps.SecureCookies,
		logger:        logger,
	}

	router.GET("/", handler.handleLanding)
	router.GET("/register", handler.handleRegisterForm)
	router.POST("/add-user", handler.handleRegister)

	authorPages := router.Group("/author")
	authorPages.Use(handler.requireAuthor(htmlResponse))
	authorPages.GET("/homepage", handler.handleAuthorHomepage)
	authorPages.GET("/settings", handler.handleSettingsForm)
	authorPages.GET("/edit", handler.handleEditForm)
	authorPages.GET("/edit/:articleId", handler.handleEditForm)
	authorPages.POST("/edit", handler.handleSubmitEdit)
	authorPages.POST("/edit/:articleId", handler.handleSubmitEdit)

	authorAPI := router.Group("/author")
	authorAPI.Use(handler.requireAuthor(jsonResponse))
	authorAPI.POST("/update-settings", handler.handleUpdateSettings)
	authorAPI.DELETE("/delete/:articleId", handler.handleDeleteArticle)

	reader := router.Group("/reader")
	reader.GET("/homepage", handler.handleReaderHomepage)
	reader.GET("/article/:articleId", handler.handleReadArticle)
	reader.POST("/like/:articleId", handler.handleLikeArticle)
	reader.POST("/send-comment", handler.handleSendComment)
	reader.POST("/send-comment/:articleId", handler.handleSendComment)

	return router, nil
}

type httpHandler struct {
	users         *users.Service
	articles      *articles.Service
	sessions      SessionIssuer
	validator     SessionValidator
	secureCookies bool
	logger        *zap.Logger
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

