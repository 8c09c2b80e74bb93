package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/articles"
	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	opServerRegister = "server.register"
	opServerArticle  = "server.article_id"
)

func (h *httpHandler) handleLanding(c *gin.Context) {
	c.HTML(http.StatusOK, "main.html", gin.H{"Title": "Inkwell"})
}

func (h *httpHandler) handleRegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Title": "Create your blog"})
}

// handleRegister creates an author and starts a session for them.
func (h *httpHandler) handleRegister(c *gin.Context) {
	ctx := c.Request.Context()
	authorID, err := h.users.Register(ctx, c.PostForm("user_name"))
	if err != nil {
		message := ""
		if svcerr.KindOf(err) == svcerr.KindBadRequest {
			message = "Please enter a user name."
		}
		h.renderError(c, err, message)
		return
	}

	token, expiresAt, err := h.sessions.IssueSessionToken(ctx, authorID)
	if err != nil {
		h.logger.Error("failed to issue session token",
			zap.String("request_id", c.GetString(requestIDContextKey)),
			zap.Int64("user_id", authorID.Int64()),
			zap.Error(err))
		h.renderError(c, svcerr.Persistence(opServerRegister, "token_issue_failed", err), "")
		return
	}

	h.setSessionCookie(c, token, expiresAt)
	c.Redirect(http.StatusFound, "/author/homepage")
}

func (h *httpHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.validator.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// parseOptionalArticleID treats an empty value as "no article".
func parseOptionalArticleID(raw string) (articles.ArticleID, error) {
	if raw == "" {
		return 0, nil
	}
	articleID, err := articles.ParseArticleID(raw)
	if err != nil {
		return 0, svcerr.BadRequest(opServerArticle, "invalid", err)
	}
	return articleID, nil
}

func parseArticleID(raw string) (articles.ArticleID, error) {
	articleID, err := articles.ParseArticleID(raw)
	if err != nil {
		return 0, svcerr.BadRequest(opServerArticle, "invalid", err)
	}
	return articleID, nil
}

func articleLocation(articleID articles.ArticleID, referrer string) string {
	location := "/reader/article/" + articleID.String()
	if referrer != "" {
		location += "?referrer=" + url.QueryEscape(referrer)
	}
	return location
}

func commentLocation(articleID articles.ArticleID, referrer string) string {
	location := "/reader/send-comment/" + articleID.String()
	if referrer != "" {
		location += "?referrer=" + url.QueryEscape(referrer)
	}
	return location
}
