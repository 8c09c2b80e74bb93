package server

import (
	"net/http"

	"github.com/MarcoPoloResearchLab/inkwell/internal/articles"
	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"github.com/gin-gonic/gin"
)

const (
	messageArticleLiked    = "Article Like Successfully."
	messageLikeFailed      = "Failed to like article."
	messageCommentRejected = "Missing article ID or incorrect action."
)

func (h *httpHandler) handleReaderHomepage(c *gin.Context) {
	feed, err := h.articles.PublishedFeed(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "reader_homepage.html", gin.H{
		"Title":    "Reader Homepage",
		"Articles": feed,
	})
}

func (h *httpHandler) handleReadArticle(c *gin.Context) {
	articleID, err := parseArticleID(c.Param("articleId"))
	if err != nil {
		h.renderError(c, svcerr.NotFound(opServerArticle, "invalid", err), "")
		return
	}

	referrer := c.Query("referrer")
	page, err := h.articles.Read(c.Request.Context(), articleID, referrer)
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	back := "/reader/homepage"
	if referrer == articles.ReferrerAuthor {
		back = "/author/homepage"
	}
	c.HTML(http.StatusOK, "article.html", gin.H{
		"Title":         page.Article.Title,
		"Page":          page,
		"BackLink":      back,
		"CommentTarget": commentLocation(articleID, referrer),
	})
}

func (h *httpHandler) handleLikeArticle(c *gin.Context) {
	articleID, err := parseArticleID(c.Param("articleId"))
	if err != nil {
		h.respondJSONError(c, err, messageLikeFailed)
		return
	}
	if err := h.articles.Like(c.Request.Context(), articleID); err != nil {
		h.respondJSONError(c, err, messageLikeFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": messageArticleLiked})
}

// handleSendComment takes the article from the path, falling back to the hidden form field.
func (h *httpHandler) handleSendComment(c *gin.Context) {
	rawID := c.Param("articleId")
	if rawID == "" {
		rawID = c.PostForm("article_id")
	}
	articleID, err := parseOptionalArticleID(rawID)
	if err != nil {
		h.renderError(c, err, messageCommentRejected)
		return
	}

	referrer := c.Query("referrer")
	if referrer == "" {
		referrer = c.PostForm("referrer")
	}

	_, err = h.articles.AddComment(c.Request.Context(), articles.CommentSubmission{
		ArticleID: articleID,
		Action:    articles.Action(c.PostForm("action")),
		Name:      c.PostForm("commenter_name"),
		Content:   c.PostForm("article_comment"),
	})
	if err != nil {
		message := ""
		if svcerr.KindOf(err) == svcerr.KindBadRequest {
			message = messageCommentRejected
		}
		h.renderError(c, err, message)
		return
	}
	c.Redirect(http.StatusFound, articleLocation(articleID, referrer))
}
