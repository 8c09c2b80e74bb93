package server

import (
	"net/http"

	"github.com/MarcoPoloResearchLab/inkwell/internal/articles"
	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"github.com/gin-gonic/gin"
)

const (
	messageSettingsUpdated = "Updated Successfully."
	messageSettingsFailed  = "Failed to update settings."
	messageArticleDeleted  = "Article Deleted Successfully."
	messageDeleteFailed    = "Failed to delete article."
	messageUnknownAction   = "Unknown action"
)

func (h *httpHandler) handleAuthorHomepage(c *gin.Context) {
	homepage, err := h.articles.Homepage(c.Request.Context(), currentAuthor(c))
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	title := homepage.Profile.BlogTitle
	if title == "" {
		title = "Author Homepage"
	}
	c.HTML(http.StatusOK, "author_homepage.html", gin.H{
		"Title":     title,
		"Profile":   homepage.Profile,
		"Drafts":    homepage.Drafts,
		"Published": homepage.Published,
	})
}

func (h *httpHandler) handleSettingsForm(c *gin.Context) {
	settings, err := h.users.Settings(c.Request.Context(), currentAuthor(c))
	if err != nil {
		h.renderError(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "author_settings.html", gin.H{
		"Title":    "Settings",
		"Settings": settings,
	})
}

func (h *httpHandler) handleUpdateSettings(c *gin.Context) {
	err := h.users.UpdateSettings(c.Request.Context(), currentAuthor(c), users.Settings{
		Name:         c.PostForm("user_name"),
		BlogTitle:    c.PostForm("blog_title"),
		BlogSubtitle: c.PostForm("blog_subtitle"),
	})
	if err != nil {
		h.respondJSONError(c, err, messageSettingsFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": messageSettingsUpdated})
}

func (h *httpHandler) handleEditForm(c *gin.Context) {
	articleID, err := parseOptionalArticleID(c.Param("articleId"))
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	form, err := h.articles.EditView(c.Request.Context(), currentAuthor(c), articleID)
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	target := "/author/edit"
	if !form.IsNew() {
		target += "/" + articles.ArticleID(form.ID).String()
	}
	c.HTML(http.StatusOK, "author_edit.html", gin.H{
		"Title":  form.Title,
		"Form":   form,
		"Target": target,
	})
}

// handleSubmitEdit takes the article from the path, falling back to the hidden form field.
func (h *httpHandler) handleSubmitEdit(c *gin.Context) {
	rawID := c.Param("articleId")
	if rawID == "" {
		rawID = c.PostForm("article_id")
	}
	articleID, err := parseOptionalArticleID(rawID)
	if err != nil {
		h.renderError(c, err, "")
		return
	}

	_, err = h.articles.SubmitEdit(c.Request.Context(), currentAuthor(c), articles.EditSubmission{
		ArticleID: articleID,
		Action:    articles.Action(c.PostForm("action")),
		Title:     c.PostForm("article_title"),
		Content:   c.PostForm("article_content"),
	})
	if err != nil {
		message := ""
		if svcerr.KindOf(err) == svcerr.KindBadRequest {
			message = messageUnknownAction
		}
		h.renderError(c, err, message)
		return
	}
	c.Redirect(http.StatusFound, "/author/homepage")
}

func (h *httpHandler) handleDeleteArticle(c *gin.Context) {
	articleID, err := parseArticleID(c.Param("articleId"))
	if err != nil {
		h.respondJSONError(c, err, messageDeleteFailed)
		return
	}
	if err := h.articles.Delete(c.Request.Context(), currentAuthor(c), articleID); err != nil {
		h.respondJSONError(c, err, messageDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": messageArticleDeleted})
}
