package articles

import (
	"context"
	"errors"

	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewArticleTitle pre-fills the title of the new-article form.
const NewArticleTitle = "New Article"

// Homepage aggregates the author dashboard.
type Homepage struct {
	Profile   users.User
	Drafts    []FormattedArticle
	Published []FormattedArticle
}

// EditForm is the article edit view. ID is zero for a new article.
type EditForm struct {
	ID         int64
	Title      string
	Content    string
	Status     Status
	CreatedAt  string
	ModifiedAt string
}

// IsNew reports whether the form creates an article rather than editing one.
func (f EditForm) IsNew() bool {
	return f.ID == 0
}

// Homepage loads the author's profile together with their draft and published articles.
func (s *Service) Homepage(ctx context.Context, authorID users.UserID) (Homepage, error) {
	if err := s.ready(opHomepage); err != nil {
		return Homepage{}, err
	}

	profile, err := s.profiles.Profile(ctx, authorID)
	if err != nil {
		return Homepage{}, err
	}

	drafts, err := s.listByStatus(ctx, authorID, StatusDraft)
	if err != nil {
		return Homepage{}, err
	}
	published, err := s.listByStatus(ctx, authorID, StatusPublished)
	if err != nil {
		return Homepage{}, err
	}

	return Homepage{
		Profile:   profile,
		Drafts:    formatArticles(drafts, profile.Name, s.location),
		Published: formatArticles(published, profile.Name, s.location),
	}, nil
}

func (s *Service) listByStatus(ctx context.Context, authorID users.UserID, status Status) ([]Article, error) {
	var rows []Article
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND article_status = ?", authorID.Int64(), status).
		Order("article_modification_datetime DESC, article_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, s.storeError(opHomepage, reasonQueryFailed, err,
			zap.Int64("user_id", authorID.Int64()),
			zap.String("status", string(status)))
	}
	return rows, nil
}

// EditView returns the edit form for an owned article, or a new-article form when articleID is zero.
func (s *Service) EditView(ctx context.Context, authorID users.UserID, articleID ArticleID) (EditForm, error) {
	if articleID == 0 {
		now := FormatTimestamp(s.now(), s.location)
		return EditForm{
			Title:      NewArticleTitle,
			Status:     StatusDraft,
			CreatedAt:  now,
			ModifiedAt: now,
		}, nil
	}
	if err := s.ready(opEditView); err != nil {
		return EditForm{}, err
	}

	article, err := loadOwned(ctx, s.db, opEditView, authorID, articleID)
	if err != nil {
		return EditForm{}, s.storeError(opEditView, reasonQueryFailed, err,
			zap.Int64("user_id", authorID.Int64()),
			zap.Int64("article_id", articleID.Int64()))
	}

	return EditForm{
		ID:         article.ID,
		Title:      article.Title,
		Content:    article.Content,
		Status:     article.Status,
		CreatedAt:  FormatTimestamp(article.CreationTime, s.location),
		ModifiedAt: FormatTimestamp(article.ModificationTime, s.location),
	}, nil
}

// SubmitEdit creates, updates or publishes an article and returns its identifier.
//
// Save Draft never changes the status, so a published article stays published.
// Post sets the publication time only on the first publish.
func (s *Service) SubmitEdit(ctx context.Context, authorID users.UserID, submission EditSubmission) (ArticleID, error) {
	if submission.Action != ActionSaveDraft && submission.Action != ActionPost {
		return 0, svcerr.BadRequest(opSubmitEdit, "unknown_action", errUnknownAction)
	}
	if err := s.ready(opSubmitEdit); err != nil {
		return 0, err
	}

	now := s.now()
	fields := []zap.Field{
		zap.Int64("user_id", authorID.Int64()),
		zap.String("action", string(submission.Action)),
	}

	if submission.ArticleID == 0 {
		article := Article{
			UserID:           authorID.Int64(),
			Title:            submission.Title,
			Content:          submission.Content,
			Status:           StatusDraft,
			CreationTime:     now,
			ModificationTime: now,
		}
		if submission.Action == ActionPost {
			article.Status = StatusPublished
			article.PublicationTime = &now
		}
		if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
			return 0, s.storeError(opSubmitEdit, "insert_failed", err, fields...)
		}
		return ArticleID(article.ID), nil
	}

	fields = append(fields, zap.Int64("article_id", submission.ArticleID.Int64()))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := loadOwned(ctx, tx, opSubmitEdit, authorID, submission.ArticleID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"article_title":                 submission.Title,
			"article_content":               submission.Content,
			"article_modification_datetime": now,
		}
		if submission.Action == ActionPost {
			updates["article_status"] = StatusPublished
			if existing.PublicationTime == nil {
				updates["article_publication_datetime"] = now
			}
		}

		return tx.Model(&Article{}).
			Where("article_id = ? AND user_id = ?", existing.ID, authorID.Int64()).
			Updates(updates).Error
	})
	if err != nil {
		return 0, s.storeError(opSubmitEdit, "update_failed", err, fields...)
	}
	return submission.ArticleID, nil
}

// Delete removes an article owned by the author. Its comments cascade.
// Nothing matching both identifiers is reported as not found.
func (s *Service) Delete(ctx context.Context, authorID users.UserID, articleID ArticleID) error {
	if err := s.ready(opDelete); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("article_id = ? AND user_id = ?", articleID.Int64(), authorID.Int64()).
		Delete(&Article{})
	if result.Error != nil {
		return s.storeError(opDelete, "delete_failed", result.Error,
			zap.Int64("user_id", authorID.Int64()),
			zap.Int64("article_id", articleID.Int64()))
	}
	if result.RowsAffected == 0 {
		return svcerr.NotFound(opDelete, reasonNotFound, gorm.ErrRecordNotFound)
	}

	s.loggerOrDefault().Info("article deleted",
		zap.Int64("user_id", authorID.Int64()),
		zap.Int64("article_id", articleID.Int64()))
	return nil
}

func loadOwned(ctx context.Context, db *gorm.DB, operation string, authorID users.UserID, articleID ArticleID) (Article, error) {
	var article Article
	err := db.WithContext(ctx).Where("article_id = ?", articleID.Int64()).Take(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Article{}, svcerr.NotFound(operation, reasonNotFound, err)
	}
	if err != nil {
		return Article{}, err
	}
	if article.UserID != authorID.Int64() {
		return Article{}, svcerr.Forbidden(operation, reasonNotOwner, errNotOwner)
	}
	return article, nil
}
