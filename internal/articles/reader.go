package articles

import (
	"context"
	"errors"

	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArticlePage is a published article with its comments in insertion order.
type ArticlePage struct {
	Article  FormattedArticle
	Comments []Comment
	Referrer string
}

// PublishedFeed lists every published article with its author name, newest publication first.
// Rows without a publication time sort last; ties fall back to the newest identifier.
func (s *Service) PublishedFeed(ctx context.Context) ([]FormattedArticle, error) {
	if err := s.ready(opPublishedFeed); err != nil {
		return nil, err
	}

	var rows []authoredArticle
	err := authoredArticles(s.db.WithContext(ctx)).
		Where("articles.article_status = ?", StatusPublished).
		Order("articles.article_publication_datetime IS NULL, articles.article_publication_datetime DESC, articles.article_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, s.storeError(opPublishedFeed, reasonQueryFailed, err)
	}
	return formatAuthoredArticles(rows, s.location), nil
}

// Read loads a published article and its comments. Unless the referrer is the author,
// the view count is incremented first, in the same transaction as the reload.
func (s *Service) Read(ctx context.Context, articleID ArticleID, referrer string) (ArticlePage, error) {
	if err := s.ready(opRead); err != nil {
		return ArticlePage{}, err
	}

	countView := referrer != ReferrerAuthor
	var page ArticlePage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if countView {
			result := tx.Model(&Article{}).
				Where("article_id = ? AND article_status = ?", articleID.Int64(), StatusPublished).
				UpdateColumn("article_view", gorm.Expr("article_view + ?", 1))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return svcerr.NotFound(opRead, reasonNotFound, gorm.ErrRecordNotFound)
			}
		}

		var row authoredArticle
		err := authoredArticles(tx).
			Where("articles.article_id = ? AND articles.article_status = ?", articleID.Int64(), StatusPublished).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcerr.NotFound(opRead, reasonNotFound, err)
		}
		if err != nil {
			return err
		}

		var comments []Comment
		if err := tx.Where("article_id = ?", articleID.Int64()).
			Order("comment_id ASC").
			Find(&comments).Error; err != nil {
			return err
		}

		page = ArticlePage{
			Article:  formatArticle(row.Article, row.AuthorName, s.location),
			Comments: comments,
			Referrer: referrer,
		}
		return nil
	})
	if err != nil {
		return ArticlePage{}, s.storeError(opRead, reasonQueryFailed, err, zap.Int64("article_id", articleID.Int64()))
	}
	return page, nil
}

// Like adds one like to a published article. Repeated likes all count.
func (s *Service) Like(ctx context.Context, articleID ArticleID) error {
	if err := s.ready(opLike); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&Article{}).
		Where("article_id = ? AND article_status = ?", articleID.Int64(), StatusPublished).
		UpdateColumn("article_likes", gorm.Expr("article_likes + ?", 1))
	if result.Error != nil {
		return s.storeError(opLike, "update_failed", result.Error, zap.Int64("article_id", articleID.Int64()))
	}
	if result.RowsAffected == 0 {
		return svcerr.NotFound(opLike, reasonNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

// AddComment stores a reader comment on a published article.
// The Send action and an article identifier are both required.
func (s *Service) AddComment(ctx context.Context, submission CommentSubmission) (Comment, error) {
	if submission.Action != ActionSend {
		return Comment{}, svcerr.BadRequest(opAddComment, "incorrect_action", errIncorrectAction)
	}
	if submission.ArticleID == 0 {
		return Comment{}, svcerr.BadRequest(opAddComment, "missing_article_id", errMissingArticle)
	}
	if err := s.ready(opAddComment); err != nil {
		return Comment{}, err
	}

	comment := Comment{
		ArticleID: submission.ArticleID.Int64(),
		Name:      submission.Name,
		Content:   submission.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var published int64
		if err := tx.Model(&Article{}).
			Where("article_id = ? AND article_status = ?", submission.ArticleID.Int64(), StatusPublished).
			Count(&published).Error; err != nil {
			return err
		}
		if published == 0 {
			return svcerr.NotFound(opAddComment, reasonNotFound, gorm.ErrRecordNotFound)
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return Comment{}, s.storeError(opAddComment, "insert_failed", err, zap.Int64("article_id", submission.ArticleID.Int64()))
	}
	return comment, nil
}

func authoredArticles(db *gorm.DB) *gorm.DB {
	return db.Table("articles").
		Select("articles.*, users.user_name").
		Joins("JOIN users ON users.user_id = articles.user_id")
}
