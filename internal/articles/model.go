package articles

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of an article. It only ever moves from Draft to Published.
type Status string

const (
	// StatusDraft marks an article that readers cannot see.
	StatusDraft Status = "Draft"
	// StatusPublished marks an article listed on the reader feed.
	StatusPublished Status = "Published"
)

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(value interface{}) error {
	switch typed := value.(type) {
	case string:
		*s = Status(typed)
	case []byte:
		*s = Status(typed)
	default:
		return fmt.Errorf("articles: cannot scan %T into Status", value)
	}
	return nil
}

// Action is the submit button label posted by the edit and comment forms.
type Action string

const (
	// ActionSaveDraft stores title and content without publishing.
	ActionSaveDraft Action = "Save Draft"
	// ActionPost stores title and content and publishes the article.
	ActionPost Action = "Post"
	// ActionSend submits a reader comment.
	ActionSend Action = "Send"
)

// ReferrerAuthor marks an article view opened from the author's own dashboard.
const ReferrerAuthor = "author"

// ErrInvalidArticleID indicates that an article identifier is not a positive integer.
var ErrInvalidArticleID = errors.New("articles: invalid article id")

// ArticleID represents a validated article identifier. The zero value means "no article".
type ArticleID int64

// NewArticleID validates the value and returns an ArticleID.
func NewArticleID(value int64) (ArticleID, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidArticleID, value)
	}
	return ArticleID(value), nil
}

// ParseArticleID validates raw input and returns an ArticleID.
func ParseArticleID(rawInput string) (ArticleID, error) {
	trimmed := strings.TrimSpace(rawInput)
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidArticleID, trimmed)
	}
	return NewArticleID(value)
}

// Int64 exposes the raw identifier.
func (id ArticleID) Int64() int64 {
	return int64(id)
}

// String renders the identifier in base 10.
func (id ArticleID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Article models a persisted article row.
type Article struct {
	ID               int64      `gorm:"column:article_id;primaryKey;autoIncrement"`
	UserID           int64      `gorm:"column:user_id;not null"`
	Title            string     `gorm:"column:article_title;not null"`
	Content          string     `gorm:"column:article_content;type:text;not null"`
	Status           Status     `gorm:"column:article_status;not null"`
	CreationTime     time.Time  `gorm:"column:article_creation_datetime;not null"`
	ModificationTime time.Time  `gorm:"column:article_modification_datetime;not null"`
	PublicationTime  *time.Time `gorm:"column:article_publication_datetime"`
	Views            int64      `gorm:"column:article_view;not null"`
	Likes            int64      `gorm:"column:article_likes;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Article) TableName() string {
	return "articles"
}

// Comment models a reader comment attached to an article.
type Comment struct {
	ID        int64  `gorm:"column:comment_id;primaryKey;autoIncrement"`
	ArticleID int64  `gorm:"column:article_id;not null"`
	Name      string `gorm:"column:comment_name;not null"`
	Content   string `gorm:"column:comment_content;type:text;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Comment) TableName() string {
	return "articles_comments"
}

// authoredArticle is an article row joined with its author's display name.
type authoredArticle struct {
	Article    `gorm:"embedded"`
	AuthorName string `gorm:"column:user_name"`
}

// EditSubmission carries the fields posted by the article edit form.
type EditSubmission struct {
	ArticleID ArticleID
	Action    Action
	Title     string
	Content   string
}

// CommentSubmission carries the fields posted by the comment form.
type CommentSubmission struct {
	ArticleID ArticleID
	Action    Action
	Name      string
	Content   string
}
