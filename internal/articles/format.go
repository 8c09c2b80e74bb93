package articles

import "time"

// TimestampLayout is the canonical display format for article timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders value in location using TimestampLayout. The zero time renders as "".
func FormatTimestamp(value time.Time, location *time.Location) string {
	if value.IsZero() {
		return ""
	}
	if location == nil {
		location = time.UTC
	}
	return value.In(location).Format(TimestampLayout)
}

// FormatOptionalTimestamp is FormatTimestamp for nullable columns.
func FormatOptionalTimestamp(value *time.Time, location *time.Location) string {
	if value == nil {
		return ""
	}
	return FormatTimestamp(*value, location)
}

// FormattedArticle is an article prepared for display.
// PublishedAt is empty unless the article is published.
type FormattedArticle struct {
	ID          int64
	AuthorID    int64
	AuthorName  string
	Title       string
	Content     string
	Status      Status
	CreatedAt   string
	ModifiedAt  string
	PublishedAt string
	Views       int64
	Likes       int64
}

func formatArticle(article Article, authorName string, location *time.Location) FormattedArticle {
	formatted := FormattedArticle{
		ID:         article.ID,
		AuthorID:   article.UserID,
		AuthorName: authorName,
		Title:      article.Title,
		Content:    article.Content,
		Status:     article.Status,
		CreatedAt:  FormatTimestamp(article.CreationTime, location),
		ModifiedAt: FormatTimestamp(article.ModificationTime, location),
		Views:      article.Views,
		Likes:      article.Likes,
	}
	if article.Status == StatusPublished {
		formatted.PublishedAt = FormatOptionalTimestamp(article.PublicationTime, location)
	}
	return formatted
}

func formatArticles(rows []Article, authorName string, location *time.Location) []FormattedArticle {
	formatted := make([]FormattedArticle, 0, len(rows))
	for _, row := range rows {
		formatted = append(formatted, formatArticle(row, authorName, location))
	}
	return formatted
}

func formatAuthoredArticles(rows []authoredArticle, location *time.Location) []FormattedArticle {
	formatted := make([]FormattedArticle, 0, len(rows))
	for _, row := range rows {
		formatted = append(formatted, formatArticle(row.Article, row.AuthorName, location))
	}
	return formatted
}
