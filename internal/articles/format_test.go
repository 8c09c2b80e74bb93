package articles

import (
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	instant := time.Date(2024, time.March, 9, 14, 30, 5, 123, time.UTC)

	testCases := []struct {
		name     string
		value    time.Time
		location *time.Location
		expected string
	}{
		{name: "utc", value: instant, location: time.UTC, expected: "2024-03-09 14:30:05"},
		{name: "nil location defaults to utc", value: instant, location: nil, expected: "2024-03-09 14:30:05"},
		{name: "fixed zone", value: instant, location: berlin, expected: "2024-03-09 15:30:05"},
		{name: "zero time", value: time.Time{}, location: time.UTC, expected: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := FormatTimestamp(testCase.value, testCase.location); got != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestFormatArticleHidesDraftPublicationTime(t *testing.T) {
	published := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	article := Article{
		ID:               7,
		UserID:           3,
		Title:            "Hi",
		Content:          "world",
		Status:           StatusDraft,
		CreationTime:     published,
		ModificationTime: published,
		PublicationTime:  &published,
		Views:            2,
		Likes:            1,
	}

	draft := formatArticle(article, "Alice", time.UTC)
	if draft.PublishedAt != "" {
		t.Fatalf("expected draft to have no publication time, got %q", draft.PublishedAt)
	}

	article.Status = StatusPublished
	formatted := formatArticle(article, "Alice", time.UTC)
	if formatted.PublishedAt != "2024-01-02 03:04:05" {
		t.Fatalf("unexpected publication time %q", formatted.PublishedAt)
	}
	if formatted.AuthorName != "Alice" || formatted.AuthorID != 3 || formatted.Views != 2 || formatted.Likes != 1 {
		t.Fatalf("unexpected formatted article %#v", formatted)
	}
}

func TestParseArticleID(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  ArticleID
		expectErr bool
	}{
		{raw: "12", expected: 12},
		{raw: " 5 ", expected: 5},
		{raw: "0", expectErr: true},
		{raw: "-3", expectErr: true},
		{raw: "abc", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, testCase := range testCases {
		got, err := ParseArticleID(testCase.raw)
		if testCase.expectErr {
			if err == nil {
				t.Fatalf("expected error for %q", testCase.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", testCase.raw, err)
		}
		if got != testCase.expected {
			t.Fatalf("expected %d for %q, got %d", testCase.expected, testCase.raw, got)
		}
	}
}
