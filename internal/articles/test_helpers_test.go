package articles

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/database"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// steppingClock advances by one minute on every reading.
type steppingClock struct {
	mu      sync.Mutex
	current time.Time
}

func newSteppingClock(start time.Time) *steppingClock {
	return &steppingClock{current: start}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	value := c.current
	c.current = c.current.Add(time.Minute)
	return value
}

type testFixture struct {
	db       *gorm.DB
	users    *users.Service
	articles *Service
	clock    *steppingClock
}

func newTestFixture(t *testing.T) testFixture {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "articles.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	userService, err := users.NewService(users.ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create users service: %v", err)
	}
	clock := newSteppingClock(time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC))
	articleService, err := NewService(ServiceConfig{
		Database: db,
		Profiles: userService,
		Clock:    clock.Now,
	})
	if err != nil {
		t.Fatalf("failed to create articles service: %v", err)
	}
	return testFixture{db: db, users: userService, articles: articleService, clock: clock}
}

func mustRegister(t *testing.T, fixture testFixture, name string) users.UserID {
	t.Helper()
	userID, err := fixture.users.Register(context.Background(), name)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return userID
}

func mustSubmit(t *testing.T, fixture testFixture, authorID users.UserID, submission EditSubmission) ArticleID {
	t.Helper()
	articleID, err := fixture.articles.SubmitEdit(context.Background(), authorID, submission)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return articleID
}

func mustLoadArticle(t *testing.T, fixture testFixture, articleID ArticleID) Article {
	t.Helper()
	var article Article
	if err := fixture.db.Where("article_id = ?", articleID.Int64()).Take(&article).Error; err != nil {
		t.Fatalf("failed to load article %d: %v", articleID, err)
	}
	return article
}
