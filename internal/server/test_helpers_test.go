package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/articles"
	"github.com/MarcoPoloResearchLab/inkwell/internal/auth"
	"github.com/MarcoPoloResearchLab/inkwell/internal/database"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	testSigningSecret = "server-test-secret"
	testCookieName    = "inkwell_test_session"
)

type testApp struct {
	handler   http.Handler
	users     *users.Service
	articles  *articles.Service
	validator *auth.SessionValidator
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	return newTestAppWithOrigins(t, nil)
}

func newTestAppWithOrigins(t *testing.T, origins []string) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "server.db"), zap.NewNop())
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
	articleService, err := articles.NewService(articles.ServiceConfig{Database: db, Profiles: userService})
	if err != nil {
		t.Fatalf("failed to create articles service: %v", err)
	}
	issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		TokenTTL:      time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create token issuer: %v", err)
	}
	validator, err := auth.NewSessionValidator(auth.SessionValidatorConfig{
		SigningSecret: []byte(testSigningSecret),
		CookieName:    testCookieName,
	})
	if err != nil {
		t.Fatalf("failed to create session validator: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		Users:          userService,
		Articles:       articleService,
		Sessions:       issuer,
		Validator:      validator,
		AllowedOrigins: origins,
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	return testApp{
		handler:   handler,
		users:     userService,
		articles:  articleService,
		validator: validator,
	}
}

func (app testApp) request(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var request *http.Request
	if form != nil {
		request = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		request = httptest.NewRequest(method, target, http.NoBody)
	}
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	app.handler.ServeHTTP(recorder, request)
	return recorder
}

// register signs up an author through the HTTP surface and returns their session cookie.
func (app testApp) register(t *testing.T, name string) (*http.Cookie, users.UserID) {
	t.Helper()
	recorder := app.request(t, http.MethodPost, "/add-user", url.Values{"user_name": {name}}, nil)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect after registration, got %d: %s", recorder.Code, recorder.Body.String())
	}
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name != testCookieName {
			continue
		}
		claims, err := app.validator.ValidateToken(cookie.Value)
		if err != nil {
			t.Fatalf("issued cookie does not validate: %v", err)
		}
		authorID, err := claims.UserID()
		if err != nil {
			t.Fatalf("issued cookie carries no author: %v", err)
		}
		return cookie, authorID
	}
	t.Fatalf("expected session cookie %q after registration", testCookieName)
	return nil, 0
}

func (app testApp) publish(t *testing.T, authorID users.UserID, title, content string) articles.ArticleID {
	t.Helper()
	articleID, err := app.articles.SubmitEdit(context.Background(), authorID, articles.EditSubmission{
		Action:  articles.ActionPost,
		Title:   title,
		Content: content,
	})
	if err != nil {
		t.Fatalf("failed to publish article: %v", err)
	}
	return articleID
}

func (app testApp) draft(t *testing.T, authorID users.UserID, title string) articles.ArticleID {
	t.Helper()
	articleID, err := app.articles.SubmitEdit(context.Background(), authorID, articles.EditSubmission{
		Action: articles.ActionSaveDraft,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("failed to save draft: %v", err)
	}
	return articleID
}
