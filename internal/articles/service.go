package articles

import (
	"context"
	"errors"
	"time"

	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"github.com/MarcoPoloResearchLab/inkwell/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	errMissingProfiles = errors.New("profile source is required")
	errUnknownAction   = errors.New("unknown action")
	errNotOwner        = errors.New("article belongs to another author")
	errMissingArticle  = errors.New("missing article id")
	errIncorrectAction = errors.New("incorrect action")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew    = "articles.service.new"
	opHomepage      = "articles.homepage"
	opEditView      = "articles.edit_view"
	opSubmitEdit    = "articles.submit_edit"
	opDelete        = "articles.delete"
	opPublishedFeed = "articles.published_feed"
	opRead          = "articles.read"
	opLike          = "articles.like"
	opAddComment    = "articles.add_comment"

	reasonMissingDB   = "missing_database"
	reasonNotFound    = "not_found"
	reasonNotOwner    = "not_owner"
	reasonQueryFailed = "query_failed"
)

// ProfileSource resolves the author row behind an identifier.
type ProfileSource interface {
	Profile(ctx context.Context, userID users.UserID) (users.User, error)
}

// ServiceConfig describes the dependencies required for the article lifecycle.
type ServiceConfig struct {
	Database *gorm.DB
	Profiles ProfileSource
	Clock    func() time.Time
	Location *time.Location
	Logger   *zap.Logger
}

// Service implements the author and reader operations over articles and comments.
type Service struct {
	db       *gorm.DB
	profiles ProfileSource
	clock    func() time.Time
	location *time.Location
	logger   *zap.Logger
}

// NewService constructs the article service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, svcerr.Persistence(opServiceNew, reasonMissingDB, errMissingDatabase)
	}
	if cfg.Profiles == nil {
		return nil, svcerr.Persistence(opServiceNew, "missing_profiles", errMissingProfiles)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	location := cfg.Location
	if location == nil {
		location = time.UTC
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:       cfg.Database,
		profiles: cfg.Profiles,
		clock:    clock,
		location: location,
		logger:   logger,
	}, nil
}

// Location reports the time zone used for formatted timestamps.
func (s *Service) Location() *time.Location {
	if s == nil || s.location == nil {
		return time.UTC
	}
	return s.location
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

func (s *Service) ready(operation string) error {
	if s == nil || s.db == nil {
		s.logError(operation, reasonMissingDB, errMissingDatabase)
		return svcerr.Persistence(operation, reasonMissingDB, errMissingDatabase)
	}
	return nil
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil {
		return noOpLogger
	}
	if s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("articles service error", attrs...)
}

// storeError logs and wraps a store failure. Errors already in the taxonomy pass through.
func (s *Service) storeError(operation, reason string, err error, fields ...zap.Field) error {
	var serviceErr *svcerr.Error
	if errors.As(err, &serviceErr) {
		return err
	}
	s.logError(operation, reason, err, fields...)
	return svcerr.Persistence(operation, reason, err)
}
