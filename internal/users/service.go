package users

import (
	"context"
	"errors"

	"github.com/MarcoPoloResearchLab/inkwell/internal/svcerr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	errEmptyName       = errors.New("user name is required")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew      = "users.service.new"
	opRegister        = "users.register"
	opProfile         = "users.profile"
	opUpdateSettings  = "users.update_settings"
	reasonMissingDB   = "missing_database"
	reasonNotFound    = "not_found"
	reasonQueryFailed = "query_failed"
)

// ServiceConfig describes the dependencies required for author management.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service registers authors and manages their blog settings.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the author service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, svcerr.Persistence(opServiceNew, reasonMissingDB, errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:     cfg.Database,
		logger: logger,
	}, nil
}

// Register inserts a new author with empty blog settings and returns the generated identifier.
func (s *Service) Register(ctx context.Context, name string) (UserID, error) {
	if s.db == nil {
		return 0, svcerr.Persistence(opRegister, reasonMissingDB, errMissingDatabase)
	}
	trimmed := normalize(name)
	if trimmed == "" {
		return 0, svcerr.BadRequest(opRegister, "empty_name", errEmptyName)
	}

	user := User{Name: trimmed}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		s.logError(opRegister, "insert_failed", err)
		return 0, svcerr.Persistence(opRegister, "insert_failed", err)
	}

	s.loggerOrDefault().Info("author registered", zap.Int64("user_id", user.ID))
	return UserID(user.ID), nil
}

// Profile loads the author row; absence is reported as not found.
func (s *Service) Profile(ctx context.Context, userID UserID) (User, error) {
	if s.db == nil {
		return User{}, svcerr.Persistence(opProfile, reasonMissingDB, errMissingDatabase)
	}

	var user User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID.Int64()).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, svcerr.NotFound(opProfile, reasonNotFound, err)
	}
	if err != nil {
		s.logError(opProfile, reasonQueryFailed, err, zap.Int64("user_id", userID.Int64()))
		return User{}, svcerr.Persistence(opProfile, reasonQueryFailed, err)
	}
	return user, nil
}

// Settings returns the author's display name, blog title and subtitle.
func (s *Service) Settings(ctx context.Context, userID UserID) (Settings, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	return user.Settings(), nil
}

// UpdateSettings replaces the author's display fields. A missing author is reported as not found.
func (s *Service) UpdateSettings(ctx context.Context, userID UserID, settings Settings) error {
	if s.db == nil {
		return svcerr.Persistence(opUpdateSettings, reasonMissingDB, errMissingDatabase)
	}
	name := normalize(settings.Name)
	if name == "" {
		return svcerr.BadRequest(opUpdateSettings, "empty_name", errEmptyName)
	}

	result := s.db.WithContext(ctx).
		Model(&User{}).
		Where("user_id = ?", userID.Int64()).
		Updates(map[string]interface{}{
			"user_name":     name,
			"blog_title":    normalize(settings.BlogTitle),
			"blog_subtitle": normalize(settings.BlogSubtitle),
		})
	if result.Error != nil {
		s.logError(opUpdateSettings, "update_failed", result.Error, zap.Int64("user_id", userID.Int64()))
		return svcerr.Persistence(opUpdateSettings, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return svcerr.NotFound(opUpdateSettings, reasonNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
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
	s.loggerOrDefault().Error("users service error", attrs...)
}
