package users

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidUserID indicates that a user identifier is not a positive integer.
var ErrInvalidUserID = errors.New("users: invalid user id")

// UserID represents a validated author identifier.
type UserID int64

// NewUserID validates the value and returns a UserID.
func NewUserID(value int64) (UserID, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidUserID, value)
	}
	return UserID(value), nil
}

// ParseUserID validates raw input and returns a UserID.
func ParseUserID(rawInput string) (UserID, error) {
	trimmed := strings.TrimSpace(rawInput)
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUserID, trimmed)
	}
	return NewUserID(value)
}

// Int64 exposes the raw identifier.
func (id UserID) Int64() int64 {
	return int64(id)
}

// String renders the identifier in base 10.
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// User is a registered author together with their blog settings.
type User struct {
	ID           int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	Name         string `gorm:"column:user_name;not null"`
	BlogTitle    string `gorm:"column:blog_title;not null"`
	BlogSubtitle string `gorm:"column:blog_subtitle;not null"`
}

// TableName provides the explicit table binding for GORM.
func (User) TableName() string {
	return "users"
}

// Settings are the author-editable display fields of a blog.
type Settings struct {
	Name         string
	BlogTitle    string
	BlogSubtitle string
}

// Settings projects the display fields of the user.
func (u User) Settings() Settings {
	return Settings{
		Name:         u.Name,
		BlogTitle:    u.BlogTitle,
		BlogSubtitle: u.BlogSubtitle,
	}
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}
