package repository

import (
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 200
)

// Page selects a window of a listing. Page is 1-based.
type Page struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (p Page) normalized() (offset, limit int) {
	limit = p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit, limit
}

func paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset, limit := p.normalized()
		return db.Offset(offset).Limit(limit)
	}
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
