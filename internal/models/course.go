package models

import (
	"strings"
	"time"
)

// Level is the difficulty of a course.
type Level string

const (
	LevelBeginner Level = "beginner"
	LevelMiddle   Level = "middle"
	LevelPro      Level = "pro"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelMiddle, LevelPro:
		return true
	}
	return false
}

// Format is how a course is delivered.
type Format string

const (
	FormatOnline  Format = "online"
	FormatOffline Format = "offline"
	FormatMixed   Format = "mixed"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatOnline, FormatOffline, FormatMixed:
		return true
	}
	return false
}

// Course is one third-party course listing in the catalog.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Slug         string    `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	Title        string    `gorm:"not null" json:"title"`
	Provider     string    `json:"provider"`
	CategorySlug string    `gorm:"index;size:128" json:"category_slug"`
	Level        Level     `gorm:"size:16" json:"level"`
	Format       Format    `gorm:"size:16" json:"format"`
	PriceFrom    int       `gorm:"index" json:"price_from"`
	Duration     string    `json:"duration"`
	Tags         string    `gorm:"type:text" json:"tags"` // comma separated
	ShortDesc    string    `gorm:"type:text" json:"short_desc"`
	AffiliateURL string    `json:"affiliate_url"`
	IsPublished  bool      `gorm:"index;not null" json:"is_published"`
	Clicks       int       `gorm:"not null;default:0" json:"clicks"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TagList splits the comma separated tags, dropping blanks.
func (c Course) TagList() []string {
	var tags []string
	for _, tag := range strings.Split(c.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
