package models

import (
	"strings"
	"time"
)

// Click represents one tracked redirect to a course's affiliate URL.
// The click log is append-only: rows are never updated, and they are kept
// when the course they point to is deleted.
type Click struct {
	// ID is the primary key with auto-increment functionality
	ID uint `gorm:"primaryKey" json:"id"`

	// CourseID references Course.ID without a foreign key constraint,
	// so click history survives a course delete.
	CourseID uint `gorm:"index;not null" json:"course_id"`

	// Ts records the moment the redirect happened
	Ts time.Time `gorm:"autoCreateTime;index" json:"ts"`

	// Provenance captured from the request. Nil means the value was absent;
	// an empty string is never stored.
	Referer     *string `gorm:"size:1024" json:"referer,omitempty"`
	UTMSource   *string `gorm:"column:utm_source;size:255" json:"utm_source,omitempty"`
	UTMCampaign *string `gorm:"column:utm_campaign;size:255" json:"utm_campaign,omitempty"`
}

// ClickEvent carries the provenance of a redirect request from the HTTP
// layer to the tracking service.
type ClickEvent struct {
	Slug        string
	Referer     string
	UTMSource   string
	UTMCampaign string
}

// ToClick builds the log row for courseID, mapping blank values to nil.
func (e ClickEvent) ToClick(courseID uint) *Click {
	return &Click{
		CourseID:    courseID,
		Referer:     nullable(e.Referer),
		UTMSource:   nullable(e.UTMSource),
		UTMCampaign: nullable(e.UTMCampaign),
	}
}

// SourceCount is the number of clicks attributed to one utm_source.
type SourceCount struct {
	Source string `gorm:"column:source"`
	Count  int64  `gorm:"column:total"`
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
