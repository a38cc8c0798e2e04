package activity

import (
	"time"

	"proposal-review-service/internal/domain/errs"
)

var ErrNotFound = errs.NotFound("activity not found")

// Table: activities
type Activity struct {
	ID          string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Slug        string    `gorm:"column:slug;size:255;not null;uniqueIndex:ux_activities_slug" json:"slug"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Templates []Template `gorm:"foreignKey:ActivityID" json:"document_templates,omitempty"`
}

func (Activity) TableName() string { return "activities" }

// Template is one required document category of an activity.
// Quantity is the number of files a submitter attaches under it.
type Template struct {
	ID           string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ActivityID   string    `gorm:"column:activity_id;type:char(36);not null;index" json:"activity_id"`
	Name         string    `gorm:"column:name;size:255;not null" json:"name"`
	Quantity     uint      `gorm:"column:quantity;not null" json:"quantity"`
	IsRequired   bool      `gorm:"column:is_required;not null" json:"is_required"`
	DisplayOrder int       `gorm:"column:display_order;not null" json:"display_order"`
	StoragePath  string    `gorm:"column:storage_path;size:512" json:"storage_path"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Template) TableName() string { return "document_templates" }
