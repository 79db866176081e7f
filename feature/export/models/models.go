package models

import "time"

// RenderJob is one completed render recorded in the history database.
type RenderJob struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Format     string    `gorm:"column:format" json:"format"`
	Width      int       `gorm:"column:width" json:"width"`
	Height     int       `gorm:"column:height" json:"height"`
	Scale      float64   `gorm:"column:scale" json:"scale"`
	SizeBytes  int       `gorm:"column:size_bytes" json:"size_bytes"`
	DurationMs int64     `gorm:"column:duration_ms" json:"duration_ms"`
	Status     string    `gorm:"column:status" json:"status"` // "ok" or "failed"
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the default table name.
func (RenderJob) TableName() string {
	return "render_jobs"
}
