package usage

import "time"

// Record is one user's request count for one UTC calendar day.
// Rows accumulate; there is no pruning here.
type Record struct {
	ID    uint   `gorm:"primaryKey"`
	Email string `gorm:"not null;uniqueIndex:idx_ai_usage_email_day"`
	Day   string `gorm:"not null;uniqueIndex:idx_ai_usage_email_day"`
	Count int    `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string { return "ai_usage" }

// DayKey formats t as the UTC day string used in the unique index.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
