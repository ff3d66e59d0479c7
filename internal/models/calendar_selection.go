package models

import "time"

// CalendarSelection mirrors one provider calendar for a user.
// Selected is the only field the user changes; everything else is refreshed
// from the provider's calendar list.
type CalendarSelection struct {
	ID              string    `gorm:"column:id;primaryKey" json:"-"`
	UserID          string    `gorm:"column:user_id;uniqueIndex:idx_calendar_selection_user_gcal" json:"-"`
	GcalID          string    `gorm:"column:gcal_id;uniqueIndex:idx_calendar_selection_user_gcal" json:"gcal_id"`
	Summary         string    `gorm:"column:summary" json:"summary"`
	BackgroundColor *string   `gorm:"column:background_color" json:"background_color,omitempty"`
	IsPrimary       bool      `gorm:"column:is_primary" json:"primary"`
	Selected        bool      `gorm:"column:selected" json:"selected"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CalendarSelection) TableName() string {
	return "calendar_selection"
}
