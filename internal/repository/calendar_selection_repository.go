package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vipul43/classmate-sync/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCalendarNotFound = errors.New("calendar not found")

type CalendarSelectionRepository struct {
	db *gorm.DB
}

func NewCalendarSelectionRepository(db *gorm.DB) *CalendarSelectionRepository {
	return &CalendarSelectionRepository{db: db}
}

// SyncFromProvider mirrors the provider's calendar list for a user.
// Existing rows keep their selected flag; new rows start selected only if
// they are the user's primary calendar. Rows for calendars the provider no
// longer lists are removed.
func (r *CalendarSelectionRepository) SyncFromProvider(ctx context.Context, userID string, calendars []models.CalendarSelection) error {
	now := time.Now().UTC()
	rows := make([]models.CalendarSelection, 0, len(calendars))
	gcalIDs := make([]string, 0, len(calendars))
	for _, cal := range calendars {
		cal.ID = uuid.New().String()
		cal.UserID = userID
		cal.Selected = cal.IsPrimary
		cal.CreatedAt = now
		cal.UpdatedAt = now
		rows = append(rows, cal)
		gcalIDs = append(gcalIDs, cal.GcalID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "gcal_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"summary", "background_color", "is_primary", "updated_at"}),
			}).Create(&rows)
			if result.Error != nil {
				return result.Error
			}
		}

		prune := tx.Where("user_id = ?", userID)
		if len(gcalIDs) > 0 {
			prune = prune.Where("gcal_id NOT IN ?", gcalIDs)
		}
		return prune.Delete(&models.CalendarSelection{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to sync calendars: %w", err)
	}
	return nil
}

// ListByUser retrieves the user's mirrored calendars, primary first
func (r *CalendarSelectionRepository) ListByUser(ctx context.Context, userID string) ([]models.CalendarSelection, error) {
	var calendars []models.CalendarSelection
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC, summary ASC").
		Find(&calendars)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", result.Error)
	}
	return calendars, nil
}

// SetSelected updates the selected flag of one calendar
func (r *CalendarSelectionRepository) SetSelected(ctx context.Context, userID, gcalID string, selected bool) error {
	result := r.db.WithContext(ctx).Model(&models.CalendarSelection{}).
		Where("user_id = ? AND gcal_id = ?", userID, gcalID).
		Updates(map[string]interface{}{
			"selected":   selected,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update calendar selection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCalendarNotFound
	}
	return nil
}
