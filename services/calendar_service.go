package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"wardrobeAPI/internal/types/calendar"
	"wardrobeAPI/internal/types/device"
)

type CalendarService struct {
	db     DB
	logger *zap.Logger
	now    func() time.Time
}

func NewCalendarService(db DB, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{db: db, logger: logger, now: time.Now}
}

// ParseDate accepts an ISO calendar date with no time component.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(calendar.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, ErrInvalidInput)
	}
	return d, nil
}

func scanEntry(row pgx.Row) (*calendar.Entry, error) {
	var e calendar.Entry
	var date time.Time
	if err := row.Scan(&e.UserID, &date, &e.OutfitDescription, &e.OutfitID, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Date = date.Format(calendar.DateLayout)
	return &e, nil
}

// UpsertEntry sets the outfit planned for one day, replacing any previous plan.
func (s *CalendarService) UpsertEntry(ctx context.Context, clerkID string, req *calendar.UpsertEntryRequest) (*calendar.Entry, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.OutfitDescription)
	if description == "" {
		return nil, fmt.Errorf("outfit description is required: %w", ErrInvalidInput)
	}
	if req.OutfitID != nil {
		if _, err := uuid.Parse(*req.OutfitID); err != nil {
			return nil, fmt.Errorf("outfit %q does not exist: %w", *req.OutfitID, ErrInvalidInput)
		}
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	// The SELECT yields no row when the outfit is missing or belongs to
	// someone else, so nothing is written.
	query := `
	INSERT INTO calendar_entries (user_id, date, outfit_description, outfit_id, updated_at)
	SELECT $1::uuid, $2::date, $3::text, $4::uuid, NOW()
	WHERE $4::uuid IS NULL
		OR EXISTS (SELECT 1 FROM outfits WHERE id = $4::uuid AND user_id = $1::uuid)
	ON CONFLICT (user_id, date) DO UPDATE SET
		outfit_description = EXCLUDED.outfit_description,
		outfit_id = EXCLUDED.outfit_id,
		reminded_at = NULL,
		updated_at = NOW()
	RETURNING user_id, date, outfit_description, outfit_id, updated_at
	`

	e, err := scanEntry(s.db.QueryRow(ctx, query, userID, date, description, req.OutfitID))
	if err != nil {
		if req.OutfitID != nil && (errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err)) {
			return nil, fmt.Errorf("outfit %s does not exist: %w", *req.OutfitID, ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to save calendar entry: %w", err)
	}
	return e, nil
}

func (s *CalendarService) ListEntries(ctx context.Context, clerkID string) ([]*calendar.Entry, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	return s.queryEntries(ctx, `
	SELECT user_id, date, outfit_description, outfit_id, updated_at
	FROM calendar_entries
	WHERE user_id = $1
	ORDER BY date
	`, userID)
}

func (s *CalendarService) queryEntries(ctx context.Context, query string, args ...any) ([]*calendar.Entry, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer rows.Close()

	entries := []*calendar.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}
	return entries, nil
}

// GetMonth returns one CalendarDay per day of the month with the planned
// outfit filled in where there is one.
func (s *CalendarService) GetMonth(ctx context.Context, clerkID string, year, month int) (*calendar.CalendarResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d: %w", month, ErrInvalidInput)
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	entries, err := s.queryEntries(ctx, `
	SELECT user_id, date, outfit_description, outfit_id, updated_at
	FROM calendar_entries
	WHERE user_id = $1
		AND date >= $2
		AND date <= $3
	ORDER BY date
	`, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return buildMonth(year, month, entries, s.now()), nil
}

func buildMonth(year, month int, entries []*calendar.Entry, now time.Time) *calendar.CalendarResponse {
	byDate := make(map[string]*calendar.Entry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)
	today := now.Format(calendar.DateLayout)

	days := make([]*calendar.CalendarDay, 0, endDate.Day())
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(calendar.DateLayout)
		day := &calendar.CalendarDay{
			Date:    d,
			IsToday: dateStr == today,
		}
		if e, ok := byDate[dateStr]; ok {
			desc := e.OutfitDescription
			day.OutfitDescription = &desc
			day.OutfitID = e.OutfitID
		}
		days = append(days, day)
	}

	return &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}
}

func (s *CalendarService) DeleteEntry(ctx context.Context, clerkID, dateStr string) error {
	date, err := ParseDate(dateStr)
	if err != nil {
		return err
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM calendar_entries WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete calendar entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("calendar entry %s: %w", dateStr, ErrNotFound)
	}
	return nil
}

// DueReminders lists un-reminded entries for date whose owners have at least
// one registered device.
func (s *CalendarService) DueReminders(ctx context.Context, date time.Time, limit int) ([]Reminder, error) {
	entries, err := s.queryEntries(ctx, `
	SELECT c.user_id, c.date, c.outfit_description, c.outfit_id, c.updated_at
	FROM calendar_entries c
	WHERE c.date = $1
		AND c.reminded_at IS NULL
		AND EXISTS (SELECT 1 FROM device_tokens d WHERE d.user_id = c.user_id)
	ORDER BY c.user_id
	LIMIT $2
	`, date, limit)
	if err != nil {
		return nil, err
	}

	reminders := make([]Reminder, 0, len(entries))
	for _, e := range entries {
		tokens, err := s.deviceTokens(ctx, e.UserID)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, Reminder{Entry: *e, Tokens: tokens})
	}
	return reminders, nil
}

func (s *CalendarService) deviceTokens(ctx context.Context, userID string) ([]device.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `SELECT token, platform, updated_at FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []device.DeviceToken
	for rows.Next() {
		var t device.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (s *CalendarService) MarkReminded(ctx context.Context, userID, dateStr string) error {
	date, err := ParseDate(dateStr)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `UPDATE calendar_entries SET reminded_at = NOW() WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
