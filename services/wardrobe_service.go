package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"wardrobeAPI/internal/types/wardrobe"
	"wardrobeAPI/utils"
)

// ItemCache is satisfied by *cache.WardrobeCache.
// Set must drop the write when gen is stale, that is when Invalidate ran
// after Generation returned it.
type ItemCache interface {
	Get(ctx context.Context, userID string) ([]wardrobe.ClothingItem, bool)
	Generation(ctx context.Context, userID string) int64
	Set(ctx context.Context, userID string, gen int64, items []wardrobe.ClothingItem)
	Invalidate(ctx context.Context, userID string)
}

const wearStatsSize = 5

type WardrobeService struct {
	db     DB
	cache  ItemCache
	logger *zap.Logger
}

func NewWardrobeService(db DB, cache ItemCache, logger *zap.Logger) *WardrobeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WardrobeService{db: db, cache: cache, logger: logger}
}

const itemColumns = `id, user_id, name, category, color, image_url, material, season, occasion, wear_count, last_worn, created_at`

func scanItem(row pgx.Row) (wardrobe.ClothingItem, error) {
	var it wardrobe.ClothingItem
	err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.Name,
		&it.Category,
		&it.Color,
		&it.ImageURL,
		&it.Material,
		&it.Season,
		&it.Occasion,
		&it.WearCount,
		&it.LastWorn,
		&it.CreatedAt,
	)
	return it, err
}

// ItemsForUser returns the whole wardrobe of an internal user id, newest
// first, from the cache when possible.
func (s *WardrobeService) ItemsForUser(ctx context.Context, userID string) ([]wardrobe.ClothingItem, error) {
	var gen int64
	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, userID); ok {
			return items, nil
		}
		gen = s.cache.Generation(ctx, userID)
	}

	query := `SELECT ` + itemColumns + ` FROM clothing_items WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wardrobe: %w", err)
	}
	defer rows.Close()

	items := []wardrobe.ClothingItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clothing item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wardrobe: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, gen, items)
	}
	return items, nil
}

// ListItems is the wardrobe of the signed-in user narrowed by filter.
func (s *WardrobeService) ListItems(ctx context.Context, clerkID string, filter wardrobe.ItemFilter) ([]wardrobe.ClothingItem, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	items, err := s.ItemsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(items), nil
}

// WardrobeForClerkID satisfies WardrobeSource.
func (s *WardrobeService) WardrobeForClerkID(ctx context.Context, clerkID string) ([]wardrobe.ClothingItem, error) {
	return s.ListItems(ctx, clerkID, wardrobe.ItemFilter{})
}

func (s *WardrobeService) AddItem(ctx context.Context, clerkID string, req *wardrobe.AddItemRequest) (*wardrobe.ClothingItem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	it, err := scanItem(s.db.QueryRow(ctx, insertItemQuery, insertItemArgs(userID, req, time.Now())...))
	if err != nil {
		return nil, fmt.Errorf("failed to add clothing item: %w", err)
	}

	s.invalidate(ctx, userID)
	s.logger.Info("clothing item added", zap.String("user_id", userID), zap.String("item_id", it.ID))
	return &it, nil
}

const insertItemQuery = `
	INSERT INTO clothing_items (id, user_id, name, category, color, image_url, material, season, occasion, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + itemColumns

func insertItemArgs(userID string, req *wardrobe.AddItemRequest, now time.Time) []any {
	category, _ := wardrobe.ParseCategory(req.Category)
	season := req.Season
	if season == nil {
		season = []string{}
	}
	occasion := req.Occasion
	if occasion == nil {
		occasion = []string{}
	}
	return []any{
		uuid.New().String(),
		userID,
		req.Name,
		category,
		req.Color,
		req.ImageURL,
		req.Material,
		season,
		occasion,
		now,
	}
}

func (s *WardrobeService) DeleteItem(ctx context.Context, clerkID, itemID string) error {
	if err := checkID("clothing item", itemID); err != nil {
		return err
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM clothing_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete clothing item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("clothing item %s: %w", itemID, ErrNotFound)
	}

	s.invalidate(ctx, userID)
	return nil
}

// SeedSampleWardrobe loads the starter wardrobe into an empty wardrobe and
// reports how many items were added. A non-empty wardrobe is left alone.
func (s *WardrobeService) SeedSampleWardrobe(ctx context.Context, clerkID string) (int, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return 0, err
	}

	var existing int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM clothing_items WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count wardrobe: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	samples := utils.SampleWardrobe()
	now := time.Now()
	batch := &pgx.Batch{}
	for i := range samples {
		// distinct timestamps keep the sample order stable in newest-first listings
		created := now.Add(-time.Duration(i) * time.Millisecond)
		batch.Queue(insertItemQuery, insertItemArgs(userID, &samples[i], created)...)
	}

	br := s.db.SendBatch(ctx, batch)
	for range samples {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to seed wardrobe: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to seed wardrobe: %w", err)
	}

	s.invalidate(ctx, userID)
	s.logger.Info("sample wardrobe seeded", zap.String("user_id", userID), zap.Int("items", len(samples)))
	return len(samples), nil
}

// MarkWorn records one wear of the item today.
func (s *WardrobeService) MarkWorn(ctx context.Context, clerkID, itemID string) (*wardrobe.ClothingItem, error) {
	if err := checkID("clothing item", itemID); err != nil {
		return nil, err
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	UPDATE clothing_items
	SET wear_count = wear_count + 1, last_worn = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + itemColumns

	it, err := scanItem(s.db.QueryRow(ctx, query, itemID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("clothing item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to record wear: %w", err)
	}

	s.invalidate(ctx, userID)
	return &it, nil
}

func (s *WardrobeService) WearStats(ctx context.Context, clerkID string) (*wardrobe.WearStats, error) {
	items, err := s.WardrobeForClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	stats := wardrobe.ComputeWearStats(items, wearStatsSize)
	return &stats, nil
}

func (s *WardrobeService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
