package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"wardrobeAPI/internal/canvas"
	"wardrobeAPI/internal/types/outfit"
)

const DefaultOutfitName = "Untitled Outfit"

var outfitsSaved = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "wardrobe_outfits_saved_total",
	Help: "Outfits saved, from the REST API or a canvas session",
})

type OutfitService struct {
	db           DB
	shareBaseURL string
	logger       *zap.Logger
}

func NewOutfitService(db DB, shareBaseURL string, logger *zap.Logger) *OutfitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutfitService{
		db:           db,
		shareBaseURL: strings.TrimRight(shareBaseURL, "/"),
		logger:       logger,
	}
}

const outfitColumns = `id, user_id, name, items, created_at, updated_at`

func scanOutfit(row pgx.Row) (*outfit.Outfit, error) {
	o := &outfit.Outfit{}
	err := row.Scan(&o.ID, &o.UserID, &o.Name, &o.Items, &o.CreatedAt, &o.UpdatedAt)
	if o.Items == nil {
		o.Items = []canvas.CanvasItem{}
	}
	return o, err
}

// normalizeOutfit applies the default name and rejects an empty outfit.
func normalizeOutfit(req *outfit.SaveOutfitRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = DefaultOutfitName
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("outfit has no items: %w", ErrInvalidInput)
	}
	return nil
}

func (s *OutfitService) SaveOutfit(ctx context.Context, clerkID string, req *outfit.SaveOutfitRequest) (*outfit.Outfit, error) {
	if err := normalizeOutfit(req); err != nil {
		return nil, err
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO outfits (id, user_id, name, items, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	RETURNING ` + outfitColumns

	o, err := scanOutfit(s.db.QueryRow(ctx, query, uuid.New().String(), userID, req.Name, req.Items, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to save outfit: %w", err)
	}

	outfitsSaved.Inc()
	s.logger.Info("outfit saved", zap.String("user_id", userID), zap.String("outfit_id", o.ID), zap.Int("items", len(o.Items)))
	return o, nil
}

// ListOutfits returns the user's outfits, most recent first.
func (s *OutfitService) ListOutfits(ctx context.Context, clerkID string) ([]*outfit.Outfit, error) {
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + outfitColumns + ` FROM outfits WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outfits: %w", err)
	}
	defer rows.Close()

	outfits := []*outfit.Outfit{}
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outfit: %w", err)
		}
		outfits = append(outfits, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outfits: %w", err)
	}
	return outfits, nil
}

func (s *OutfitService) GetOutfit(ctx context.Context, clerkID, outfitID string) (*outfit.Outfit, error) {
	if err := checkID("outfit", outfitID); err != nil {
		return nil, err
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + outfitColumns + ` FROM outfits WHERE id = $1 AND user_id = $2`
	o, err := scanOutfit(s.db.QueryRow(ctx, query, outfitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("outfit %s: %w", outfitID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get outfit: %w", err)
	}
	return o, nil
}

func (s *OutfitService) DeleteOutfit(ctx context.Context, clerkID, outfitID string) error {
	if err := checkID("outfit", outfitID); err != nil {
		return err
	}
	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM outfits WHERE id = $1 AND user_id = $2`, outfitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete outfit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("outfit %s: %w", outfitID, ErrNotFound)
	}
	return nil
}

// ShareOutfit returns a deep link to the outfit and the same link as a PNG QR code.
func (s *OutfitService) ShareOutfit(ctx context.Context, clerkID, outfitID string) (*outfit.ShareResponse, error) {
	o, err := s.GetOutfit(ctx, clerkID, outfitID)
	if err != nil {
		return nil, err
	}
	return buildShare(s.shareBaseURL, o.ID)
}

func buildShare(baseURL, outfitID string) (*outfit.ShareResponse, error) {
	shareURL := fmt.Sprintf("%s/%s", baseURL, outfitID)

	pngBytes, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &outfit.ShareResponse{
		OutfitID:     outfitID,
		ShareURL:     shareURL,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}
