package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wardrobeAPI/internal/matching"
	"wardrobeAPI/internal/types/wardrobe"
)

// WardrobeSource is satisfied by *WardrobeService.
type WardrobeSource interface {
	WardrobeForClerkID(ctx context.Context, clerkID string) ([]wardrobe.ClothingItem, error)
}

var suggestionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wardrobe_suggestions_total",
		Help: "Outfit suggestion requests by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

const (
	msgEmptyWardrobe  = "Your wardrobe is empty. Add some clothing items first to get outfit suggestions."
	msgNoColorMatches = "I couldn't put together an outfit for that colour scheme. Try another scheme or add more tops and bottoms."
)

type ColorSuggestionRequest struct {
	BaseColor  string `json:"baseColor"`
	SchemeType string `json:"schemeType"`
}

type ColorSuggestion struct {
	BaseColor  matching.BaseColor   `json:"baseColor"`
	SchemeType matching.SchemeType  `json:"schemeType"`
	Scheme     matching.ColorScheme `json:"scheme"`
	Advice     string               `json:"advice"`
	Outfits    []matching.Match     `json:"outfits"`
	Message    string               `json:"message,omitempty"`
}

type OccasionSuggestionRequest struct {
	Text string `json:"text"`
}

type OccasionSuggestion struct {
	Occasion string                  `json:"occasion,omitempty"`
	Items    []wardrobe.ClothingItem `json:"items"`
	Message  string                  `json:"message,omitempty"`
}

// MatchingService runs the matching engine over the caller's wardrobe. The
// engine's random source is shared, so every call holds mu.
type MatchingService struct {
	wardrobe WardrobeSource
	logger   *zap.Logger

	mu     sync.Mutex
	engine *matching.Engine
}

func NewMatchingService(source WardrobeSource, engine *matching.Engine, logger *zap.Logger) *MatchingService {
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{wardrobe: source, engine: engine, logger: logger}
}

// SuggestByColor resolves the scheme (falling back to the first one the base
// colour declares) and assembles an outfit around it. An empty result is not
// an error; Message explains it instead.
func (s *MatchingService) SuggestByColor(ctx context.Context, clerkID string, req *ColorSuggestionRequest) (*ColorSuggestion, error) {
	base, ok := matching.ParseBaseColor(req.BaseColor)
	if !ok {
		return nil, fmt.Errorf("unknown base color %q: %w", req.BaseColor, ErrInvalidInput)
	}
	requested, _ := matching.ParseSchemeType(req.SchemeType)
	scheme, ok := matching.ResolveSchemeType(base, requested)
	if !ok {
		return nil, fmt.Errorf("no schemes for %s: %w", base, ErrInvalidInput)
	}
	cs, _ := matching.Lookup(base, scheme)

	items, err := s.wardrobe.WardrobeForClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	res := &ColorSuggestion{
		BaseColor:  base,
		SchemeType: scheme,
		Scheme:     cs,
		Advice:     matching.SchemeAdvice(scheme),
		Outfits:    []matching.Match{},
	}

	if len(items) == 0 {
		res.Message = msgEmptyWardrobe
		suggestionsTotal.WithLabelValues("color", "empty_wardrobe").Inc()
		return res, nil
	}

	s.mu.Lock()
	matches := s.engine.AssembleByColor(base, scheme, items)
	s.mu.Unlock()

	switch {
	case len(matches) == 0:
		res.Message = msgNoColorMatches
		suggestionsTotal.WithLabelValues("color", "no_match").Inc()
	case matches[0].Degraded:
		res.Outfits = matches
		suggestionsTotal.WithLabelValues("color", "degraded").Inc()
	default:
		res.Outfits = matches
		suggestionsTotal.WithLabelValues("color", "matched").Inc()
	}

	s.logger.Debug("color suggestion",
		zap.String("base", string(base)),
		zap.String("scheme", string(scheme)),
		zap.Int("outfits", len(res.Outfits)))
	return res, nil
}

// SuggestByOccasion finds the occasion in free text and picks tagged items.
// Unrecognised text or an untagged wardrobe produce a message, not an error.
func (s *MatchingService) SuggestByOccasion(ctx context.Context, clerkID string, req *OccasionSuggestionRequest) (*OccasionSuggestion, error) {
	items, err := s.wardrobe.WardrobeForClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	res := &OccasionSuggestion{Items: []wardrobe.ClothingItem{}}
	if len(items) == 0 {
		res.Message = msgEmptyWardrobe
		suggestionsTotal.WithLabelValues("occasion", "empty_wardrobe").Inc()
		return res, nil
	}

	s.mu.Lock()
	match, err := s.engine.AssembleByOccasion(req.Text, items)
	s.mu.Unlock()

	res.Occasion = match.Occasion
	switch {
	case errors.Is(err, matching.ErrNoOccasion):
		res.Message = matching.HelpMessage()
		suggestionsTotal.WithLabelValues("occasion", "no_occasion").Inc()
	case errors.Is(err, matching.ErrNoMatchingItems):
		res.Message = fmt.Sprintf("I couldn't find items tagged for %s. Try tagging more of your clothes with occasions.", match.Occasion)
		suggestionsTotal.WithLabelValues("occasion", "no_match").Inc()
	case err != nil:
		return nil, err
	default:
		res.Items = match.Items
		res.Message = fmt.Sprintf("Here's an outfit for %s.", match.Occasion)
		suggestionsTotal.WithLabelValues("occasion", "matched").Inc()
	}
	return res, nil
}
