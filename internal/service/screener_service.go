package service

import (
	"context"
	"fmt"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
)

// ScreenerService serves curated instrument lists grouped by category.
type ScreenerService struct {
	screenerRepo *repository.ScreenerRepository
	schemeRepo   *repository.SchemeRepository
	stockRepo    *repository.StockRepository
}

// NewScreenerService creates a new ScreenerService.
func NewScreenerService(screenerRepo *repository.ScreenerRepository, schemeRepo *repository.SchemeRepository, stockRepo *repository.StockRepository) *ScreenerService {
	return &ScreenerService{
		screenerRepo: screenerRepo,
		schemeRepo:   schemeRepo,
		stockRepo:    stockRepo,
	}
}

// ScreenerCategory is one category of screeners in display order.
type ScreenerCategory struct {
	Category    string           `json:"category"`
	DisplayName string           `json:"display_name"`
	Screeners   []model.Screener `json:"screeners"`
}

// ScreenerDetail is one screener with its membership resolved to full
// scheme or stock rows, depending on the screener's instrument type.
type ScreenerDetail struct {
	Screener model.Screener `json:"screener"`
	Cols     []string       `json:"cols"`
	Schemes  []model.Scheme `json:"schemes,omitempty"`
	Stocks   []model.Stock  `json:"stocks,omitempty"`
}

// ListByCategory returns active screeners grouped by category, categories
// and screeners both in their configured order. An empty categories slice
// means all.
func (s *ScreenerService) ListByCategory(ctx context.Context, categories []string) ([]ScreenerCategory, error) {
	screeners, err := s.screenerRepo.List(ctx, categories)
	if err != nil {
		return nil, fmt.Errorf("listing screeners: %w", err)
	}

	grouped := make([]ScreenerCategory, 0)
	for _, sc := range screeners {
		if n := len(grouped); n > 0 && grouped[n-1].Category == sc.Category {
			grouped[n-1].Screeners = append(grouped[n-1].Screeners, sc)
			continue
		}
		grouped = append(grouped, ScreenerCategory{
			Category:    sc.Category,
			DisplayName: sc.CategoryDisplayName,
			Screeners:   []model.Screener{sc},
		})
	}
	return grouped, nil
}

// GetDetail loads one screener and resolves its WPC membership to scheme
// or stock rows. Rows are returned in the screener's stored order.
func (s *ScreenerService) GetDetail(ctx context.Context, screenerID string) (ScreenerDetail, error) {
	screener, err := s.screenerRepo.Get(ctx, screenerID)
	if err != nil {
		return ScreenerDetail{}, err
	}

	instruments, err := s.screenerRepo.GetInstruments(ctx, screenerID)
	if err != nil {
		return ScreenerDetail{}, err
	}

	detail := ScreenerDetail{Screener: screener, Cols: instruments.Cols}
	switch screener.InstrumentType {
	case "stock":
		stocks, err := s.stockRepo.GetByWPCs(ctx, instruments.WPCs)
		if err != nil {
			return ScreenerDetail{}, err
		}
		detail.Stocks = orderStocks(instruments.WPCs, stocks)
	default:
		schemes, err := s.schemeRepo.GetByWPCs(ctx, instruments.WPCs)
		if err != nil {
			return ScreenerDetail{}, err
		}
		detail.Schemes = orderSchemes(instruments.WPCs, schemes)
	}
	return detail, nil
}

// orderSchemes re-sorts the fetched rows into the screener's stored WPC
// order, dropping WPCs the warehouse no longer knows.
func orderSchemes(wpcs []string, schemes []model.Scheme) []model.Scheme {
	byWPC := make(map[string]model.Scheme, len(schemes))
	for _, sc := range schemes {
		byWPC[sc.WPC] = sc
	}
	out := make([]model.Scheme, 0, len(wpcs))
	for _, wpc := range wpcs {
		if sc, ok := byWPC[wpc]; ok {
			out = append(out, sc)
		}
	}
	return out
}

func orderStocks(wpcs []string, stocks []model.Stock) []model.Stock {
	byWPC := make(map[string]model.Stock, len(stocks))
	for _, st := range stocks {
		byWPC[st.WPC] = st
	}
	out := make([]model.Stock, 0, len(wpcs))
	for _, wpc := range wpcs {
		if st, ok := byWPC[wpc]; ok {
			out = append(out, st)
		}
	}
	return out
}
