package service

import (
	"context"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
)

// defaultStockSearchLimit bounds unpaginated stock searches.
const defaultStockSearchLimit = 50

// StockService handles equity reference-data operations.
type StockService struct {
	stockRepo *repository.StockRepository
}

// NewStockService creates a new StockService.
func NewStockService(stockRepo *repository.StockRepository) *StockService {
	return &StockService{stockRepo: stockRepo}
}

// GetStock retrieves a single stock by WPC.
func (s *StockService) GetStock(ctx context.Context, wpc string) (model.Stock, error) {
	return s.stockRepo.GetByWPC(ctx, wpc)
}

// SearchStocks matches stocks by company name, short name or NSE symbol.
func (s *StockService) SearchStocks(ctx context.Context, search string, limit int) ([]model.Stock, error) {
	if limit <= 0 || limit > defaultStockSearchLimit {
		limit = defaultStockSearchLimit
	}
	return s.stockRepo.Search(ctx, search, limit)
}
