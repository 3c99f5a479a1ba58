package usecase

import (
	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/symbols"
)

// SymbolsUseCase searches the symbol catalog.
type SymbolsUseCase struct {
	catalog *symbols.Catalog
}

func NewSymbolsUseCase(catalog *symbols.Catalog) *SymbolsUseCase {
	return &SymbolsUseCase{catalog: catalog}
}

func (uc *SymbolsUseCase) Search(query string) []models.SymbolInfo {
	return uc.catalog.Search(query)
}
