package services

import (
	"context"

	"dofe-kas/internal/adapters/persistence/repositories"
)

// Summary is the treasury balance derived from the two ledgers
type Summary struct {
	TotalIncome  int64 `json:"totalIncome"`
	TotalExpense int64 `json:"totalExpense"`
	Balance      int64 `json:"balance"`
}

// SummaryService derives the balance from the kas and pengeluaran ledgers.
// It holds no state of its own; every read recomputes from storage.
type SummaryService struct {
	kasRepo         repositories.KasRepository
	pengeluaranRepo repositories.PengeluaranRepository
}

// NewSummaryService creates a new summary service
func NewSummaryService(kasRepo repositories.KasRepository, pengeluaranRepo repositories.PengeluaranRepository) *SummaryService {
	return &SummaryService{
		kasRepo:         kasRepo,
		pengeluaranRepo: pengeluaranRepo,
	}
}

// Summary returns total income, total expense and their difference.
func (s *SummaryService) Summary(ctx context.Context) (*Summary, error) {
	totalIncome, err := s.kasRepo.SumAccepted(ctx)
	if err != nil {
		return nil, err
	}

	totalExpense, err := s.pengeluaranRepo.Sum(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      totalIncome - totalExpense,
	}, nil
}
