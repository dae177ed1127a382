package services

import (
	"context"

	"fabstore/models"
	"fabstore/repository"
)

type TransactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(repos Repositories) *TransactionService {
	return &TransactionService{transactions: repos.Transactions}
}

func (s *TransactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	return s.transactions.List(ctx, filter)
}

func (s *TransactionService) Get(ctx context.Context, paymentID string) (*models.Transaction, error) {
	if paymentID == "" {
		return nil, invalid("Invalid payment ID")
	}
	return s.transactions.GetByPaymentID(ctx, paymentID)
}
