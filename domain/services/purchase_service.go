package services

import (
	"context"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/utils"
)

type purchaseService struct {
	ledgerService interfaces.LedgerService
	catalog       map[string]int64
}

// NewPurchaseService creates a new purchase service over a product key to credits catalog
func NewPurchaseService(ledgerService interfaces.LedgerService, catalog map[string]int64) interfaces.PurchaseService {
	return &purchaseService{
		ledgerService: ledgerService,
		catalog:       catalog,
	}
}

// HandlePurchase grants the product's credits once per provider event id
func (s *purchaseService) HandlePurchase(ctx context.Context, event *entities.PurchaseEvent) (*entities.GrantResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	credits, ok := s.catalog[event.ProductKey]
	if !ok || credits <= 0 {
		return nil, entities.ErrInvalidProduct
	}

	result, err := s.ledgerService.Grant(ctx, event.AccountID, credits, utils.PurchaseKey(event.EventID),
		entities.LedgerSourcePurchase, map[string]any{
			"product_key": event.ProductKey,
			"provider":    event.Provider,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to grant purchase: %w", err)
	}
	return result, nil
}
