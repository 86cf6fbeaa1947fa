package entities

import "time"

// PurchaseEvent is a payment provider callback for an in-app credit purchase
type PurchaseEvent struct {
	EventID    string    `json:"eventId"`
	AccountID  string    `json:"accountId"`
	ProductKey string    `json:"productKey"`
	Provider   string    `json:"provider"`
	ReceivedAt time.Time `json:"-"`
}

// Validate checks the event carries the fields needed to grant credits
func (e *PurchaseEvent) Validate() error {
	if e.EventID == "" || e.AccountID == "" {
		return ErrInvalidPurchase
	}
	if e.ProductKey == "" {
		return ErrInvalidProduct
	}
	return nil
}

// DailyBonusResult is returned by a daily bonus claim
type DailyBonusResult struct {
	Granted          int64
	Balance          int64
	ClaimedDay       string
	NextAvailableDay string
	ClaimedThisMonth int64
}
