package services

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/utils"
)

type dailyBonusService struct {
	accountRepo   interfaces.AccountRepository
	ledgerRepo    interfaces.LedgerEntryRepository
	ledgerService interfaces.LedgerService
	location      *time.Location
	amount        int64
	monthlyCap    int64
}

// NewDailyBonusService creates a new daily bonus service.
// A monthlyCap of zero disables the cap.
func NewDailyBonusService(
	accountRepo interfaces.AccountRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	ledgerService interfaces.LedgerService,
	location *time.Location,
	amount int64,
	monthlyCap int64,
) interfaces.DailyBonusService {
	if location == nil {
		location = time.UTC
	}
	return &dailyBonusService{
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
		ledgerService: ledgerService,
		location:      location,
		amount:        amount,
		monthlyCap:    monthlyCap,
	}
}

// Claim grants the bonus once per canonical day, up to the monthly cap
func (s *dailyBonusService) Claim(ctx context.Context, accountID string, now time.Time) (*entities.DailyBonusResult, error) {
	// The lock makes the monthly count and the grant atomic per account
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	day := utils.CanonicalDay(now, s.location)
	key := utils.DailyBonusKey(accountID, day)

	existing, err := s.ledgerRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up daily bonus: %w", err)
	}
	if existing != nil {
		return nil, entities.ErrAlreadyClaimedToday
	}

	claimed, err := s.ledgerRepo.CountByKeyPrefix(ctx, accountID, entities.LedgerSourceDailyBonus,
		utils.DailyBonusMonthPrefix(accountID, utils.CanonicalMonth(now, s.location)))
	if err != nil {
		return nil, fmt.Errorf("failed to count daily bonuses: %w", err)
	}
	if s.monthlyCap > 0 && claimed >= s.monthlyCap {
		return nil, entities.ErrMonthlyCapReached
	}

	grant, err := s.ledgerService.Grant(ctx, accountID, s.amount, key, entities.LedgerSourceDailyBonus,
		map[string]any{"day": day})
	if err != nil {
		return nil, fmt.Errorf("failed to grant daily bonus: %w", err)
	}
	if !grant.Applied {
		return nil, entities.ErrAlreadyClaimedToday
	}
	claimed++

	next := utils.NextDay(now, s.location)
	if s.monthlyCap > 0 && claimed >= s.monthlyCap {
		next = utils.FirstDayOfNextMonth(now, s.location)
	}

	return &entities.DailyBonusResult{
		Granted:          s.amount,
		Balance:          grant.ToBalance,
		ClaimedDay:       day,
		NextAvailableDay: next,
		ClaimedThisMonth: claimed,
	}, nil
}
