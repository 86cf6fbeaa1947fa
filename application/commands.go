package application

import (
	"context"
	"fmt"
	"time"

	"pickem/config"
	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/services"
	"pickem/domain/utils"

	log "github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

// CreateContestRequest describes a contest to open in a group
type CreateContestRequest struct {
	GroupID        string
	Title          string
	CreatedBy      string
	EntryCost      int64
	StartsAt       time.Time
	EndsAt         time.Time
	SignupDeadline time.Time // defaults to StartsAt
	RandomBonus    bool
	Invitees       []string
}

// ContestView is a contest with its entrants and latest live stats
type ContestView struct {
	Contest        *entities.Contest
	Participations []*entities.Participation
	Snapshot       *entities.LiveStatsSnapshot
}

// AccountView is an account with its recent ledger activity
type AccountView struct {
	Account        *entities.Account
	RecentEntries  []*entities.LedgerEntry
	Reconciliation *interfaces.BalanceReconciliation
}

// Commands runs the inbound operations, one unit of work per call
type Commands struct {
	uowFactory UnitOfWorkFactory
	notifier   interfaces.ContestNotifier
	policy     *config.Policy
	location   *time.Location
	now        func() time.Time
}

// NewCommands creates the command handler. location is the canonical timezone
// used for daily bonus days and contest game dates.
func NewCommands(
	uowFactory UnitOfWorkFactory,
	notifier interfaces.ContestNotifier,
	policy *config.Policy,
	location *time.Location,
) *Commands {
	if location == nil {
		location = time.UTC
	}
	return &Commands{
		uowFactory: uowFactory,
		notifier:   notifier,
		policy:     policy,
		location:   location,
		now:        time.Now,
	}
}

func ledgerFor(uow UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(uow.AccountRepository(), uow.LedgerEntryRepository(), uow.EventBus())
}

// JoinContest charges the entry cost once and records the caller's picks
func (c *Commands) JoinContest(ctx context.Context, contestID int64, accountID string, picks []string) (*interfaces.JoinResult, error) {
	var result *interfaces.JoinResult
	err := withUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		participationService := services.NewParticipationService(
			uow.ContestRepository(),
			uow.ParticipationRepository(),
			uow.AccountRepository(),
			ledgerFor(uow),
			uow.EventBus(),
		)

		var err error
		result, err = participationService.Join(ctx, contestID, accountID, picks)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"contest_id": contestID,
		"account_id": accountID,
		"charged":    result.Charged,
		"pot":        result.Pot,
	}).Info("Contest joined")
	return result, nil
}

// ClaimDailyBonus grants the once-per-day credit
func (c *Commands) ClaimDailyBonus(ctx context.Context, accountID string) (*entities.DailyBonusResult, error) {
	var result *entities.DailyBonusResult
	err := withUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		bonusService := services.NewDailyBonusService(
			uow.AccountRepository(),
			uow.LedgerEntryRepository(),
			ledgerFor(uow),
			c.location,
			c.policy.DailyBonus.Amount,
			c.policy.DailyBonus.MonthlyCap,
		)

		var err error
		result, err = bonusService.Claim(ctx, accountID, c.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HandlePurchase grants the credits of a paid product once per provider event
func (c *Commands) HandlePurchase(ctx context.Context, event *entities.PurchaseEvent) (*entities.GrantResult, error) {
	var result *entities.GrantResult
	err := withUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		purchaseService := services.NewPurchaseService(ledgerFor(uow), c.policy.Products)

		var err error
		result, err = purchaseService.HandlePurchase(ctx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"event_id":    event.EventID,
		"account_id":  event.AccountID,
		"product_key": event.ProductKey,
		"applied":     result.Applied,
	}).Info("Purchase processed")
	return result, nil
}

// RegisterAccount creates the caller's account, or returns it if it exists
func (c *Commands) RegisterAccount(ctx context.Context, accountID, displayName string) (*entities.Account, error) {
	var account *entities.Account
	err := withUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = services.NewAccountService(uow.AccountRepository()).Register(ctx, accountID, displayName)
		return err
	})
	return account, err
}

// GetAccount returns the account with its recent ledger entries
func (c *Commands) GetAccount(ctx context.Context, accountID string, historyLimit int) (*AccountView, error) {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	view := &AccountView{}
	err := readUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		account, err := services.NewAccountService(uow.AccountRepository()).GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		view.Account = account

		ledger := ledgerFor(uow)
		if view.RecentEntries, err = ledger.History(ctx, accountID, historyLimit); err != nil {
			return err
		}
		view.Reconciliation, err = ledger.Reconcile(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CreateContest opens a contest and notifies the invitees after it is stored
func (c *Commands) CreateContest(ctx context.Context, req CreateContestRequest) (*entities.Contest, error) {
	contest, err := c.buildContest(req)
	if err != nil {
		return nil, err
	}

	err = withUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		var err error
		contest, err = services.NewContestService(uow.ContestRepository(), uow.EventBus()).CreateContest(ctx, contest, req.Invitees)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"contest_id": contest.ID,
		"group_id":   contest.GroupID,
		"game_date":  contest.GameDay(),
		"entry_cost": contest.EntryCost,
	}).Info("Contest created")

	if c.notifier != nil && len(req.Invitees) > 0 {
		if err := c.notifier.NotifyContestCreated(ctx, contest.ID, req.Invitees); err != nil {
			log.WithError(err).WithField("contest_id", contest.ID).Warn("Failed to notify contest invitees")
		}
	}

	return contest, nil
}

func (c *Commands) buildContest(req CreateContestRequest) (*entities.Contest, error) {
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return nil, entities.ErrInvalidContest
	}

	deadline := req.SignupDeadline
	if deadline.IsZero() {
		deadline = req.StartsAt
	}

	gameDate, err := time.Parse(entities.DayLayout, utils.CanonicalDay(req.StartsAt, c.location))
	if err != nil {
		return nil, fmt.Errorf("failed to derive game date: %w", err)
	}

	contest := &entities.Contest{
		GroupID:        req.GroupID,
		Title:          req.Title,
		EntryCost:      req.EntryCost,
		GameDate:       gameDate,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		SignupDeadline: deadline,
		CreatedBy:      req.CreatedBy,
	}
	if req.RandomBonus && len(c.policy.BonusRules.Random) > 0 {
		contest.BonusRule = &entities.BonusRule{
			Type:       entities.BonusRuleRandom,
			Candidates: append([]int64(nil), c.policy.BonusRules.Random...),
		}
	}
	return contest, nil
}

// GetContest returns a contest with its participations and live stats
func (c *Commands) GetContest(ctx context.Context, contestID int64) (*ContestView, error) {
	view := &ContestView{}
	err := readUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		contest, err := services.NewContestService(uow.ContestRepository(), uow.EventBus()).GetContest(ctx, contestID)
		if err != nil {
			return err
		}
		view.Contest = contest

		if view.Participations, err = uow.ParticipationRepository().GetByContest(ctx, contestID); err != nil {
			return fmt.Errorf("failed to get participations: %w", err)
		}
		if view.Snapshot, err = uow.LiveStatsRepository().GetByContest(ctx, contestID); err != nil {
			return fmt.Errorf("failed to get live stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetLeaderboard returns a group's ranked rows with display names
func (c *Commands) GetLeaderboard(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error) {
	var rows []*entities.LeaderboardRow
	err := readUnitOfWork(ctx, c.uowFactory, func(uow UnitOfWork) error {
		var err error
		rows, err = services.NewLeaderboardService(uow.LeaderboardRepository(), uow.AccountRepository()).Get(ctx, groupID, limit)
		return err
	})
	return rows, err
}
