package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"pickem/application"
	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/middleware"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const defaultLeaderboardLimit = 50

// Commands is the set of inbound operations served over HTTP
type Commands interface {
	JoinContest(ctx context.Context, contestID int64, accountID string, picks []string) (*interfaces.JoinResult, error)
	ClaimDailyBonus(ctx context.Context, accountID string) (*entities.DailyBonusResult, error)
	HandlePurchase(ctx context.Context, event *entities.PurchaseEvent) (*entities.GrantResult, error)
	RegisterAccount(ctx context.Context, accountID, displayName string) (*entities.Account, error)
	GetAccount(ctx context.Context, accountID string, historyLimit int) (*application.AccountView, error)
	CreateContest(ctx context.Context, req application.CreateContestRequest) (*entities.Contest, error)
	GetContest(ctx context.Context, contestID int64) (*application.ContestView, error)
	GetLeaderboard(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error)
}

// RouteConfig holds what the routes need besides the commands
type RouteConfig struct {
	GatewayToken  string
	WebhookSecret string
	Metrics       *middleware.HTTPMetrics
	HealthCheck   func(ctx context.Context) error
}

// Handler serves the HTTP API
type Handler struct {
	commands Commands
}

func NewHandler(commands Commands) *Handler {
	return &Handler{commands: commands}
}

// RegisterRoutes mounts every route on app. Routes under /s/ require the
// gateway token and a caller id; the purchase webhook is authenticated by
// its body signature instead.
func RegisterRoutes(app *fiber.App, h *Handler, cfg RouteConfig) {
	if cfg.Metrics != nil {
		app.Use(cfg.Metrics.Middleware())
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if cfg.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := cfg.HealthCheck(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/webhooks/purchase", middleware.WebhookSignature(cfg.WebhookSecret), h.PurchaseWebhook)

	secured := app.Group("/s", middleware.GatewayAuth(cfg.GatewayToken), middleware.UserContext())
	secured.Post("/accounts", h.RegisterAccount)
	secured.Get("/accounts/me", h.GetMyAccount)
	secured.Post("/bonus/daily", h.ClaimDailyBonus)
	secured.Post("/contests", h.CreateContest)
	secured.Get("/contests/:id", h.GetContest)
	secured.Post("/contests/:id/join", h.JoinContest)
	secured.Get("/groups/:id/leaderboard", h.GetLeaderboard)
}

// JoinContest handles POST /s/contests/:id/join
func (h *Handler) JoinContest(c *fiber.Ctx) error {
	contestID, err := c.ParamsInt("id")
	if err != nil || contestID <= 0 {
		return badRequest(c, "invalid contest id")
	}

	var req joinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.commands.JoinContest(c.UserContext(), int64(contestID), middleware.UserID(c), req.Picks)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(joinResponse{
		ContestID: result.ContestID,
		Pot:       result.Pot,
		Balance:   result.Balance,
		Charged:   result.Charged,
	})
}

// ClaimDailyBonus handles POST /s/bonus/daily
func (h *Handler) ClaimDailyBonus(c *fiber.Ctx) error {
	result, err := h.commands.ClaimDailyBonus(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(dailyBonusResponse{
		Granted:          result.Granted,
		Balance:          result.Balance,
		ClaimedDay:       result.ClaimedDay,
		NextAvailableDay: result.NextAvailableDay,
		ClaimedThisMonth: result.ClaimedThisMonth,
	})
}

// PurchaseWebhook handles POST /webhooks/purchase. Replays of an already
// applied event answer 200 with applied=false.
func (h *Handler) PurchaseWebhook(c *fiber.Ctx) error {
	var event entities.PurchaseEvent
	if err := c.BodyParser(&event); err != nil {
		return badRequest(c, "invalid request body")
	}
	event.ReceivedAt = time.Now().UTC()

	result, err := h.commands.HandlePurchase(c.UserContext(), &event)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(purchaseResponse{
		Applied: result.Applied,
		Balance: result.ToBalance,
	})
}

// RegisterAccount handles POST /s/accounts
func (h *Handler) RegisterAccount(c *fiber.Ctx) error {
	var req registerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	account, err := h.commands.RegisterAccount(c.UserContext(), middleware.UserID(c), req.DisplayName)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAccountResponse(account))
}

// GetMyAccount handles GET /s/accounts/me
func (h *Handler) GetMyAccount(c *fiber.Ctx) error {
	view, err := h.commands.GetAccount(c.UserContext(), middleware.UserID(c), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAccountViewResponse(view))
}

// CreateContest handles POST /s/contests
func (h *Handler) CreateContest(c *fiber.Ctx) error {
	var req createContestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	createReq := application.CreateContestRequest{
		GroupID:     req.GroupID,
		Title:       req.Title,
		CreatedBy:   middleware.UserID(c),
		EntryCost:   req.EntryCost,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		RandomBonus: req.RandomBonus,
		Invitees:    req.Invitees,
	}
	if req.SignupDeadline != nil {
		createReq.SignupDeadline = *req.SignupDeadline
	}

	contest, err := h.commands.CreateContest(c.UserContext(), createReq)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toContestResponse(contest))
}

// GetContest handles GET /s/contests/:id
func (h *Handler) GetContest(c *fiber.Ctx) error {
	contestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || contestID <= 0 {
		return badRequest(c, "invalid contest id")
	}

	view, err := h.commands.GetContest(c.UserContext(), contestID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toContestViewResponse(view))
}

// GetLeaderboard handles GET /s/groups/:id/leaderboard
func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	groupID := c.Params("id")
	rows, err := h.commands.GetLeaderboard(c.UserContext(), groupID, c.QueryInt("limit", defaultLeaderboardLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLeaderboardResponse(groupID, rows))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: message, Code: "InvalidRequest"})
}

// writeError maps domain errors to status codes; anything unrecognised is a 500
func writeError(c *fiber.Ctx, err error) error {
	status, code := classifyError(err)
	if status == fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path":   c.Path(),
			"method": c.Method(),
		}).Errorf("Request failed: %v", err)
		return c.Status(status).JSON(errorResponse{Error: "internal error", Code: code})
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error(), Code: code})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrContestNotFound), errors.Is(err, entities.ErrAccountNotFound):
		return fiber.StatusNotFound, "NotFound"
	case errors.Is(err, entities.ErrContestNotOpen):
		return fiber.StatusConflict, "NotOpen"
	case errors.Is(err, entities.ErrInsufficientFunds):
		return fiber.StatusPaymentRequired, "InsufficientFunds"
	case errors.Is(err, entities.ErrAlreadyClaimedToday):
		return fiber.StatusConflict, "AlreadyClaimedToday"
	case errors.Is(err, entities.ErrMonthlyCapReached):
		return fiber.StatusTooManyRequests, "MonthlyCapReached"
	case entities.IsValidationError(err):
		return fiber.StatusBadRequest, "InvalidRequest"
	default:
		return fiber.StatusInternalServerError, "Internal"
	}
}
