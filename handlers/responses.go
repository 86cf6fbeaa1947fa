package handlers

import (
	"time"

	"pickem/application"
	"pickem/domain/entities"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type joinRequest struct {
	Picks []string `json:"picks"`
}

type joinResponse struct {
	ContestID int64 `json:"contestId"`
	Pot       int64 `json:"pot"`
	Balance   int64 `json:"balance"`
	Charged   bool  `json:"charged"`
}

type dailyBonusResponse struct {
	Granted          int64  `json:"granted"`
	Balance          int64  `json:"balance"`
	ClaimedDay       string `json:"claimedDay"`
	NextAvailableDay string `json:"nextAvailableDay"`
	ClaimedThisMonth int64  `json:"claimedThisMonth"`
}

type purchaseResponse struct {
	Applied bool  `json:"applied"`
	Balance int64 `json:"balance"`
}

type registerRequest struct {
	DisplayName string `json:"displayName"`
}

type accountResponse struct {
	ID                     string `json:"id"`
	DisplayName            string `json:"displayName"`
	Balance                int64  `json:"balance"`
	LifetimeParticipations int64  `json:"lifetimeParticipations"`
	CurrentStreak          int64  `json:"currentStreak"`
	LongestStreak          int64  `json:"longestStreak"`
}

type ledgerEntryResponse struct {
	Key         string    `json:"key"`
	Amount      int64     `json:"amount"`
	Source      string    `json:"source"`
	FromBalance int64     `json:"fromBalance"`
	ToBalance   int64     `json:"toBalance"`
	CreatedAt   time.Time `json:"createdAt"`
}

type accountViewResponse struct {
	Account          accountResponse       `json:"account"`
	LedgerConsistent bool                  `json:"ledgerConsistent"`
	Entries          []ledgerEntryResponse `json:"entries"`
}

type createContestRequest struct {
	GroupID        string     `json:"groupId"`
	Title          string     `json:"title"`
	EntryCost      int64      `json:"entryCost"`
	StartsAt       time.Time  `json:"startsAt"`
	EndsAt         time.Time  `json:"endsAt"`
	SignupDeadline *time.Time `json:"signupDeadline"`
	RandomBonus    bool       `json:"randomBonus"`
	Invitees       []string   `json:"invitees"`
}

type contestResponse struct {
	ID                int64            `json:"id"`
	GroupID           string           `json:"groupId"`
	Title             string           `json:"title"`
	Status            string           `json:"status"`
	EntryCost         int64            `json:"entryCost"`
	Pot               int64            `json:"pot"`
	ParticipantsCount int64            `json:"participantsCount"`
	GameDate          string           `json:"gameDate"`
	StartsAt          time.Time        `json:"startsAt"`
	EndsAt            time.Time        `json:"endsAt"`
	SignupDeadline    time.Time        `json:"signupDeadline"`
	BonusPerWinner    int64            `json:"bonusPerWinner"`
	Winners           []string         `json:"winners,omitempty"`
	WinnerShares      map[string]int64 `json:"winnerShares,omitempty"`
	SettledAt         *time.Time       `json:"settledAt,omitempty"`
}

type participationResponse struct {
	AccountID   string   `json:"accountId"`
	Picks       []string `json:"picks"`
	LivePoints  string   `json:"livePoints"`
	FinalPoints *string  `json:"finalPoints,omitempty"`
	Payout      *int64   `json:"payout,omitempty"`
	Bonus       *int64   `json:"bonus,omitempty"`
}

type liveStatsResponse struct {
	Goals        map[string]int64 `json:"goals"`
	Assists      map[string]int64 `json:"assists"`
	GamesFetched int              `json:"gamesFetched"`
	GamesFailed  int              `json:"gamesFailed"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type contestViewResponse struct {
	Contest        contestResponse         `json:"contest"`
	Participations []participationResponse `json:"participations"`
	LiveStats      *liveStatsResponse      `json:"liveStats,omitempty"`
}

type leaderboardRowResponse struct {
	AccountID      string  `json:"accountId"`
	DisplayName    string  `json:"displayName,omitempty"`
	Wins           int64   `json:"wins"`
	PotTotal       int64   `json:"potTotal"`
	PotAvg         float64 `json:"potAvg"`
	Participations int64   `json:"participations"`
}

type leaderboardResponse struct {
	GroupID string                   `json:"groupId"`
	Rows    []leaderboardRowResponse `json:"rows"`
}

func toAccountResponse(a *entities.Account) accountResponse {
	return accountResponse{
		ID:                     a.ID,
		DisplayName:            a.DisplayName,
		Balance:                a.Balance,
		LifetimeParticipations: a.LifetimeParticipations,
		CurrentStreak:          a.CurrentStreak,
		LongestStreak:          a.LongestStreak,
	}
}

func toAccountViewResponse(v *application.AccountView) accountViewResponse {
	entries := make([]ledgerEntryResponse, 0, len(v.RecentEntries))
	for _, e := range v.RecentEntries {
		entries = append(entries, ledgerEntryResponse{
			Key:         e.IdempotencyKey,
			Amount:      e.Amount,
			Source:      string(e.Source),
			FromBalance: e.FromBalance,
			ToBalance:   e.ToBalance,
			CreatedAt:   e.CreatedAt,
		})
	}
	return accountViewResponse{
		Account:          toAccountResponse(v.Account),
		LedgerConsistent: v.Reconciliation != nil && v.Reconciliation.IsConsistent,
		Entries:          entries,
	}
}

func toContestResponse(c *entities.Contest) contestResponse {
	return contestResponse{
		ID:                c.ID,
		GroupID:           c.GroupID,
		Title:             c.Title,
		Status:            string(c.Status),
		EntryCost:         c.EntryCost,
		Pot:               c.Pot,
		ParticipantsCount: c.ParticipantsCount,
		GameDate:          c.GameDay(),
		StartsAt:          c.StartsAt,
		EndsAt:            c.EndsAt,
		SignupDeadline:    c.SignupDeadline,
		BonusPerWinner:    c.BonusPerWinner,
		Winners:           c.Winners,
		WinnerShares:      c.WinnerShares,
		SettledAt:         c.SettledAt,
	}
}

func toContestViewResponse(v *application.ContestView) contestViewResponse {
	participations := make([]participationResponse, 0, len(v.Participations))
	for _, p := range v.Participations {
		resp := participationResponse{
			AccountID:  p.AccountID,
			Picks:      p.Picks,
			LivePoints: entities.FormatPoints(p.LivePoints),
			Payout:     p.Payout,
			Bonus:      p.Bonus,
		}
		if p.FinalPoints != nil {
			final := entities.FormatPoints(*p.FinalPoints)
			resp.FinalPoints = &final
		}
		participations = append(participations, resp)
	}

	out := contestViewResponse{
		Contest:        toContestResponse(v.Contest),
		Participations: participations,
	}
	if v.Snapshot != nil {
		out.LiveStats = &liveStatsResponse{
			Goals:        v.Snapshot.Goals,
			Assists:      v.Snapshot.Assists,
			GamesFetched: v.Snapshot.GamesFetched,
			GamesFailed:  v.Snapshot.GamesFailed,
			UpdatedAt:    v.Snapshot.UpdatedAt,
		}
	}
	return out
}

func toLeaderboardResponse(groupID string, rows []*entities.LeaderboardRow) leaderboardResponse {
	out := leaderboardResponse{GroupID: groupID, Rows: make([]leaderboardRowResponse, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, leaderboardRowResponse{
			AccountID:      r.AccountID,
			DisplayName:    r.DisplayName,
			Wins:           r.Wins,
			PotTotal:       r.PotTotal,
			PotAvg:         r.PotAvg,
			Participations: r.Participations,
		})
	}
	return out
}
