package sportsfeed

import (
	"strconv"

	"pickem/domain/entities"
)

// scheduleResponse is the body of GET /schedule/{date}. The provider returns
// the whole week starting at date.
type scheduleResponse struct {
	GameWeek []struct {
		Date  string `json:"date"`
		Games []struct {
			ID        int64  `json:"id"`
			GameDate  string `json:"gameDate"`
			GameState string `json:"gameState"`
		} `json:"games"`
	} `json:"gameWeek"`
}

func (r *scheduleResponse) gamesOn(day string) []entities.ScheduledGame {
	games := make([]entities.ScheduledGame, 0)
	for _, d := range r.GameWeek {
		if d.Date != day {
			continue
		}
		for _, g := range d.Games {
			games = append(games, entities.ScheduledGame{
				ID:        g.ID,
				GameDate:  d.Date,
				GameState: g.GameState,
			})
		}
	}
	return games
}

// playByPlayResponse is the body of GET /gamecenter/{id}/play-by-play
type playByPlayResponse struct {
	ID    int64  `json:"id"`
	Plays []play `json:"plays"`
}

type play struct {
	EventID          int64  `json:"eventId"`
	TypeDescKey      string `json:"typeDescKey"`
	PeriodDescriptor struct {
		Number     int    `json:"number"`
		PeriodType string `json:"periodType"`
	} `json:"periodDescriptor"`
	Details *struct {
		ScoringPlayerID *int64 `json:"scoringPlayerId"`
		Assist1PlayerID *int64 `json:"assist1PlayerId"`
		Assist2PlayerID *int64 `json:"assist2PlayerId"`
	} `json:"details"`
}

const goalEventType = "goal"

func (r *playByPlayResponse) scoringEvents(gameID int64) []entities.ScoringEvent {
	scoring := make([]entities.ScoringEvent, 0)
	for _, p := range r.Plays {
		if p.TypeDescKey != goalEventType || p.Details == nil {
			continue
		}
		event := entities.ScoringEvent{
			GameID:     gameID,
			EventID:    p.EventID,
			PeriodType: p.PeriodDescriptor.PeriodType,
			ScorerID:   playerID(p.Details.ScoringPlayerID),
		}
		for _, assist := range []*int64{p.Details.Assist1PlayerID, p.Details.Assist2PlayerID} {
			if id := playerID(assist); id != "" {
				event.AssistIDs = append(event.AssistIDs, id)
			}
		}
		scoring = append(scoring, event)
	}
	return scoring
}

func playerID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
