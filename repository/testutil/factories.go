package testutil

import (
	"time"

	"pickem/domain/entities"
)

// CreateTestContest creates an open contest whose signup window is still running
func CreateTestContest(groupID string, entryCost int64) *entities.Contest {
	now := time.Now().UTC()
	startsAt := now.Add(2 * time.Hour)
	return &entities.Contest{
		GroupID:        groupID,
		Title:          "Test contest",
		Status:         entities.ContestStatusOpen,
		EntryCost:      entryCost,
		GameDate:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		StartsAt:       startsAt,
		EndsAt:         startsAt.Add(4 * time.Hour),
		SignupDeadline: startsAt,
		CreatedBy:      "creator",
	}
}

// CreateTestContestOnDay creates a contest for a specific game day (YYYY-MM-DD)
func CreateTestContestOnDay(groupID string, entryCost int64, day string) *entities.Contest {
	contest := CreateTestContest(groupID, entryCost)
	gameDate, err := time.Parse(entities.DayLayout, day)
	if err != nil {
		panic(err)
	}
	contest.GameDate = gameDate
	contest.StartsAt = gameDate.Add(23 * time.Hour)
	contest.EndsAt = contest.StartsAt.Add(4 * time.Hour)
	contest.SignupDeadline = contest.StartsAt
	return contest
}

// CreateExpiredContest creates an open contest whose signup deadline has passed
func CreateExpiredContest(groupID string, entryCost int64) *entities.Contest {
	contest := CreateTestContest(groupID, entryCost)
	contest.SignupDeadline = time.Now().UTC().Add(-time.Hour)
	contest.StartsAt = contest.SignupDeadline
	contest.EndsAt = contest.StartsAt.Add(4 * time.Hour)
	return contest
}

// CreateTestSnapshot creates a snapshot with point totals in tenths
func CreateTestSnapshot(contestID int64, points map[string]int64) *entities.LiveStatsSnapshot {
	snapshot := entities.NewLiveStatsSnapshot(contestID)
	for player, p := range points {
		snapshot.Points[player] = p
		snapshot.Goals[player] = p / entities.PointsScale
	}
	return snapshot
}
