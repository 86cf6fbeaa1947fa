package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"pickem/application"
	"pickem/config"
	"pickem/database"
	"pickem/domain/entities"
	"pickem/infrastructure"

	"github.com/olekukonko/tablewriter"
)

// PrintLeaderboard writes a group's leaderboard as a table
func PrintLeaderboard(ctx context.Context, out io.Writer, groupID string, limit int) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), poolSettings(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	commands := application.NewCommands(uowFactory, nil, cfg.Policy, nil)

	rows, err := commands.GetLeaderboard(ctx, groupID, limit)
	if err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintf(out, "No leaderboard rows for group %s\n", groupID)
		return nil
	}
	renderLeaderboard(out, rows)
	return nil
}

func renderLeaderboard(out io.Writer, rows []*entities.LeaderboardRow) {
	table := tablewriter.NewWriter(out)
	table.Header("#", "Player", "Wins", "Pot total", "Pot avg", "Played")

	for i, row := range rows {
		name := row.DisplayName
		if name == "" {
			name = row.AccountID
		}
		table.Append(
			strconv.Itoa(i+1),
			name,
			strconv.FormatInt(row.Wins, 10),
			strconv.FormatInt(row.PotTotal, 10),
			fmt.Sprintf("%.1f", row.PotAvg),
			strconv.FormatInt(row.Participations, 10),
		)
	}

	table.Render()
}
