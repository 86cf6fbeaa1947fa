package notifier

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogNotifier only logs notifications. Used when no brokers are configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyContestCreated(ctx context.Context, contestID int64, recipients []string) error {
	log.WithFields(log.Fields{
		"contest_id": contestID,
		"recipients": recipients,
	}).Info("Contest created notification")
	return nil
}
