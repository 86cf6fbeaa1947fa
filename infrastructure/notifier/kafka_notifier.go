package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// ContestCreatedMessage is the payload written to the contest topic.
// Downstream delivery services fan it out to each recipient.
type ContestCreatedMessage struct {
	ContestID  int64     `json:"contestId"`
	Recipients []string  `json:"recipients"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageWriter is the subset of *kafka.Writer the notifier needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes contest-created notifications to a Kafka topic
type KafkaNotifier struct {
	writer MessageWriter
	now    func() time.Time
}

// NewKafkaWriter creates a writer for topic on the given brokers
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func NewKafkaNotifier(writer MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, now: time.Now}
}

// NotifyContestCreated writes one message keyed by contest id so all
// notifications for a contest land on the same partition
func (n *KafkaNotifier) NotifyContestCreated(ctx context.Context, contestID int64, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg, err := n.buildMessage(contestID, recipients)
	if err != nil {
		return err
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish contest %d notification: %w", contestID, err)
	}

	log.WithFields(log.Fields{
		"contest_id": contestID,
		"recipients": len(recipients),
	}).Debug("Published contest notification")
	return nil
}

func (n *KafkaNotifier) buildMessage(contestID int64, recipients []string) (kafka.Message, error) {
	now := n.now()
	payload, err := json.Marshal(ContestCreatedMessage{
		ContestID:  contestID,
		Recipients: recipients,
		CreatedAt:  now,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal notification: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(contestID, 10)),
		Value: payload,
		Time:  now,
	}, nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
