package pipeline

import (
	"context"
	"log"
	"strings"

	"clipcast/shared/kafka"
)

// NewIntakeHandler builds the Kafka handler that turns queued generation
// requests into projects. Malformed or topicless messages are marked and
// skipped; a store failure leaves the message for redelivery.
func NewIntakeHandler(o *Orchestrator) kafka.MessageHandler {
	return &kafka.TypedMessageHandler[Request]{
		Validate: func(msg *Request) bool {
			return strings.TrimSpace(msg.Topic) != ""
		},
		Process: func(ctx context.Context, msg *Request) error {
			project, err := o.Start(ctx, *msg)
			if err != nil {
				return err
			}
			log.Printf("queued generation request accepted: project=%s topic=%q", project.ID, msg.Topic)
			return nil
		},
		AlwaysMark: true,
	}
}

// StartIntake connects the request topic to the orchestrator and begins
// consuming. The returned consumer should be closed on shutdown.
func StartIntake(ctx context.Context, o *Orchestrator, brokers []string, topic, groupID string) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		Handler: NewIntakeHandler(o),
	})
	if err != nil {
		return nil, err
	}
	if err := consumer.Start(ctx); err != nil {
		return nil, err
	}
	return consumer, nil
}
