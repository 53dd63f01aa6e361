package kafka

import (
	"context"

	"rental-engine/internal/pkg/config"
	"rental-engine/internal/pkg/errs"

	"github.com/IBM/sarama"
)

// Publisher writes booking events to one topic, keyed by aggregate so the
// events of one booking land on the same partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Idempotent = true
	sc.Producer.Return.Successes = true
	sc.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, errs.Wrap(err, "create kafka producer")
	}
	return NewPublisherWithProducer(producer, cfg.Topic), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
		},
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return errs.Wrapf(err, "publish %s event", eventType)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
