package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/eventstream"
	"github.com/gruhabuddy/gruha/pkg/eventstream/kafka"
)

var _ = Describe("Publisher", func() {
	var (
		writer    *kafka.RecordingWriter
		publisher *kafka.Publisher
	)

	BeforeEach(func() {
		writer = &kafka.RecordingWriter{}
		publisher = kafka.NewPublisherWithWriter(writer)
	})

	It("requires brokers and a topic", func() {
		_, err := kafka.NewPublisher(kafka.Config{Topic: "t"}, zap.NewNop())
		Expect(err).To(HaveOccurred())
		_, err = kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}}, zap.NewNop())
		Expect(err).To(HaveOccurred())
	})

	It("builds a lazy writer without dialing", func() {
		p, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}, Topic: "gruha.design.events"}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Close()).To(Succeed())
	})

	It("rejects nil events", func() {
		Expect(publisher.Publish(context.Background(), nil)).To(MatchError(eventstream.ErrNilDesignEvent))
		Expect(writer.Messages).To(BeEmpty())
	})

	It("writes the event as JSON keyed by event id", func() {
		event := &eventstream.DesignEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeDesignCompleted,
			EventID:       "evt-1",
			EmittedAt:     time.Unix(1735689600, 0).UTC(),
			Request:       eventstream.RequestMeta{Action: "color-suggestions", HTTPStatus: 200},
			Result:        eventstream.ResultMeta{Outcome: eventstream.OutcomeParsed},
		}
		Expect(publisher.Publish(context.Background(), event)).To(Succeed())

		Expect(writer.Messages).To(HaveLen(1))
		msg := writer.Messages[0]
		Expect(string(msg.Key)).To(Equal("evt-1"))
		Expect(msg.Headers[0].Key).To(Equal("event_type"))

		var decoded eventstream.DesignEvent
		Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
		Expect(decoded.Request.Action).To(Equal("color-suggestions"))
	})

	It("wraps writer failures", func() {
		writer.Err = errors.New("broker down")
		err := publisher.Publish(context.Background(), &eventstream.DesignEvent{EventID: "x"})
		Expect(err).To(MatchError(ContainSubstring("broker down")))
	})

	It("closes the writer", func() {
		Expect(publisher.Close()).To(Succeed())
		Expect(writer.Closed).To(BeTrue())
	})
})
