//go:build integration

package relay_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"etatcivil/internal/registry/store"
	audit "etatcivil/pkg/platform/audit"
	"etatcivil/pkg/platform/audit/relay"
	"etatcivil/pkg/platform/audit/store/postgres"
	"etatcivil/pkg/testutil/containers"
)

type RelaySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	kafka    *containers.KafkaContainer
	client   *kgo.Client
	outbox   *postgres.Store
}

func TestRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupSuite() {
	ctx := context.Background()
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.kafka = mgr.GetKafka(s.T())
	s.Require().NoError(s.postgres.Exec(ctx, store.Schema))

	client, err := relay.Connect(ctx, s.kafka.Brokers, 30*time.Second)
	s.Require().NoError(err)
	s.client = client
	s.outbox = postgres.New(s.postgres.DB)
}

func (s *RelaySuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *RelaySuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "outbox"))
}

func (s *RelaySuite) TestOutboxReachesTopic() {
	ctx := context.Background()
	const topic = "etatcivil.audit.test"
	s.Require().NoError(relay.EnsureTopic(ctx, s.client, topic, 1, 1))
	s.Require().NoError(relay.EnsureTopic(ctx, s.client, topic, 1, 1), "second call is a no-op")

	event := audit.Event{
		Timestamp: time.Now(),
		Action:    string(audit.EventBirthCreated),
		Subject:   "naissance",
		SubjectID: "12",
		RequestID: "req-42",
	}
	s.Require().NoError(s.outbox.Append(ctx, event))

	n, err := relay.New(s.outbox, s.client, topic).Flush(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = relay.New(s.outbox, s.client, topic).Flush(ctx)
	s.Require().NoError(err)
	s.Zero(n, "processed entries are not published again")

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.kafka.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal("naissance:12", string(records[0].Key))

	var payload postgres.Payload
	s.Require().NoError(json.Unmarshal(records[0].Value, &payload))
	s.Equal(string(audit.EventBirthCreated), payload.Action)
	s.Equal(string(audit.CategoryCompliance), payload.Category)
	s.Equal("req-42", payload.RequestID)
}
