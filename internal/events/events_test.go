package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestAMQPPublisher_PublishRoutesByType(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", Exchange, "topic", true).Return(nil)
	ch.On("PublishWithContext", Exchange, "item.status_changed", mock.MatchedBy(func(msg amqp.Publishing) bool {
		var e Event
		if err := json.Unmarshal(msg.Body, &e); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			e.OrderID == "o1" && e.FoodID == "m1" && e.Status == "ready"
	})).Return(nil)

	p, err := newAMQPPublisher(ch)
	require.NoError(t, err)

	err = p.Publish(context.Background(), Event{
		Type:       ItemStatusChanged,
		OrderID:    "o1",
		FoodID:     "m1",
		Status:     "ready",
		OccurredAt: time.Now(),
	})

	assert.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestAMQPPublisher_MessageIDsAreUnique(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", Exchange, "topic", true).Return(nil)

	var ids []string
	ch.On("PublishWithContext", Exchange, "order.created", mock.Anything).
		Run(func(args mock.Arguments) {
			ids = append(ids, args.Get(2).(amqp.Publishing).MessageId)
		}).
		Return(nil)

	p, err := newAMQPPublisher(ch)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, p.Publish(context.Background(), Event{Type: OrderCreated, OrderID: "o1"}))
	}

	require.Len(t, ids, 2)
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err, id)
	}
	assert.NotEqual(t, ids[0], ids[1])
}

func TestAMQPPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", Exchange, "topic", true).Return(errors.New("access refused"))
	ch.On("Close").Return(nil)

	_, err := newAMQPPublisher(ch)

	assert.ErrorContains(t, err, "access refused")
	ch.AssertCalled(t, "Close")
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", Exchange, "topic", true).Return(nil)
	ch.On("PublishWithContext", Exchange, "order.created", mock.Anything).Return(amqp.ErrClosed)

	p, err := newAMQPPublisher(ch)
	require.NoError(t, err)

	err = p.Publish(context.Background(), Event{Type: OrderCreated, OrderID: "o1"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestMulti_TriesEveryPublisher(t *testing.T) {
	failing := &recorder{err: errors.New("down")}
	healthy := &recorder{}

	err := Multi{failing, nil, healthy}.Publish(context.Background(), Event{Type: OrderCompleted, OrderID: "o9"})

	assert.ErrorContains(t, err, "down")
	assert.Len(t, failing.events, 1)
	require.Len(t, healthy.events, 1)
	assert.Equal(t, "o9", healthy.events[0].OrderID)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), Event{Type: OrderCreated}))
}
