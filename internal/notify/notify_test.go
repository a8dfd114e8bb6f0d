package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(*fakeToken)
}

func TestScheduleChangedPublishes(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", "dq/schedules/7/changed", byte(1), false, mock.Anything).Return(newToken(nil)).Once()

	n := NewMQTT(pub)
	n.now = func() time.Time { return time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC) }
	n.ScheduleChanged(context.Background(), 7, "hours")

	pub.AssertExpectations(t)
	body := pub.Calls[0].Arguments.Get(3).([]byte)

	var ev Event
	require.NoError(t, json.Unmarshal(body, &ev))
	assert.Equal(t, "schedule_changed", ev.Type)
	assert.Equal(t, 7, ev.ScheduleID)
	assert.Equal(t, "hours", ev.Reason)
	assert.True(t, n.now().Equal(ev.At))
}

func TestScheduleChangedSwallowsErrors(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newToken(errors.New("broker gone")))

	n := NewMQTT(pub)
	assert.NotPanics(t, func() { n.ScheduleChanged(context.Background(), 1, "deleted") })
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	n.ScheduleChanged(context.Background(), 1, "created")
	n.Close()
}
