package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewBus(nil)
	a, unsubA := bus.Subscribe()
	b, unsubB := bus.Subscribe()
	defer unsubB()

	e := New(AddCommand, "!x")
	e.New = "hi"
	e.User = "foo"
	bus.Publish(e)

	assert.Equal(t, e, <-a)
	assert.Equal(t, e, <-b)

	unsubA()
	unsubA()
	_, ok := <-a
	assert.False(t, ok, "unsubscribed channel is closed")

	bus.Publish(New(DeleteCommand, "!x"))
	got := <-b
	assert.Equal(t, DeleteCommand, got.Kind)
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewBus(nil)
	ch, unsub := bus.Subscribe()
	defer unsub()
	for i := 0; i < DefaultBuffer+10; i++ {
		bus.Publish(New(EditVariable, "v"))
	}
	assert.Len(t, ch, DefaultBuffer)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	bus := NewBus(nil)
	ch, unsub := bus.Subscribe()
	bus.Close()
	_, ok := <-ch
	assert.False(t, ok)
	unsub()
	bus.Publish(New(AddVariable, "v"))

	late, _ := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestEventString(t *testing.T) {
	e := New(AddCommand, "!x")
	require.NotEmpty(t, e.ID)
	e.New = "hi"
	e.User = "foo"
	assert.Equal(t, `AddCommand(!x, "hi", foo)`, e.String())
	e.PersistError = "disk full"
	assert.Contains(t, e.String(), "not persisted")
	assert.True(t, LoadVariable.IsLoad())
	assert.False(t, AddVariable.IsLoad())
}
