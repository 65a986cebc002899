package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domoutbox "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/outbox"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string { return e.name }

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(nil)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	got := make(chan domoutbox.Event, 1)
	bus.Subscribe("thing.happened", func(_ context.Context, e domoutbox.Event) error {
		got <- e
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "thing.happened"}))

	select {
	case e := <-got:
		require.Equal(t, "thing.happened", e.EventName())
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusDropsEventWithoutSubscriber(t *testing.T) {
	bus := NewBus(nil)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "nobody.listens"}))
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus(nil)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	got := make(chan struct{}, 1)
	bus.Subscribe("thing.happened", func(context.Context, domoutbox.Event) error {
		panic("handler bug")
	})
	bus.Subscribe("thing.happened", func(context.Context, domoutbox.Event) error {
		got <- struct{}{}
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "thing.happened"}))

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler starved by panicking sibling")
	}
}

func TestBusPublishNilEventIsNoop(t *testing.T) {
	bus := NewBus(nil)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	require.NoError(t, bus.Publish(context.Background(), nil))
}
