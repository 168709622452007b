package eventbus

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/annel0/colony-core/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEnvelope(t *testing.T, typ string, prio int) *Envelope {
	t.Helper()
	ev, err := NewEnvelope("world-1", typ, 7, prio, map[string]int{"n": 1})
	require.NoError(t, err)
	return ev
}

func TestNewEnvelope(t *testing.T) {
	ev := mustEnvelope(t, EventTreesAged, PriorityLow)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "world-1", ev.Source)
	assert.Equal(t, uint64(7), ev.Frame)
	assert.JSONEq(t, `{"n":1}`, string(ev.Payload))

	_, err := NewEnvelope("w", "bad", 0, 0, make(chan int))
	assert.Error(t, err, "канал не сериализуется в JSON")
}

func TestMemoryBusDeliversInOrderWithFilter(t *testing.T) {
	bus := NewMemoryBus(16)

	var mu sync.Mutex
	var all, transforms []string
	_, err := bus.Subscribe(context.Background(), Filter{}, func(_ context.Context, ev *Envelope) {
		mu.Lock()
		all = append(all, ev.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{EventTransformation}}, func(_ context.Context, ev *Envelope) {
		mu.Lock()
		transforms = append(transforms, ev.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, mustEnvelope(t, EventFluidStep, PriorityLow)))
	require.NoError(t, bus.Publish(ctx, mustEnvelope(t, EventTransformation, PriorityHigh)))
	require.NoError(t, bus.Publish(ctx, mustEnvelope(t, EventTreesAged, PriorityLow)))

	// Close дожидается доставки принятых событий
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{EventFluidStep, EventTransformation, EventTreesAged}, all)
	assert.Equal(t, []string{EventTransformation}, transforms)

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(4), stats.Consumed)
	assert.ErrorIs(t, bus.Publish(ctx, mustEnvelope(t, EventFluidStep, PriorityLow)), ErrClosed)
	assert.NoError(t, bus.Close(), "повторное закрытие безопасно")
}

func TestMemoryBusDropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	release := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		<-release
	})
	require.NoError(t, err)

	ctx := context.Background()
	// первое событие забирает диспетчер и блокируется в обработчике
	require.NoError(t, bus.Publish(ctx, mustEnvelope(t, EventFluidStep, PriorityLow)))
	require.Eventually(t, func() bool { return bus.Metrics().InFlight == 0 }, time.Second, time.Millisecond)
	// второе занимает буфер, третье отбрасывается
	require.NoError(t, bus.Publish(ctx, mustEnvelope(t, EventFluidStep, PriorityLow)))
	require.NoError(t, bus.Publish(ctx, mustEnvelope(t, EventFluidStep, PriorityLow)))
	assert.Equal(t, uint64(1), bus.Metrics().Dropped)

	// высокий приоритет ждёт места до отмены контекста
	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Publish(cctx, mustEnvelope(t, EventTransformation, PriorityHigh)), context.DeadlineExceeded)

	close(release)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewMemoryBus(4)

	var got int
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) { got++ })
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, EventFluidStep, PriorityLow)))
	require.NoError(t, bus.Close())
	assert.Zero(t, got)
}

func TestLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)
	var buf bytes.Buffer
	_, err := StartLoggingListener(bus, logging.NewWriterLogger("sim", &buf, logging.DEBUG))
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, EventTreesAged, PriorityLow)))
	require.NoError(t, bus.Close())

	assert.Contains(t, buf.String(), "trees_aged world=world-1 frame=7")
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg, bus))

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, EventFluidStep, PriorityLow)))
	require.NoError(t, bus.Close())

	count, err := testutil.GatherAndCount(reg, "colony_events_published_total", "colony_events_inflight")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "colony_events_published_total" {
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.Error(t, RegisterMetrics(reg, bus), "повторная регистрация конфликтует")
}

func TestJetStreamEnvelopeWireFormat(t *testing.T) {
	ev := mustEnvelope(t, EventTransformation, PriorityHigh)
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var back Envelope
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev.ID, back.ID)
	assert.Equal(t, "colony.transformation", Subject(back.EventType))
}

func TestJetStreamConnectFailure(t *testing.T) {
	_, err := NewJetStreamBus("nats://127.0.0.1:1", "", time.Hour)
	assert.Error(t, err)
}
