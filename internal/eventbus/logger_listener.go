package eventbus

import (
	"context"

	"github.com/annel0/colony-core/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог (DEBUG).
// Функция неблокирующая.
func StartLoggingListener(bus EventBus, log *logging.Logger) (Subscription, error) {
	if log == nil {
		log = logging.GetSimLogger()
	}
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		log.Debug("[EventBus] %s %s world=%s frame=%d %s", ev.ID, ev.EventType, ev.Source, ev.Frame, ev.Payload)
	})
	if err != nil {
		return nil, err
	}
	log.Info("🪵 LoggingListener: подписка на события симуляции активирована")
	return sub, nil
}
