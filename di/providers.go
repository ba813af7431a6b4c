package di

import (
	"todoapp/config"
	"todoapp/infras/kafka"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/event"
)

// ProvidePublisher returns a publisher whose cleanup waits for in-flight events, so it must run
// before the kafka client is closed.
func ProvidePublisher(cfg *config.Config, client kafka.Client, ot otel.Otel) (event.Publisher, func()) {
	publisher := event.New(cfg, client, ot)

	return publisher, publisher.Wait
}
