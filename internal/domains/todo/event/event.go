package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"strconv"
	"sync"
	"time"
	"todoapp/config"
	"todoapp/infras/kafka"
	"todoapp/infras/otel"
	"todoapp/internal/domains/todo/model/dto"
	"todoapp/shared/constant"
	"todoapp/shared/logger"
	"todoapp/shared/timezone"
)

const publishTimeout = 5 * time.Second

type Type string

const (
	TypeCreated   Type = "todo.created"
	TypeUpdated   Type = "todo.updated"
	TypeDeleted   Type = "todo.deleted"
	TypeCompleted Type = "todo.completed"
	TypeReopened  Type = "todo.reopened"
)

// TodoEvent describes a committed change to a todo. Todo is empty for deletions.
type TodoEvent struct {
	Type       Type              `json:"type"`
	TodoID     int64             `json:"todo_id"`
	Todo       *dto.TodoResponse `json:"todo,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewTodoEvent(eventType Type, todoID int64, todo *dto.TodoResponse) TodoEvent {
	return TodoEvent{
		Type:       eventType,
		TodoID:     todoID,
		Todo:       todo,
		OccurredAt: timezone.Now(),
	}
}

// ToggleType reports the event raised by a toggle that left the todo in the given state.
func ToggleType(completed bool) Type {
	if completed {
		return TypeCompleted
	}

	return TypeReopened
}

// Publisher sends todo events without blocking the caller. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, evt TodoEvent)
	Wait()
}

type publisherImpl struct {
	client  kafka.Client
	otel    otel.Otel
	enabled bool
	wg      sync.WaitGroup
}

func New(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	return &publisherImpl{
		client:  client,
		otel:    otel,
		enabled: cfg.Kafka.Enable,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, evt TodoEvent) {
	if !p.enabled {
		return
	}

	requestID, _ := ctx.Value(constant.ContextKeyRequestID).(string)
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttribute("event.type", string(evt.Type))
		scope.SetAttribute("todo.id", evt.TodoID)

		err := p.client.SendMessages(ctx, kafka.Message{
			Key:     strconv.FormatInt(evt.TodoID, 10),
			Value:   evt,
			Headers: map[string]string{"request_id": requestID, "type": string(evt.Type)},
		})
		if err != nil {
			scope.TraceError(err)
			logger.Ctx(ctx).Error().Err(err).Str("type", string(evt.Type)).Int64("todo_id", evt.TodoID).Msg("failed to publish todo event")
		}
	}()
}

// Wait blocks until every event handed to Publish has been sent or dropped.
func (p *publisherImpl) Wait() {
	p.wg.Wait()
}
