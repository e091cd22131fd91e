package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrEventNotAccepted = fmt.Errorf("event not accepted")

// Event is one webhook callback received from the platform.
type Event struct {
	ID         string
	AccountID  string
	Name       string
	ReceivedAt time.Time
	Data       json.RawMessage
}

type EventStore interface {
	Save(ctx context.Context, e Event) error
}

type Relay interface {
	Handle(ctx context.Context, accountID, eventName string, data json.RawMessage) (string, error)
}

var tracer = otel.Tracer("emma-go/relay")

func New(cfg *Config, store EventStore) Relay {
	return &relay{
		cfg:   cfg,
		store: store,
	}
}

type relay struct {
	cfg   *Config
	store EventStore
}

func (r *relay) Handle(ctx context.Context, accountID, eventName string, data json.RawMessage) (string, error) {
	var err error

	ctx, span := tracer.Start(ctx, "handle-event",
		trace.WithAttributes(attribute.String("emma-account-id", accountID)),
		trace.WithAttributes(attribute.String("emma-event-name", eventName)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	if !r.cfg.Accepts(accountID, eventName) {
		err = ErrEventNotAccepted
		return "", err
	}

	evt := Event{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Name:       eventName,
		ReceivedAt: time.Now().UTC(),
		Data:       data,
	}

	err = r.store.Save(ctx, evt)
	if err != nil {
		err = fmt.Errorf("failed to store event: %w", err)
		return "", err
	}

	log.Info("stored webhook event", "event_id", evt.ID, "event_name", eventName, "account_id", accountID)

	return evt.ID, nil
}
