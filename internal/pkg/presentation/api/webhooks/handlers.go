package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/myemma/emma-go/internal/pkg/application/relay"
	"github.com/myemma/emma-go/internal/pkg/presentation/api/webhooks/auth"
)

func RegisterHandlers(ctx context.Context, r *chi.Mux, policies io.Reader, app relay.Relay) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/webhooks", func(r chi.Router) {
		r.Use(Logger(logging.GetFromContext(ctx)))

		r.Post("/emma", NewReceiveEventHandler(app, authenticator))
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type incomingEvent struct {
	EventName string          `json:"event_name"`
	AccountID string          `json:"account_id"`
	Data      json.RawMessage `json:"data"`
}

func NewReceiveEventHandler(app relay.Relay, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.GetFromContext(ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("failed to read request body", "err", err.Error())
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		evt := incomingEvent{}
		err = json.Unmarshal(body, &evt)
		if err != nil || evt.EventName == "" || evt.AccountID == "" {
			log.Error("received malformed webhook event")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = authenticator.CheckAccess(ctx, r, evt.AccountID)
		if err != nil {
			log.Warn("access denied", "account_id", evt.AccountID, "err", err.Error())
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		eventID, err := app.Handle(ctx, evt.AccountID, evt.EventName, evt.Data)
		if err != nil {
			if errors.Is(err, relay.ErrEventNotAccepted) {
				// acknowledge, but do nothing, so the sender stops retrying
				w.WriteHeader(http.StatusNoContent)
				return
			}

			log.Error("failed to handle webhook event", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(fmt.Sprintf(`{"id":"%s"}`, eventID)))
	}
}
