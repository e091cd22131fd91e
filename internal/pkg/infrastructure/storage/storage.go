package storage

import (
	"context"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/myemma/emma-go/internal/pkg/application/relay"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "emma"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		return nil, err
	}

	s := &Store{pool: pool}

	err = s.initialize(ctx)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS webhook_events (
			event_id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			event_name TEXT NOT NULL,
			received_at TIMESTAMPTZ NOT NULL,
			data JSONB
		);
		CREATE INDEX IF NOT EXISTS webhook_events_account_idx ON webhook_events (account_id, received_at);`

	_, err := s.pool.Exec(ctx, sql)
	return err
}

func (s *Store) Save(ctx context.Context, e relay.Event) error {
	sql := `INSERT INTO webhook_events (event_id, account_id, event_name, received_at, data)
		VALUES ($1, $2, $3, $4, $5);`

	_, err := s.pool.Exec(ctx, sql, e.ID, e.AccountID, e.Name, e.ReceivedAt, e.Data)
	return err
}

// EventsByAccount returns the most recently received events for one account.
func (s *Store) EventsByAccount(ctx context.Context, accountID string, limit int) ([]relay.Event, error) {
	sql := `SELECT event_id, account_id, event_name, received_at, data
		FROM webhook_events
		WHERE account_id=$1
		ORDER BY received_at DESC
		LIMIT $2;`

	rows, err := s.pool.Query(ctx, sql, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]relay.Event, 0)

	for rows.Next() {
		var e relay.Event
		err := rows.Scan(&e.ID, &e.AccountID, &e.Name, &e.ReceivedAt, &e.Data)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (s *Store) Close() {
	s.pool.Close()
}
