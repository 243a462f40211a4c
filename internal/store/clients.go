package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
	"leadpulse/internal/sqlinline"
)

// ClientStore is the client directory. The orchestrator reads the active
// list fresh at the start of every run; nothing here is cached.
type ClientStore struct {
	sql infra.SQLExecutor
}

func NewClientStore(sql infra.SQLExecutor) *ClientStore {
	return &ClientStore{sql: sql}
}

// Active returns every active client.
func (s *ClientStore) Active(ctx context.Context) ([]domain.Client, error) {
	return s.list(ctx, sqlinline.QListActiveClients)
}

// List returns every client, active or not.
func (s *ClientStore) List(ctx context.Context) ([]domain.Client, error) {
	return s.list(ctx, sqlinline.QListClients)
}

// ByIDs resolves an explicit id list; unknown ids are silently absent from
// the result.
func (s *ClientStore) ByIDs(ctx context.Context, ids []string) ([]domain.Client, error) {
	return s.list(ctx, sqlinline.QSelectClientsByIDs, ids)
}

// Create inserts a client and returns its generated id.
func (s *ClientStore) Create(ctx context.Context, c domain.Client) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QInsertClient,
		c.Name, c.AdsCustomerID, c.AnalyticsPropertyID, c.GBPLocationID, c.SearchConsoleSite, c.CallRailAccountID)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("%w: create client: %v", domain.ErrStore, err)
	}
	return id, nil
}

// Deactivate marks a client inactive so future runs skip it.
func (s *ClientStore) Deactivate(ctx context.Context, id string) error {
	tag, err := s.sql.Exec(ctx, sqlinline.QDeactivateClient, id)
	if err != nil {
		return fmt.Errorf("%w: deactivate client %s: %v", domain.ErrStore, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ClientStore) list(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := s.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list clients: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate clients: %v", domain.ErrStore, err)
	}
	return clients, nil
}

func scanClient(row pgx.Row) (domain.Client, error) {
	var c domain.Client
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Active,
		&c.AdsCustomerID,
		&c.AnalyticsPropertyID,
		&c.GBPLocationID,
		&c.SearchConsoleSite,
		&c.CallRailAccountID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return domain.Client{}, fmt.Errorf("%w: scan client row: %v", domain.ErrStore, err)
	}
	return c, nil
}
