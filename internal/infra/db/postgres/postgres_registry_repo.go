package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain"
	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/repository"
	"payment-status-bot/internal/infra/metrics"
	"payment-status-bot/internal/infra/registry"
)

var _ repository.Registry = (*RegistryRepo)(nil)

// RegistryRepo is the insert-only Postgres variant of the registration log.
// Rows are never updated or deleted; the newest row per chat wins.
type RegistryRepo struct {
	pool  *pgxpool.Pool
	tm    *TxManager
	index *registry.Index
	log   *zerolog.Logger
}

// NewRegistryRepo loads every row in insertion order into the index.
func NewRegistryRepo(ctx context.Context, pool *pgxpool.Pool, logger *zerolog.Logger) (*RegistryRepo, error) {
	r := &RegistryRepo{pool: pool, tm: NewTxManager(pool), index: registry.NewIndex(), log: logger}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	logger.Info().Int("chats", r.index.Len()).Msg("registry loaded from postgres")
	metrics.SetRegistryEntries(r.index.Len())
	return r, nil
}

func (r *RegistryRepo) load(ctx context.Context) error {
	const q = `SELECT chat_id, account_id FROM chat_registrations ORDER BY id`
	rows, err := pickRows(ctx, r.pool, nil, q)
	if err != nil {
		return fmt.Errorf("%w: load: %v", domain.ErrRegistryUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec model.Registration
		if err := rows.Scan(&rec.ChatID, &rec.AccountID); err != nil {
			return fmt.Errorf("%w: scan: %v", domain.ErrRegistryUnavailable, err)
		}
		r.index.Put(rec.ChatID, rec.AccountID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: rows: %v", domain.ErrRegistryUnavailable, err)
	}
	return nil
}

func (r *RegistryRepo) Lookup(_ context.Context, chatID int64) (string, bool) {
	return r.index.Get(chatID)
}

func (r *RegistryRepo) Register(ctx context.Context, chatID int64, accountID string) error {
	acc, err := model.NormalizeAccountID(accountID)
	if err != nil {
		return err
	}
	if err := r.insert(ctx, nil, chatID, acc); err != nil {
		metrics.IncRegistration(false)
		return err
	}
	r.index.Put(chatID, acc)
	metrics.IncRegistration(true)
	metrics.SetRegistryEntries(r.index.Len())
	r.reportPool()
	r.log.Debug().Int64("chat_id", chatID).Msg("registry row inserted")
	return nil
}

// Import appends recs in one transaction, in order. Nothing is applied to
// the index unless the whole batch commits.
func (r *RegistryRepo) Import(ctx context.Context, recs []model.Registration) error {
	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		for _, rec := range recs {
			if err := r.insert(ctx, tx, rec.ChatID, rec.AccountID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, rec := range recs {
		r.index.Put(rec.ChatID, rec.AccountID)
	}
	metrics.SetRegistryEntries(r.index.Len())
	return nil
}

func (r *RegistryRepo) insert(ctx context.Context, tx pgx.Tx, chatID int64, accountID string) error {
	const q = `INSERT INTO chat_registrations (chat_id, account_id) VALUES ($1, $2)`
	if _, err := execSQL(ctx, r.pool, tx, q, chatID, accountID); err != nil {
		return fmt.Errorf("%w: insert: %v", domain.ErrRegistryUnavailable, err)
	}
	return nil
}

func (r *RegistryRepo) reportPool() {
	st := r.pool.Stat()
	metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
}
