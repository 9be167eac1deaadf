package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS wishlist_items (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	store         TEXT NOT NULL DEFAULT '',
	price         TEXT NOT NULL DEFAULT '',
	image_url     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'available',
	purchased_by  TEXT NOT NULL DEFAULT '',
	purchase_date TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS gifts (
	id             TEXT PRIMARY KEY,
	type           TEXT NOT NULL,
	item_id        TEXT NOT NULL DEFAULT '',
	item_title     TEXT NOT NULL DEFAULT '',
	amount         TEXT NOT NULL DEFAULT '',
	guest_name     TEXT NOT NULL,
	message        TEXT NOT NULL,
	from_name      TEXT NOT NULL,
	date           TEXT NOT NULL,
	transaction_id TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const itemColumns = `id, title, description, url, store, price, image_url, status,
	purchased_by, purchase_date, created_at, updated_at`

const giftColumns = `id, type, item_id, item_title, amount, guest_name, message,
	from_name, date, transaction_id, created_at`

// Config holds connection pool settings
type Config struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
}

// Store is a PostgreSQL-backed registry store
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLife > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLife
	}
	if cfg.MaxConnIdle > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdle
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool, logger: logger.OrNop(log).Named("postgres")}, nil
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the registry tables when they do not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// withTx executes fn within a transaction
func (s *Store) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListItems returns all wishlist items ordered by creation time
func (s *Store) ListItems(ctx context.Context) ([]domain.WishlistItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM wishlist_items ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItem retrieves a wishlist item by id
func (s *Store) GetItem(ctx context.Context, id string) (*domain.WishlistItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM wishlist_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

// CreateItem inserts a wishlist item
func (s *Store) CreateItem(ctx context.Context, item *domain.WishlistItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO wishlist_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, item.Title, item.Description, item.URL, item.Store, item.Price, item.Image,
		string(item.Status), item.PurchasedBy, item.PurchaseDate, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// DeleteItem removes a wishlist item
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// RecordPurchase marks the item purchased and inserts the gift in one
// transaction. The update only matches rows that are still available.
func (s *Store) RecordPurchase(ctx context.Context, itemID, purchasedBy, purchaseDate string, gift *domain.Gift) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE wishlist_items
			SET status = $2, purchased_by = $3, purchase_date = $4, updated_at = now()
			WHERE id = $1 AND status = $5`,
			itemID, string(domain.ItemPurchased), purchasedBy, purchaseDate, string(domain.ItemAvailable),
		)
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE id = $1)`, itemID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check item: %w", err)
			}
			if !exists {
				return domain.ErrItemNotFound
			}
			return domain.ErrItemUnavailable
		}

		if err := insertGift(ctx, tx, gift); err != nil {
			return err
		}

		s.logger.Debug("purchase recorded", zap.String("item_id", itemID), zap.String("gift_id", gift.ID))
		return nil
	})
}

// ListGifts returns all gifts, newest first
func (s *Store) ListGifts(ctx context.Context) ([]domain.Gift, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+giftColumns+` FROM gifts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gifts: %w", err)
	}
	defer rows.Close()

	gifts := []domain.Gift{}
	for rows.Next() {
		var g domain.Gift
		var giftType string
		if err := rows.Scan(&g.ID, &giftType, &g.ItemID, &g.ItemTitle, &g.Amount, &g.GuestName,
			&g.Message, &g.From, &g.Date, &g.TransactionID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		g.Type = domain.GiftType(giftType)
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// CreateGift inserts a gift
func (s *Store) CreateGift(ctx context.Context, gift *domain.Gift) error {
	return insertGift(ctx, s.pool, gift)
}

// execer is satisfied by both the pool and a transaction
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertGift(ctx context.Context, db execer, gift *domain.Gift) error {
	_, err := db.Exec(ctx, `
		INSERT INTO gifts (`+giftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		gift.ID, string(gift.Type), gift.ItemID, gift.ItemTitle, gift.Amount, gift.GuestName,
		gift.Message, gift.From, gift.Date, gift.TransactionID, gift.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert gift: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	var status string
	err := row.Scan(&item.ID, &item.Title, &item.Description, &item.URL, &item.Store, &item.Price,
		&item.Image, &status, &item.PurchasedBy, &item.PurchaseDate, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	item.Status = domain.ItemStatus(status)
	return &item, nil
}
