package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/errcodes"
)

const shipmentColumns = `id, created_at, updated_at, order_id, customer_name, destination_country,
	customer_payment, status, tracking_code, selected_quote, all_quotes, profit, savings`

// PostgresBackend keeps shipments in the shipments table of a Postgres
// database reached directly, without PostgREST.
type PostgresBackend struct {
	db *sqlx.DB
}

func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Name() string {
	return "postgres"
}

func (b *PostgresBackend) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.BackendUnavailable, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.BackendUnavailable,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.BackendUnavailable, "failed to commit")
	}

	return nil
}

func (b *PostgresBackend) List(ctx context.Context) ([]entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY created_at DESC`

	var rows []shipmentRow
	if err := b.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.WrapError(err, errcodes.BackendUnavailable, "failed to list shipments")
	}

	return rowsToDomain(rows)
}

func (b *PostgresBackend) Create(ctx context.Context, s entity.Shipment) (entity.Shipment, error) {
	query := `
		INSERT INTO shipments (` + shipmentColumns + `)
		VALUES (
			:id, :created_at, :updated_at, :order_id, :customer_name, :destination_country,
			:customer_payment, :status, :tracking_code, :selected_quote, :all_quotes, :profit, :savings
		)`

	if _, err := b.db.NamedExecContext(ctx, query, fromShipment(s)); err != nil {
		return entity.Shipment{}, domain.WrapError(err, errcodes.BackendUnavailable, "failed to insert shipment")
	}

	return s.Clone(), nil
}

func (b *PostgresBackend) Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`

	var row shipmentRow
	if err := b.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Shipment{}, errNotFound(id)
		}
		return entity.Shipment{}, domain.WrapError(err, errcodes.BackendUnavailable, "failed to get shipment")
	}

	return row.toDomain()
}

// Update locks the row, merges the patch and writes every column back.
func (b *PostgresBackend) Update(
	ctx context.Context,
	id value.ShipmentID,
	patch entity.ShipmentPatch,
	updatedAt time.Time,
) (entity.Shipment, error) {
	var updated entity.Shipment

	err := b.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1 FOR UPDATE`

		var row shipmentRow
		if err := tx.GetContext(ctx, &row, query, id.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errNotFound(id)
			}
			return domain.WrapError(err, errcodes.BackendUnavailable, "failed to lock shipment")
		}

		current, err := row.toDomain()
		if err != nil {
			return err
		}

		updated = patch.Apply(current, updatedAt)

		updateQuery := `
			UPDATE shipments SET
				updated_at = :updated_at,
				order_id = :order_id,
				customer_name = :customer_name,
				destination_country = :destination_country,
				customer_payment = :customer_payment,
				status = :status,
				tracking_code = :tracking_code,
				selected_quote = :selected_quote,
				all_quotes = :all_quotes,
				profit = :profit,
				savings = :savings
			WHERE id = :id`

		if _, err := tx.NamedExecContext(ctx, updateQuery, fromShipment(updated)); err != nil {
			return domain.WrapError(err, errcodes.BackendUnavailable, "failed to update shipment")
		}

		return nil
	})
	if err != nil {
		return entity.Shipment{}, err
	}

	return updated, nil
}

func (b *PostgresBackend) Delete(ctx context.Context, id value.ShipmentID) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM shipments WHERE id = $1`, id.String())
	if err != nil {
		return domain.WrapError(err, errcodes.BackendUnavailable, "failed to delete shipment")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.BackendUnavailable, "failed to check affected rows")
	}

	if rows == 0 {
		return errNotFound(id)
	}

	return nil
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	var id string

	err := b.db.GetContext(ctx, &id, `SELECT id::text FROM shipments LIMIT 1`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.WrapError(err, errcodes.BackendUnavailable, "postgres probe failed")
	}

	return nil
}
