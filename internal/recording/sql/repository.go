package recordingsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openkcm/recording-manager/internal/recording"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

const selectColumns = `id, state, started_at, updated_at, stopped_at, pauses, recorded_ns, finalize_error`

// Repository keeps the history of stopped sessions in the recordings table.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Store(ctx context.Context, rec recording.Record) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO recordings (`+selectColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		rec.ID, string(rec.State), rec.StartedAt, rec.UpdatedAt, rec.StoppedAt,
		rec.Pauses, rec.Recorded.Nanoseconds(), rec.FinalizeError,
	); err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into recordings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}

	return nil
}

func (r *Repository) Load(ctx context.Context, sessionID string) (recording.Record, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectColumns+`
FROM recordings
WHERE id = $1;`,
		sessionID,
	)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recording.Record{}, serviceerr.ErrNotFound
		}

		return recording.Record{}, fmt.Errorf("selecting from recordings: %w", err)
	}

	return rec, nil
}

func (r *Repository) List(ctx context.Context) ([]recording.Record, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+`
FROM recordings
ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("selecting from recordings: %w", err)
	}
	defer rows.Close()

	records := make([]recording.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recording: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recordings: %w", err)
	}

	return records, nil
}

func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recordings WHERE id = $1;`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting from recordings: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	return nil
}

// DeleteStoppedBefore removes all records stopped before the given time in one statement.
func (r *Repository) DeleteStoppedBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM recordings WHERE stopped_at <= $1;`, before)
	if err != nil {
		return 0, fmt.Errorf("deleting from recordings: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (recording.Record, error) {
	var (
		rec        recording.Record
		state      string
		recordedNs int64
	)
	if err := row.Scan(
		&rec.ID, &state, &rec.StartedAt, &rec.UpdatedAt, &rec.StoppedAt,
		&rec.Pauses, &recordedNs, &rec.FinalizeError,
	); err != nil {
		return recording.Record{}, err
	}

	rec.State = recording.State(state)
	rec.Recorded = time.Duration(recordedNs)

	return rec, nil
}
