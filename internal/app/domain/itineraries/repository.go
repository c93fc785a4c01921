// Package itineraries persists finalized itineraries so a traveler can pull
// them back up after the planning session expires.
package itineraries

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/models"
	"github.com/routemethod/routemethod/internal/app/observability/metrics"
)

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DB is the slice of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Save(ctx context.Context, rec *models.SavedItinerary) error
	ListRecent(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.SavedItinerary, error)
}

type PostgresRepository struct {
	db     DB
	logger *zap.Logger
}

func NewPostgresRepository(db DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

// Save inserts one itinerary record, assigning the ID and timestamp when the
// caller left them zero.
func (r *PostgresRepository) Save(ctx context.Context, rec *models.SavedItinerary) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query, args, err := sq.Insert("itineraries").
		Columns("id", "session_id", "title", "markdown", "created_at").
		Values(rec.ID, rec.SessionID, rec.Title, rec.Markdown, rec.CreatedAt).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert query")
	}

	start := time.Now()
	_, err = r.db.Exec(ctx, query, args...)
	r.observe(ctx, start, err)
	if err != nil {
		return errors.Wrap(err, "insert itinerary")
	}

	r.logger.Info("Itinerary saved",
		zap.String("id", rec.ID.String()),
		zap.String("sessionID", rec.SessionID.String()))
	return nil
}

// ListRecent returns the session's saved itineraries, newest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.SavedItinerary, error) {
	query, args, err := sq.Select("id", "session_id", "title", "markdown", "created_at").
		From("itineraries").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build select query")
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	r.observe(ctx, start, err)
	if err != nil {
		return nil, errors.Wrap(err, "query itineraries")
	}
	defer rows.Close()

	var out []models.SavedItinerary
	for rows.Next() {
		var rec models.SavedItinerary
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Title, &rec.Markdown, &rec.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan itinerary row")
		}
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "iterate itinerary rows")
}

func (r *PostgresRepository) observe(ctx context.Context, start time.Time, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	m.DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.DBQueryErrorsTotal.Add(ctx, 1)
	}
}
