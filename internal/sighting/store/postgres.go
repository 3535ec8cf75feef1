package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"catwatch/internal/sighting/models"
	"catwatch/internal/sighting/query"
	id "catwatch/pkg/domain"
	"catwatch/pkg/platform/sentinel"
	"catwatch/pkg/platform/tx"
)

// Schema creates the sightings table. It is idempotent.
//
//go:embed schema.sql
var Schema string

const uniqueViolation = "23505"

const sightingColumns = `id, owner_id, cat_name, description, coat_pattern, primary_color,
	urgency_level, latitude, longitude, photo_ref, created_at`

// PostgresStore persists sightings in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

// NewPostgres constructs a PostgreSQL-backed sighting store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		_, err := tx.Pick(ctx, s.db).ExecContext(ctx, Schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("migrate sightings: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, sighting *models.Sighting) error {
	stamp(sighting, s.clock())
	if err := s.insert(ctx, sighting); err != nil {
		return fmt.Errorf("create sighting: %w", err)
	}
	return nil
}

// RestoreFromSnapshot re-inserts a deleted sighting with its original ID and
// CreatedAt. It fails with sentinel.ErrConflict if the ID is in use.
func (s *PostgresStore) RestoreFromSnapshot(ctx context.Context, snapshot *models.Sighting) error {
	if err := s.insert(ctx, snapshot); err != nil {
		return fmt.Errorf("restore sighting: %w", err)
	}
	return nil
}

func (s *PostgresStore) insert(ctx context.Context, sighting *models.Sighting) error {
	_, err := tx.Pick(ctx, s.db).ExecContext(ctx,
		`INSERT INTO sightings (`+sightingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.UUID(sighting.ID),
		uuid.UUID(sighting.OwnerID),
		sighting.CatName,
		sighting.Description,
		string(sighting.CoatPattern),
		string(sighting.PrimaryColor),
		string(sighting.UrgencyLevel),
		sighting.Latitude,
		sighting.Longitude,
		sighting.PhotoRef,
		sighting.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return err
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, sightingID id.SightingID) (*models.Sighting, error) {
	row := tx.Pick(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+sightingColumns+` FROM sightings WHERE id = $1`,
		uuid.UUID(sightingID),
	)
	sighting, err := scanSighting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find sighting by id: %w", err)
	}
	return sighting, nil
}

func (s *PostgresStore) List(ctx context.Context, ownerID id.OwnerID, params query.Params) ([]*models.Sighting, error) {
	stmt, args := buildListQuery(ownerID, params)
	rows, err := tx.Pick(ctx, s.db).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list sightings: %w", err)
	}
	defer rows.Close()

	sightings := make([]*models.Sighting, 0)
	for rows.Next() {
		sighting, err := scanSighting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sighting: %w", err)
		}
		sightings = append(sightings, sighting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sightings: %w", err)
	}
	return sightings, nil
}

func (s *PostgresStore) Update(ctx context.Context, sightingID id.SightingID, patch models.Patch) (*models.Sighting, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	row := tx.Pick(ctx, s.db).QueryRowContext(ctx,
		`UPDATE sightings SET
			cat_name = $2, description = $3, coat_pattern = $4, primary_color = $5,
			urgency_level = $6, latitude = $7, longitude = $8, photo_ref = $9
		 WHERE id = $1
		 RETURNING `+sightingColumns,
		uuid.UUID(sightingID),
		patch.CatName,
		patch.Description,
		string(patch.CoatPattern),
		string(patch.PrimaryColor),
		string(patch.UrgencyLevel),
		patch.Latitude,
		patch.Longitude,
		patch.PhotoRef,
	)
	sighting, err := scanSighting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update sighting: %w", err)
	}
	return sighting, nil
}

func (s *PostgresStore) Delete(ctx context.Context, sightingID id.SightingID) error {
	res, err := tx.Pick(ctx, s.db).ExecContext(ctx,
		`DELETE FROM sightings WHERE id = $1`,
		uuid.UUID(sightingID),
	)
	if err != nil {
		return fmt.Errorf("delete sighting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sighting rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSighting(row rowScanner) (*models.Sighting, error) {
	var (
		sighting     models.Sighting
		sightingID   uuid.UUID
		ownerID      uuid.UUID
		coatPattern  string
		primaryColor string
		urgency      string
	)
	err := row.Scan(
		&sightingID,
		&ownerID,
		&sighting.CatName,
		&sighting.Description,
		&coatPattern,
		&primaryColor,
		&urgency,
		&sighting.Latitude,
		&sighting.Longitude,
		&sighting.PhotoRef,
		&sighting.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sighting.ID = id.SightingID(sightingID)
	sighting.OwnerID = id.OwnerID(ownerID)
	sighting.CoatPattern = models.CoatPattern(coatPattern)
	sighting.PrimaryColor = models.Color(primaryColor)
	sighting.UrgencyLevel = models.UrgencyLevel(urgency)
	return &sighting, nil
}

// buildListQuery renders params as a parameterised SELECT. The ORDER BY
// mirrors query.Params.Compare so both stores return the same order.
func buildListQuery(ownerID id.OwnerID, params query.Params) (string, []any) {
	var b strings.Builder
	args := []any{uuid.UUID(ownerID)}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	b.WriteString(`SELECT ` + sightingColumns + ` FROM sightings WHERE owner_id = $1`)
	if r := params.Range; r != nil {
		b.WriteString(" AND created_at >= " + next(r.From))
		if r.EndExclusive {
			b.WriteString(" AND created_at < " + next(r.To))
		} else {
			b.WriteString(" AND created_at <= " + next(r.To))
		}
	}
	if params.Urgency != nil {
		b.WriteString(" AND urgency_level = " + next(string(*params.Urgency)))
	}
	if params.Search != "" {
		p := next("%" + escapeLike(params.Search) + "%")
		b.WriteString(" AND (cat_name ILIKE " + p + ` ESCAPE '\' OR description ILIKE ` + p + ` ESCAPE '\')`)
	}
	b.WriteString(" ORDER BY " + orderBy(params.Order))
	return b.String(), args
}

func orderBy(o query.Order) string {
	switch o {
	case query.OrderOldest:
		return "created_at ASC, id ASC"
	case query.OrderByLocation:
		return "latitude ASC, longitude ASC, created_at DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
