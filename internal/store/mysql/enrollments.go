package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/CORREAK18/Biometrico-App/internal/face"
	"github.com/CORREAK18/Biometrico-App/internal/store"
)

// EnrollmentRepository provides MySQL-backed enrollment storage.
type EnrollmentRepository struct {
	pool *Pool
}

// NewEnrollmentRepository creates a new MySQL enrollment repository.
func NewEnrollmentRepository(pool *Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

const enrollmentColumns = "id, external_id, display_name, embedding, profile_version, photo, created_at"

// scanEnrollment scans a single enrollment row. A corrupt embedding
// blob is a hard error; it means the row was written by something else.
func scanEnrollment(scan func(dest ...any) error) (*store.EnrollmentRecord, error) {
	var rec store.EnrollmentRecord
	var idStr string
	var blob []byte

	if err := scan(
		&idStr,
		&rec.ExternalID,
		&rec.DisplayName,
		&blob,
		&rec.ProfileVersion,
		&rec.Photo,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse enrollment ID %q: %w", idStr, err)
	}
	rec.ID = id

	embedding, err := face.DecodeEmbedding(blob)
	if err != nil {
		return nil, fmt.Errorf("decode embedding for %s: %w", idStr, err)
	}
	rec.Embedding = embedding

	return &rec, nil
}

// Get retrieves a record by ID, returns nil if not found.
func (r *EnrollmentRepository) Get(ctx context.Context, id uuid.UUID) (*store.EnrollmentRecord, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments WHERE id = ?"

	rec, err := scanEnrollment(r.pool.db.QueryRowContext(ctx, query, id.String()).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return rec, nil
}

// FindByExternalID retrieves a record by its external identifier, returns nil if not found.
func (r *EnrollmentRepository) FindByExternalID(ctx context.Context, externalID string) (*store.EnrollmentRecord, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments WHERE external_id = ? ORDER BY created_at LIMIT 1"

	rec, err := scanEnrollment(r.pool.db.QueryRowContext(ctx, query, externalID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find enrollment by external ID: %w", err)
	}
	return rec, nil
}

// All returns every enrolled record in insertion order.
func (r *EnrollmentRepository) All(ctx context.Context) ([]store.EnrollmentRecord, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments ORDER BY created_at, id"

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

// Count returns the total number of enrolled identities.
func (r *EnrollmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollments").Scan(&count); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// SearchByDisplayName returns records whose display name matches after
// normalization. MySQL has no unaccent, so rows are filtered in Go.
func (r *EnrollmentRepository) SearchByDisplayName(ctx context.Context, name string) ([]store.EnrollmentRecord, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	normalized := store.NormalizeDisplayName(name)
	var results []store.EnrollmentRecord
	for _, rec := range all {
		if store.NormalizeDisplayName(rec.DisplayName) == normalized {
			results = append(results, rec)
		}
	}
	return results, nil
}

// Insert stores a new record.
func (r *EnrollmentRepository) Insert(ctx context.Context, record *store.EnrollmentRecord) error {
	query := `
		INSERT INTO enrollments (id, external_id, display_name, embedding, profile_version, photo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		record.ID.String(), record.ExternalID, record.DisplayName,
		face.EncodeEmbedding(record.Embedding),
		record.ProfileVersion, record.Photo, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// DeleteByID removes a record. Returns false if no record existed.
func (r *EnrollmentRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = ?", id.String())
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanEnrollments(rows *sql.Rows) ([]store.EnrollmentRecord, error) {
	var records []store.EnrollmentRecord
	for rows.Next() {
		rec, err := scanEnrollment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return records, nil
}

// Verify interface compliance
var (
	_ store.EnrollmentReader = (*EnrollmentRepository)(nil)
	_ store.EnrollmentWriter = (*EnrollmentRepository)(nil)
)
