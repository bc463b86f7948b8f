package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hnguyen/recruitmail/internal/model"
)

// ErrNotFound is returned when a requested row does not exist locally.
var ErrNotFound = errors.New("not found")

// UpsertCandidates mirrors a fetched candidate list into the local
// cache. Rows are keyed by the backend id, so a candidate appearing in
// several fetches stays a single row.
func (s *SQLiteStore) UpsertCandidates(
	ctx context.Context,
	candidates []model.Candidate,
) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO candidates (
			id, name, email, phone, location,
			titles, skills, years_exp, notes, tags,
			duplicate_group_id, is_duplicate, source_email_uid,
			created_at, fetched_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	fetchedAt := time.Now().UTC()
	for _, c := range candidates {
		titles, err := json.Marshal(c.Titles)
		if err != nil {
			return fmt.Errorf("marshaling titles for candidate %d: %w", c.ID, err)
		}
		skills, err := json.Marshal(c.Skills)
		if err != nil {
			return fmt.Errorf("marshaling skills for candidate %d: %w", c.ID, err)
		}
		tags, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags for candidate %d: %w", c.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			c.ID, c.Name, c.Email, c.Phone, c.Location,
			string(titles), string(skills), c.YearsExp, c.Notes, string(tags),
			c.DuplicateGroupID, boolToInt(c.IsDuplicate), c.SourceEmailUID,
			c.CreatedAt.UTC(), fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting candidate %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// GetCandidates retrieves cached candidates, optionally filtered by a
// free-text search over name, skills, and titles, newest first.
func (s *SQLiteStore) GetCandidates(
	ctx context.Context,
	search string,
) ([]model.Candidate, error) {
	query := "SELECT * FROM candidates"
	var args []interface{}

	if search != "" {
		query += " WHERE (name LIKE ? OR skills LIKE ? OR titles LIKE ?)"
		q := "%" + search + "%"
		args = append(args, q, q, q)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cached candidates: %w", err)
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// GetCandidateByID retrieves a single cached candidate.
func (s *SQLiteStore) GetCandidateByID(
	ctx context.Context,
	id int64,
) (*model.Candidate, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM candidates WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying candidate %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying candidate %d: %w", id, err)
		}
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}

	c, err := scanCandidate(rows)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetCandidateNotes updates the cached notes after the backend
// confirmed the change.
func (s *SQLiteStore) SetCandidateNotes(ctx context.Context, id int64, notes string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE candidates SET notes = ? WHERE id = ?", notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating notes for candidate %d: %w", id, err)
	}
	return requireRow(res, id)
}

// SetCandidateTags updates the cached tag set after the backend
// confirmed the change.
func (s *SQLiteStore) SetCandidateTags(ctx context.Context, id int64, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshaling tags for candidate %d: %w", id, err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE candidates SET tags = ? WHERE id = ?", string(data), id,
	)
	if err != nil {
		return fmt.Errorf("updating tags for candidate %d: %w", id, err)
	}
	return requireRow(res, id)
}

// requireRow turns a zero-row update into ErrNotFound.
func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return nil
}

// scanCandidate scans a candidate row from a sqlx.Rows result set.
func scanCandidate(rows *sqlx.Rows) (model.Candidate, error) {
	var (
		c           model.Candidate
		titles      string
		skills      string
		tags        string
		isDuplicate int
		createdAt   time.Time
		fetchedAt   time.Time
	)

	err := rows.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location,
		&titles, &skills, &c.YearsExp, &c.Notes, &tags,
		&c.DuplicateGroupID, &isDuplicate, &c.SourceEmailUID,
		&createdAt, &fetchedAt,
	)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("scanning candidate row: %w", err)
	}

	c.IsDuplicate = isDuplicate != 0
	c.CreatedAt = createdAt

	if err := unmarshalList(titles, &c.Titles); err != nil {
		return model.Candidate{}, fmt.Errorf("unmarshaling titles: %w", err)
	}
	if err := unmarshalList(skills, &c.Skills); err != nil {
		return model.Candidate{}, fmt.Errorf("unmarshaling skills: %w", err)
	}
	if err := unmarshalList(tags, &c.Tags); err != nil {
		return model.Candidate{}, fmt.Errorf("unmarshaling tags: %w", err)
	}

	return c, nil
}

func unmarshalList(raw string, dest *[]string) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dest)
}
