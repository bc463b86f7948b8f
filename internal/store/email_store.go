package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hnguyen/recruitmail/internal/model"
)

// UpsertEmails mirrors one freshly fetched listing page into the local
// cache. Rows keep the folder they were listed under so cached reads can
// be scoped the same way live ones are.
func (s *SQLiteStore) UpsertEmails(
	ctx context.Context,
	folder string,
	emails []model.EmailSummary,
) error {
	if len(emails) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO emails (
			id, folder, subject, sender, sender_email,
			received, preview, is_read, has_attachments,
			importance, categories, fetched_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	fetchedAt := time.Now().UTC()
	for _, e := range emails {
		categories, err := json.Marshal(e.Categories)
		if err != nil {
			return fmt.Errorf("marshaling categories for email %s: %w", e.ID, err)
		}

		rowFolder := e.Folder
		if rowFolder == "" {
			rowFolder = folder
		}

		_, err = stmt.ExecContext(ctx,
			e.ID, rowFolder, e.Subject, e.Sender, e.SenderEmail,
			e.Received, e.Preview, boolToInt(e.IsRead), boolToInt(e.HasAttachments),
			e.Importance, string(categories), fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting email %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetEmails retrieves one cached listing page matching the filter,
// newest first.
func (s *SQLiteStore) GetEmails(
	ctx context.Context,
	filter EmailFilter,
) ([]model.EmailSummary, error) {
	conditions, args := emailConditions(filter)

	query := "SELECT * FROM emails"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY received DESC"

	if filter.Top > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Top)
	}
	if filter.Skip > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Skip)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cached emails: %w", err)
	}
	defer rows.Close()

	var emails []model.EmailSummary
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}

	return emails, rows.Err()
}

// CountEmails returns the number of cached rows matching the filter,
// ignoring pagination.
func (s *SQLiteStore) CountEmails(ctx context.Context, filter EmailFilter) (int, error) {
	conditions, args := emailConditions(filter)

	query := "SELECT COUNT(*) FROM emails"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting cached emails: %w", err)
	}
	return count, nil
}

// MarkEmailRead updates the cached read flag so the mirror matches a
// read-state change confirmed by the backend.
func (s *SQLiteStore) MarkEmailRead(ctx context.Context, id string, read bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE emails SET is_read = ? WHERE id = ?", boolToInt(read), id,
	)
	if err != nil {
		return fmt.Errorf("marking email %s read: %w", id, err)
	}
	return nil
}

// UpsertFolders replaces the cached folder list with a fresh one.
func (s *SQLiteStore) UpsertFolders(ctx context.Context, folders []model.Folder) error {
	if len(folders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	fetchedAt := time.Now().UTC()
	for _, f := range folders {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO folders (id, name, total_count, unread_count, fetched_at)
			VALUES (?, ?, ?, ?, ?)`,
			f.ID, f.Name, f.TotalCount, f.UnreadCount, fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting folder %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// GetFolders retrieves the cached folder list.
func (s *SQLiteStore) GetFolders(ctx context.Context) ([]model.Folder, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM folders ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying cached folders: %w", err)
	}
	defer rows.Close()

	var folders []model.Folder
	for rows.Next() {
		var (
			f         model.Folder
			fetchedAt time.Time
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.TotalCount, &f.UnreadCount, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning folder row: %w", err)
		}
		folders = append(folders, f)
	}

	return folders, rows.Err()
}

// emailConditions translates an EmailFilter into SQL conditions. Dates
// compare on the YYYY-MM-DD prefix of the stored ISO timestamp.
func emailConditions(filter EmailFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Folder != "" {
		conditions = append(conditions, "folder = ?")
		args = append(args, filter.Folder)
	}
	if filter.Sender != "" {
		conditions = append(conditions, "(sender LIKE ? OR sender_email LIKE ?)")
		q := "%" + filter.Sender + "%"
		args = append(args, q, q)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(subject LIKE ? OR sender LIKE ? OR preview LIKE ?)")
		q := "%" + filter.Search + "%"
		args = append(args, q, q, q)
	}
	if filter.FromDate != "" {
		conditions = append(conditions, "substr(received, 1, 10) >= ?")
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		conditions = append(conditions, "substr(received, 1, 10) <= ?")
		args = append(args, filter.ToDate)
	}

	return conditions, args
}

// scanEmail scans an email row from a sqlx.Rows result set.
func scanEmail(rows *sqlx.Rows) (model.EmailSummary, error) {
	var (
		e              model.EmailSummary
		isRead         int
		hasAttachments int
		categories     string
		fetchedAt      time.Time
	)

	err := rows.Scan(
		&e.ID, &e.Folder, &e.Subject, &e.Sender, &e.SenderEmail,
		&e.Received, &e.Preview, &isRead, &hasAttachments,
		&e.Importance, &categories, &fetchedAt,
	)
	if err != nil {
		return model.EmailSummary{}, fmt.Errorf("scanning email row: %w", err)
	}

	e.IsRead = isRead != 0
	e.HasAttachments = hasAttachments != 0

	if categories != "" {
		if err := json.Unmarshal([]byte(categories), &e.Categories); err != nil {
			return model.EmailSummary{}, fmt.Errorf("unmarshaling categories: %w", err)
		}
	}

	return e, nil
}
