package repository

import (
	"database/sql"
	"errors"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *models.ImportSession) error {
	query := `INSERT INTO import_sessions (session_code, user_id, username, filename, file_path,
	          manifest_json, declared_count, status)
	          VALUES (:session_code, :user_id, :username, :filename, :file_path,
	          :manifest_json, :declared_count, :status)`
	result, err := r.db.NamedExec(query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = int(id)
	return nil
}

func (r *SessionRepository) GetByID(id int) (*models.ImportSession, error) {
	var session models.ImportSession
	err := r.db.Get(&session, "SELECT * FROM import_sessions WHERE id = ? LIMIT 1", id)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) GetByCode(code string) (*models.ImportSession, error) {
	var session models.ImportSession
	err := r.db.Get(&session, "SELECT * FROM import_sessions WHERE session_code = ? LIMIT 1", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(session *models.ImportSession) error {
	query := `UPDATE import_sessions SET declared_count = :declared_count,
	          total_records = :total_records, valid_count = :valid_count,
	          warning_count = :warning_count, error_count = :error_count,
	          duplicate_count = :duplicate_count, status = :status,
	          error_message = :error_message, import_id = :import_id,
	          report_path = :report_path, updated_at = NOW()
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, session)
	return err
}

func (r *SessionRepository) UpdateStatus(id int, status string) error {
	_, err := r.db.Exec("UPDATE import_sessions SET status = ?, updated_at = NOW() WHERE id = ?", status, id)
	return err
}

func (r *SessionRepository) GetSessions(limit, offset, userID int) ([]models.ImportSession, int, error) {
	var sessions []models.ImportSession
	var total int

	whereClause := ""
	args := []interface{}{}
	if userID > 0 {
		whereClause = "WHERE user_id = ?"
		args = append(args, userID)
	}

	countQuery := "SELECT COUNT(*) FROM import_sessions " + whereClause
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM import_sessions " + whereClause + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&sessions, query, args...); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}
