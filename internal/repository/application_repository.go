package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"cv-intake/internal/database"
	"cv-intake/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationListFilter struct {
	Status string
	Limit  int
	Offset int
}

type ApplicationRepository interface {
	Create(ctx context.Context, app application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	List(ctx context.Context, f ApplicationListFilter) ([]application.Application, int, error)
	UpdateWebhookResult(ctx context.Context, id uuid.UUID, sent bool, response json.RawMessage) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// parsedResumeRecord is the JSONB shape of the structured projection.
type parsedResumeRecord struct {
	FullName        string          `json:"fullName,omitempty"`
	Email           string          `json:"email,omitempty"`
	Github          string          `json:"github,omitempty"`
	Linkedin        string          `json:"linkedin,omitempty"`
	Employment      json.RawMessage `json:"employment,omitempty"`
	TechnicalSkills []string        `json:"technicalSkills,omitempty"`
	SoftSkills      []string        `json:"softSkills,omitempty"`
	Education       json.RawMessage `json:"education,omitempty"`
	RawData         json.RawMessage `json:"rawData,omitempty"`
}

func toRecord(p *application.ParsedResume) *parsedResumeRecord {
	if p == nil {
		return nil
	}
	return &parsedResumeRecord{
		FullName:        p.FullName,
		Email:           p.Email,
		Github:          p.Github,
		Linkedin:        p.Linkedin,
		Employment:      p.Employment,
		TechnicalSkills: p.TechnicalSkills,
		SoftSkills:      p.SoftSkills,
		Education:       p.Education,
		RawData:         p.RawData,
	}
}

func fromRecord(r *parsedResumeRecord) *application.ParsedResume {
	if r == nil {
		return nil
	}
	return &application.ParsedResume{
		FullName:        r.FullName,
		Email:           r.Email,
		Github:          r.Github,
		Linkedin:        r.Linkedin,
		Employment:      r.Employment,
		TechnicalSkills: r.TechnicalSkills,
		SoftSkills:      r.SoftSkills,
		Education:       r.Education,
		RawData:         r.RawData,
	}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, app application.Application) error {
	var parsed []byte
	if app.ParsedResume != nil {
		b, err := json.Marshal(toRecord(app.ParsedResume))
		if err != nil {
			return err
		}
		parsed = b
	}

	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications
		 (id, name, email, phone,
		  cv_file_name, cv_content_type, cv_size, cv_url, cv_analysis,
		  parsed_resume, status, notes, webhook_sent, webhook_response,
		  created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`,
		app.ID, app.Name, app.Email, app.Phone,
		app.CV.FileName, app.CV.ContentType, app.CV.Size, app.CV.URL, nullableJSON(app.CV.Analysis),
		parsed, string(app.Status), app.Notes, app.WebhookSent, nullableJSON(app.WebhookResponse),
		now,
	)
	return err
}

const applicationColumns = `id, name, email, phone,
	cv_file_name, cv_content_type, cv_size, cv_url, cv_analysis,
	parsed_resume, status, notes, webhook_sent, webhook_response,
	created_at, updated_at`

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return app, nil
}

func (r *PostgresApplicationRepository) List(ctx context.Context, f ApplicationListFilter) ([]application.Application, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	where := ``
	countArgs := []any{}
	if f.Status != "" {
		where = ` WHERE status = $1`
		countArgs = append(countArgs, f.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + applicationColumns + ` FROM applications`
	args := []any{}
	if f.Status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, f.Status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateWebhookResult overwrites the delivery outcome so the stored fields
// always reflect the most recent attempt.
func (r *PostgresApplicationRepository) UpdateWebhookResult(ctx context.Context, id uuid.UUID, sent bool, response json.RawMessage) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET webhook_sent = $2, webhook_response = $3, updated_at = $4 WHERE id = $1`,
		id, sent, nullableJSON(response), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET notes = $2, updated_at = $3 WHERE id = $1`,
		id, notes, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		app         application.Application
		status      string
		analysis    []byte
		parsed      []byte
		webhookResp []byte
	)

	err := row.Scan(
		&app.ID, &app.Name, &app.Email, &app.Phone,
		&app.CV.FileName, &app.CV.ContentType, &app.CV.Size, &app.CV.URL, &analysis,
		&parsed, &status, &app.Notes, &app.WebhookSent, &webhookResp,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return application.Application{}, err
	}

	app.Status = application.Status(status)
	if len(analysis) > 0 {
		app.CV.Analysis = json.RawMessage(analysis)
	}
	if len(webhookResp) > 0 {
		app.WebhookResponse = json.RawMessage(webhookResp)
	}
	if len(parsed) > 0 {
		var rec parsedResumeRecord
		if err := json.Unmarshal(parsed, &rec); err != nil {
			return application.Application{}, err
		}
		app.ParsedResume = fromRecord(&rec)
	}
	return app, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

var _ ApplicationRepository = (*PostgresApplicationRepository)(nil)
