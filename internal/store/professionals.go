package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/professionals/internal/domain"
)

// Professional is a stored directory record. Email and Phone are "" when the
// column is NULL.
type Professional struct {
	ID          int64
	FullName    string
	Email       string
	Phone       string
	JobTitle    string
	CompanyName string
	Source      domain.Source
	CreatedAt   string
	UpdatedAt   string
}

// ProfessionalInput carries the writable columns of a Professional.
type ProfessionalInput struct {
	FullName    string
	Email       string
	Phone       string
	JobTitle    string
	CompanyName string
	Source      domain.Source
}

// ProfessionalStore defines the interface for professional persistence.
type ProfessionalStore interface {
	Create(ctx context.Context, in ProfessionalInput) (*Professional, error)
	Get(ctx context.Context, id int64) (*Professional, error)
	List(ctx context.Context, source domain.Source) ([]*Professional, error)
	FindByEmail(ctx context.Context, email string) (*Professional, error)
	FindByPhone(ctx context.Context, phone string) (*Professional, error)
	Update(ctx context.Context, id int64, in ProfessionalInput) (*Professional, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// SQLiteProfessionalStore implements ProfessionalStore backed by SQLite.
type SQLiteProfessionalStore struct {
	db *sql.DB
}

// NewSQLiteProfessionalStore creates a new SQLiteProfessionalStore.
func NewSQLiteProfessionalStore(db *sql.DB) *SQLiteProfessionalStore {
	return &SQLiteProfessionalStore{db: db}
}

const professionalColumns = `id, full_name, email, phone, job_title, company_name, source, created_at, updated_at`

// Create inserts a new professional. A duplicate email or phone yields a
// *ConflictError.
func (s *SQLiteProfessionalStore) Create(ctx context.Context, in ProfessionalInput) (*Professional, error) {
	ts := now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO professionals (full_name, email, phone, job_title, company_name, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.FullName, nullable(in.Email), nullable(in.Phone), in.JobTitle, in.CompanyName, string(in.Source), ts, ts,
	)
	if err != nil {
		if ce, ok := uniqueViolation(err); ok {
			return nil, ce
		}
		return nil, fmt.Errorf("insert professional: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &Professional{
		ID:          id,
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		JobTitle:    in.JobTitle,
		CompanyName: in.CompanyName,
		Source:      in.Source,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Get retrieves a single professional by ID.
func (s *SQLiteProfessionalStore) Get(ctx context.Context, id int64) (*Professional, error) {
	return s.getWhere(ctx, "id = ?", id)
}

// FindByEmail returns the professional with the given email.
func (s *SQLiteProfessionalStore) FindByEmail(ctx context.Context, email string) (*Professional, error) {
	if email == "" {
		return nil, ErrNotFound
	}
	return s.getWhere(ctx, "email = ?", email)
}

// FindByPhone returns the professional with the given phone.
func (s *SQLiteProfessionalStore) FindByPhone(ctx context.Context, phone string) (*Professional, error) {
	if phone == "" {
		return nil, ErrNotFound
	}
	return s.getWhere(ctx, "phone = ?", phone)
}

// List returns professionals newest first, restricted to source when it is
// non-empty.
func (s *SQLiteProfessionalStore) List(ctx context.Context, source domain.Source) ([]*Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, string(source))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []*Professional{}
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// Update replaces every writable column of the professional with id.
func (s *SQLiteProfessionalStore) Update(ctx context.Context, id int64, in ProfessionalInput) (*Professional, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE professionals
		 SET full_name = ?, email = ?, phone = ?, job_title = ?, company_name = ?, source = ?, updated_at = ?
		 WHERE id = ?`,
		in.FullName, nullable(in.Email), nullable(in.Phone), in.JobTitle, in.CompanyName, string(in.Source), now(), id,
	)
	if err != nil {
		if ce, ok := uniqueViolation(err); ok {
			return nil, ce
		}
		return nil, fmt.Errorf("update professional: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Count returns the number of stored professionals.
func (s *SQLiteProfessionalStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM professionals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count professionals: %w", err)
	}
	return n, nil
}

// DeleteAll removes every professional.
func (s *SQLiteProfessionalStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM professionals`); err != nil {
		return fmt.Errorf("delete professionals: %w", err)
	}
	return nil
}

func (s *SQLiteProfessionalStore) getWhere(ctx context.Context, where string, arg any) (*Professional, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+professionalColumns+` FROM professionals WHERE `+where, arg)
	p, err := scanProfessional(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfessional(sc scanner) (*Professional, error) {
	var p Professional
	var email, phone sql.NullString
	var source string
	err := sc.Scan(&p.ID, &p.FullName, &email, &phone, &p.JobTitle, &p.CompanyName, &source, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan professional: %w", err)
	}
	p.Email = email.String
	p.Phone = phone.String
	p.Source = domain.Source(source)
	return &p, nil
}
