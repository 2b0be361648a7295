package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/pandit-seva/internal/database"
	"github.com/iliyamo/pandit-seva/internal/model"
)

const profileColumns = "id,email,full_name,is_pandit,phone,address,specialization,experience_years,rate_per_hour,created_at,updated_at"

// ProfileRepo persists profiles and their credentials.
type ProfileRepo struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewProfileRepo(db *sql.DB, timeout time.Duration) *ProfileRepo {
	return &ProfileRepo{DB: db, Timeout: timeout}
}

// NormalizeEmail lower-cases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts the profile and its password hash in one transaction.
// CreatedAt and UpdatedAt are filled from the database.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile, passwordHash string) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()

	p.Email = NormalizeEmail(p.Email)
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id,email,full_name,is_pandit,phone,address,specialization,experience_years,rate_per_hour)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Email, p.FullName, p.IsPandit, p.Phone, p.Address, p.Specialization, p.ExperienceYears, p.RatePerHour)
	if err != nil {
		if database.IsDuplicate(err) {
			return ErrEmailExists
		}
		return translate(err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO credentials (profile_id, password_hash) VALUES (?,?)",
		p.ID, passwordHash); err != nil {
		return translate(err)
	}
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM profiles WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return translate(err)
	}
	return tx.Commit()
}

// GetByID fetches a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	row := r.DB.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id=? LIMIT 1", id)
	return scanProfile(row)
}

// GetByEmail fetches a profile by normalized email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	row := r.DB.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE email=? LIMIT 1", NormalizeEmail(email))
	return scanProfile(row)
}

// GetCredentialByEmail returns the password hash for a sign-in attempt.
func (r *ProfileRepo) GetCredentialByEmail(ctx context.Context, email string) (model.Credential, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	var c model.Credential
	err := r.DB.QueryRowContext(ctx,
		`SELECT c.profile_id, c.password_hash
		   FROM credentials c JOIN profiles p ON p.id = c.profile_id
		  WHERE p.email=? LIMIT 1`,
		NormalizeEmail(email)).Scan(&c.ProfileID, &c.PasswordHash)
	return c, translate(err)
}

// ListProviders returns every provider profile, newest first.
func (r *ProfileRepo) ListProviders(ctx context.Context) ([]model.Profile, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE is_pandit = TRUE ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update writes the owner-editable columns.  is_pandit and email are
// deliberately absent from the statement.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE profiles
		    SET full_name=?, phone=?, address=?, specialization=?, experience_years=?, rate_per_hour=?
		  WHERE id=?`,
		p.FullName, p.Phone, p.Address, p.Specialization, p.ExperienceYears, p.RatePerHour, p.ID)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(s rowScanner) (*model.Profile, error) {
	var p model.Profile
	err := s.Scan(&p.ID, &p.Email, &p.FullName, &p.IsPandit, &p.Phone, &p.Address,
		&p.Specialization, &p.ExperienceYears, &p.RatePerHour, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
