package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ Store = (*PGStore)(nil)

const uniqueViolation = "23505"

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// OpenPG opens a pooled connection using the pgx stdlib driver.
func OpenPG(dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &PGStore{db: db}, nil
}

func (s *PGStore) Close() error { return s.db.Close() }

func (s *PGStore) DB() *sql.DB { return s.db }

func (s *PGStore) Users() UserStore                 { return &pgUserStore{db: s.db} }
func (s *PGStore) Organizations() OrganizationStore { return &pgOrgStore{db: s.db} }

// User store ---------------------------------------------------------------

type pgUserStore struct{ db *sql.DB }

const userColumns = `id, email, password_hash, first_name, last_name, role, status, organization_id, subscription_tier, created_at, updated_at`

func (s *pgUserStore) Create(ctx context.Context, u *User) error {
	err := s.db.QueryRowContext(ctx,
		`insert into users(email, password_hash, first_name, last_name, role, status, organization_id, subscription_tier)
		 values($1,$2,$3,$4,$5,$6,$7,$8)
		 returning id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), string(u.Status),
		nullableID(u.OrganizationID), string(u.Tier),
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s", ErrAlreadyExists, u.Email)
		}
		return err
	}
	return nil
}

func (s *pgUserStore) FindByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *pgUserStore) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1 and status=$2`, id, string(StatusActive))
	return scanUser(row)
}

func (s *pgUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email=$1`, email)
	return scanUser(row)
}

func (s *pgUserStore) ListByOrganization(ctx context.Context, orgID int64) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users where organization_id=$1 order by created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *pgUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password_hash=$2, updated_at=now() where id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgUserStore) UpdateRole(ctx context.Context, id int64, role Role) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`update users set role=$2, updated_at=now() where id=$1 returning `+userColumns,
		id, string(role))
	return scanUser(row)
}

func (s *pgUserStore) UpdateStatus(ctx context.Context, id int64, status Status) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`update users set status=$2, updated_at=now() where id=$1 returning `+userColumns,
		id, string(status))
	return scanUser(row)
}

// Organization store -------------------------------------------------------

type pgOrgStore struct{ db *sql.DB }

func (s *pgOrgStore) Create(ctx context.Context, org *Organization) error {
	return s.db.QueryRowContext(ctx,
		`insert into organizations(name) values($1) returning id, created_at, updated_at`,
		org.Name,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (s *pgOrgStore) Find(ctx context.Context, id int64) (*Organization, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, created_at, updated_at from organizations where id=$1`, id)
	var org Organization
	if err := row.Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// helpers ------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser maps a row into a typed User. Unknown role, status, or tier
// strings are a scan failure, not a silent default.
func scanUser(row rowScanner) (*User, error) {
	var (
		u      User
		role   string
		status string
		tier   string
		orgID  sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&role, &status, &orgID, &tier, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.Role, err = ParseRole(role); err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	if u.Status, err = ParseStatus(status); err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	if u.Tier, err = ParseTier(tier); err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	if orgID.Valid {
		u.OrganizationID = &orgID.Int64
	}
	return &u, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
