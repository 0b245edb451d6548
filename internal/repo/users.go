package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baajur/users/internal/db"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
)

type usersRepo struct {
	db *db.DB
}

// NewUsers builds the postgres users repository.
func NewUsers(db *db.DB) Users {
	return &usersRepo{db: db}
}

const userColumns = `id, email, email_verified, phone, phone_verified, is_active,
	first_name, last_name, middle_name, gender, birthdate, last_login_at,
	created_at, updated_at`

func (r *usersRepo) Find(ctx context.Context, userID model.UserID) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID)
	return u, wrap("users.find", err)
}

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)
	`, email)
	return u, wrap("users.find_by_email", err)
}

func (r *usersRepo) FindBySagaID(ctx context.Context, sagaID string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+prefixed(userColumns, "u.")+`
		FROM users u
		JOIN identities i ON i.user_id = u.id
		WHERE i.saga_id = $1
	`, sagaID)
	return u, wrap("users.find_by_saga_id", err)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))
	`, email)
	if err != nil {
		return false, errs.Store("users.email_exists", err)
	}
	return exists, nil
}

func (r *usersRepo) List(ctx context.Context, from model.UserID, count int) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+` FROM users
		WHERE id >= $1 AND is_active
		ORDER BY id
		LIMIT $2
	`, from, count)
	if err != nil {
		return nil, errs.Store("users.list", err)
	}
	return users, nil
}

func (r *usersRepo) Create(ctx context.Context, payload model.NewUser) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		INSERT INTO users (email, phone, first_name, last_name, middle_name, gender, birthdate, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns+`
	`,
		payload.Email,
		payload.Phone,
		payload.FirstName,
		payload.LastName,
		payload.MiddleName,
		payload.Gender,
		payload.Birthdate,
		payload.LastLoginAt,
	)
	return u, wrap("users.create", err)
}

func (r *usersRepo) Update(ctx context.Context, userID model.UserID, payload model.UpdateUser) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users SET
			phone = COALESCE($2, phone),
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			middle_name = COALESCE($5, middle_name),
			gender = COALESCE($6, gender),
			birthdate = COALESCE($7, birthdate),
			last_login_at = COALESCE($8, last_login_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`,
		userID,
		payload.Phone,
		payload.FirstName,
		payload.LastName,
		payload.MiddleName,
		payload.Gender,
		payload.Birthdate,
		payload.LastLoginAt,
	)
	return u, wrap("users.update", err)
}

func (r *usersRepo) Deactivate(ctx context.Context, userID model.UserID) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users SET is_active = false, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID)
	return u, wrap("users.deactivate", err)
}

func prefixed(columns, prefix string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return errs.Store(op, err)
}
