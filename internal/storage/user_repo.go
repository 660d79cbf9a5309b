package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/model"
)

// UserRepo provides operations for User entities.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Add inserts a user and returns it with its assigned ID.
func (r *UserRepo) Add(ctx context.Context, name string) (*model.User, error) {
	res, err := execContext(ctx, r.db.x, `INSERT INTO user (name) VALUES (?)`, name)
	if err != nil {
		return nil, translate("add user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("add user", err)
	}
	return &model.User{ID: id, Name: name}, nil
}

// List returns every user ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	users, err := selectRows[*model.User](ctx, r.db.x,
		`SELECT id, name FROM user ORDER BY id`)
	if err != nil {
		return nil, translate("view users", err)
	}
	return users, nil
}

// Get returns the user with the given ID.
func (r *UserRepo) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := getRow[model.User](ctx, r.db.x,
		`SELECT id, name FROM user WHERE id = ?`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewUserErrorWithField("user id", fmt.Sprint(id),
			"user not found", "").Because(errors.ErrUserNotFound)
	}
	if err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}

// Delete removes a user together with its medications and schedules.
// It returns the number of users removed; a missing ID removes nothing.
func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := execContext(ctx, r.db.x, `DELETE FROM user WHERE id = ?`, id)
	if err != nil {
		return 0, deleteError("delete user", err, "user", id)
	}
	return res.RowsAffected()
}
