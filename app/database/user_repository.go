package database

import (
	"database/sql"
	"fmt"
)

var _ UserRepository = (*UserRepo)(nil)

// UserRepo handles database operations for post authors
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(name string) (*User, error) {
	res, err := r.db.Exec(`INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id for %q: %w", name, err)
	}

	return &User{ID: id, Name: name}, nil
}

// FindByName returns nil without error when the user does not exist.
func (r *UserRepo) FindByName(name string) (*User, error) {
	var user User
	err := r.db.Get(&user, `SELECT id, name FROM users WHERE name = ? LIMIT 1`, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", name, err)
	}
	return &user, nil
}

func (r *UserRepo) Exists(name string) (bool, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to check user %q: %w", name, err)
	}
	return count > 0, nil
}
