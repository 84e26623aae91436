package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// PersonRepo provides access to the 'persons' table.
type PersonRepo struct{ DB *sql.DB }

func NewPersonRepo(db *sql.DB) *PersonRepo { return &PersonRepo{DB: db} }

// Create inserts a person and returns the stored row. The unique index on
// name turns duplicate inserts into service.ErrNameExists, which also covers the
// race where two creates with the same name arrive concurrently.
func (r *PersonRepo) Create(ctx context.Context, name string) (model.Person, error) {
	name = strings.TrimSpace(name)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO persons (name) VALUES (?)", name)
	if err != nil {
		if isDuplicate(err) {
			return model.Person{}, service.ErrNameExists
		}
		return model.Person{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Person{}, err
	}
	return model.Person{ID: uint64(id), Name: name}, nil
}

// GetByName fetches a person by exact name. Names are matched
// case-sensitively, so the column uses a case-sensitive collation.
func (r *PersonRepo) GetByName(ctx context.Context, name string) (model.Person, error) {
	var p model.Person
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM persons WHERE name = ? LIMIT 1",
		name).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Person{}, service.ErrPersonNotFound
	}
	return p, err
}

// UpdateName renames a person in place. There is no uniqueness pre-check;
// a collision with an existing name is reported as service.ErrNameExists by the
// unique index.
func (r *PersonRepo) UpdateName(ctx context.Context, id uint64, newName string) error {
	// RowsAffected is not checked: MySQL reports zero affected rows for a
	// no-op rename to the same value, and callers resolve the person first.
	_, err := r.DB.ExecContext(ctx,
		"UPDATE persons SET name = ? WHERE id = ?",
		strings.TrimSpace(newName), id)
	if isDuplicate(err) {
		return service.ErrNameExists
	}
	return err
}
