package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// AstronautRepo serves the joined read shape: persons inner-joined with
// their astronaut_details row. Persons that have never been assigned a
// duty carry no detail row and are invisible to these queries.
type AstronautRepo struct{ DB *sql.DB }

func NewAstronautRepo(db *sql.DB) *AstronautRepo { return &AstronautRepo{DB: db} }

const astronautColumns = `p.id, p.name, d.current_rank, d.current_duty_title, d.career_start_date, d.career_end_date`

// List returns every astronaut summary. Ordered by person id so repeated
// calls over unchanged data produce identical output.
func (r *AstronautRepo) List(ctx context.Context) ([]model.PersonAstronaut, error) {
	const q = `SELECT ` + astronautColumns + `
	           FROM persons p
	           JOIN astronaut_details d ON d.person_id = p.id
	           ORDER BY p.id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PersonAstronaut, 0)
	for rows.Next() {
		pa, err := scanAstronaut(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pa)
	}
	return out, rows.Err()
}

// GetByName returns the astronaut summary for a single person, or
// service.ErrPersonNotFound when no detail-bearing person has that name.
func (r *AstronautRepo) GetByName(ctx context.Context, name string) (model.PersonAstronaut, error) {
	const q = `SELECT ` + astronautColumns + `
	           FROM persons p
	           JOIN astronaut_details d ON d.person_id = p.id
	           WHERE p.name = ? LIMIT 1`
	pa, err := scanAstronaut(r.DB.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.PersonAstronaut{}, service.ErrPersonNotFound
	}
	return pa, err
}

// rowScanner covers *sql.Row and *sql.Rows so both queries share one scan.
type rowScanner interface{ Scan(dest ...any) error }

func scanAstronaut(s rowScanner) (model.PersonAstronaut, error) {
	var pa model.PersonAstronaut
	var end sql.NullTime
	err := s.Scan(&pa.PersonID, &pa.Name, &pa.CurrentRank, &pa.CurrentDutyTitle,
		&pa.CareerStartDate, &end)
	if err != nil {
		return model.PersonAstronaut{}, err
	}
	if end.Valid {
		t := end.Time
		pa.CareerEndDate = &t
	}
	return pa, nil
}
