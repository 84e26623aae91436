package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/starbase-io/roster/internal/model"
)

// DetailRepo manages the 'astronaut_details' table, the one-per-person
// career rollup. All mutating methods take a transaction because detail
// writes only ever happen inside the duty assignment scope.
type DetailRepo struct{ DB *sql.DB }

func NewDetailRepo(db *sql.DB) *DetailRepo { return &DetailRepo{DB: db} }

// FindByPersonTx loads the detail row for a person inside a transaction.
// found is false when the person has never held a duty.
func (r *DetailRepo) FindByPersonTx(ctx context.Context, tx *sql.Tx, personID uint64) (model.AstronautDetail, bool, error) {
	const q = `SELECT id, person_id, current_rank, current_duty_title, career_start_date, career_end_date
	           FROM astronaut_details WHERE person_id = ? LIMIT 1`
	var d model.AstronautDetail
	var end sql.NullTime
	err := tx.QueryRowContext(ctx, q, personID).Scan(
		&d.ID, &d.PersonID, &d.CurrentRank, &d.CurrentDutyTitle, &d.CareerStartDate, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AstronautDetail{}, false, nil
	}
	if err != nil {
		return model.AstronautDetail{}, false, err
	}
	if end.Valid {
		t := end.Time
		d.CareerEndDate = &t
	}
	return d, true, nil
}

// InsertTx creates the detail row on a person's first duty assignment.
func (r *DetailRepo) InsertTx(ctx context.Context, tx *sql.Tx, d model.AstronautDetail) error {
	const q = `INSERT INTO astronaut_details
	           (person_id, current_rank, current_duty_title, career_start_date, career_end_date)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		d.PersonID, d.CurrentRank, d.CurrentDutyTitle, d.CareerStartDate, nullableTime(d.CareerEndDate))
	return err
}

// UpdateTx overwrites the mutable rollup fields. career_start_date is
// deliberately absent from the SET list: it is written once on insert and
// never changes afterwards.
func (r *DetailRepo) UpdateTx(ctx context.Context, tx *sql.Tx, d model.AstronautDetail) error {
	const q = `UPDATE astronaut_details
	           SET current_rank = ?, current_duty_title = ?, career_end_date = ?
	           WHERE person_id = ?`
	_, err := tx.ExecContext(ctx, q,
		d.CurrentRank, d.CurrentDutyTitle, nullableTime(d.CareerEndDate), d.PersonID)
	return err
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
