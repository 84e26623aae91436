package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/starbase-io/roster/internal/model"
)

// DutyRepo manages the 'astronaut_duties' ledger. Reads used by queries go
// through the pool; every write happens inside the assignment transaction
// and therefore comes in a Tx variant.
type DutyRepo struct{ DB *sql.DB }

func NewDutyRepo(db *sql.DB) *DutyRepo { return &DutyRepo{DB: db} }

// ListByPerson returns the person's full duty history, most recent start
// date first. Ties on start date fall back to insertion order, newest
// first, so a same-day correction shows above the record it superseded.
func (r *DutyRepo) ListByPerson(ctx context.Context, personID uint64) ([]model.AstronautDuty, error) {
	const q = `SELECT id, person_id, duty_rank, duty_title, duty_start_date, duty_end_date, is_current
	           FROM astronaut_duties
	           WHERE person_id = ?
	           ORDER BY duty_start_date DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AstronautDuty, 0)
	for rows.Next() {
		var d model.AstronautDuty
		var end sql.NullTime
		if err := rows.Scan(&d.ID, &d.PersonID, &d.Rank, &d.DutyTitle,
			&d.DutyStartDate, &end, &d.IsCurrent); err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			d.DutyEndDate = &t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ExistsTx reports whether the person already holds a duty with the same
// (title, start date) pair. Rank is not part of the key.
func (r *DutyRepo) ExistsTx(ctx context.Context, tx *sql.Tx, personID uint64, dutyTitle string, startDate time.Time) (bool, error) {
	const q = `SELECT id FROM astronaut_duties
	           WHERE person_id = ? AND duty_title = ? AND duty_start_date = ? LIMIT 1`
	var id uint64
	err := tx.QueryRowContext(ctx, q, personID, dutyTitle, startDate).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// FindCurrentTx loads the single record with is_current set for a person.
// found is false when the person has no open duty.
func (r *DutyRepo) FindCurrentTx(ctx context.Context, tx *sql.Tx, personID uint64) (model.AstronautDuty, bool, error) {
	const q = `SELECT id, person_id, duty_rank, duty_title, duty_start_date, duty_end_date, is_current
	           FROM astronaut_duties
	           WHERE person_id = ? AND is_current = 1 LIMIT 1`
	var d model.AstronautDuty
	var end sql.NullTime
	err := tx.QueryRowContext(ctx, q, personID).Scan(
		&d.ID, &d.PersonID, &d.Rank, &d.DutyTitle, &d.DutyStartDate, &end, &d.IsCurrent)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AstronautDuty{}, false, nil
	}
	if err != nil {
		return model.AstronautDuty{}, false, err
	}
	if end.Valid {
		t := end.Time
		d.DutyEndDate = &t
	}
	return d, true, nil
}

// CloseTx ends a superseded record: stamps its end date and clears the
// current flag.
func (r *DutyRepo) CloseTx(ctx context.Context, tx *sql.Tx, dutyID uint64, endDate time.Time) error {
	const q = `UPDATE astronaut_duties SET duty_end_date = ?, is_current = 0 WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, endDate, dutyID)
	return err
}

// InsertTx appends the new current record and populates d.ID.
func (r *DutyRepo) InsertTx(ctx context.Context, tx *sql.Tx, d *model.AstronautDuty) error {
	const q = `INSERT INTO astronaut_duties
	           (person_id, duty_rank, duty_title, duty_start_date, duty_end_date, is_current)
	           VALUES (?, ?, ?, ?, NULL, 1)`
	res, err := tx.ExecContext(ctx, q, d.PersonID, d.Rank, d.DutyTitle, d.DutyStartDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	d.IsCurrent = true
	d.DutyEndDate = nil
	return nil
}
