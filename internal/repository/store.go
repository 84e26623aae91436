package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// Store bundles the per-table repositories behind the service's store
// interface. Reads delegate straight to the repos; BeginDutyTx opens the
// atomic scope a duty assignment runs in.
type Store struct {
	DB         *sql.DB
	Persons    *PersonRepo
	Astronauts *AstronautRepo
	Details    *DetailRepo
	Duties     *DutyRepo
	CallLogs   *CallLogRepo
}

// NewStore wires a Store over the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:         db,
		Persons:    NewPersonRepo(db),
		Astronauts: NewAstronautRepo(db),
		Details:    NewDetailRepo(db),
		Duties:     NewDutyRepo(db),
		CallLogs:   NewCallLogRepo(db),
	}
}

var _ service.Store = (*Store)(nil)

func (s *Store) FindPersonByName(ctx context.Context, name string) (model.Person, error) {
	return s.Persons.GetByName(ctx, name)
}

func (s *Store) InsertPerson(ctx context.Context, name string) (model.Person, error) {
	return s.Persons.Create(ctx, name)
}

func (s *Store) RenamePerson(ctx context.Context, id uint64, newName string) error {
	return s.Persons.UpdateName(ctx, id, newName)
}

func (s *Store) ListAstronauts(ctx context.Context) ([]model.PersonAstronaut, error) {
	return s.Astronauts.List(ctx)
}

func (s *Store) FindAstronautByName(ctx context.Context, name string) (model.PersonAstronaut, error) {
	return s.Astronauts.GetByName(ctx, name)
}

func (s *Store) ListDutiesByPerson(ctx context.Context, personID uint64) ([]model.AstronautDuty, error) {
	return s.Duties.ListByPerson(ctx, personID)
}

// BeginDutyTx starts a transaction and takes a row lock on the person.
// The lock serializes concurrent assignments for the same person (so the
// single-current-duty invariant cannot be raced) while assignments for
// other persons proceed on their own rows.
func (s *Store) BeginDutyTx(ctx context.Context, personID uint64) (service.DutyTx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	var locked uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM persons WHERE id = ? FOR UPDATE", personID).Scan(&locked); err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, service.ErrPersonNotFound
		}
		return nil, err
	}
	return &dutyTx{store: s, tx: tx, personID: personID}, nil
}

// dutyTx scopes all duty-assignment writes to one *sql.Tx and one person.
type dutyTx struct {
	store    *Store
	tx       *sql.Tx
	personID uint64
}

func (t *dutyTx) DutyExists(ctx context.Context, dutyTitle string, startDate time.Time) (bool, error) {
	return t.store.Duties.ExistsTx(ctx, t.tx, t.personID, dutyTitle, startDate)
}

func (t *dutyTx) FindDetail(ctx context.Context) (model.AstronautDetail, bool, error) {
	return t.store.Details.FindByPersonTx(ctx, t.tx, t.personID)
}

func (t *dutyTx) InsertDetail(ctx context.Context, d model.AstronautDetail) error {
	return t.store.Details.InsertTx(ctx, t.tx, d)
}

func (t *dutyTx) UpdateDetail(ctx context.Context, d model.AstronautDetail) error {
	return t.store.Details.UpdateTx(ctx, t.tx, d)
}

func (t *dutyTx) FindCurrentDuty(ctx context.Context) (model.AstronautDuty, bool, error) {
	return t.store.Duties.FindCurrentTx(ctx, t.tx, t.personID)
}

func (t *dutyTx) CloseDuty(ctx context.Context, dutyID uint64, endDate time.Time) error {
	return t.store.Duties.CloseTx(ctx, t.tx, dutyID, endDate)
}

func (t *dutyTx) InsertDuty(ctx context.Context, d *model.AstronautDuty) error {
	d.PersonID = t.personID
	return t.store.Duties.InsertTx(ctx, t.tx, d)
}

func (t *dutyTx) Commit() error   { return t.tx.Commit() }
func (t *dutyTx) Rollback() error { return t.tx.Rollback() }
