package service

import (
	"context"
	"errors"
	"time"

	"github.com/starbase-io/roster/internal/model"
)

// Sentinel errors every Store implementation returns for the expected
// failure modes. They live next to the interface so implementations depend
// on the service package, never the other way around.
var (
	// ErrPersonNotFound: a lookup matched no person (or, for astronaut
	// reads, no detail-bearing person).
	ErrPersonNotFound = errors.New("person not found")
	// ErrNameExists: an insert or rename collided with an existing name.
	ErrNameExists = errors.New("name already exists")
)

// Store is the persistence boundary for the roster service. It is
// interface-driven so the engine can run against MySQL in production and
// an in-memory implementation in tests without rewiring business code.
type Store interface {
	// FindPersonByName resolves a person by exact, case-sensitive name.
	// Returns ErrPersonNotFound when absent.
	FindPersonByName(ctx context.Context, name string) (model.Person, error)

	// InsertPerson creates a person with a fresh id. Returns
	// ErrNameExists when the name is already taken.
	InsertPerson(ctx context.Context, name string) (model.Person, error)

	// RenamePerson sets a new display name on an existing person. No
	// uniqueness pre-check is performed here; a colliding rename surfaces
	// as a storage error.
	RenamePerson(ctx context.Context, id uint64, newName string) error

	// ListAstronauts returns every person that has an astronaut detail,
	// joined with their detail fields. Persons without a detail are
	// excluded.
	ListAstronauts(ctx context.Context) ([]model.PersonAstronaut, error)

	// FindAstronautByName is the single-person variant of ListAstronauts.
	// Returns ErrPersonNotFound when no detail-bearing person
	// matches.
	FindAstronautByName(ctx context.Context, name string) (model.PersonAstronaut, error)

	// ListDutiesByPerson returns the person's duty ledger ordered by
	// duty start date descending (most recent first).
	ListDutiesByPerson(ctx context.Context, personID uint64) ([]model.AstronautDuty, error)

	// BeginDutyTx opens the atomic scope for one duty assignment. The
	// returned transaction is bound to the given person and serializes
	// concurrent assignments for that person; assignments for other
	// persons proceed independently. The caller must Commit or Rollback
	// on every path.
	BeginDutyTx(ctx context.Context, personID uint64) (DutyTx, error)
}

// DutyTx scopes the writes of a single duty assignment: the duplicate
// check, the detail upsert, the supersession of the previous current duty
// and the insert of the new record either all take effect at Commit or
// none do.
type DutyTx interface {
	// DutyExists reports whether the person already has a duty with the
	// same (title, start date) pair. Rank is deliberately not part of
	// the comparison key.
	DutyExists(ctx context.Context, dutyTitle string, startDate time.Time) (bool, error)

	// FindDetail loads the person's astronaut detail. found is false
	// when the person has never been assigned a duty.
	FindDetail(ctx context.Context) (detail model.AstronautDetail, found bool, err error)

	InsertDetail(ctx context.Context, detail model.AstronautDetail) error
	UpdateDetail(ctx context.Context, detail model.AstronautDetail) error

	// FindCurrentDuty loads the single record with is_current set, if any.
	FindCurrentDuty(ctx context.Context) (duty model.AstronautDuty, found bool, err error)

	// CloseDuty ends a superseded record: sets its duty_end_date and
	// clears is_current.
	CloseDuty(ctx context.Context, dutyID uint64, endDate time.Time) error

	// InsertDuty appends the new current record and fills in duty.ID.
	InsertDuty(ctx context.Context, duty *model.AstronautDuty) error

	Commit() error
	Rollback() error
}
