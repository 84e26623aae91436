package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starbase-io/roster/internal/model"
)

// retiredTitle ends a career when assigned as a duty. Matching is
// case-insensitive.
const retiredTitle = "RETIRED"

// AuditLogger is the write-only side channel that records the outcome of
// every operation. Implementations must be fire-and-forget: the service
// calls Log after results are final and ignores delivery entirely.
type AuditLogger interface {
	Log(ctx context.Context, entry model.APICallLog)
}

// AstronautService applies the roster's business rules over an injected
// Store. All mutating flows emit an audit entry once their outcome is
// known; audit delivery never influences the returned result.
type AstronautService struct {
	store Store
	audit AuditLogger
}

// NewAstronautService wires the service. audit may be nil, in which case
// no audit entries are emitted.
func NewAstronautService(store Store, audit AuditLogger) *AstronautService {
	if store == nil {
		panic("nil store passed to NewAstronautService")
	}
	return &AstronautService{store: store, audit: audit}
}

// CreatePerson registers a new, uniquely named person. The uniqueness
// check and the insert are a single step at the storage layer (unique
// index), so two concurrent creates with the same name cannot both win.
func (s *AstronautService) CreatePerson(ctx context.Context, name string) (model.Person, error) {
	if strings.TrimSpace(name) == "" {
		return model.Person{}, validationErr("Name cannot be null or empty")
	}
	p, err := s.store.InsertPerson(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNameExists) {
			err = conflictErr(fmt.Sprintf("an astronaut with the name %s already exists", name))
		} else {
			err = internalErr(err.Error())
		}
		s.logAudit(ctx, "CreatePerson/"+name, auditFail(err))
		return model.Person{}, err
	}
	s.logAudit(ctx, "CreatePerson/"+name, auditOK())
	return p, nil
}

// RenamePerson changes a person's display name. Note the asymmetry with
// CreatePerson: no uniqueness check is applied to the new name here, so a
// collision only surfaces if the storage layer's index rejects it.
func (s *AstronautService) RenamePerson(ctx context.Context, name, newName string) (model.Person, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(newName) == "" {
		return model.Person{}, validationErr("Name, NewName cannot be null or empty")
	}
	p, err := s.store.FindPersonByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			err = notFoundErr("Name does not exist")
		} else {
			err = internalErr(err.Error())
		}
		s.logAudit(ctx, "UpdatePerson/"+name, auditFail(err))
		return model.Person{}, err
	}
	if err := s.store.RenamePerson(ctx, p.ID, newName); err != nil {
		err = internalErr(err.Error())
		s.logAudit(ctx, "UpdatePerson/"+name, auditFail(err))
		return model.Person{}, err
	}
	old := p.Name
	p.Name = newName
	s.logAudit(ctx, "UpdatePerson/"+name, auditChange("name", old, newName))
	return p, nil
}

// AssignDuty records a new duty assignment for the named person and keeps
// the career rollup consistent with it:
//
//  1. duplicate (title, start date) pairs are rejected before any write;
//  2. the astronaut detail is created on the first assignment (career
//     start = duty start) or updated in place on later ones, with RETIRED
//     closing the career the day before the retirement record begins;
//  3. the previous current duty, if any, is closed out the day before the
//     new start date;
//  4. the new record is inserted as the single current duty.
//
// Steps 1-4 run inside one store transaction: a failure at any point
// rolls everything back.
func (s *AstronautService) AssignDuty(ctx context.Context, name, rank, dutyTitle string, dutyStartDate time.Time) (model.AstronautDuty, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(rank) == "" || strings.TrimSpace(dutyTitle) == "" {
		return model.AstronautDuty{}, validationErr("Name, Rank, DutyTitle cannot be null or empty")
	}
	startDate := dateOnly(dutyStartDate)

	person, err := s.store.FindPersonByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			err = notFoundErr("Name does not exist")
		} else {
			err = internalErr(err.Error())
		}
		s.logAudit(ctx, "CreateAstronautDuty", auditFail(err))
		return model.AstronautDuty{}, err
	}

	duty, err := s.assignDutyTx(ctx, person.ID, rank, dutyTitle, startDate)
	if err != nil {
		s.logAudit(ctx, "CreateAstronautDuty", auditFail(err))
		return model.AstronautDuty{}, err
	}
	s.logAudit(ctx, "CreateAstronautDuty", auditOK())
	return duty, nil
}

// assignDutyTx is the atomic section of AssignDuty. Every early return
// before Commit triggers the deferred rollback, so no partial state can
// survive a failure.
func (s *AstronautService) assignDutyTx(ctx context.Context, personID uint64, rank, dutyTitle string, startDate time.Time) (model.AstronautDuty, error) {
	tx, err := s.store.BeginDutyTx(ctx, personID)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			return model.AstronautDuty{}, notFoundErr("Name does not exist")
		}
		return model.AstronautDuty{}, internalErr(err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	dup, err := tx.DutyExists(ctx, dutyTitle, startDate)
	if err != nil {
		return model.AstronautDuty{}, internalErr(err.Error())
	}
	if dup {
		return model.AstronautDuty{}, conflictErr("that duty is already assigned to this person")
	}

	retired := strings.EqualFold(dutyTitle, retiredTitle)

	detail, found, err := tx.FindDetail(ctx)
	if err != nil {
		return model.AstronautDuty{}, internalErr(err.Error())
	}
	if !found {
		// First ever assignment: the career starts with it. A first
		// RETIRED record has no earlier duty to bound, so the career
		// ends the same day it starts.
		detail = model.AstronautDetail{
			PersonID:         personID,
			CurrentRank:      rank,
			CurrentDutyTitle: dutyTitle,
			CareerStartDate:  startDate,
		}
		if retired {
			end := startDate
			detail.CareerEndDate = &end
		}
		if err := tx.InsertDetail(ctx, detail); err != nil {
			return model.AstronautDuty{}, internalErr(err.Error())
		}
	} else {
		// Later assignment: mirror the new duty unconditionally.
		// CareerStartDate is never touched again, and a previously set
		// CareerEndDate is never cleared by a non-retirement duty.
		detail.CurrentRank = rank
		detail.CurrentDutyTitle = dutyTitle
		if retired {
			end := startDate.AddDate(0, 0, -1)
			detail.CareerEndDate = &end
		}
		if err := tx.UpdateDetail(ctx, detail); err != nil {
			return model.AstronautDuty{}, internalErr(err.Error())
		}
	}

	current, found, err := tx.FindCurrentDuty(ctx)
	if err != nil {
		return model.AstronautDuty{}, internalErr(err.Error())
	}
	if found {
		if err := tx.CloseDuty(ctx, current.ID, startDate.AddDate(0, 0, -1)); err != nil {
			return model.AstronautDuty{}, internalErr(err.Error())
		}
	}

	newDuty := model.AstronautDuty{
		PersonID:      personID,
		Rank:          rank,
		DutyTitle:     dutyTitle,
		DutyStartDate: startDate,
	}
	if err := tx.InsertDuty(ctx, &newDuty); err != nil {
		return model.AstronautDuty{}, internalErr(err.Error())
	}

	if err := tx.Commit(); err != nil {
		return model.AstronautDuty{}, internalErr(err.Error())
	}
	committed = true
	return newDuty, nil
}

// GetAllAstronauts returns every person holding an astronaut detail. An
// empty roster is a successful empty list.
func (s *AstronautService) GetAllAstronauts(ctx context.Context) ([]model.PersonAstronaut, error) {
	people, err := s.store.ListAstronauts(ctx)
	if err != nil {
		err = internalErr(err.Error())
		s.logAudit(ctx, "GetPeople", auditFail(err))
		return nil, err
	}
	s.logAudit(ctx, "GetPeople", auditOK())
	return people, nil
}

// GetAstronautByName returns one astronaut summary. A person that exists
// but has never held a duty reports not-found, same as an unknown name.
func (s *AstronautService) GetAstronautByName(ctx context.Context, name string) (model.PersonAstronaut, error) {
	if strings.TrimSpace(name) == "" {
		return model.PersonAstronaut{}, validationErr("Name cannot be null or empty")
	}
	pa, err := s.store.FindAstronautByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			err = notFoundErr(fmt.Sprintf("astronaut with the name %s not found", name))
		} else {
			err = internalErr(err.Error())
		}
		s.logAudit(ctx, "GetPersonByName/"+name, auditFail(err))
		return model.PersonAstronaut{}, err
	}
	s.logAudit(ctx, "GetPersonByName/"+name, auditOK())
	return pa, nil
}

// GetDutyHistoryByName returns the astronaut summary together with the
// full duty ledger, most recent start date first.
func (s *AstronautService) GetDutyHistoryByName(ctx context.Context, name string) (model.PersonAstronaut, []model.AstronautDuty, error) {
	if strings.TrimSpace(name) == "" {
		return model.PersonAstronaut{}, nil, validationErr("Name cannot be null or empty")
	}
	pa, err := s.store.FindAstronautByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			err = notFoundErr("Astronaut not found")
		} else {
			err = internalErr(err.Error())
		}
		s.logAudit(ctx, "GetAstronautDutiesByName", auditFail(err))
		return model.PersonAstronaut{}, nil, err
	}
	duties, err := s.store.ListDutiesByPerson(ctx, pa.PersonID)
	if err != nil {
		err = internalErr(err.Error())
		s.logAudit(ctx, "GetAstronautDutiesByName", auditFail(err))
		return model.PersonAstronaut{}, nil, err
	}
	s.logAudit(ctx, "GetAstronautDutiesByName", auditOK())
	return pa, duties, nil
}

// dateOnly discards the time component, keeping the UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// auditOutcome is the portion of a call-log entry an operation fills in.
type auditOutcome struct {
	success bool
	changed string
	oldV    string
	newV    string
	errText string
}

func auditOK() auditOutcome { return auditOutcome{success: true} }

func auditFail(err error) auditOutcome { return auditOutcome{errText: err.Error()} }

func auditChange(field, oldV, newV string) auditOutcome {
	return auditOutcome{success: true, changed: field, oldV: oldV, newV: newV}
}

func (s *AstronautService) logAudit(ctx context.Context, endpoint string, out auditOutcome) {
	if s.audit == nil {
		return
	}
	entry := model.APICallLog{
		APIEndpoint:   endpoint,
		SuccessStatus: out.success,
		CallDate:      time.Now().UTC(),
	}
	if out.changed != "" {
		entry.ChangedField = &out.changed
		entry.OldValue = &out.oldV
		entry.NewValue = &out.newV
	}
	if out.errText != "" {
		entry.ErrorLog = &out.errText
	}
	s.audit.Log(ctx, entry)
}
