package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// MemoryStore is an in-memory implementation of the service's store
// interface, used by tests and database-less development runs. A single
// mutex guards all state: the per-person independence the MySQL store gets
// from row locks is not a requirement for a test double.
type MemoryStore struct {
	mu           sync.Mutex
	nextPersonID uint64
	nextDutyID   uint64
	persons      map[uint64]model.Person
	byName       map[string]uint64
	details      map[uint64]model.AstronautDetail // keyed by person id
	duties       map[uint64][]model.AstronautDuty // keyed by person id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		persons: make(map[uint64]model.Person),
		byName:  make(map[string]uint64),
		details: make(map[uint64]model.AstronautDetail),
		duties:  make(map[uint64][]model.AstronautDuty),
	}
}

var _ service.Store = (*MemoryStore)(nil)

func (m *MemoryStore) FindPersonByName(ctx context.Context, name string) (model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[name]
	if !ok {
		return model.Person{}, service.ErrPersonNotFound
	}
	return m.persons[id], nil
}

func (m *MemoryStore) InsertPerson(ctx context.Context, name string) (model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[name]; exists {
		return model.Person{}, service.ErrNameExists
	}
	m.nextPersonID++
	p := model.Person{ID: m.nextPersonID, Name: name}
	m.persons[p.ID] = p
	m.byName[name] = p.ID
	return p, nil
}

// RenamePerson mirrors the SQL store's behavior: the unique name index is
// enforced, but there is no check beyond it.
func (m *MemoryStore) RenamePerson(ctx context.Context, id uint64, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.persons[id]
	if !ok {
		return service.ErrPersonNotFound
	}
	if other, exists := m.byName[newName]; exists && other != id {
		return service.ErrNameExists
	}
	delete(m.byName, p.Name)
	p.Name = newName
	m.persons[id] = p
	m.byName[newName] = id
	return nil
}

func (m *MemoryStore) ListAstronauts(ctx context.Context) ([]model.PersonAstronaut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint64, 0, len(m.details))
	for id := range m.details {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.PersonAstronaut, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.joined(id))
	}
	return out, nil
}

func (m *MemoryStore) FindAstronautByName(ctx context.Context, name string) (model.PersonAstronaut, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[name]
	if !ok {
		return model.PersonAstronaut{}, service.ErrPersonNotFound
	}
	if _, hasDetail := m.details[id]; !hasDetail {
		// A person without a detail row is not an astronaut yet.
		return model.PersonAstronaut{}, service.ErrPersonNotFound
	}
	return m.joined(id), nil
}

func (m *MemoryStore) ListDutiesByPerson(ctx context.Context, personID uint64) ([]model.AstronautDuty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.duties[personID]
	out := make([]model.AstronautDuty, len(src))
	for i, d := range src {
		out[i] = cloneDuty(d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DutyStartDate.Equal(out[j].DutyStartDate) {
			return out[i].DutyStartDate.After(out[j].DutyStartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// BeginDutyTx holds the store mutex for the life of the transaction and
// stages every write; Commit applies them all, Rollback discards them.
func (m *MemoryStore) BeginDutyTx(ctx context.Context, personID uint64) (service.DutyTx, error) {
	m.mu.Lock()
	if _, ok := m.persons[personID]; !ok {
		m.mu.Unlock()
		return nil, service.ErrPersonNotFound
	}
	return &memDutyTx{store: m, personID: personID}, nil
}

// joined builds the PersonAstronaut shape; callers hold the lock.
func (m *MemoryStore) joined(personID uint64) model.PersonAstronaut {
	p := m.persons[personID]
	d := m.details[personID]
	pa := model.PersonAstronaut{
		PersonID:         p.ID,
		Name:             p.Name,
		CurrentRank:      d.CurrentRank,
		CurrentDutyTitle: d.CurrentDutyTitle,
		CareerStartDate:  d.CareerStartDate,
	}
	if d.CareerEndDate != nil {
		t := *d.CareerEndDate
		pa.CareerEndDate = &t
	}
	return pa
}

func cloneDuty(d model.AstronautDuty) model.AstronautDuty {
	if d.DutyEndDate != nil {
		t := *d.DutyEndDate
		d.DutyEndDate = &t
	}
	return d
}

// memDutyTx stages mutations while the store lock is held. Reads see
// committed state only, which is all the assignment flow needs: it reads
// first and writes each row once.
type memDutyTx struct {
	store    *MemoryStore
	personID uint64
	staged   []func()
	done     bool
}

func (t *memDutyTx) DutyExists(ctx context.Context, dutyTitle string, startDate time.Time) (bool, error) {
	for _, d := range t.store.duties[t.personID] {
		if d.DutyTitle == dutyTitle && d.DutyStartDate.Equal(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memDutyTx) FindDetail(ctx context.Context) (model.AstronautDetail, bool, error) {
	d, ok := t.store.details[t.personID]
	if ok && d.CareerEndDate != nil {
		end := *d.CareerEndDate
		d.CareerEndDate = &end
	}
	return d, ok, nil
}

func (t *memDutyTx) InsertDetail(ctx context.Context, d model.AstronautDetail) error {
	t.staged = append(t.staged, func() { t.store.details[t.personID] = d })
	return nil
}

func (t *memDutyTx) UpdateDetail(ctx context.Context, d model.AstronautDetail) error {
	t.staged = append(t.staged, func() { t.store.details[t.personID] = d })
	return nil
}

func (t *memDutyTx) FindCurrentDuty(ctx context.Context) (model.AstronautDuty, bool, error) {
	for _, d := range t.store.duties[t.personID] {
		if d.IsCurrent {
			return cloneDuty(d), true, nil
		}
	}
	return model.AstronautDuty{}, false, nil
}

func (t *memDutyTx) CloseDuty(ctx context.Context, dutyID uint64, endDate time.Time) error {
	t.staged = append(t.staged, func() {
		list := t.store.duties[t.personID]
		for i := range list {
			if list[i].ID == dutyID {
				end := endDate
				list[i].DutyEndDate = &end
				list[i].IsCurrent = false
			}
		}
	})
	return nil
}

func (t *memDutyTx) InsertDuty(ctx context.Context, d *model.AstronautDuty) error {
	t.store.nextDutyID++
	d.ID = t.store.nextDutyID
	d.PersonID = t.personID
	d.IsCurrent = true
	d.DutyEndDate = nil
	stored := *d
	t.staged = append(t.staged, func() {
		t.store.duties[t.personID] = append(t.store.duties[t.personID], stored)
	})
	return nil
}

func (t *memDutyTx) Commit() error {
	if t.done {
		return nil
	}
	for _, apply := range t.staged {
		apply()
	}
	t.finish()
	return nil
}

func (t *memDutyTx) Rollback() error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *memDutyTx) finish() {
	t.done = true
	t.staged = nil
	t.store.mu.Unlock()
}
