// Package store provides in-memory implementations of the eligibility
// persistence interfaces, for tests and demo seeding.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/meritdesk/awards-engine/eligibility"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	persons map[eligibility.PersonID]eligibility.Person
	units   map[eligibility.UnitID]eligibility.Unit

	awards       map[eligibility.PersonID][]eligibility.AnnualAwardRecord
	achievements map[eligibility.PersonID][]eligibility.AchievementRecord
	assignments  map[eligibility.PersonID][]eligibility.AssignmentRecord
	unitAwards   map[eligibility.UnitID][]eligibility.UnitAwardRecord

	annualProfiles       map[eligibility.PersonID]eligibility.AnnualProfile
	serviceProfiles      map[eligibility.PersonID]eligibility.ServiceProfile
	contributionProfiles map[eligibility.PersonID]eligibility.ContributionProfile
	unitProfiles         map[eligibility.UnitID]eligibility.UnitProfile
}

func NewMemory() *Memory {
	return &Memory{
		persons:              make(map[eligibility.PersonID]eligibility.Person),
		units:                make(map[eligibility.UnitID]eligibility.Unit),
		awards:               make(map[eligibility.PersonID][]eligibility.AnnualAwardRecord),
		achievements:         make(map[eligibility.PersonID][]eligibility.AchievementRecord),
		assignments:          make(map[eligibility.PersonID][]eligibility.AssignmentRecord),
		unitAwards:           make(map[eligibility.UnitID][]eligibility.UnitAwardRecord),
		annualProfiles:       make(map[eligibility.PersonID]eligibility.AnnualProfile),
		serviceProfiles:      make(map[eligibility.PersonID]eligibility.ServiceProfile),
		contributionProfiles: make(map[eligibility.PersonID]eligibility.ContributionProfile),
		unitProfiles:         make(map[eligibility.UnitID]eligibility.UnitProfile),
	}
}

// =============================================================================
// SEEDING - Write paths used by tests and demo scenarios
// =============================================================================

func (m *Memory) AddPerson(p eligibility.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persons[p.ID] = p
}

func (m *Memory) AddUnit(u eligibility.Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[u.ID] = u
}

// AddAnnualAward inserts an annual award record. Records are unique per
// (person, year).
func (m *Memory) AddAnnualAward(r eligibility.AnnualAwardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.awards[r.PersonID] {
		if existing.Year == r.Year {
			return eligibility.ErrDuplicateYear
		}
	}
	m.awards[r.PersonID] = insertByYear(m.awards[r.PersonID], r, func(a eligibility.AnnualAwardRecord) int { return a.Year })
	return nil
}

func (m *Memory) AddAchievement(r eligibility.AchievementRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievements[r.PersonID] = insertByYear(m.achievements[r.PersonID], r, func(a eligibility.AchievementRecord) int { return a.Year })
}

// AddAssignment inserts a position assignment. At most one open-ended span
// per person.
func (m *Memory) AddAssignment(r eligibility.AssignmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.End.IsZero() {
		for _, existing := range m.assignments[r.PersonID] {
			if existing.End.IsZero() {
				return eligibility.ErrOpenAssignmentExists
			}
		}
	}

	spans := append(m.assignments[r.PersonID], r)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start.Before(spans[j].Start) })
	m.assignments[r.PersonID] = spans
	return nil
}

func (m *Memory) AddUnitAward(r eligibility.UnitAwardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.unitAwards[r.UnitID] {
		if existing.Year == r.Year {
			return eligibility.ErrDuplicateYear
		}
	}
	m.unitAwards[r.UnitID] = insertByYear(m.unitAwards[r.UnitID], r, func(a eligibility.UnitAwardRecord) int { return a.Year })
	return nil
}

func insertByYear[T any](records []T, r T, year func(T) int) []T {
	i := sort.Search(len(records), func(i int) bool {
		return year(records[i]) > year(r)
	})
	records = append(records, r)
	copy(records[i+1:], records[i:])
	records[i] = r
	return records
}

// =============================================================================
// HISTORY READER
// =============================================================================

func (m *Memory) AnnualAwards(_ context.Context, id eligibility.PersonID) ([]eligibility.AnnualAwardRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]eligibility.AnnualAwardRecord(nil), m.awards[id]...), nil
}

func (m *Memory) Achievements(_ context.Context, id eligibility.PersonID) ([]eligibility.AchievementRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]eligibility.AchievementRecord(nil), m.achievements[id]...), nil
}

func (m *Memory) Assignments(_ context.Context, id eligibility.PersonID) ([]eligibility.AssignmentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]eligibility.AssignmentRecord(nil), m.assignments[id]...), nil
}

func (m *Memory) UnitAwards(_ context.Context, id eligibility.UnitID) ([]eligibility.UnitAwardRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]eligibility.UnitAwardRecord(nil), m.unitAwards[id]...), nil
}

// =============================================================================
// SUBJECT READER
// =============================================================================

func (m *Memory) GetPerson(_ context.Context, id eligibility.PersonID) (eligibility.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.persons[id]
	if !ok {
		return eligibility.Person{}, eligibility.ErrPersonNotFound
	}
	return p, nil
}

func (m *Memory) GetUnit(_ context.Context, id eligibility.UnitID) (eligibility.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.units[id]
	if !ok {
		return eligibility.Unit{}, eligibility.ErrUnitNotFound
	}
	return u, nil
}

func (m *Memory) SubUnits(_ context.Context, id eligibility.UnitID) ([]eligibility.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var subs []eligibility.Unit
	for _, u := range m.units {
		if u.ParentID == id {
			subs = append(subs, u)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (m *Memory) ListPersonIDs(_ context.Context) ([]eligibility.PersonID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]eligibility.PersonID, 0, len(m.persons))
	for id := range m.persons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) ListUnitIDs(_ context.Context) ([]eligibility.UnitID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]eligibility.UnitID, 0, len(m.units))
	for id := range m.units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// =============================================================================
// PROFILE STORE
// =============================================================================

func (m *Memory) AnnualProfile(_ context.Context, id eligibility.PersonID) (eligibility.AnnualProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.annualProfiles[id]
	if !ok {
		return eligibility.AnnualProfile{}, eligibility.ErrProfileNotFound
	}
	return p, nil
}

func (m *Memory) SaveAnnualProfile(_ context.Context, p eligibility.AnnualProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annualProfiles[p.PersonID] = p
	return nil
}

func (m *Memory) ServiceProfile(_ context.Context, id eligibility.PersonID) (eligibility.ServiceProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.serviceProfiles[id]
	if !ok {
		return eligibility.ServiceProfile{}, eligibility.ErrProfileNotFound
	}
	return p, nil
}

func (m *Memory) SaveServiceProfile(_ context.Context, p eligibility.ServiceProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serviceProfiles[p.PersonID] = p
	return nil
}

func (m *Memory) ContributionProfile(_ context.Context, id eligibility.PersonID) (eligibility.ContributionProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.contributionProfiles[id]
	if !ok {
		return eligibility.ContributionProfile{}, eligibility.ErrProfileNotFound
	}
	return p, nil
}

func (m *Memory) SaveContributionProfile(_ context.Context, p eligibility.ContributionProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contributionProfiles[p.PersonID] = p
	return nil
}

func (m *Memory) UnitProfile(_ context.Context, id eligibility.UnitID) (eligibility.UnitProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.unitProfiles[id]
	if !ok {
		return eligibility.UnitProfile{}, eligibility.ErrProfileNotFound
	}
	return p, nil
}

func (m *Memory) SaveUnitProfile(_ context.Context, p eligibility.UnitProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unitProfiles[p.UnitID] = p
	return nil
}
