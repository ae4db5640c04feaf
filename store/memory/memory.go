// Package memory provides an in-memory flex data source (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// =============================================================================
// MEMORY STORE - Implements flex.Source and generic.HolidayCalendar
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	people      map[generic.PersonID]flex.Person
	order       []generic.PersonID
	contracts   map[generic.PersonID][]flex.Contract
	corrections map[generic.PersonID][]flex.Correction
	hours       map[generic.PersonID][]flex.HourEntry
	holidays    []generic.Holiday
	rules       flex.AttendanceRules
}

func New() *Memory {
	return &Memory{
		people:      make(map[generic.PersonID]flex.Person),
		contracts:   make(map[generic.PersonID][]flex.Contract),
		corrections: make(map[generic.PersonID][]flex.Correction),
		hours:       make(map[generic.PersonID][]flex.HourEntry),
		rules:       flex.DefaultAttendanceRules(),
	}
}

// =============================================================================
// WRITES
// =============================================================================

// SavePerson inserts or replaces a person.
func (m *Memory) SavePerson(_ context.Context, p flex.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.people[p.ID] = p
	return nil
}

// SaveContract validates and stores a contract, keeping start date order.
func (m *Memory) SaveContract(_ context.Context, c flex.Contract) (flex.Contract, error) {
	if err := c.Validate(); err != nil {
		return flex.Contract{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.contracts[c.PersonID]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Start.After(c.Start)
	})
	list = append(list, flex.Contract{})
	copy(list[i+1:], list[i:])
	list[i] = c
	m.contracts[c.PersonID] = list
	return c, nil
}

// SaveCorrection validates and stores a correction. Same-day corrections
// keep insertion order.
func (m *Memory) SaveCorrection(_ context.Context, c flex.Correction) (flex.Correction, error) {
	if err := c.Validate(); err != nil {
		return flex.Correction{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.corrections[c.PersonID]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Date.After(c.Date)
	})
	list = append(list, flex.Correction{})
	copy(list[i+1:], list[i:])
	list[i] = c
	m.corrections[c.PersonID] = list
	return c, nil
}

// SaveHourEntries appends raw hour entries.
func (m *Memory) SaveHourEntries(_ context.Context, entries []flex.HourEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		m.hours[e.PersonID] = append(m.hours[e.PersonID], e)
	}
	return nil
}

// SaveHoliday stores a holiday, replacing any holiday on the same date.
func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.holidays {
		if m.holidays[i].Date.Equal(h.Date) {
			m.holidays[i] = h
			return nil
		}
	}
	i := sort.Search(len(m.holidays), func(i int) bool {
		return m.holidays[i].Date.After(h.Date)
	})
	m.holidays = append(m.holidays, generic.Holiday{})
	copy(m.holidays[i+1:], m.holidays[i:])
	m.holidays[i] = h
	return nil
}

// =============================================================================
// READS
// =============================================================================

func (m *Memory) Person(_ context.Context, id generic.PersonID) (flex.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.people[id]
	if !ok {
		return flex.Person{}, generic.ErrPersonNotFound
	}
	return p, nil
}

func (m *Memory) People(_ context.Context) ([]flex.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]flex.Person, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.people[id])
	}
	return result, nil
}

func (m *Memory) Contracts(_ context.Context, personID generic.PersonID) ([]flex.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]flex.Contract, len(m.contracts[personID]))
	copy(result, m.contracts[personID])
	return result, nil
}

func (m *Memory) Corrections(_ context.Context, personID generic.PersonID) ([]flex.Correction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]flex.Correction, len(m.corrections[personID]))
	copy(result, m.corrections[personID])
	return result, nil
}

func (m *Memory) HourEntries(_ context.Context, personID generic.PersonID, from, to generic.TimePoint) ([]flex.HourEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []flex.HourEntry
	for _, e := range m.hours[personID] {
		if from.BeforeOrEqual(e.Date) && e.Date.BeforeOrEqual(to) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) AttendanceDays(_ context.Context, personID generic.PersonID) ([]generic.TimePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var days []generic.TimePoint
	for _, e := range m.hours[personID] {
		if e.Status == m.rules.UnsubmittedStatus || seen[e.Date.String()] {
			continue
		}
		seen[e.Date.String()] = true
		days = append(days, e.Date)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

func (m *Memory) ProjectHours(_ context.Context, personID generic.PersonID, project string, since generic.TimePoint) (generic.Amount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := generic.ZeroHours()
	for _, e := range m.hours[personID] {
		if e.Project != project || e.Status == m.rules.UnsubmittedStatus || e.Date.Before(since) {
			continue
		}
		total = total.Add(e.IncurredHours)
	}
	return total, nil
}

// Holidays returns every stored holiday ordered by date.
func (m *Memory) Holidays(_ context.Context) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.Holiday, len(m.holidays))
	copy(result, m.holidays)
	return result, nil
}

func (m *Memory) HolidaysUntil(_ context.Context, asOf generic.TimePoint) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.Holiday
	for _, h := range m.holidays {
		if h.Date.BeforeOrEqual(asOf) {
			result = append(result, h)
		}
	}
	return result, nil
}
