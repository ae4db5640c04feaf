/*
Package sqlite provides a SQLite-backed flex data source.

PURPOSE:
  Persists people, contracts, corrections, public holidays and raw hour
  entries, and serves them to the flex calculator. The calculator only
  reads; writes come from the API and import tooling.

INTERFACES IMPLEMENTED:
  flex.Source:             People, contracts, corrections, attendance
  generic.HolidayCalendar: Holidays on or before an as-of date

KEY TABLES:
  people:       Person records
  contracts:    Work contracts (end_date NULL = open-ended)
  corrections:  Manual adjustments/resets (NULL = field absent)
  holidays:     Public holidays keyed by date
  hour_entries: Raw time-tracking rows

STORAGE FORMAT:
  Dates are TEXT in YYYY-MM-DD so string comparison is date comparison.
  Hour quantities are TEXT decimals so sums stay exact.

MIGRATION:
  Schema is versioned under migrations/ and embedded into the binary.
  New() runs golang-migrate up to the latest version.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to
  a single connection, otherwise each connection would see its own empty
  database.

USAGE:
  store, err := sqlite.New("./data/flex.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - flex/types.go: Source interface
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements flex.Source and generic.HolidayCalendar using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	unsubmitted string
}

// New opens the database at dbPath and migrates it to the latest schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, unsubmitted: flex.StatusUnsubmitted}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// m.Close would close db, which is owned by the Store.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	version, _, _ := m.Version()
	log.Debugf("Database schema at version %d", version)
	return nil
}

// =============================================================================
// PEOPLE
// =============================================================================

// SavePerson inserts or updates a person.
func (s *Store) SavePerson(ctx context.Context, p flex.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO people (id, email, display_name, archived, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			archived = excluded.archived
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Email, p.DisplayName, p.Archived,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

// Person returns a person or generic.ErrPersonNotFound.
func (s *Store) Person(ctx context.Context, id generic.PersonID) (flex.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p flex.Person
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, display_name, archived FROM people WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Email, &p.DisplayName, &p.Archived)

	if errors.Is(err, sql.ErrNoRows) {
		return flex.Person{}, generic.ErrPersonNotFound
	}
	if err != nil {
		return flex.Person{}, fmt.Errorf("failed to load person: %w", err)
	}
	return p, nil
}

func (s *Store) People(ctx context.Context) ([]flex.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, display_name, archived FROM people ORDER BY email",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []flex.Person
	for rows.Next() {
		var p flex.Person
		if err := rows.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Archived); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// =============================================================================
// CONTRACTS
// =============================================================================

// SaveContract validates and inserts a contract. An empty ID is generated.
func (s *Store) SaveContract(ctx context.Context, c flex.Contract) (flex.Contract, error) {
	if err := c.Validate(); err != nil {
		return flex.Contract{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO contracts (id, person_id, start_date, end_date, flex_enabled, worktime_percent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.PersonID, c.Start.String(), nullDate(c.End),
		c.FlexEnabled, c.WorktimePercent,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return flex.Contract{}, mapWriteError("contract", err)
	}
	return c, nil
}

func (s *Store) Contracts(ctx context.Context, personID generic.PersonID) ([]flex.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, person_id, start_date, end_date, flex_enabled, worktime_percent
		FROM contracts
		WHERE person_id = ?
		ORDER BY start_date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []flex.Contract
	for rows.Next() {
		var c flex.Contract
		var start string
		var end sql.NullString
		if err := rows.Scan(&c.ID, &c.PersonID, &start, &end, &c.FlexEnabled, &c.WorktimePercent); err != nil {
			return nil, err
		}
		if c.Start, err = generic.ParseDate(start); err != nil {
			return nil, fmt.Errorf("contract %s: bad start date: %w", c.ID, err)
		}
		if c.End, err = parseNullDate(end); err != nil {
			return nil, fmt.Errorf("contract %s: bad end date: %w", c.ID, err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// =============================================================================
// CORRECTIONS
// =============================================================================

// SaveCorrection validates and inserts a correction. An empty ID is generated.
func (s *Store) SaveCorrection(ctx context.Context, c flex.Correction) (flex.Correction, error) {
	if err := c.Validate(); err != nil {
		return flex.Correction{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO corrections (id, person_id, date, adjust_by, set_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.PersonID, c.Date.String(),
		nullAmount(c.AdjustBy), nullAmount(c.SetTo),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return flex.Correction{}, mapWriteError("correction", err)
	}
	return c, nil
}

// Corrections returns the person's corrections by date, then insertion order.
func (s *Store) Corrections(ctx context.Context, personID generic.PersonID) ([]flex.Correction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, person_id, date, adjust_by, set_to
		FROM corrections
		WHERE person_id = ?
		ORDER BY date ASC, seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	var corrections []flex.Correction
	for rows.Next() {
		var c flex.Correction
		var date string
		var adjustBy, setTo sql.NullString
		if err := rows.Scan(&c.ID, &c.PersonID, &date, &adjustBy, &setTo); err != nil {
			return nil, err
		}
		if c.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("correction %s: bad date: %w", c.ID, err)
		}
		if c.AdjustBy, err = parseNullAmount(adjustBy); err != nil {
			return nil, fmt.Errorf("correction %s: bad adjust_by: %w", c.ID, err)
		}
		if c.SetTo, err = parseNullAmount(setTo); err != nil {
			return nil, fmt.Errorf("correction %s: bad set_to: %w", c.ID, err)
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}

// =============================================================================
// HOUR ENTRIES
// =============================================================================

// SaveHourEntries inserts raw hour entries atomically.
func (s *Store) SaveHourEntries(ctx context.Context, entries []flex.HourEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO hour_entries
		(id, person_id, date, project, phase_name, leave_type, status, incurred_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			project = excluded.project,
			phase_name = excluded.phase_name,
			leave_type = excluded.leave_type,
			status = excluded.status,
			incurred_hours = excluded.incurred_hours
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, query,
			e.ID, e.PersonID, e.Date.String(), e.Project, e.PhaseName,
			e.LeaveType, e.Status, e.IncurredHours.Value.String(), now,
		)
		if err != nil {
			return mapWriteError("hour entry", err)
		}
	}
	return tx.Commit()
}

func (s *Store) HourEntries(ctx context.Context, personID generic.PersonID, from, to generic.TimePoint) ([]flex.HourEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, person_id, date, project, phase_name, leave_type, status, incurred_hours
		FROM hour_entries
		WHERE person_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, personID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query hour entries: %w", err)
	}
	defer rows.Close()

	var entries []flex.HourEntry
	for rows.Next() {
		var e flex.HourEntry
		var date, hours string
		if err := rows.Scan(&e.ID, &e.PersonID, &date, &e.Project, &e.PhaseName, &e.LeaveType, &e.Status, &hours); err != nil {
			return nil, err
		}
		if e.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("hour entry %s: bad date: %w", e.ID, err)
		}
		if e.IncurredHours, err = generic.ParseHours(hours); err != nil {
			return nil, fmt.Errorf("hour entry %s: bad hours: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) AttendanceDays(ctx context.Context, personID generic.PersonID) ([]generic.TimePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT DISTINCT date
		FROM hour_entries
		WHERE person_id = ? AND status != ?
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, personID, s.unsubmitted)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance days: %w", err)
	}
	defer rows.Close()

	var days []generic.TimePoint
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		day, err := generic.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("bad attendance date %q: %w", date, err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ProjectHours sums in Go; SQLite SUM over TEXT would go through floats.
func (s *Store) ProjectHours(ctx context.Context, personID generic.PersonID, project string, since generic.TimePoint) (generic.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT incurred_hours
		FROM hour_entries
		WHERE person_id = ? AND project = ? AND date >= ? AND status != ?
	`

	rows, err := s.db.QueryContext(ctx, query, personID, project, since.String(), s.unsubmitted)
	if err != nil {
		return generic.Amount{}, fmt.Errorf("failed to query project hours: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var hours string
		if err := rows.Scan(&hours); err != nil {
			return generic.Amount{}, err
		}
		d, err := decimal.NewFromString(hours)
		if err != nil {
			return generic.Amount{}, fmt.Errorf("bad project hours %q: %w", hours, err)
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return generic.Amount{}, err
	}
	return generic.NewAmountFromDecimal(total, generic.UnitHours), nil
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday inserts a holiday or renames the one on the same date.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (date, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			name = excluded.name
	`

	_, err := s.db.ExecContext(ctx, query,
		h.Date.String(), h.Name,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// Holidays returns all holidays (for admin UI).
func (s *Store) Holidays(ctx context.Context) ([]generic.Holiday, error) {
	return s.queryHolidays(ctx, "SELECT date, name FROM holidays ORDER BY date ASC")
}

func (s *Store) HolidaysUntil(ctx context.Context, asOf generic.TimePoint) ([]generic.Holiday, error) {
	return s.queryHolidays(ctx, "SELECT date, name FROM holidays WHERE date <= ? ORDER BY date ASC", asOf.String())
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var date string
		if err := rows.Scan(&date, &h.Name); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("bad holiday date %q: %w", date, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Helper functions

func nullDate(tp generic.TimePoint) sql.NullString {
	if tp.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: tp.String(), Valid: true}
}

func parseNullDate(ns sql.NullString) (generic.TimePoint, error) {
	if !ns.Valid {
		return generic.TimePoint{}, nil
	}
	return generic.ParseDate(ns.String)
}

func nullAmount(a *generic.Amount) sql.NullString {
	if a == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: a.Value.String(), Valid: true}
}

func parseNullAmount(ns sql.NullString) (*generic.Amount, error) {
	if !ns.Valid {
		return nil, nil
	}
	a, err := generic.ParseHours(ns.String)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// mapWriteError turns a foreign key failure into generic.ErrPersonNotFound.
func mapWriteError(what string, err error) error {
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("failed to save %s: %w", what, generic.ErrPersonNotFound)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}
