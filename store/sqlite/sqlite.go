/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the engine's persistence interfaces (HistoryReader,
  SubjectReader, ProfileStore) plus the surrounding application's catalog
  and raw-record CRUD using SQLite. In production, the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  eligibility.HistoryReader: Ordered per-subject history reads
  eligibility.SubjectReader: Person/unit lookups and enumeration
  eligibility.ProfileStore:  Idempotent derived-profile upserts

KEY TABLES:
  persons, units, positions:      Catalog records
  annual_awards:                  One row per (person, year); title + grant flags
  achievements:                   Secondary achievements with approval status
  assignments:                    Position spans with copied coefficients
  unit_awards:                    One row per (unit, year)
  *_profiles:                     Derived state, one row per subject

UNIQUENESS:
  annual_awards and unit_awards carry UNIQUE(subject, year); violations
  surface as eligibility.ErrDuplicateYear. At most one assignment per
  person may have a NULL end date; the write path checks before insert.

PROFILE UPSERTS:
  Profiles are written with INSERT ... ON CONFLICT DO UPDATE, keyed by
  subject id. Tier arrays and weight buckets are stored as JSON columns,
  the same pattern the snapshot tables in comparable systems use.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/awards.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - eligibility/store.go: Interface definitions
  - eligibility/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/meritdesk/awards-engine/eligibility"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Catalog
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		enlisted_on TEXT,
		separated_on TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_units_parent ON units(parent_id);

	CREATE TABLE IF NOT EXISTS positions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contribution_group TEXT NOT NULL DEFAULT '',
		coefficient TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Annual award records: one per (person, year)
	CREATE TABLE IF NOT EXISTS annual_awards (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		merit_granted INTEGER NOT NULL DEFAULT 0,
		merit_ref TEXT NOT NULL DEFAULT '',
		honor_granted INTEGER NOT NULL DEFAULT 0,
		honor_ref TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(person_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_annual_awards_person
		ON annual_awards(person_id, year);

	-- Secondary achievements: several per year allowed
	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		approval TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_achievements_person
		ON achievements(person_id, year);

	-- Position assignment spans; coefficient copied at assignment time
	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		position_id TEXT NOT NULL,
		coefficient TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_person
		ON assignments(person_id, start_date);

	-- Unit award records: one per (unit, year)
	CREATE TABLE IF NOT EXISTS unit_awards (
		id TEXT PRIMARY KEY,
		unit_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		approval TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL,
		UNIQUE(unit_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_unit_awards_unit
		ON unit_awards(unit_id, year);

	-- Derived profiles: one row per subject, engine-owned
	CREATE TABLE IF NOT EXISTS annual_profiles (
		person_id TEXT PRIMARY KEY,
		first_class_count INTEGER NOT NULL,
		achievement_count INTEGER NOT NULL,
		streak_length INTEGER NOT NULL,
		merit_eligible INTEGER NOT NULL,
		honor_eligible INTEGER NOT NULL,
		rationale TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS service_profiles (
		person_id TEXT PRIMARY KEY,
		tiers_json TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contribution_profiles (
		person_id TEXT PRIMARY KEY,
		total_months INTEGER NOT NULL,
		weighted_json TEXT NOT NULL,
		tiers_json TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS unit_profiles (
		unit_id TEXT PRIMARY KEY,
		title_count INTEGER NOT NULL,
		streak_length INTEGER NOT NULL,
		commendation1_eligible INTEGER NOT NULL,
		commendation2_eligible INTEGER NOT NULL,
		rationale TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullDate(d eligibility.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func scanDate(s sql.NullString) eligibility.Date {
	if !s.Valid || s.String == "" {
		return eligibility.Date{}
	}
	d, _ := eligibility.ParseDate(s.String)
	return d
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// PERSONS
// =============================================================================

// SavePerson inserts or updates a person catalog record.
func (s *Store) SavePerson(ctx context.Context, p eligibility.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO persons (id, name, enlisted_on, separated_on, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			enlisted_on = excluded.enlisted_on,
			separated_on = excluded.separated_on
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, nullDate(p.EnlistedOn), nullDate(p.SeparatedOn), now())
	return err
}

func (s *Store) GetPerson(ctx context.Context, id eligibility.PersonID) (eligibility.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p                   eligibility.Person
		enlisted, separated sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, enlisted_on, separated_on FROM persons WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &enlisted, &separated)
	if err == sql.ErrNoRows {
		return eligibility.Person{}, eligibility.ErrPersonNotFound
	}
	if err != nil {
		return eligibility.Person{}, err
	}
	p.EnlistedOn = scanDate(enlisted)
	p.SeparatedOn = scanDate(separated)
	return p, nil
}

func (s *Store) ListPersons(ctx context.Context) ([]eligibility.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, enlisted_on, separated_on FROM persons ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []eligibility.Person
	for rows.Next() {
		var (
			p                   eligibility.Person
			enlisted, separated sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &enlisted, &separated); err != nil {
			return nil, err
		}
		p.EnlistedOn = scanDate(enlisted)
		p.SeparatedOn = scanDate(separated)
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (s *Store) ListPersonIDs(ctx context.Context) ([]eligibility.PersonID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM persons ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []eligibility.PersonID
	for rows.Next() {
		var id eligibility.PersonID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =============================================================================
// UNITS
// =============================================================================

func (s *Store) SaveUnit(ctx context.Context, u eligibility.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO units (id, name, parent_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			parent_id = excluded.parent_id
	`
	_, err := s.db.ExecContext(ctx, query, u.ID, u.Name, u.ParentID, now())
	return err
}

func (s *Store) GetUnit(ctx context.Context, id eligibility.UnitID) (eligibility.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u eligibility.Unit
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, parent_id FROM units WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &u.ParentID)
	if err == sql.ErrNoRows {
		return eligibility.Unit{}, eligibility.ErrUnitNotFound
	}
	if err != nil {
		return eligibility.Unit{}, err
	}
	return u, nil
}

func (s *Store) ListUnits(ctx context.Context) ([]eligibility.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryUnits(ctx, "SELECT id, name, parent_id FROM units ORDER BY name")
}

func (s *Store) SubUnits(ctx context.Context, id eligibility.UnitID) ([]eligibility.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryUnits(ctx,
		"SELECT id, name, parent_id FROM units WHERE parent_id = ? ORDER BY id", id)
}

func (s *Store) queryUnits(ctx context.Context, query string, args ...any) ([]eligibility.Unit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []eligibility.Unit
	for rows.Next() {
		var u eligibility.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.ParentID); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *Store) ListUnitIDs(ctx context.Context) ([]eligibility.UnitID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM units ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []eligibility.UnitID
	for rows.Next() {
		var id eligibility.UnitID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =============================================================================
// POSITIONS
// =============================================================================

// Position is a catalog position with its current contribution
// coefficient. Assignment records copy the coefficient at assignment time,
// so editing a position never rewrites history.
type Position struct {
	ID                eligibility.PositionID
	Name              string
	ContributionGroup string
	Coefficient       decimal.Decimal
	CreatedAt         time.Time
}

func (s *Store) SavePosition(ctx context.Context, p Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO positions (id, name, contribution_group, coefficient, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			contribution_group = excluded.contribution_group,
			coefficient = excluded.coefficient
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.ContributionGroup, p.Coefficient.String(), now())
	return err
}

func (s *Store) GetPosition(ctx context.Context, id eligibility.PositionID) (*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p           Position
		coefficient string
		createdAt   string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, contribution_group, coefficient, created_at FROM positions WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &p.ContributionGroup, &coefficient, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Coefficient, _ = decimal.NewFromString(coefficient)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func (s *Store) ListPositions(ctx context.Context) ([]Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, contribution_group, coefficient, created_at FROM positions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var (
			p           Position
			coefficient string
			createdAt   string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.ContributionGroup, &coefficient, &createdAt); err != nil {
			return nil, err
		}
		p.Coefficient, _ = decimal.NewFromString(coefficient)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// =============================================================================
// ANNUAL AWARD RECORDS
// =============================================================================

// CreateAnnualAward inserts a new annual award record. A second record for
// the same (person, year) surfaces as ErrDuplicateYear.
func (s *Store) CreateAnnualAward(ctx context.Context, r eligibility.AnnualAwardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO annual_awards
		(id, person_id, year, title, merit_granted, merit_ref, honor_granted, honor_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.PersonID, r.Year, r.Title,
		r.MeritCitationGranted, r.MeritCitationRef,
		r.HonorCitationGranted, r.HonorCitationRef, now())
	if isUniqueConstraintError(err) {
		return eligibility.ErrDuplicateYear
	}
	return err
}

// UpdateAnnualAward rewrites a record in place, keyed by id.
func (s *Store) UpdateAnnualAward(ctx context.Context, r eligibility.AnnualAwardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE annual_awards
		SET title = ?, merit_granted = ?, merit_ref = ?, honor_granted = ?, honor_ref = ?
		WHERE id = ?
	`
	_, err := s.db.ExecContext(ctx, query,
		r.Title, r.MeritCitationGranted, r.MeritCitationRef,
		r.HonorCitationGranted, r.HonorCitationRef, r.ID)
	return err
}

func (s *Store) GetAnnualAward(ctx context.Context, id string) (*eligibility.AnnualAwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r eligibility.AnnualAwardRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, person_id, year, title, merit_granted, merit_ref, honor_granted, honor_ref
		FROM annual_awards WHERE id = ?`, id,
	).Scan(&r.ID, &r.PersonID, &r.Year, &r.Title,
		&r.MeritCitationGranted, &r.MeritCitationRef,
		&r.HonorCitationGranted, &r.HonorCitationRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) DeleteAnnualAward(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM annual_awards WHERE id = ?", id)
	return err
}

// AnnualAwards implements eligibility.HistoryReader.
func (s *Store) AnnualAwards(ctx context.Context, id eligibility.PersonID) ([]eligibility.AnnualAwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_id, year, title, merit_granted, merit_ref, honor_granted, honor_ref
		FROM annual_awards WHERE person_id = ? ORDER BY year ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query annual awards: %w", err)
	}
	defer rows.Close()

	var records []eligibility.AnnualAwardRecord
	for rows.Next() {
		var r eligibility.AnnualAwardRecord
		if err := rows.Scan(&r.ID, &r.PersonID, &r.Year, &r.Title,
			&r.MeritCitationGranted, &r.MeritCitationRef,
			&r.HonorCitationGranted, &r.HonorCitationRef); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// ACHIEVEMENT RECORDS
// =============================================================================

func (s *Store) SaveAchievement(ctx context.Context, r eligibility.AchievementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO achievements (id, person_id, year, kind, approval, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			year = excluded.year,
			kind = excluded.kind,
			approval = excluded.approval
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.PersonID, r.Year, r.Kind, r.Approval, now())
	return err
}

func (s *Store) GetAchievement(ctx context.Context, id string) (*eligibility.AchievementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r eligibility.AchievementRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, person_id, year, kind, approval FROM achievements WHERE id = ?", id,
	).Scan(&r.ID, &r.PersonID, &r.Year, &r.Kind, &r.Approval)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) DeleteAchievement(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM achievements WHERE id = ?", id)
	return err
}

// Achievements implements eligibility.HistoryReader.
func (s *Store) Achievements(ctx context.Context, id eligibility.PersonID) ([]eligibility.AchievementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_id, year, kind, approval
		FROM achievements WHERE person_id = ? ORDER BY year ASC, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var records []eligibility.AchievementRecord
	for rows.Next() {
		var r eligibility.AchievementRecord
		if err := rows.Scan(&r.ID, &r.PersonID, &r.Year, &r.Kind, &r.Approval); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// ASSIGNMENT RECORDS
// =============================================================================

// CreateAssignment inserts a position span. At most one open-ended span
// per person; a second one surfaces as ErrOpenAssignmentExists.
func (s *Store) CreateAssignment(ctx context.Context, r eligibility.AssignmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.End.IsZero() {
		var open int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM assignments WHERE person_id = ? AND end_date IS NULL",
			r.PersonID,
		).Scan(&open)
		if err != nil {
			return err
		}
		if open > 0 {
			return eligibility.ErrOpenAssignmentExists
		}
	}

	query := `
		INSERT INTO assignments (id, person_id, position_id, coefficient, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.PersonID, r.PositionID, r.Coefficient.String(),
		r.Start.String(), nullDate(r.End), now())
	return err
}

// CloseAssignment sets the end date on a person's open span, if any.
func (s *Store) CloseAssignment(ctx context.Context, personID eligibility.PersonID, end eligibility.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE assignments SET end_date = ? WHERE person_id = ? AND end_date IS NULL",
		end.String(), personID)
	return err
}

func (s *Store) GetAssignment(ctx context.Context, id string) (*eligibility.AssignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r           eligibility.AssignmentRecord
		coefficient string
		start       string
		end         sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, person_id, position_id, coefficient, start_date, end_date
		FROM assignments WHERE id = ?`, id,
	).Scan(&r.ID, &r.PersonID, &r.PositionID, &coefficient, &start, &end)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Coefficient, _ = decimal.NewFromString(coefficient)
	r.Start, _ = eligibility.ParseDate(start)
	r.End = scanDate(end)
	return &r, nil
}

func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	return err
}

// Assignments implements eligibility.HistoryReader.
func (s *Store) Assignments(ctx context.Context, id eligibility.PersonID) ([]eligibility.AssignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_id, position_id, coefficient, start_date, end_date
		FROM assignments WHERE person_id = ? ORDER BY start_date ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var records []eligibility.AssignmentRecord
	for rows.Next() {
		var (
			r           eligibility.AssignmentRecord
			coefficient string
			start       string
			end         sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.PersonID, &r.PositionID, &coefficient, &start, &end); err != nil {
			return nil, err
		}
		r.Coefficient, _ = decimal.NewFromString(coefficient)
		r.Start, _ = eligibility.ParseDate(start)
		r.End = scanDate(end)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// UNIT AWARD RECORDS
// =============================================================================

func (s *Store) CreateUnitAward(ctx context.Context, r eligibility.UnitAwardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO unit_awards (id, unit_id, year, title, approval, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.UnitID, r.Year, r.Title, r.Approval, now())
	if isUniqueConstraintError(err) {
		return eligibility.ErrDuplicateYear
	}
	return err
}

func (s *Store) UpdateUnitAward(ctx context.Context, r eligibility.UnitAwardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE unit_awards SET title = ?, approval = ? WHERE id = ?",
		r.Title, r.Approval, r.ID)
	return err
}

func (s *Store) GetUnitAward(ctx context.Context, id string) (*eligibility.UnitAwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r eligibility.UnitAwardRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, unit_id, year, title, approval FROM unit_awards WHERE id = ?", id,
	).Scan(&r.ID, &r.UnitID, &r.Year, &r.Title, &r.Approval)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) DeleteUnitAward(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM unit_awards WHERE id = ?", id)
	return err
}

// UnitAwards implements eligibility.HistoryReader.
func (s *Store) UnitAwards(ctx context.Context, id eligibility.UnitID) ([]eligibility.UnitAwardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unit_id, year, title, approval
		FROM unit_awards WHERE unit_id = ? ORDER BY year ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit awards: %w", err)
	}
	defer rows.Close()

	var records []eligibility.UnitAwardRecord
	for rows.Next() {
		var r eligibility.UnitAwardRecord
		if err := rows.Scan(&r.ID, &r.UnitID, &r.Year, &r.Title, &r.Approval); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// DERIVED PROFILES (eligibility.ProfileStore)
// =============================================================================

func (s *Store) AnnualProfile(ctx context.Context, id eligibility.PersonID) (eligibility.AnnualProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p        eligibility.AnnualProfile
		computed string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT person_id, first_class_count, achievement_count, streak_length,
		       merit_eligible, honor_eligible, rationale, computed_at
		FROM annual_profiles WHERE person_id = ?`, id,
	).Scan(&p.PersonID, &p.FirstClassCount, &p.AchievementCount, &p.StreakLength,
		&p.MeritCitationEligible, &p.HonorCitationEligible, &p.Rationale, &computed)
	if err == sql.ErrNoRows {
		return eligibility.AnnualProfile{}, eligibility.ErrProfileNotFound
	}
	if err != nil {
		return eligibility.AnnualProfile{}, err
	}
	p.ComputedAt, _ = eligibility.ParseDate(computed)
	return p, nil
}

func (s *Store) SaveAnnualProfile(ctx context.Context, p eligibility.AnnualProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO annual_profiles
		(person_id, first_class_count, achievement_count, streak_length,
		 merit_eligible, honor_eligible, rationale, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(person_id) DO UPDATE SET
			first_class_count = excluded.first_class_count,
			achievement_count = excluded.achievement_count,
			streak_length = excluded.streak_length,
			merit_eligible = excluded.merit_eligible,
			honor_eligible = excluded.honor_eligible,
			rationale = excluded.rationale,
			computed_at = excluded.computed_at
	`
	_, err := s.db.ExecContext(ctx, query,
		p.PersonID, p.FirstClassCount, p.AchievementCount, p.StreakLength,
		p.MeritCitationEligible, p.HonorCitationEligible, p.Rationale, p.ComputedAt.String())
	return err
}

func (s *Store) ServiceProfile(ctx context.Context, id eligibility.PersonID) (eligibility.ServiceProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p         eligibility.ServiceProfile
		tiersJSON string
		computed  string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT person_id, tiers_json, computed_at FROM service_profiles WHERE person_id = ?", id,
	).Scan(&p.PersonID, &tiersJSON, &computed)
	if err == sql.ErrNoRows {
		return eligibility.ServiceProfile{}, eligibility.ErrProfileNotFound
	}
	if err != nil {
		return eligibility.ServiceProfile{}, err
	}
	if err := json.Unmarshal([]byte(tiersJSON), &p.Tiers); err != nil {
		return eligibility.ServiceProfile{}, fmt.Errorf("failed to decode service tiers: %w", err)
	}
	p.ComputedAt, _ = eligibility.ParseDate(computed)
	return p, nil
}

func (s *Store) SaveServiceProfile(ctx context.Context, p eligibility.ServiceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tiersJSON, err := json.Marshal(p.Tiers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO service_profiles (person_id, tiers_json, computed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(person_id) DO UPDATE SET
			tiers_json = excluded.tiers_json,
			computed_at = excluded.computed_at
	`
	_, err = s.db.ExecContext(ctx, query, p.PersonID, string(tiersJSON), p.ComputedAt.String())
	return err
}

func (s *Store) ContributionProfile(ctx context.Context, id eligibility.PersonID) (eligibility.ContributionProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p            eligibility.ContributionProfile
		weightedJSON string
		tiersJSON    string
		computed     string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT person_id, total_months, weighted_json, tiers_json, computed_at
		FROM contribution_profiles WHERE person_id = ?`, id,
	).Scan(&p.PersonID, &p.TotalMonths, &weightedJSON, &tiersJSON, &computed)
	if err == sql.ErrNoRows {
		return eligibility.ContributionProfile{}, eligibility.ErrProfileNotFound
	}
	if err != nil {
		return eligibility.ContributionProfile{}, err
	}
	if err := json.Unmarshal([]byte(weightedJSON), &p.Weighted); err != nil {
		return eligibility.ContributionProfile{}, fmt.Errorf("failed to decode weight buckets: %w", err)
	}
	if err := json.Unmarshal([]byte(tiersJSON), &p.Tiers); err != nil {
		return eligibility.ContributionProfile{}, fmt.Errorf("failed to decode contribution tiers: %w", err)
	}
	p.ComputedAt, _ = eligibility.ParseDate(computed)
	return p, nil
}

func (s *Store) SaveContributionProfile(ctx context.Context, p eligibility.ContributionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weightedJSON, err := json.Marshal(p.Weighted)
	if err != nil {
		return err
	}
	tiersJSON, err := json.Marshal(p.Tiers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contribution_profiles (person_id, total_months, weighted_json, tiers_json, computed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(person_id) DO UPDATE SET
			total_months = excluded.total_months,
			weighted_json = excluded.weighted_json,
			tiers_json = excluded.tiers_json,
			computed_at = excluded.computed_at
	`
	_, err = s.db.ExecContext(ctx, query,
		p.PersonID, p.TotalMonths, string(weightedJSON), string(tiersJSON), p.ComputedAt.String())
	return err
}

func (s *Store) UnitProfile(ctx context.Context, id eligibility.UnitID) (eligibility.UnitProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p        eligibility.UnitProfile
		computed string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT unit_id, title_count, streak_length, commendation1_eligible, commendation2_eligible,
		       rationale, computed_at
		FROM unit_profiles WHERE unit_id = ?`, id,
	).Scan(&p.UnitID, &p.TitleCount, &p.StreakLength,
		&p.Commendation1Eligible, &p.Commendation2Eligible, &p.Rationale, &computed)
	if err == sql.ErrNoRows {
		return eligibility.UnitProfile{}, eligibility.ErrProfileNotFound
	}
	if err != nil {
		return eligibility.UnitProfile{}, err
	}
	p.ComputedAt, _ = eligibility.ParseDate(computed)
	return p, nil
}

func (s *Store) SaveUnitProfile(ctx context.Context, p eligibility.UnitProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO unit_profiles
		(unit_id, title_count, streak_length, commendation1_eligible, commendation2_eligible,
		 rationale, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unit_id) DO UPDATE SET
			title_count = excluded.title_count,
			streak_length = excluded.streak_length,
			commendation1_eligible = excluded.commendation1_eligible,
			commendation2_eligible = excluded.commendation2_eligible,
			rationale = excluded.rationale,
			computed_at = excluded.computed_at
	`
	_, err := s.db.ExecContext(ctx, query,
		p.UnitID, p.TitleCount, p.StreakLength,
		p.Commendation1Eligible, p.Commendation2Eligible, p.Rationale, p.ComputedAt.String())
	return err
}

// Interface conformance checks.
var (
	_ eligibility.HistoryReader = (*Store)(nil)
	_ eligibility.SubjectReader = (*Store)(nil)
	_ eligibility.ProfileStore  = (*Store)(nil)
)
