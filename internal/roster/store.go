package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"roster/domain/core"
	"roster/domain/schedule"
	"roster/internal"
	"roster/internal/calendar"
	apperrors "roster/internal/errors"
	"roster/internal/validation"
	"roster/ports"
)

// DefaultSlot is the snapshot slot used when none is configured
const DefaultSlot = "work-schedule"

// Options configures a Store
type Options struct {
	Slot     string
	Location *time.Location
	// Seed is used, and persisted, when the slot is empty
	Seed   []schedule.CustomerRecord
	Logger *internal.Logger
	Now    func() time.Time
	// Listener, if set, is told about every committed change
	Listener ChangeListener
}

// Change describes a committed record set
type Change struct {
	Version     core.Hash `json:"version"`
	Customers   int       `json:"customers"`
	Occurrences int       `json:"occurrences"`
	At          time.Time `json:"at"`
}

// ChangeListener receives a Change after each successful write. It is
// called with the write lock held and must not block.
type ChangeListener interface {
	RecordsChanged(Change)
}

// Store is the single writer for the customer record set. Every mutation
// is persisted before it becomes visible, and the event index is rebuilt
// in the same step, so readers never see records and index disagree.
type Store struct {
	mu        sync.RWMutex
	writeMu   sync.Mutex
	repo      ports.SnapshotRepository
	slot      string
	loc       *time.Location
	now       func() time.Time
	validator *validation.Validator
	logger    *internal.Logger
	listener  ChangeListener

	records []schedule.CustomerRecord
	index   *calendar.Index
	version core.Hash
}

// Open loads the slot from repo, falling back to opts.Seed
func Open(ctx context.Context, repo ports.SnapshotRepository, opts Options) (*Store, error) {
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		repo:      repo,
		slot:      opts.Slot,
		loc:       opts.Location,
		now:       opts.Now,
		validator: validation.New(),
		logger:    opts.Logger.WithComponent("Store"),
		listener:  opts.Listener,
	}

	payload, found, err := repo.Load(ctx, s.slot)
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Sprintf("load slot %q", s.slot), err)
	}

	if !found {
		s.logger.Info("Slot %q is empty, seeding %d records", s.slot, len(opts.Seed))
		if err := s.commit(ctx, sanitize(opts.Seed, s.logger)); err != nil {
			return nil, err
		}
		return s, nil
	}

	var records []schedule.CustomerRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, apperrors.DatabaseError(fmt.Sprintf("decode slot %q", s.slot), err)
	}
	records = sanitize(records, s.logger)
	canonical, err := json.Marshal(records)
	if err != nil {
		return nil, apperrors.Wrap(err, "encode records")
	}
	s.swap(records, core.NewHash(canonical))
	s.logger.Info("Loaded %d records (%d occurrences) from slot %q", len(s.records), s.index.Len(), s.slot)
	return s, nil
}

// sanitize enforces record invariants on data from outside the store:
// canonical unique sorted dates and unique non-empty ids.
func sanitize(records []schedule.CustomerRecord, logger *internal.Logger) []schedule.CustomerRecord {
	out := make([]schedule.CustomerRecord, 0, len(records))
	seen := make(map[core.ID]bool, len(records))
	for _, r := range records {
		r = r.Clone()
		valid := r.Dates[:0]
		for _, d := range r.Dates {
			if core.IsCanonicalDay(d) {
				valid = append(valid, d)
			} else {
				logger.Warn("Dropping malformed date %q on record %s", d, r.ID)
			}
		}
		r.Dates = schedule.NormalizeDates(valid)
		if r.ID.IsEmpty() || seen[r.ID] {
			r.ID = core.NewID()
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// commit persists next and then publishes it. A failed save leaves the
// current state untouched. Callers hold writeMu or are still constructing.
func (s *Store) commit(ctx context.Context, next []schedule.CustomerRecord) error {
	if next == nil {
		next = []schedule.CustomerRecord{}
	}
	payload, err := json.Marshal(next)
	if err != nil {
		return apperrors.Wrap(err, "encode records")
	}
	if err := s.repo.Save(ctx, s.slot, payload); err != nil {
		s.logger.Error("Failed to persist slot %q: %v", s.slot, err)
		return apperrors.DatabaseError(fmt.Sprintf("save slot %q", s.slot), err)
	}
	version := core.NewHash(payload)
	s.swap(next, version)

	if s.listener != nil {
		s.listener.RecordsChanged(Change{
			Version:     version,
			Customers:   len(next),
			Occurrences: s.Index().Len(),
			At:          s.now(),
		})
	}
	return nil
}

func (s *Store) swap(next []schedule.CustomerRecord, version core.Hash) {
	index := calendar.BuildIndex(next)
	s.mu.Lock()
	s.records = next
	s.index = index
	s.version = version
	s.mu.Unlock()
}

// mutate runs fn against a private copy of the records and commits the
// result. Writers are serialized.
func (s *Store) mutate(ctx context.Context, fn func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := fn(s.All())
	if err != nil {
		return err
	}
	return s.commit(ctx, next)
}

// All returns a deep copy of every record in store order
func (s *Store) All() []schedule.CustomerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return schedule.CloneAll(s.records)
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns one record
func (s *Store) Get(id core.ID) (schedule.CustomerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return schedule.CustomerRecord{}, fmt.Errorf("%w: %s", core.ErrCustomerNotFound, id)
}

// Index returns the current event index. The index is immutable.
func (s *Store) Index() *calendar.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Version identifies the committed record set. It changes with every
// write that changes content.
func (s *Store) Version() core.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Location is the zone that defines "today"
func (s *Store) Location() *time.Location {
	return s.loc
}

// Today returns the current calendar day in the store's zone
func (s *Store) Today() core.Day {
	return core.DayOf(s.now().In(s.loc))
}

// TodayOccurrences returns today's index bucket
func (s *Store) TodayOccurrences() []schedule.Occurrence {
	return s.Index().Today(s.now(), s.loc)
}

// Summary computes dashboard counts over a consistent snapshot
func (s *Store) Summary() calendar.Summary {
	s.mu.RLock()
	records, index := s.records, s.index
	s.mu.RUnlock()
	return calendar.Summarize(records, index)
}

// Month lays out one month of the current index
func (s *Store) Month(year int, month time.Month) (*calendar.MonthView, error) {
	return calendar.BuildMonth(s.Index(), year, month, s.Today())
}

// ReplaceAll swaps the entire record set in one step
func (s *Store) ReplaceAll(ctx context.Context, records []schedule.CustomerRecord) error {
	next := sanitize(records, s.logger)
	err := s.mutate(ctx, func([]schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		return next, nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Replaced record set with %d records", len(next))
	return nil
}

// Create validates input and appends a new record
func (s *Store) Create(ctx context.Context, in schedule.CustomerInput) (schedule.CustomerRecord, error) {
	rec, err := s.fromInput(core.NewID(), in)
	if err != nil {
		return schedule.CustomerRecord{}, err
	}
	err = s.mutate(ctx, func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		return append(records, rec), nil
	})
	if err != nil {
		return schedule.CustomerRecord{}, err
	}
	return rec.Clone(), nil
}

// Update replaces the fields of an existing record
func (s *Store) Update(ctx context.Context, id core.ID, in schedule.CustomerInput) (schedule.CustomerRecord, error) {
	rec, err := s.fromInput(id, in)
	if err != nil {
		return schedule.CustomerRecord{}, err
	}
	err = s.mutate(ctx, func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", core.ErrCustomerNotFound, id)
		}
		records[i] = rec
		return records, nil
	})
	if err != nil {
		return schedule.CustomerRecord{}, err
	}
	return rec.Clone(), nil
}

// Upsert inserts rec or replaces the record with the same id
func (s *Store) Upsert(ctx context.Context, rec schedule.CustomerRecord) (schedule.CustomerRecord, error) {
	if rec.ID.IsEmpty() {
		rec.ID = core.NewID()
	}
	checked, err := s.fromInput(rec.ID, schedule.CustomerInput{
		Name: rec.Name, Address: rec.Address, Phone: rec.Phone, Dates: rec.Dates, Notes: rec.Notes,
	})
	if err != nil {
		return schedule.CustomerRecord{}, err
	}
	err = s.mutate(ctx, func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		if i := indexOf(records, checked.ID); i >= 0 {
			records[i] = checked
			return records, nil
		}
		return append(records, checked), nil
	})
	if err != nil {
		return schedule.CustomerRecord{}, err
	}
	return checked.Clone(), nil
}

// Remove deletes a record
func (s *Store) Remove(ctx context.Context, id core.ID) error {
	return s.mutate(ctx, func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", core.ErrCustomerNotFound, id)
		}
		return append(records[:i], records[i+1:]...), nil
	})
}

// AddDates adds canonical days to a record, keeping them unique and sorted
func (s *Store) AddDates(ctx context.Context, id core.ID, dates ...string) (schedule.CustomerRecord, error) {
	for _, d := range dates {
		if !core.IsCanonicalDay(d) {
			return schedule.CustomerRecord{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, d)
		}
	}

	var out schedule.CustomerRecord
	err := s.mutate(ctx, func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", core.ErrCustomerNotFound, id)
		}
		records[i].Dates = schedule.NormalizeDates(append(records[i].Dates, dates...))
		out = records[i].Clone()
		return records, nil
	})
	return out, err
}

// RemoveDate removes one day from a record. A record left with no dates is
// deleted; pruned reports whether that happened.
func (s *Store) RemoveDate(ctx context.Context, id core.ID, date string) (pruned bool, err error) {
	err = s.mutate(ctx, func(records []schedule.CustomerRecord) ([]schedule.CustomerRecord, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", core.ErrCustomerNotFound, id)
		}
		if !records[i].HasDate(date) {
			return nil, core.NewNotFoundError("date", date)
		}

		kept := records[i].Dates[:0]
		for _, d := range records[i].Dates {
			if d != date {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			pruned = true
			return append(records[:i], records[i+1:]...), nil
		}
		records[i].Dates = kept
		return records, nil
	})
	return pruned, err
}

// QuickAdd creates a record scheduled on exactly one day
func (s *Store) QuickAdd(ctx context.Context, day core.Day, in schedule.CustomerInput) (schedule.CustomerRecord, error) {
	in.Dates = []string{day.String()}
	return s.Create(ctx, in)
}

// AddRecurring expands an RRULE from start through the given day and adds
// the resulting dates to a record
func (s *Store) AddRecurring(ctx context.Context, id core.ID, rule string, start, through core.Day) (schedule.CustomerRecord, []string, error) {
	dates, err := calendar.ExpandRule(rule, start, through)
	if err != nil {
		return schedule.CustomerRecord{}, nil, err
	}
	rec, err := s.AddDates(ctx, id, dates...)
	return rec, dates, err
}

func (s *Store) fromInput(id core.ID, in schedule.CustomerInput) (schedule.CustomerRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := s.validator.Validate(in); err != nil {
		return schedule.CustomerRecord{}, err
	}
	return schedule.Draft{
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
		Notes:   in.Notes,
		Dates:   in.Dates,
	}.WithID(id), nil
}

func indexOf(records []schedule.CustomerRecord, id core.ID) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
