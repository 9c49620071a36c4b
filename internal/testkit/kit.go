package testkit

import (
	"context"
	"fmt"
	"sync"

	"roster/domain/core"
	"roster/domain/schedule"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet fixture. Rows are written positionally from A1.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// BuildXLSX writes the sheets into an in-memory .xlsx file
func BuildXLSX(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("at least one sheet is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, fmt.Errorf("rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", s.Name, err)
		}

		for ri, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, ri+1)
			if err != nil {
				return nil, err
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %d of %s: %w", ri, s.Name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// HeaderRow is the column header used by the roster export template
func HeaderRow() []interface{} {
	return []interface{}{"#", "Customer", "Address", "Phone", "Tag", "Note 1", "Note 2", "Note 3", "Note 4", "Date 1", "Date 2"}
}

// AcmeRow is the canonical single-customer example row
func AcmeRow() []interface{} {
	return []interface{}{"", "Acme Co", "1 Main St", "5551234567", "", "", "", "", "", "07/04/2025", "07/11/2025"}
}

// SampleRecords returns a small record set for store and index tests
func SampleRecords() []schedule.CustomerRecord {
	return []schedule.CustomerRecord{
		{
			ID:      core.ID("c-1"),
			Name:    "Camp Aguda",
			Address: "140 Upper Ferndale Road Ferndale 12734",
			Phone:   "917-697-4263",
			Dates:   []string{"2025-07-07", "2025-07-14"},
			Notes:   "Mon & Fri till Aug 25",
		},
		{
			ID:      core.ID("c-2"),
			Name:    "Landaus",
			Address: "3 Railroad Plaza Ext South Fallsburg 12779",
			Phone:   "347-865-0486",
			Dates:   []string{"2025-06-30", "2025-07-07"},
			Notes:   "Every Monday morning",
		},
	}
}

// MemorySnapshotRepository keeps slots in a map. FailSave makes the next
// Save calls fail, for exercising rollback paths.
type MemorySnapshotRepository struct {
	mu       sync.Mutex
	slots    map[string][]byte
	saves    int
	FailSave error
}

// NewMemorySnapshotRepository creates an empty in-memory repository
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{slots: make(map[string][]byte)}
}

// Load returns a copy of the stored slot
func (m *MemorySnapshotRepository) Load(_ context.Context, slot string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Save stores a copy of the payload
func (m *MemorySnapshotRepository) Save(_ context.Context, slot string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.slots[slot] = append([]byte(nil), payload...)
	m.saves++
	return nil
}

// Close is a no-op
func (m *MemorySnapshotRepository) Close() error { return nil }

// Saves returns how many successful saves happened
func (m *MemorySnapshotRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Raw returns the stored slot as a string
func (m *MemorySnapshotRepository) Raw(slot string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.slots[slot])
}
