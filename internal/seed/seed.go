// Package seed provides the record set used when the store slot is empty.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"roster/adapters/coercer"
	"roster/domain/core"
	"roster/domain/ingestion"
	"roster/domain/schedule"
)

//go:embed default.yaml
var defaultSeed []byte

type seedFile struct {
	Customers []seedCustomer `yaml:"customers"`
}

type seedCustomer struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Address string   `yaml:"address"`
	Phone   string   `yaml:"phone"`
	Notes   string   `yaml:"notes"`
	Dates   []string `yaml:"dates"`
}

// Default returns the built-in seed records
func Default() []schedule.CustomerRecord {
	records, err := Parse(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return records
}

// LoadFile reads a seed file. An empty path returns Default().
func LoadFile(path string) ([]schedule.CustomerRecord, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Dates may be written in any form the importer
// accepts; phones get the same formatting as imported rows.
func Parse(data []byte) ([]schedule.CustomerRecord, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	records := make([]schedule.CustomerRecord, 0, len(file.Customers))
	for i, c := range file.Customers {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: seed customer %d has no name", core.ErrInvalidCustomer, i)
		}

		dates := make([]string, 0, len(c.Dates))
		for _, raw := range c.Dates {
			d := coercer.NormalizeDateString(ingestion.NewTextValue(raw))
			if d == "" {
				return nil, fmt.Errorf("%w: seed customer %q date %q", core.ErrInvalidDate, c.Name, raw)
			}
			dates = append(dates, d)
		}

		id := core.ID(c.ID)
		if id.IsEmpty() {
			id = core.NewID()
		}
		records = append(records, schedule.Draft{
			Name:    c.Name,
			Address: c.Address,
			Phone:   coercer.FormatPhone(c.Phone),
			Notes:   c.Notes,
			Dates:   dates,
		}.WithID(id))
	}
	return records, nil
}
