package importer

import (
	"context"
	"fmt"
	"io"

	"roster/adapters/excel"
	"roster/domain/core"
	"roster/domain/schedule"
	"roster/internal"
)

// RecordReplacer swaps the whole record set in one step
type RecordReplacer interface {
	ReplaceAll(ctx context.Context, records []schedule.CustomerRecord) error
}

// Service runs the two-step import: upload a workbook, then confirm a sheet
// or cancel. The store is only touched by a successful confirmation.
type Service struct {
	reader     *excel.DataReader
	aggregator *Aggregator
	pending    *PendingRegistry
	store      RecordReplacer
	logger     *internal.Logger
}

// NewService wires an import service
func NewService(reader *excel.DataReader, aggregator *Aggregator, pending *PendingRegistry, store RecordReplacer, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		reader:     reader,
		aggregator: aggregator,
		pending:    pending,
		store:      store,
		logger:     logger.WithComponent("ImportService"),
	}
}

// Pending exposes the registry so it can be swept on a schedule
func (s *Service) Pending() *PendingRegistry {
	return s.pending
}

// Upload decodes a workbook and parks it until a sheet is chosen
func (s *Service) Upload(ctx context.Context, src io.Reader, filename string) (*PendingImport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wb, err := s.reader.Read(src, filename)
	if err != nil {
		s.logger.Warn("Upload of %s rejected: %v", filename, err)
		return nil, err
	}
	if len(wb.SheetNames()) == 0 {
		return nil, core.ErrEmptyWorkbook
	}

	item := s.pending.Put(filename, wb)
	s.logger.Info("Upload %s parked as %s with %d sheets", filename, item.Token, len(item.Sheets))
	return item, nil
}

// Confirm aggregates the chosen sheet and replaces the store. A failed
// confirmation leaves both the store and the pending entry in place so a
// different sheet can be tried.
func (s *Service) Confirm(ctx context.Context, token, sheet string) (*Result, error) {
	item, err := s.pending.Get(token)
	if err != nil {
		return nil, err
	}

	result, err := s.aggregator.Aggregate(item.workbook, sheet)
	if err != nil {
		s.logger.Warn("Import %s of sheet %q failed: %v", token, sheet, err)
		return nil, err
	}

	if err := s.store.ReplaceAll(ctx, result.Records); err != nil {
		return nil, fmt.Errorf("replace records: %w", err)
	}
	s.pending.Remove(token)

	s.logger.Info("Import %s committed %d records from sheet %q", token, result.Accepted, sheet)
	return result, nil
}

// Cancel discards a pending upload. Cancelling never changes stored state.
func (s *Service) Cancel(token string) error {
	if !s.pending.Remove(token) {
		return fmt.Errorf("%w: %s", core.ErrPendingNotFound, token)
	}
	s.logger.Info("Import %s cancelled", token)
	return nil
}

// ImportFile reads a workbook from disk and commits one sheet directly.
// An empty sheet name picks the first sheet.
func (s *Service) ImportFile(ctx context.Context, path, sheet string) (*Result, error) {
	wb, err := s.reader.OpenFile(path)
	if err != nil {
		return nil, err
	}
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, core.ErrEmptyWorkbook
	}
	if sheet == "" {
		sheet = names[0]
	}

	result, err := s.aggregator.Aggregate(wb, sheet)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAll(ctx, result.Records); err != nil {
		return nil, fmt.Errorf("replace records: %w", err)
	}
	s.logger.Info("Imported %d records from %s sheet %q", result.Accepted, path, sheet)
	return result, nil
}
