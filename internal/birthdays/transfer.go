package birthdays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

// ImportReport summarises a vCard import.
type ImportReport struct {
	Added int

	// Skipped counts decoded cards without a usable birthday, including year-less
	// dates and contacts that fail validation.
	Skipped int

	// Failed counts cards the store refused.
	Failed int
}

// Import adds every named vCard contact whose birthday has a year. Each contact
// goes through the same validation as Add, so nameless cards count as skipped. The list is refreshed once at the end.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	sess, err := s.session()
	if err != nil {
		return ImportReport{}, err
	}

	parsed, err := engine.ParseVCards(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("%s: %w", config.ErrImportSource, err)
	}

	report := ImportReport{Skipped: parsed.Processed - len(parsed.Contacts)}
	now := s.clock.Now()
	for _, c := range parsed.Contacts {
		if !c.YearKnown || ValidateInput(c.Name, c.DateOfBirth, now) != nil {
			report.Skipped++
			continue
		}
		if _, err := s.store.InsertRecord(ctx, sess.UserID, c.Name, c.DateOfBirth); err != nil {
			if serr := s.storeFailure(config.OpInsert, err); isAuth(serr) {
				return report, serr
			}
			report.Failed++
			continue
		}
		report.Added++
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompService,
		config.LogKeyAdded, report.Added,
		config.LogKeySkipped, report.Skipped,
		config.LogKeyFailed, report.Failed)

	if report.Added == 0 {
		return report, nil
	}
	_, err = s.Refresh(ctx)
	return report, err
}

// ImportAddressBook downloads a remote vCard collection and imports it.
func (s *Service) ImportAddressBook(ctx context.Context, f engine.VCardFetcher, book engine.AddressBook) (ImportReport, error) {
	if _, err := s.session(); err != nil {
		return ImportReport{}, err
	}
	rc, err := f.Fetch(ctx, book)
	if err != nil {
		return ImportReport{}, fmt.Errorf("%s: %w", config.ErrImportSource, err)
	}
	defer func() { _ = rc.Close() }()
	return s.Import(ctx, rc)
}

// ExportVCard writes the owner's birthdays as vCard 4.0 and returns how many.
func (s *Service) ExportVCard(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.records(ctx)
	if err != nil {
		return 0, err
	}
	if err := engine.EncodeVCards(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ExportCalendar renders the owner's birthdays as an iCalendar document.
func (s *Service) ExportCalendar(ctx context.Context, gen *engine.Generator, cfg engine.CalendarConfig) ([]byte, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	ics, _, err := gen.BuildCalendar(records, cfg)
	return ics, err
}

func isAuth(err error) bool {
	var aErr *AuthError
	return errors.As(err, &aErr)
}
