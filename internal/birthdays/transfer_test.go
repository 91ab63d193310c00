package birthdays_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/store"
)

const addressBook = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ada Lovelace\r\nBDAY:1815-12-10\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:No Year\r\nBDAY:--02-29\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:No Birthday\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:19061209\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Alan Turing\r\nBDAY:1912-06-23\r\nEND:VCARD\r\n"

func TestImport(t *testing.T) {
	st := new(MockStore)
	// 1815 is before the earliest accepted year, so Ada is skipped by validation.
	st.On("InsertRecord", mock.Anything, "user-1", "Grace Hopper", date(1906, 12, 9)).
		Return(engine.Record{ID: "g"}, nil).Once()
	st.On("InsertRecord", mock.Anything, "user-1", "Alan Turing", date(1912, 6, 23)).
		Return(engine.Record{}, errors.New("boom")).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	report, err := svc.Import(bg, strings.NewReader(addressBook))
	require.NoError(t, err)

	assert.Equal(t, birthdays.ImportReport{Added: 1, Skipped: 3, Failed: 1}, report)
	st.AssertExpectations(t)
}

func TestImport_NothingAddedSkipsRefresh(t *testing.T) {
	st := new(MockStore)
	svc := newService(st, &fakeSessions{session: ada})

	report, err := svc.Import(bg, strings.NewReader("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:X\r\nEND:VCARD\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	st.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestImport_SkipsNamelessCards(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", "Grace Hopper", date(1906, 12, 9)).
		Return(engine.Record{ID: "g"}, nil).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{}, nil).Once()

	input := "BEGIN:VCARD\r\nVERSION:3.0\r\nBDAY:1970-01-01\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:   \r\nBDAY:1980-02-02\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:19061209\r\nEND:VCARD\r\n"

	svc := newService(st, &fakeSessions{session: ada})
	report, err := svc.Import(bg, strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, birthdays.ImportReport{Added: 1, Skipped: 2}, report)
	st.AssertExpectations(t)
}

func TestImport_LostSessionAborts(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return(engine.Record{}, store.ErrNoSession).Once()

	sessions := &fakeSessions{session: ada}
	svc := newService(st, sessions)
	_, err := svc.Import(bg, strings.NewReader(addressBook))

	var aErr *birthdays.AuthError
	require.True(t, errors.As(err, &aErr))
	assert.True(t, sessions.invalidated)
	st.AssertNumberOfCalls(t, "InsertRecord", 1)
}

func TestImport_RequiresSession(t *testing.T) {
	svc := newService(new(MockStore), &fakeSessions{})
	_, err := svc.Import(bg, strings.NewReader(addressBook))

	var aErr *birthdays.AuthError
	assert.True(t, errors.As(err, &aErr))
}

// stubFetcher serves a fixed address book.
type stubFetcher struct {
	body string
	err  error
	book engine.AddressBook
}

func (f *stubFetcher) Fetch(_ context.Context, book engine.AddressBook) (io.ReadCloser, error) {
	f.book = book
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestImportAddressBook(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(engine.Record{ID: "x"}, nil)
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{}, nil).Once()

	f := &stubFetcher{body: addressBook}
	book := engine.AddressBook{URL: "https://dav.example.com/contacts.vcf", User: "me"}
	svc := newService(st, &fakeSessions{session: ada})

	report, err := svc.ImportAddressBook(bg, f, book)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, book, f.book)

	_, err = svc.ImportAddressBook(bg, &stubFetcher{err: errors.New("dns")}, book)
	assert.Error(t, err)
}

func TestExports(t *testing.T) {
	st := new(MockStore)
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{record}, nil)
	svc := newService(st, &fakeSessions{session: ada})

	var buf bytes.Buffer
	n, err := svc.ExportVCard(bg, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "FN:Ada")

	gen := &engine.Generator{Clock: engine.FixedClock(today)}
	ics, err := svc.ExportCalendar(bg, gen, engine.CalendarConfig{ReminderTrigger: "-P1D"})
	require.NoError(t, err)
	assert.Contains(t, string(ics), "DTSTART;VALUE=DATE:20250620")
	assert.Contains(t, string(ics), "TRIGGER:-P1D")
}

func TestExports_RequireSession(t *testing.T) {
	svc := newService(new(MockStore), &fakeSessions{})

	_, err := svc.ExportVCard(bg, io.Discard)
	var aErr *birthdays.AuthError
	assert.True(t, errors.As(err, &aErr))

	_, err = svc.ExportCalendar(bg, &engine.Generator{Clock: engine.FixedClock(today)}, engine.CalendarConfig{})
	assert.True(t, errors.As(err, &aErr))
}
