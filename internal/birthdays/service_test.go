package birthdays_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// MockStore simulates a record store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListRecords(ctx context.Context, owner string) ([]engine.Record, error) {
	args := m.Called(ctx, owner)
	records, _ := args.Get(0).([]engine.Record)
	return records, args.Error(1)
}

func (m *MockStore) InsertRecord(ctx context.Context, owner, name string, dob time.Time) (engine.Record, error) {
	args := m.Called(ctx, owner, name, dob)
	return args.Get(0).(engine.Record), args.Error(1)
}

func (m *MockStore) UpdateRecord(ctx context.Context, id, name string, dob time.Time) (engine.Record, error) {
	args := m.Called(ctx, id, name, dob)
	return args.Get(0).(engine.Record), args.Error(1)
}

// fakeSessions is a fixed session holder.
type fakeSessions struct {
	session     *store.Session
	invalidated bool
}

func (f *fakeSessions) Current() *store.Session { return f.session }

func (f *fakeSessions) Invalidate() {
	f.session = nil
	f.invalidated = true
}

var (
	today  = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	ada    = &store.Session{UserID: "user-1", Email: "ada@example.com"}
	bg     = context.Background()
	record = engine.Record{ID: "r1", Name: "Ada", DateOfBirth: date(1990, 6, 20)}
)

func newService(st *MockStore, sess *fakeSessions) *birthdays.Service {
	return birthdays.NewService(st, sess, engine.FixedClock(today))
}

func TestRefresh_OrdersAndNotifies(t *testing.T) {
	st := new(MockStore)
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{
		{ID: "a", Name: "Later", DateOfBirth: date(1980, 1, 1)},
		{ID: "b", Name: "Today", DateOfBirth: date(1990, 6, 15)},
	}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	var notified []engine.BirthdayEntry
	svc.OnRefresh(func(entries []engine.BirthdayEntry) { notified = entries })

	entries, err := svc.Refresh(bg)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Today", entries[0].Name)
	assert.Equal(t, engine.TierToday, entries[0].Tier)
	assert.Equal(t, entries, notified)
	st.AssertExpectations(t)
}

func TestRefresh_RequiresSession(t *testing.T) {
	st := new(MockStore)
	svc := newService(st, &fakeSessions{})

	_, err := svc.Refresh(bg)
	var aErr *birthdays.AuthError
	require.True(t, errors.As(err, &aErr))
	assert.ErrorIs(t, err, store.ErrNoSession)
	st.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestRefresh_StoreError(t *testing.T) {
	st := new(MockStore)
	st.On("ListRecords", mock.Anything, "user-1").
		Return(nil, &store.APIError{Status: 500, Message: "database is down"})

	svc := newService(st, &fakeSessions{session: ada})
	called := false
	svc.OnRefresh(func([]engine.BirthdayEntry) { called = true })

	_, err := svc.Refresh(bg)
	var sErr *birthdays.StoreError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, config.OpList, sErr.Op)
	assert.Equal(t, "database is down", sErr.Message)
	assert.False(t, called, "Listeners only see successful loads")
}

func TestAdd_EmptyNameMakesNoStoreCall(t *testing.T) {
	st := new(MockStore)
	svc := newService(st, &fakeSessions{session: ada})

	_, err := svc.Add(bg, "", date(1990, 1, 1))

	var vErr *birthdays.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, config.FieldName, vErr.Field)
	st.AssertNotCalled(t, "InsertRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestAdd_BlankNameMakesNoStoreCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Spaces", "   "},
		{"Tabs_And_Newline", "\t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(MockStore)
			svc := newService(st, &fakeSessions{session: ada})

			_, err := svc.Add(bg, tt.input, date(1990, 1, 1))

			var vErr *birthdays.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, config.FieldName, vErr.Field)
			st.AssertNotCalled(t, "InsertRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAdd_StoresTrimmedName(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", "Bob", date(1990, 6, 20)).
		Return(engine.Record{ID: "b", Name: "Bob", DateOfBirth: date(1990, 6, 20)}, nil).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	_, err := svc.Add(bg, "  Bob ", date(1990, 6, 20))
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestEdit_StoresTrimmedName(t *testing.T) {
	st := new(MockStore)
	st.On("UpdateRecord", mock.Anything, "r1", "Ada King", date(1990, 6, 21)).
		Return(engine.Record{ID: "r1", Name: "Ada King", DateOfBirth: date(1990, 6, 21)}, nil).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	_, err := svc.Edit(bg, "r1", "\tAda King  ", date(1990, 6, 21))
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestEdit_BlankNameMakesNoStoreCall(t *testing.T) {
	st := new(MockStore)
	svc := newService(st, &fakeSessions{session: ada})

	_, err := svc.Edit(bg, "r1", "  ", date(1990, 6, 21))

	var vErr *birthdays.ValidationError
	require.True(t, errors.As(err, &vErr))
	st.AssertNotCalled(t, "UpdateRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdd_InsertsOnceAndRefreshesOnce(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", "Ada", date(1990, 6, 20)).Return(record, nil).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{record}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	refreshes := 0
	svc.OnRefresh(func([]engine.BirthdayEntry) { refreshes++ })

	rec, err := svc.Add(bg, "Ada", date(1990, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, record, rec)
	assert.Equal(t, 1, refreshes)
	st.AssertNumberOfCalls(t, "InsertRecord", 1)
	st.AssertNumberOfCalls(t, "ListRecords", 1)
}

func TestAdd_RequiresSession(t *testing.T) {
	st := new(MockStore)
	svc := newService(st, &fakeSessions{})

	_, err := svc.Add(bg, "Ada", date(1990, 6, 20))
	var aErr *birthdays.AuthError
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, config.MsgNoSession, err.Error())
	st.AssertNotCalled(t, "InsertRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdd_StoreFailureSkipsRefresh(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", "Ada", mock.Anything).
		Return(engine.Record{}, &store.APIError{Status: 400, Code: "23514", Message: "new row violates check constraint"})

	svc := newService(st, &fakeSessions{session: ada})
	_, err := svc.Add(bg, "Ada", date(1990, 6, 20))

	var sErr *birthdays.StoreError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, config.OpInsert, sErr.Op)
	assert.Equal(t, "new row violates check constraint", sErr.Message)
	st.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestAdd_LostSessionInvalidates(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", "Ada", mock.Anything).
		Return(engine.Record{}, store.ErrNoSession)

	sessions := &fakeSessions{session: ada}
	svc := newService(st, sessions)
	_, err := svc.Add(bg, "Ada", date(1990, 6, 20))

	var aErr *birthdays.AuthError
	require.True(t, errors.As(err, &aErr))
	assert.True(t, sessions.invalidated)
}

func TestEdit(t *testing.T) {
	updated := engine.Record{ID: "r1", Name: "Ada King", DateOfBirth: date(1990, 6, 21)}

	st := new(MockStore)
	st.On("UpdateRecord", mock.Anything, "r1", "Ada King", date(1990, 6, 21)).Return(updated, nil).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{updated}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	rec, err := svc.Edit(bg, "r1", "Ada King", date(1990, 6, 21))
	require.NoError(t, err)
	assert.Equal(t, updated, rec)
	st.AssertExpectations(t)
}

func TestEdit_Failures(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		st := new(MockStore)
		svc := newService(st, &fakeSessions{session: ada})

		_, err := svc.Edit(bg, "r1", strings.Repeat("x", 101), date(1990, 1, 1))
		var vErr *birthdays.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, config.TKeyErrNameTooLong, vErr.Key)
		st.AssertNotCalled(t, "UpdateRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		st := new(MockStore)
		st.On("UpdateRecord", mock.Anything, "gone", "Ada", mock.Anything).Return(engine.Record{}, store.ErrNotFound)
		svc := newService(st, &fakeSessions{session: ada})

		_, err := svc.Edit(bg, "gone", "Ada", date(1990, 1, 1))
		var sErr *birthdays.StoreError
		require.True(t, errors.As(err, &sErr))
		assert.Equal(t, config.OpUpdate, sErr.Op)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, config.MsgNotFound, sErr.Message)
		st.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
	})

	t.Run("No session", func(t *testing.T) {
		st := new(MockStore)
		svc := newService(st, &fakeSessions{})

		_, err := svc.Edit(bg, "r1", "Ada", date(1990, 1, 1))
		var aErr *birthdays.AuthError
		require.True(t, errors.As(err, &aErr))
	})
}

func TestEditor_SubmitAddResets(t *testing.T) {
	st := new(MockStore)
	st.On("InsertRecord", mock.Anything, "user-1", "Ada", date(1990, 6, 20)).Return(record, nil).Once()
	st.On("ListRecords", mock.Anything, "user-1").Return([]engine.Record{record}, nil).Once()

	svc := newService(st, &fakeSessions{session: ada})
	ed := svc.NewEditor()
	assert.False(t, ed.Editing())

	ed.Dispatch(birthdays.SetName(" Ada "))
	ed.Dispatch(birthdays.SetYear(1990))
	ed.Dispatch(birthdays.SetMonth(time.June))
	ed.Dispatch(birthdays.SetDay(20))

	_, err := ed.Submit(bg)
	require.NoError(t, err)
	assert.Equal(t, birthdays.Form{}, ed.Form())
	st.AssertExpectations(t)
}

func TestEditor_SubmitInvalidKeepsState(t *testing.T) {
	st := new(MockStore)
	svc := newService(st, &fakeSessions{session: ada})
	ed := svc.NewEditor()
	ed.Dispatch(birthdays.SetYear(1990))

	_, err := ed.Submit(bg)
	var vErr *birthdays.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, config.TKeyErrFillAll, vErr.Key)
	assert.Equal(t, 1990, ed.Form().Year, "Input survives a rejected submit")
	st.AssertNotCalled(t, "InsertRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEditor_SubmitStoreErrorKeepsState(t *testing.T) {
	st := new(MockStore)
	st.On("UpdateRecord", mock.Anything, "r1", "Ada", date(1990, 6, 20)).
		Return(engine.Record{}, errors.New("network error"))

	svc := newService(st, &fakeSessions{session: ada})
	ed := svc.EditorFor(record)
	assert.True(t, ed.Editing())
	assert.Equal(t, "Ada", ed.Form().Name)

	_, err := ed.Submit(bg)
	require.Error(t, err)
	assert.Equal(t, "Ada", ed.Form().Name)
}
