package birthdays_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReduce_ClampsDay(t *testing.T) {
	tests := []struct {
		name    string
		start   birthdays.Form
		action  birthdays.Action
		wantDay int
	}{
		{"Month change to February", birthdays.Form{Year: 2023, Month: time.January, Day: 31}, birthdays.SetMonth(time.February), 28},
		{"Month change to April", birthdays.Form{Year: 2023, Month: time.March, Day: 31}, birthdays.SetMonth(time.April), 30},
		{"Common year clamps Feb 29", birthdays.Form{Year: 2023, Month: time.February, Day: 28}, birthdays.SetDay(29), 28},
		{"Year change drops Feb 29", birthdays.Form{Year: 2024, Month: time.February, Day: 29}, birthdays.SetYear(2023), 28},
		{"No year allows Feb 29", birthdays.Form{Month: time.February}, birthdays.SetDay(29), 29},
		{"Day without month is kept", birthdays.Form{}, birthdays.SetDay(31), 31},
		{"Valid day untouched", birthdays.Form{Year: 2023, Month: time.May, Day: 15}, birthdays.SetMonth(time.June), 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := birthdays.Reduce(tt.start, tt.action)
			assert.Equal(t, tt.wantDay, got.Day)
		})
	}
}

func TestReduce_Immutable(t *testing.T) {
	start := birthdays.Form{Name: "Ada"}
	next := birthdays.Reduce(start, birthdays.SetName("Grace"))

	assert.Equal(t, "Ada", start.Name)
	assert.Equal(t, "Grace", next.Name)
}

func TestReduce_LoadAndReset(t *testing.T) {
	f := birthdays.Reduce(birthdays.Form{Name: "draft", Day: 3}, birthdays.LoadRecord(engine.Record{
		ID: "r1", Name: "Ada Lovelace", DateOfBirth: date(1815, 12, 10),
	}))
	assert.Equal(t, birthdays.Form{Name: "Ada Lovelace", Year: 1815, Month: time.December, Day: 10}, f)

	f = birthdays.Reduce(f, birthdays.SetDate(date(2000, 2, 29)))
	assert.Equal(t, birthdays.Form{Name: "Ada Lovelace", Year: 2000, Month: time.February, Day: 29}, f)

	assert.Equal(t, birthdays.Form{}, birthdays.Reduce(f, birthdays.Reset{}))
}

func TestForm_Validate(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		form    birthdays.Form
		wantKey string
	}{
		{"Empty", birthdays.Form{}, config.TKeyErrFillAll},
		{"Whitespace name", birthdays.Form{Name: "   ", Year: 1990, Month: 1, Day: 1}, config.TKeyErrFillAll},
		{"Missing day", birthdays.Form{Name: "Ada", Year: 1990, Month: 1}, config.TKeyErrFillAll},
		{"Too long", birthdays.Form{Name: strings.Repeat("a", 101), Year: 1990, Month: 1, Day: 1}, config.TKeyErrNameTooLong},
		{"Impossible date", birthdays.Form{Name: "Ada", Year: 2023, Month: 2, Day: 29}, config.TKeyErrDateInvalid},
		{"Before 1900", birthdays.Form{Name: "Ada", Year: 1899, Month: 12, Day: 31}, config.TKeyErrDateTooOld},
		{"Tomorrow", birthdays.Form{Name: "Ada", Year: 2025, Month: 6, Day: 16}, config.TKeyErrDateFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.form.Validate(now)
			var vErr *birthdays.ValidationError
			require.True(t, errors.As(err, &vErr), "expected a ValidationError, got %v", err)
			assert.Equal(t, tt.wantKey, vErr.Key)
			assert.NotEmpty(t, vErr.Message)
		})
	}
}

func TestForm_Validate_Accepts(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	name, dob, err := birthdays.Form{Name: "  Ada  ", Year: 2025, Month: 6, Day: 15}.Validate(now)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, date(2025, 6, 15), dob, "Today is not in the future")

	name, _, err = birthdays.Form{Name: strings.Repeat("é", 100), Year: 1900, Month: 1, Day: 1}.Validate(now)
	require.NoError(t, err, "100 characters are allowed even when they take 200 bytes")
	assert.Len(t, []rune(name), 100)
}

func TestValidateInput_UsesLocalToday(t *testing.T) {
	// Late on June 14th in New York it is already June 15th in UTC.
	ny := time.FixedZone("EDT", -4*3600)
	now := time.Date(2025, 6, 14, 22, 0, 0, 0, ny)

	assert.Error(t, birthdays.ValidateInput("Ada", date(2025, 6, 15), now))
	assert.NoError(t, birthdays.ValidateInput("Ada", date(2025, 6, 14), now))
}

func TestOptions(t *testing.T) {
	now := date(2025, 3, 1)

	years := birthdays.YearOptions(now)
	require.Len(t, years, 2025-1900+1)
	assert.Equal(t, 2025, years[0])
	assert.Equal(t, 1900, years[len(years)-1])

	months := birthdays.MonthOptions()
	require.Len(t, months, 12)
	assert.Equal(t, time.January, months[0])
	assert.Equal(t, time.December, months[11])

	assert.Len(t, birthdays.DayOptions(birthdays.Form{}), 31)
	assert.Len(t, birthdays.DayOptions(birthdays.Form{Month: time.February}), 29)
	assert.Len(t, birthdays.DayOptions(birthdays.Form{Year: 2025, Month: time.February}), 28)
	assert.Len(t, birthdays.DayOptions(birthdays.Form{Year: 2025, Month: time.September}), 30)
}
