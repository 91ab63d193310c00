package birthdays

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

// Form is the state of the add/edit dialog. Zero Year, Month or Day mean the
// select has not been chosen yet. Forms are values; Reduce returns a new one.
type Form struct {
	Name  string
	Year  int
	Month time.Month
	Day   int
}

// Action is a user intent applied to a Form by Reduce.
type Action interface {
	apply(Form) Form
}

type (
	// SetName replaces the name as typed, untrimmed.
	SetName string

	SetYear int

	SetMonth time.Month

	SetDay int

	// SetDate fills the three date selects at once.
	SetDate time.Time

	// LoadRecord fills the form from an existing record.
	LoadRecord engine.Record

	// Reset empties the form.
	Reset struct{}
)

func (a SetName) apply(f Form) Form {
	f.Name = string(a)
	return f
}

func (a SetYear) apply(f Form) Form {
	f.Year = int(a)
	return f.clamp()
}

func (a SetMonth) apply(f Form) Form {
	f.Month = time.Month(a)
	return f.clamp()
}

func (a SetDay) apply(f Form) Form {
	f.Day = int(a)
	return f.clamp()
}

func (a SetDate) apply(f Form) Form {
	t := time.Time(a)
	f.Year, f.Month, f.Day = t.Year(), t.Month(), t.Day()
	return f
}

func (a LoadRecord) apply(Form) Form {
	return SetDate(a.DateOfBirth).apply(Form{Name: a.Name})
}

func (Reset) apply(Form) Form { return Form{} }

// Reduce returns the form that results from applying a to f.
func Reduce(f Form, a Action) Form {
	return a.apply(f)
}

// clamp keeps the day inside the selected month. Without a year, Feb 29 stays
// selectable.
func (f Form) clamp() Form {
	if f.Month == 0 || f.Day == 0 {
		return f
	}
	if last := daysInMonth(f.Year, f.Month); f.Day > last {
		f.Day = last
	}
	return f
}

func daysInMonth(year int, month time.Month) int {
	if year == 0 {
		year = config.DefaultLeapYear
	}
	return engine.DaysIn(year, month)
}

// Complete reports whether every field has a value.
func (f Form) Complete() bool {
	return strings.TrimSpace(f.Name) != "" && f.Year != 0 && f.Month != 0 && f.Day != 0
}

// Validate checks the whole form at submit time and returns the trimmed name and
// the date of birth.
func (f Form) Validate(now time.Time) (string, time.Time, error) {
	if !f.Complete() {
		return "", time.Time{}, invalid(config.FieldName, config.TKeyErrFillAll, config.MsgFillAllFields)
	}
	dob, ok := engine.CalendarDate(f.Year, f.Month, f.Day)
	if !ok {
		return "", time.Time{}, invalid(config.FieldDateOfBirth, config.TKeyErrDateInvalid, config.MsgDateInvalid)
	}
	name := strings.TrimSpace(f.Name)
	if err := ValidateInput(name, dob, now); err != nil {
		return "", time.Time{}, err
	}
	return name, dob, nil
}

// ValidateInput applies the record rules to an already assembled name and date.
// It expects a trimmed name: Form.Validate, Service.Add and Service.Edit trim
// before calling it.
func ValidateInput(name string, dateOfBirth, now time.Time) error {
	if name == "" || dateOfBirth.IsZero() {
		return invalid(config.FieldName, config.TKeyErrFillAll, config.MsgFillAllFields)
	}
	if utf8.RuneCountInString(name) > config.MaxNameLength {
		return invalid(config.FieldName, config.TKeyErrNameTooLong, config.MsgNameTooLong)
	}
	if dateOfBirth.Year() < config.MinBirthYear {
		return invalid(config.FieldDateOfBirth, config.TKeyErrDateTooOld, config.MsgDateTooOld)
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	by, bm, bd := dateOfBirth.Date()
	if time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).After(today) {
		return invalid(config.FieldDateOfBirth, config.TKeyErrDateFuture, config.MsgDateFuture)
	}
	return nil
}

// YearOptions lists selectable years, newest first.
func YearOptions(now time.Time) []int {
	years := make([]int, 0, now.Year()-config.MinBirthYear+1)
	for y := now.Year(); y >= config.MinBirthYear; y-- {
		years = append(years, y)
	}
	return years
}

// MonthOptions lists January through December.
func MonthOptions() []time.Month {
	months := make([]time.Month, 12)
	for i := range months {
		months[i] = time.Month(i + 1)
	}
	return months
}

// DayOptions lists the days of the form's month. Without a month all 31 days are
// offered; the reducer clamps once the month is known.
func DayOptions(f Form) []int {
	n := 31
	if f.Month != 0 {
		n = daysInMonth(f.Year, f.Month)
	}
	days := make([]int, n)
	for i := range days {
		days[i] = i + 1
	}
	return days
}
