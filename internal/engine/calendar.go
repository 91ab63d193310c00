package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-birthdays/internal/config"
)

// CalendarConfig contains the optional parameters of a calendar build.
type CalendarConfig struct {
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D"), empty for no alarm
}

// Generator turns birthday records into an iCalendar document.
type Generator struct {
	Clock Clock // Interface for time mocking.

	// FormatSummary allows the UI to inject localized strings into the logic layer.
	// An age of 0 denotes the birth year itself.
	FormatSummary func(name string, age int) string
}

// BuildCalendar renders one all-day event per record for the previous, current and
// next year, skipping years before the person was born. It returns the ICS payload
// and the number of birthdays falling today.
func (g *Generator) BuildCalendar(records []Record, cfg CalendarConfig) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint for subscribed clients.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Local calendar date drives "today"; only the stamp is UTC.
	now := g.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	today := 0
	for _, r := range records {
		if NextOccurrence(r.DateOfBirth, now).DaysUntil == 0 {
			today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, r.Name,
				config.LogKeyDOB, r.DateOfBirth.Format(config.DateFormatFullDash))
		}

		for _, e := range g.createEvents(r, cfg.ReminderTrigger, now) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// An empty VCALENDAR without components is rejected by some clients,
	// and go-ical refuses to encode it.
	if len(cal.Children) == 0 {
		g.logSuccess(len(records), 0)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(len(records), today)
	return buf.Bytes(), today, nil
}

func (g *Generator) logSuccess(total, today int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, total),
			slog.Int(config.LogKeyToday, today),
		),
	)
}

// createEvents generates the events of one record for CurrentYear-1..CurrentYear+1.
func (g *Generator) createEvents(r Record, reminderTrigger string, now time.Time) []*ical.Event {
	currentYear := now.Year()
	loc := now.Location()
	birthYear := r.DateOfBirth.Year()

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if y < birthYear {
			continue
		}

		age := y - birthYear
		summary := g.summary(r.Name, age)

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, r.ID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(anniversary(r.DateOfBirth, y, loc))
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events
}

func (g *Generator) summary(name string, age int) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(name, age)
	}
	if age == 0 {
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	}
	return fmt.Sprintf(config.FallbackSummaryAge, name, age)
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value: SetText would add VALUE=TEXT, which clients reject for TRIGGER.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// BuildTrigger converts a reminder preference into an ISO8601 TRIGGER duration.
// It returns "" when value is not positive.
func BuildTrigger(value int, unit, direction string) string {
	if value <= 0 {
		return ""
	}

	prefix := config.ISONegativePrefix
	if direction == config.DirAfter {
		prefix = config.ISOPeriodPrefix
	}

	switch unit {
	case config.UnitHours:
		return fmt.Sprintf("%sT%d%s", prefix, value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%sT%d%s", prefix, value, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", prefix, value, config.ISODay)
	}
}
