package birthdays

import (
	"bytes"
	"log/slog"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

// FeedSink receives rendered feed documents.
type FeedSink interface {
	PublishCalendar(data []byte)
	PublishContacts(data []byte)
}

// FeedPublisher rebuilds the subscription feeds from each refreshed list.
// Register Publish with Service.OnRefresh.
type FeedPublisher struct {
	Sink      FeedSink
	Generator *engine.Generator

	// Config is read on every publish so reminder changes apply to the next build.
	Config func() engine.CalendarConfig
}

// Publish renders entries and pushes them to the sink. A nil list clears the
// feeds, which is what signing out should do.
func (p *FeedPublisher) Publish(entries []engine.BirthdayEntry) {
	records := engine.Records(entries)

	var cfg engine.CalendarConfig
	if p.Config != nil {
		cfg = p.Config()
	}

	ics, today, err := p.Generator.BuildCalendar(records, cfg)
	if err != nil {
		slog.Error(config.MsgFeedFailed,
			config.LogKeyComponent, config.CompService,
			config.LogKeyError, err)
		return
	}

	var vcf bytes.Buffer
	if err := engine.EncodeVCards(&vcf, records); err != nil {
		slog.Error(config.MsgFeedFailed,
			config.LogKeyComponent, config.CompService,
			config.LogKeyError, err)
		return
	}

	p.Sink.PublishCalendar(ics)
	p.Sink.PublishContacts(vcf.Bytes())

	slog.Debug(config.MsgFeedPublished,
		config.LogKeyComponent, config.CompService,
		config.LogKeyCount, len(records),
		config.LogKeyToday, today)
}
