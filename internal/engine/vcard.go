package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-birthdays/internal/config"
)

// VCardContact is a contact read from an address book that carries a birthday.
type VCardContact struct {
	// Name is empty when the card has neither FN nor N.
	Name        string
	DateOfBirth time.Time

	// YearKnown is false for truncated dates such as --02-29.
	// DateOfBirth then uses config.DefaultLeapYear.
	YearKnown bool
}

// VCardImport is the outcome of parsing an address book stream.
type VCardImport struct {
	Contacts []VCardContact

	// Processed counts decoded cards, with or without a birthday.
	Processed int

	// Malformed counts cards the decoder rejected or whose BDAY was unreadable.
	Malformed int
}

// ParseVCards decodes every card of r and keeps those with a parseable BDAY.
// Malformed cards are logged and skipped; the stream is abandoned after
// config.MaxVCardDecodeErrors consecutive decoder errors.
func ParseVCards(r io.Reader) (VCardImport, error) {
	decoder := vcard.NewDecoder(r)
	var res VCardImport
	consecutive := 0

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Malformed++
			consecutive++
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			if consecutive >= config.MaxVCardDecodeErrors {
				slog.Error(config.MsgTooManyErrors, config.LogKeyComponent, config.CompEngine)
				return res, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			continue
		}
		consecutive = 0
		res.Processed++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			res.Malformed++
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}

		res.Contacts = append(res.Contacts, VCardContact{
			Name:        cardName(card),
			DateOfBirth: birthDate,
			YearKnown:   yearKnown,
		})
	}

	slog.Debug(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyTotal, res.Processed,
		config.LogKeyFound, len(res.Contacts))
	return res, nil
}

// cardName applies FN (Formatted) > N (Structured). A card with neither yields "".
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(config.VCardFN)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		parts := []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix}
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}
	return ""
}

// parseDate handles the vCard 3.0 and 4.0 date forms seen in the wild.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true, nil
		}
	}

	// Truncated dates: anchor on a leap year so --02-29 survives.
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}

// EncodeVCards writes one vCard 4.0 per record with UID, FN and BDAY.
func EncodeVCards(w io.Writer, records []Record) error {
	enc := vcard.NewEncoder(w)
	for _, r := range records {
		card := make(vcard.Card)
		card.SetValue(config.VCardUID, r.ID)
		card.SetValue(config.VCardFN, r.Name)
		card.SetValue(config.VCardBDAY, r.DateOfBirth.Format(config.DateFormatFullBasic))
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}
