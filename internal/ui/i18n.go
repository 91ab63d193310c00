package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-birthdays/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// SetupI18n loads every embedded locale and detects the available languages.
func (app *GoBirthdaysApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err)
		return
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name)
			continue
		}

		lang := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if lang == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err)
			continue
		}
		detected = append(detected, lang)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, lang)
	}

	app.SupportedLanguages = detected
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer follows the language preference.
func (app *GoBirthdaysApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg translates key, or returns key itself when no translation exists.
func (app *GoBirthdaysApp) GetMsg(key string) string {
	return app.localize(key, nil, nil, key)
}

// localize renders a message with template data and an optional plural count.
// fallback is returned when the key is missing.
func (app *GoBirthdaysApp) localize(key string, data map[string]any, count any, fallback string) string {
	if app.Localizer == nil {
		return fallback
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  count,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err)
		return fallback
	}
	return msg
}

// monthName returns the localized name of m.
func (app *GoBirthdaysApp) monthName(m time.Month) string {
	return app.localize(config.TKeyMonthPrefix+strconv.Itoa(int(m)), nil, nil, m.String())
}

// formatDate renders a calendar date in the long localized form.
func (app *GoBirthdaysApp) formatDate(t time.Time) string {
	return app.localize(config.TKeyFormatDate, map[string]any{
		"Day":   t.Day(),
		"Month": app.monthName(t.Month()),
		"Year":  t.Year(),
	}, nil, t.Format(config.DateFormatDisplay))
}

// daysLabel renders "Today!" or a pluralised day count.
func (app *GoBirthdaysApp) daysLabel(days int) string {
	if days == 0 {
		return app.localize(config.TKeyCardToday, nil, nil, config.FallbackToday)
	}
	fallback := fmt.Sprintf(config.FallbackDays, days)
	if days == 1 {
		fallback = fmt.Sprintf(config.FallbackDay, days)
	}
	return app.localize(config.TKeyCardDays, map[string]any{"Count": days}, days, fallback)
}

// turningLabel renders "Turning N years old".
func (app *GoBirthdaysApp) turningLabel(age int) string {
	return app.localize(config.TKeyCardTurning, map[string]any{"Age": age}, age,
		fmt.Sprintf(config.FallbackTurning, age))
}

// summaryFormatter localizes calendar event titles. Age 0 is the birth itself.
func (app *GoBirthdaysApp) summaryFormatter() func(name string, age int) string {
	return func(name string, age int) string {
		if age == 0 {
			return app.localize(config.TKeyEvtSummaryBirth, map[string]any{"Name": name}, nil,
				fmt.Sprintf(config.FallbackSummaryBirth, name))
		}
		return app.localize(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age}, nil,
			fmt.Sprintf(config.FallbackSummaryAge, name, age))
	}
}
