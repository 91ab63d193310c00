// Package ui is the Fyne desktop front end: sign-in, the birthday list, the
// add/edit dialogs, settings and the system tray.
package ui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/server"
	"github.com/tartampluch/go-birthdays/internal/session"
	"github.com/tartampluch/go-birthdays/internal/store"
)

//go:embed Icon.png
var appIconData []byte

// Deps are the services the UI drives.
type Deps struct {
	Sessions *session.Holder
	Service  *birthdays.Service
	Server   *server.FeedServer
	Fetcher  engine.VCardFetcher
	Clock    engine.Clock
}

// GoBirthdaysApp holds the UI state and routes between windows following the
// session holder.
type GoBirthdaysApp struct {
	App         fyne.App
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Sessions  *session.Holder
	Service   *birthdays.Service
	Server    *server.FeedServer
	Fetcher   engine.VCardFetcher
	Clock     engine.Clock
	Publisher *birthdays.FeedPublisher

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayOpenItem     *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem
	TraySignOutItem  *fyne.MenuItem

	SupportedLanguages []string

	authWindow     *authWindow
	listWindow     *listWindow
	settingsWindow fyne.Window
	unsubscribe    func()
}

// NewGoBirthdaysApp wires the Fyne app with the birthday services.
func NewGoBirthdaysApp(ctx context.Context, a fyne.App, deps Deps) *GoBirthdaysApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	clock := deps.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}

	app := &GoBirthdaysApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Sessions:           deps.Sessions,
		Service:            deps.Service,
		Server:             deps.Server,
		Fetcher:            deps.Fetcher,
		Clock:              clock,
		SupportedLanguages: config.SupportedLanguages,
	}
	app.Publisher = &birthdays.FeedPublisher{
		Sink:      deps.Server,
		Generator: &engine.Generator{Clock: clock, FormatSummary: app.summaryFormatter()},
		Config:    app.calendarConfig,
	}
	return app
}

// Init loads translations and subscribes to session and list changes. Run calls
// it; tests call it directly.
func (app *GoBirthdaysApp) Init() {
	app.SetupI18n()
	app.Service.OnRefresh(app.Publisher.Publish)
	app.Service.OnRefresh(func(entries []engine.BirthdayEntry) {
		fyne.Do(func() { app.showEntries(entries) })
	})
	app.unsubscribe = app.Sessions.Subscribe(func(s *store.Session) {
		fyne.Do(func() { app.route(s) })
	})
}

// Run starts the feed server, the tray and the main loop.
func (app *GoBirthdaysApp) Run() {
	app.Init()
	defer app.unsubscribe()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyError, err)
			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported, config.LogKeyComponent, config.CompUI)
	}

	go app.restoreSession()
	go app.midnightWorker()
	app.App.Run()
}

// restoreSession shows the list for a restored session and the sign-in window
// otherwise.
func (app *GoBirthdaysApp) restoreSession() {
	s, err := app.Sessions.Load(app.Ctx)
	if err != nil {
		slog.Error(config.ErrVaultLoad,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
	if s == nil {
		fyne.Do(func() { app.route(nil) })
	}
}

// route reacts to a session transition. Signed out is a redirect, not an error.
func (app *GoBirthdaysApp) route(s *store.Session) {
	if s == nil {
		if app.listWindow != nil {
			app.listWindow.close()
		}
		app.Publisher.Publish(nil)
		app.updateTrayStatus(0)
		app.ShowAuthWindow()
		return
	}

	app.Preferences.SetString(config.PrefLastEmail, s.Email)
	if app.authWindow != nil {
		app.authWindow.close()
	}
	app.ShowListWindow()
	go app.refresh()
}

// refresh reloads the list. It blocks; UI callers run it on a goroutine.
func (app *GoBirthdaysApp) refresh() {
	fyne.Do(func() {
		if app.listWindow != nil {
			app.listWindow.setLoading(true)
		}
	})

	_, err := app.Service.Refresh(app.Ctx)
	fyne.Do(func() {
		if app.listWindow != nil {
			app.listWindow.setLoading(false)
		}
		if err != nil {
			app.updateTrayStatus(-1)
			app.showError(err)
		}
	})
}

// showEntries renders a freshly loaded list.
func (app *GoBirthdaysApp) showEntries(entries []engine.BirthdayEntry) {
	app.updateTrayStatus(engine.CountToday(entries))
	if app.listWindow != nil {
		app.listWindow.setEntries(entries)
	}
}

// calendarConfig reads the reminder preferences for the next feed build.
func (app *GoBirthdaysApp) calendarConfig() engine.CalendarConfig {
	if !app.Preferences.Bool(config.PrefReminderEnabled) {
		return engine.CalendarConfig{}
	}
	return engine.CalendarConfig{ReminderTrigger: engine.BuildTrigger(
		app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue),
		app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays),
		app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore),
	)}
}

// midnightWorker refreshes once the local date changes so tiers and the tray
// count follow the calendar.
func (app *GoBirthdaysApp) midnightWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	for {
		wait := untilMidnight(app.Clock.Now())
		log.Info(config.MsgWorkerStart, config.LogKeyNext, wait.String())

		timer := time.NewTimer(wait)
		select {
		case <-app.Ctx.Done():
			timer.Stop()
			log.Info(config.MsgWorkerStop)
			return
		case <-timer.C:
			if app.Sessions.Current() == nil {
				continue
			}
			log.Info(config.MsgMidnight)
			app.refresh()
		}
	}
}

// untilMidnight returns the time left before the next local midnight, plus a
// second so the new day has surely begun.
func untilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now) + time.Second
}

// setupTrayMenu builds the system tray menu.
func (app *GoBirthdaysApp) setupTrayMenu() {
	open := func() {
		if app.Sessions.Current() == nil {
			app.ShowAuthWindow()
			return
		}
		app.ShowListWindow()
	}
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, open)
	app.TrayOpenItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuOpen), open)

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		if app.Sessions.Current() != nil {
			go app.refresh()
		}
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.TraySignOutItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSignOut), func() {
		go app.signOut()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayOpenItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
		app.TraySignOutItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *GoBirthdaysApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayOpenItem.Label = app.GetMsg(config.TKeyMenuOpen)
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.TraySignOutItem.Label = app.GetMsg(config.TKeyMenuSignOut)
	app.Menu.Refresh()
}

// updateTrayStatus shows how many birthdays fall today. A negative count means
// the list could not be loaded.
func (app *GoBirthdaysApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	switch {
	case count < 0:
		app.TrayStatusItem.Label = config.FallbackTrayError
	case count == 0:
		app.TrayStatusItem.Label = app.localize(config.TKeyTrayStatusZero, nil, nil,
			fmt.Sprintf(config.FallbackTrayDefault, 0))
	default:
		app.TrayStatusItem.Label = app.localize(config.TKeyTrayStatus,
			map[string]any{"Count": count}, count,
			fmt.Sprintf(config.FallbackTrayDefault, count))
	}
	app.Menu.Refresh()
}

// signOut ends the session; the session listener takes care of the windows.
func (app *GoBirthdaysApp) signOut() {
	if err := app.Sessions.SignOut(app.Ctx); err != nil {
		slog.Warn(config.MsgLogoutFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
	fyne.Do(func() { app.toast(app.GetMsg(config.TKeyToastLoggedOut)) })
}

// toast shows a transient message: a desktop notification plus the status line
// of the list window when it is open.
func (app *GoBirthdaysApp) toast(msg string) {
	app.App.SendNotification(fyne.NewNotification(config.AppName, msg))
	if app.listWindow != nil {
		app.listWindow.setStatus(msg)
	}
}

// errorMessage turns a use case error into a localized sentence.
func (app *GoBirthdaysApp) errorMessage(err error) string {
	var (
		vErr *birthdays.ValidationError
		aErr *birthdays.AuthError
		sErr *birthdays.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		return app.localize(vErr.Key, nil, nil, vErr.Message)
	case errors.As(err, &aErr):
		return app.localize(config.TKeyErrNotLoggedIn, nil, nil, config.MsgNoSession)
	case errors.As(err, &sErr):
		return fmt.Sprintf("%s: %s", app.GetMsg(storeErrorKey(sErr.Op)), sErr.Message)
	case errors.Is(err, store.ErrInvalidCredentials):
		return app.localize(config.TKeyErrCredentials, nil, nil, err.Error())
	case errors.Is(err, store.ErrCredentialsRequired):
		return app.localize(config.TKeyErrCredsReq, nil, nil, err.Error())
	case errors.Is(err, store.ErrEmailTaken):
		return app.localize(config.TKeyErrEmailTaken, nil, nil, err.Error())
	}
	return err.Error()
}

func storeErrorKey(op string) string {
	switch op {
	case config.OpInsert:
		return config.TKeyErrAdd
	case config.OpUpdate:
		return config.TKeyErrUpdate
	default:
		return config.TKeyErrLoad
	}
}

// showError reports err as a toast. The action that failed is abandoned and the
// UI stays interactive.
func (app *GoBirthdaysApp) showError(err error) {
	slog.Warn(config.MsgStoreFail,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyError, err)
	app.toast(app.errorMessage(err))
}
