package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/zalando/go-keyring"
)

// ShowImportFileDialog imports birthdays from a local vCard file.
func (app *GoBirthdaysApp) ShowImportFileDialog() {
	if app.listWindow == nil {
		return
	}

	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			app.showImportError(err)
			return
		}
		if r == nil {
			return
		}
		go func() {
			defer func() { _ = r.Close() }()
			report, err := app.Service.Import(app.Ctx, r)
			fyne.Do(func() { app.finishImport(report, err) })
		}()
	}, app.listWindow.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
	d.Show()
}

// ShowImportURLDialog downloads a vCard address book and imports it. The URL
// and user name are remembered in preferences, the password in the keyring.
func (app *GoBirthdaysApp) ShowImportURLDialog() {
	if app.listWindow == nil {
		return
	}

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder(config.PlaceholderURL)
	urlEntry.SetText(app.Preferences.String(config.PrefImportURL))
	urlEntry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(config.ErrInvalidURL)
		}
		return nil
	}

	userEntry := widget.NewEntry()
	userEntry.SetText(app.Preferences.String(config.PrefImportUser))

	passEntry := widget.NewPasswordEntry()
	if user := userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			passEntry.SetText(pwd)
		}
	}

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpImportURL)
	items := []*widget.FormItem{
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), passEntry),
	}

	d := dialog.NewForm(app.GetMsg(config.TKeyDlgImportURL), app.GetMsg(config.TKeyBtnImport), app.GetMsg(config.TKeyBtnCancel), items,
		func(ok bool) {
			if !ok {
				return
			}
			book := engine.AddressBook{
				URL:      strings.TrimSpace(urlEntry.Text),
				User:     userEntry.Text,
				Password: passEntry.Text,
			}
			app.rememberAddressBook(book)

			go func() {
				report, err := app.Service.ImportAddressBook(app.Ctx, app.Fetcher, book)
				fyne.Do(func() { app.finishImport(report, err) })
			}()
		}, app.listWindow.win)
	d.Resize(fyne.NewSize(config.DialogWidth, d.MinSize().Height))
	d.Show()
}

func (app *GoBirthdaysApp) rememberAddressBook(book engine.AddressBook) {
	app.Preferences.SetString(config.PrefImportURL, book.URL)
	app.Preferences.SetString(config.PrefImportUser, book.User)
	if book.User == "" || book.Password == "" {
		return
	}
	if err := keyring.Set(config.KeyringService, book.User, book.Password); err != nil {
		slog.Error(config.MsgCredsSaveFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
}

// finishImport reports the outcome. The list itself is refreshed by the
// service, which notifies the list window.
func (app *GoBirthdaysApp) finishImport(report birthdays.ImportReport, err error) {
	if err != nil {
		app.showImportError(err)
		return
	}
	app.toast(app.localize(config.TKeyToastImported, map[string]any{
		"Added":   report.Added,
		"Skipped": report.Skipped,
		"Failed":  report.Failed,
	}, nil, fmt.Sprintf(config.FallbackImported, report.Added, report.Skipped, report.Failed)))
}

func (app *GoBirthdaysApp) showImportError(err error) {
	var (
		aErr *birthdays.AuthError
		sErr *birthdays.StoreError
	)
	if errors.As(err, &aErr) || errors.As(err, &sErr) {
		app.showError(err)
		return
	}
	slog.Warn(config.ErrImportSource,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyError, err)
	app.toast(fmt.Sprintf("%s: %s", app.GetMsg(config.TKeyErrImport), err.Error()))
}

// ShowExportVCardDialog saves every birthday as a vCard 4.0 file.
func (app *GoBirthdaysApp) ShowExportVCardDialog() {
	app.saveFile(config.ExportVCardName, config.ExtVCF, func(w io.Writer) error {
		_, err := app.Service.ExportVCard(app.Ctx, w)
		return err
	})
}

// ShowExportCalendarDialog saves the same calendar the feed server publishes.
func (app *GoBirthdaysApp) ShowExportCalendarDialog() {
	app.saveFile(config.ExportICSName, config.ExtICS, func(w io.Writer) error {
		data, err := app.Service.ExportCalendar(app.Ctx, app.Publisher.Generator, app.calendarConfig())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

// saveFile asks for a destination and runs write on it off the UI thread.
func (app *GoBirthdaysApp) saveFile(name, ext string, write func(io.Writer) error) {
	if app.listWindow == nil {
		return
	}

	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			app.showExportError(err)
			return
		}
		if wc == nil {
			return
		}
		go func() {
			werr := write(wc)
			if cerr := wc.Close(); werr == nil {
				werr = cerr
			}
			file := wc.URI().Name()
			fyne.Do(func() {
				if werr != nil {
					app.showExportError(werr)
					return
				}
				slog.Info(config.MsgExportDone,
					config.LogKeyComponent, config.CompUI,
					config.LogKeyFile, file)
				app.toast(app.localize(config.TKeyToastExported, map[string]any{"File": file}, nil,
					fmt.Sprintf(config.FallbackExported, file)))
			})
		}()
	}, app.listWindow.win)
	d.SetFileName(name)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}

func (app *GoBirthdaysApp) showExportError(err error) {
	var aErr *birthdays.AuthError
	if errors.As(err, &aErr) {
		app.showError(err)
		return
	}
	slog.Error(config.ErrExportFile,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyError, err)
	app.toast(fmt.Sprintf("%s: %s", app.GetMsg(config.TKeyErrExport), app.errorMessage(err)))
}
