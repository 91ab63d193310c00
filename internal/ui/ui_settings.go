package ui

import (
	"errors"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-birthdays/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	entryPort     *NumericalEntry
	checkReminder *widget.Check
	entryRemValue *NumericalEntry
	selectRemUnit *widget.Select
	selectRemDir  *widget.Select
}

// ShowSettingsWindow displays the preferences: language, feed port and the
// calendar reminder.
func (app *GoBirthdaysApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenSettings, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := &settingsWidgets{}

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.entryPort = NewNumericalEntry(len(strconv.Itoa(config.MaxPort)))
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, app.Server.Port))
	sw.entryPort.Validator = app.validatePort

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalForm := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect),
		itemPort,
	)
	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", generalForm)

	sw.checkReminder = widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), nil)
	sw.checkReminder.Checked = app.Preferences.Bool(config.PrefReminderEnabled)

	// Empty disables reminders on save.
	sw.entryRemValue = NewNumericalEntry(config.MaxReminderDigits)
	sw.entryRemValue.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)))

	sw.selectRemUnit = widget.NewSelect(app.unitLabels(), nil)
	sw.selectRemUnit.SetSelectedIndex(indexOf(reminderUnits,
		app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays)))

	sw.selectRemDir = widget.NewSelect(app.dirLabels(), nil)
	sw.selectRemDir.SetSelectedIndex(indexOf(reminderDirs,
		app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore)))

	notifCard := app.buildNotifCard(sw, onLayoutChange)

	saveAction := func() {
		// The port is the only field that blocks saving.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), w.Close)

	footerLabel := widget.NewLabel(app.localize(config.TKeyLblFooter,
		map[string]any{"Version": config.Version}, nil, config.AppName+" "+config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		notifCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

var (
	reminderUnits = []string{config.UnitDays, config.UnitHours, config.UnitMinutes}
	reminderDirs  = []string{config.DirBefore, config.DirAfter}
)

func (app *GoBirthdaysApp) unitLabels() []string {
	return []string{
		app.GetMsg(config.TKeyUnitDays),
		app.GetMsg(config.TKeyUnitHours),
		app.GetMsg(config.TKeyUnitMinutes),
	}
}

func (app *GoBirthdaysApp) dirLabels() []string {
	return []string{app.GetMsg(config.TKeyDirBefore), app.GetMsg(config.TKeyDirAfter)}
}

// indexOf returns the position of v in values, or 0 so the first option is the
// default.
func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return 0
}

// validatePort applies the same rules as the environment setting, with
// translated messages.
func (app *GoBirthdaysApp) validatePort(s string) error {
	err := config.ValidatePort(s)
	if err == nil {
		return nil
	}
	key := config.TKeyErrPortRange
	switch err.Error() {
	case config.ErrPortRequired:
		key = config.TKeyErrPortReq
	case config.ErrPortNumber:
		key = config.TKeyErrPortNum
	}
	return errors.New(app.localize(key, nil, nil, err.Error()))
}

// buildNotifCard lays out the reminder row: value, unit and direction.
func (app *GoBirthdaysApp) buildNotifCard(sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	controls := container.NewHBox(sw.selectRemUnit, sw.selectRemDir)
	row := container.NewBorder(nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblReminder)), controls, sw.entryRemValue)

	setVisible := func(b bool) {
		if b {
			row.Show()
		} else {
			row.Hide()
		}
	}
	sw.checkReminder.OnChanged = func(b bool) {
		setVisible(b)
		onLayoutChange()
	}
	setVisible(sw.checkReminder.Checked)

	return widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(sw.checkReminder, row))
}

// saveSettings persists the preferences and applies them. A new port takes
// effect at the next start; language and reminder changes apply now.
func (app *GoBirthdaysApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSavePrefs, config.LogKeyComponent, config.CompUISet)

	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}
	app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)

	// An empty value disables reminders even when the box is checked.
	remValue, err := strconv.Atoi(sw.entryRemValue.Text)
	if err != nil || remValue == 0 {
		app.Preferences.SetBool(config.PrefReminderEnabled, false)
		if sw.checkReminder.Checked {
			slog.Info(config.MsgRemindersOff, config.LogKeyComponent, config.CompUISet)
		}
	} else {
		app.Preferences.SetBool(config.PrefReminderEnabled, sw.checkReminder.Checked)
		app.Preferences.SetInt(config.PrefReminderValue, remValue)
	}

	if i := sw.selectRemUnit.SelectedIndex(); i >= 0 {
		app.Preferences.SetString(config.PrefReminderUnit, reminderUnits[i])
	}
	if i := sw.selectRemDir.SelectedIndex(); i >= 0 {
		app.Preferences.SetString(config.PrefReminderDir, reminderDirs[i])
	}

	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	if app.Sessions.Current() != nil {
		go app.refresh()
	}
}
