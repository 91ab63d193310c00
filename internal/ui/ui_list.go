package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

// listWindow shows the signed-in user's birthdays, soonest first.
type listWindow struct {
	win     fyne.Window
	entries []engine.BirthdayEntry
	list    *widget.List
	empty   *widget.Label
	loading *widget.ProgressBarInfinite
	status  *widget.Label

	loadingMsg string
}

// birthdayCard is one row of the list.
type birthdayCard struct {
	widget.BaseWidget
	name   *widget.Label
	detail *widget.Label
	days   *widget.Label
}

func newBirthdayCard() *birthdayCard {
	c := &birthdayCard{
		name:   widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		detail: widget.NewLabel(""),
		days:   widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
	}
	c.ExtendBaseWidget(c)
	return c
}

func (c *birthdayCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, c.days, container.NewVBox(c.name, c.detail)))
}

// tierImportance colours the countdown by tier.
func tierImportance(t engine.Tier) widget.Importance {
	switch t {
	case engine.TierToday:
		return widget.HighImportance
	case engine.TierSoon:
		return widget.WarningImportance
	default:
		return widget.LowImportance
	}
}

// fillCard renders e: name, "January 2, 2006 · Turning N years old" and the countdown.
func (app *GoBirthdaysApp) fillCard(c *birthdayCard, e engine.BirthdayEntry) {
	c.name.SetText(e.Name)
	c.detail.SetText(app.formatDate(e.NextOccurrence) + " · " + app.turningLabel(e.AgeNext))
	c.days.Importance = tierImportance(e.Tier)
	c.days.SetText(app.daysLabel(e.DaysUntil))
}

// ShowListWindow opens the birthday list, or focuses it when already open.
func (app *GoBirthdaysApp) ShowListWindow() {
	if app.listWindow != nil {
		app.listWindow.win.RequestFocus()
		return
	}
	slog.Info(config.MsgOpenList, config.LogKeyComponent, config.CompUI)

	lw := &listWindow{
		win:        app.App.NewWindow(app.GetMsg(config.TKeyWinTitle)),
		loadingMsg: app.GetMsg(config.TKeyLoading),
	}
	app.listWindow = lw

	lw.list = widget.NewList(
		func() int { return len(lw.entries) },
		func() fyne.CanvasObject { return newBirthdayCard() },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(lw.entries) {
				return
			}
			app.fillCard(o.(*birthdayCard), lw.entries[id])
		},
	)
	lw.list.OnSelected = func(id widget.ListItemID) {
		lw.list.UnselectAll()
		if id < len(lw.entries) {
			app.ShowEditDialog(lw.entries[id].Record)
		}
	}

	lw.empty = widget.NewLabelWithStyle(app.GetMsg(config.TKeyEmptyList), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	lw.empty.Wrapping = fyne.TextWrapWord
	lw.empty.Hide()

	lw.loading = widget.NewProgressBarInfinite()
	lw.loading.Stop()
	lw.loading.Hide()

	lw.status = widget.NewLabel("")
	lw.status.Truncation = fyne.TextTruncateEllipsis

	header := widget.NewLabelWithStyle(app.GetMsg(config.TKeyHeaderUpcoming), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	btnAdd := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnAdd), theme.ContentAddIcon(), app.ShowAddDialog)
	btnAdd.Importance = widget.HighImportance
	btnSettings := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSettings), theme.SettingsIcon(), app.ShowSettingsWindow)
	btnLogout := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnLogout), theme.LogoutIcon(), func() { go app.signOut() })

	top := container.NewBorder(nil, nil, header, container.NewHBox(btnAdd, btnSettings, btnLogout))
	bottom := container.NewVBox(lw.loading, lw.status)
	body := container.NewStack(lw.list, container.NewCenter(lw.empty))

	lw.win.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu(app.GetMsg(config.TKeyMenuFile),
		fyne.NewMenuItem(app.GetMsg(config.TKeyBtnImport), app.ShowImportFileDialog),
		fyne.NewMenuItem(app.GetMsg(config.TKeyBtnImportURL), app.ShowImportURLDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(app.GetMsg(config.TKeyBtnExportVCard), app.ShowExportVCardDialog),
		fyne.NewMenuItem(app.GetMsg(config.TKeyBtnExportICS), app.ShowExportCalendarDialog),
	)))

	lw.win.SetContent(container.NewPadded(container.NewBorder(top, bottom, nil, nil, body)))
	lw.win.Resize(fyne.NewSize(config.ListWindowWidth, config.ListWindowHeight))
	lw.win.SetOnClosed(func() { app.listWindow = nil })
	lw.win.Show()
}

func (lw *listWindow) setEntries(entries []engine.BirthdayEntry) {
	lw.entries = entries
	if len(entries) == 0 {
		lw.empty.Show()
	} else {
		lw.empty.Hide()
	}
	lw.list.Refresh()
}

func (lw *listWindow) setLoading(loading bool) {
	if loading {
		lw.status.SetText(lw.loadingMsg)
		lw.loading.Show()
		lw.loading.Start()
		return
	}
	lw.loading.Stop()
	lw.loading.Hide()
	if lw.status.Text == lw.loadingMsg {
		lw.status.SetText("")
	}
}

func (lw *listWindow) setStatus(msg string) {
	lw.status.SetText(msg)
}

func (lw *listWindow) close() {
	lw.win.Close()
}
