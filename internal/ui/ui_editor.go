package ui

import (
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

// editorDialog binds the widgets of the add/edit dialog to a birthdays.Editor.
// Every change goes through Dispatch and the widgets re-render from the
// returned form, so the clamped day always shows.
type editorDialog struct {
	app *GoBirthdaysApp
	ed  *birthdays.Editor
	dlg *dialog.CustomDialog

	name     *widget.Entry
	year     *widget.Select
	month    *widget.Select
	day      *widget.Select
	errLabel *widget.Label
	save     *widget.Button

	years   []int
	syncing bool
}

// ShowAddDialog opens an empty birthday form.
func (app *GoBirthdaysApp) ShowAddDialog() {
	_ = app.showEditor(app.Service.NewEditor())
}

// ShowEditDialog opens the form pre-filled with r.
func (app *GoBirthdaysApp) ShowEditDialog(r engine.Record) {
	_ = app.showEditor(app.Service.EditorFor(r))
}

func (app *GoBirthdaysApp) showEditor(ed *birthdays.Editor) *editorDialog {
	if app.listWindow == nil {
		return nil
	}

	title, desc, saveKey := config.TKeyDlgAddTitle, config.TKeyDlgAddDesc, config.TKeyBtnSave
	if ed.Editing() {
		title, desc, saveKey = config.TKeyDlgEditTitle, config.TKeyDlgEditDesc, config.TKeyBtnUpdate
	}

	d := &editorDialog{app: app, ed: ed, years: birthdays.YearOptions(app.Service.Now())}

	d.name = widget.NewEntry()
	d.name.SetPlaceHolder(app.GetMsg(config.TKeyPlaceholderName))
	d.name.OnChanged = func(s string) {
		if !d.syncing {
			d.ed.Dispatch(birthdays.SetName(s))
		}
	}

	yearLabels := make([]string, len(d.years))
	for i, y := range d.years {
		yearLabels[i] = strconv.Itoa(y)
	}
	d.year = widget.NewSelect(yearLabels, func(string) {
		if !d.syncing {
			d.render(d.ed.Dispatch(birthdays.SetYear(d.years[d.year.SelectedIndex()])))
		}
	})
	d.year.PlaceHolder = app.GetMsg(config.TKeyLblYear)

	months := birthdays.MonthOptions()
	monthLabels := make([]string, len(months))
	for i, m := range months {
		monthLabels[i] = app.monthName(m)
	}
	d.month = widget.NewSelect(monthLabels, func(string) {
		if !d.syncing {
			d.render(d.ed.Dispatch(birthdays.SetMonth(months[d.month.SelectedIndex()])))
		}
	})
	d.month.PlaceHolder = app.GetMsg(config.TKeyLblMonth)

	d.day = widget.NewSelect(nil, func(s string) {
		if d.syncing {
			return
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			d.render(d.ed.Dispatch(birthdays.SetDay(n)))
		}
	})
	d.day.PlaceHolder = app.GetMsg(config.TKeyLblDay)

	d.errLabel = widget.NewLabel("")
	d.errLabel.Importance = widget.DangerImportance
	d.errLabel.Wrapping = fyne.TextWrapWord
	d.errLabel.Hide()

	d.render(ed.Form())

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblName), d.name),
		widget.NewFormItem(app.GetMsg(config.TKeyLblDateOfBirth),
			container.NewGridWithColumns(config.LayoutColumnsTriple, d.day, d.month, d.year)),
	)
	hint := widget.NewLabel(app.GetMsg(desc))
	hint.Wrapping = fyne.TextWrapWord
	content := container.NewVBox(hint, form, d.errLabel)

	d.dlg = dialog.NewCustomWithoutButtons(app.GetMsg(title), content, app.listWindow.win)

	d.save = widget.NewButtonWithIcon(app.GetMsg(saveKey), theme.ConfirmIcon(), d.submit)
	d.save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), d.dlg.Hide)
	d.name.OnSubmitted = func(string) { d.submit() }

	d.dlg.SetButtons([]fyne.CanvasObject{cancel, d.save})
	d.dlg.Resize(fyne.NewSize(config.DialogWidth, content.MinSize().Height))
	d.dlg.Show()
	app.listWindow.win.Canvas().Focus(d.name)
	return d
}

// render copies f into the widgets without feeding the changes back.
func (d *editorDialog) render(f birthdays.Form) {
	d.syncing = true
	defer func() { d.syncing = false }()

	if d.name.Text != f.Name {
		d.name.SetText(f.Name)
	}

	selectIndex(d.year, yearIndex(d.years, f.Year))
	selectIndex(d.month, int(f.Month)-1)

	days := birthdays.DayOptions(f)
	labels := make([]string, len(days))
	for i, n := range days {
		labels[i] = strconv.Itoa(n)
	}
	d.day.Options = labels
	selectIndex(d.day, f.Day-1)
	d.day.Refresh()
}

func yearIndex(years []int, year int) int {
	for i, y := range years {
		if y == year {
			return i
		}
	}
	return -1
}

func selectIndex(s *widget.Select, i int) {
	if i < 0 || i >= len(s.Options) {
		s.ClearSelected()
		return
	}
	if s.SelectedIndex() != i {
		s.SetSelectedIndex(i)
	}
}

// submit saves off the UI thread. Validation errors stay in the dialog; a store
// failure is reported and the dialog stays open so nothing typed is lost.
func (d *editorDialog) submit() {
	d.save.Disable()
	d.errLabel.Hide()
	editing := d.ed.Editing()

	go func() {
		rec, err := d.ed.Submit(d.app.Ctx)
		fyne.Do(func() {
			d.save.Enable()
			d.done(rec, err, editing)
		})
	}()
}

func (d *editorDialog) done(rec engine.Record, err error, editing bool) {
	app := d.app
	if rec.ID != "" {
		d.dlg.Hide()
		key, fallback := config.TKeyToastAdded, config.FallbackAdded
		if editing {
			key, fallback = config.TKeyToastUpdated, config.FallbackUpdated
		}
		app.toast(app.localize(key, map[string]any{"Name": rec.Name}, nil, fmt.Sprintf(fallback, rec.Name)))
		if err != nil {
			app.showError(err)
		}
		return
	}

	var vErr *birthdays.ValidationError
	if errors.As(err, &vErr) {
		d.errLabel.SetText(app.errorMessage(err))
		d.errLabel.Show()
		return
	}
	app.showError(err)
}
