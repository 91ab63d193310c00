package ui

import (
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// authWindow is the sign-in / sign-up form.
type authWindow struct {
	win      fyne.Window
	email    *widget.Entry
	password *widget.Entry
	errLabel *widget.Label
	signIn   *widget.Button
	signUp   *widget.Button
	busy     *widget.ProgressBarInfinite
}

// ShowAuthWindow opens the sign-in window, or focuses it when already open.
func (app *GoBirthdaysApp) ShowAuthWindow() {
	if app.authWindow != nil {
		app.authWindow.win.RequestFocus()
		return
	}
	slog.Info(config.MsgOpenAuth, config.LogKeyComponent, config.CompUI)

	aw := &authWindow{win: app.App.NewWindow(app.GetMsg(config.TKeyWinAuth))}
	app.authWindow = aw

	aw.email = widget.NewEntry()
	aw.email.SetPlaceHolder(app.GetMsg(config.TKeyLblEmail))
	aw.email.SetText(app.Preferences.String(config.PrefLastEmail))

	aw.password = widget.NewPasswordEntry()
	aw.password.SetPlaceHolder(app.GetMsg(config.TKeyLblPassword))
	aw.password.OnSubmitted = func(string) { app.submitAuth(false) }

	aw.errLabel = widget.NewLabel("")
	aw.errLabel.Importance = widget.DangerImportance
	aw.errLabel.Wrapping = fyne.TextWrapWord
	aw.errLabel.Hide()

	aw.busy = widget.NewProgressBarInfinite()
	aw.busy.Stop()
	aw.busy.Hide()

	aw.signIn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSignIn), theme.LoginIcon(), func() { app.submitAuth(false) })
	aw.signIn.Importance = widget.HighImportance
	aw.signUp = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSignUp), theme.AccountIcon(), func() { app.submitAuth(true) })

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblEmail), aw.email),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPassword), aw.password),
	)

	content := container.NewPadded(container.NewVBox(
		form,
		aw.errLabel,
		aw.busy,
		container.NewGridWithColumns(config.LayoutColumnsDouble, aw.signUp, aw.signIn),
	))

	aw.win.SetContent(content)
	aw.win.Resize(fyne.NewSize(config.AuthWindowWidth, content.MinSize().Height))
	aw.win.SetOnClosed(func() { app.authWindow = nil })
	aw.win.Show()
}

// submitAuth signs in or up with the form's credentials off the UI goroutine.
func (app *GoBirthdaysApp) submitAuth(register bool) {
	aw := app.authWindow
	if aw == nil {
		return
	}
	email, password := aw.email.Text, aw.password.Text
	aw.setBusy(true)

	go func() {
		var err error
		if register {
			_, err = app.Sessions.SignUp(app.Ctx, email, password)
		} else {
			_, err = app.Sessions.SignIn(app.Ctx, email, password)
		}

		fyne.Do(func() {
			// On success the session listener has already closed the window.
			if app.authWindow != aw {
				return
			}
			aw.setBusy(false)
			switch {
			case err == nil:
			case errors.Is(err, store.ErrConfirmationRequired):
				aw.password.SetText("")
				app.toast(app.GetMsg(config.TKeyToastSignUp))
			default:
				aw.showError(app.authErrorMessage(err))
			}
		})
	}()
}

// authErrorMessage explains a failed sign-in or sign-up. Unexpected failures
// such as network errors keep their cause after a generic prefix.
func (app *GoBirthdaysApp) authErrorMessage(err error) string {
	if errors.Is(err, store.ErrInvalidCredentials) ||
		errors.Is(err, store.ErrCredentialsRequired) ||
		errors.Is(err, store.ErrEmailTaken) {
		return app.errorMessage(err)
	}
	return fmt.Sprintf("%s: %s", app.GetMsg(config.TKeyErrSignIn), err.Error())
}

func (aw *authWindow) setBusy(busy bool) {
	if busy {
		aw.errLabel.Hide()
		aw.signIn.Disable()
		aw.signUp.Disable()
		aw.busy.Show()
		aw.busy.Start()
		return
	}
	aw.signIn.Enable()
	aw.signUp.Enable()
	aw.busy.Stop()
	aw.busy.Hide()
}

func (aw *authWindow) showError(msg string) {
	aw.errLabel.SetText(msg)
	aw.errLabel.Show()
}

func (aw *authWindow) close() {
	aw.win.Close()
}
