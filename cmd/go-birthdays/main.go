package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-birthdays/internal/birthdays"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/server"
	"github.com/tartampluch/go-birthdays/internal/session"
	"github.com/tartampluch/go-birthdays/internal/store"
	"github.com/tartampluch/go-birthdays/internal/store/postgres"
	"github.com/tartampluch/go-birthdays/internal/store/sqlite"
	"github.com/tartampluch/go-birthdays/internal/store/supabase"
	"github.com/tartampluch/go-birthdays/internal/ui"
	"golang.org/x/term"
)

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	listMode := flag.Bool(config.FlagList, false, config.FlagDescList)
	backend := flag.String(config.FlagBackend, "", config.FlagDescBackend)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(*debugMode, !*listMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	settings, err := loadSettings(*backend)
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	if *listMode {
		err = runList(ctx, settings, os.Stdout)
	} else {
		err = run(ctx, settings)
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// loadSettings reads the environment; a non-empty flag overrides the backend.
func loadSettings(backendFlag string) (config.Settings, error) {
	s, err := config.LoadSettings()
	if err != nil {
		return config.Settings{}, err
	}
	if backendFlag != "" {
		s.Backend = backendFlag
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

// openBackend connects the record store selected in s.
func openBackend(ctx context.Context, s config.Settings) (store.Backend, error) {
	slog.Info(config.MsgBackendSelected,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyBackend, s.Backend)

	switch s.Backend {
	case config.BackendSupabase:
		return supabase.New(s.SupabaseURL, s.SupabaseKey, supabase.NewKeyringVault()), nil
	case config.BackendPostgres:
		return postgres.Open(ctx, s.PostgresDSN, s.BcryptCost)
	default:
		path := s.SQLitePath
		if path == "" {
			dir, err := appCacheDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, config.DBFileName)
		}
		return sqlite.Open(ctx, path, s.BcryptCost)
	}
}

// run wires the services and starts the UI loop.
func run(ctx context.Context, s config.Settings) error {
	backend, err := openBackend(ctx, s)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	clock := engine.RealClock{}
	holder := session.NewHolder(backend)
	port := a.Preferences().StringWithFallback(config.PrefServerPort, s.FeedPort)

	gui := ui.NewGoBirthdaysApp(ctx, a, ui.Deps{
		Sessions: holder,
		Service:  birthdays.NewService(backend, holder, clock),
		Server:   server.NewFeedServer(port),
		Fetcher:  engine.NewHTTPFetcher(),
		Clock:    clock,
	})

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Blocks until the application quits.
	gui.Run()
	return nil
}

// runList prints the upcoming birthdays without starting the UI. It reuses a
// stored session when the backend keeps one, and signs in otherwise.
func runList(ctx context.Context, s config.Settings, out io.Writer) error {
	backend, err := openBackend(ctx, s)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	holder := session.NewHolder(backend)
	sess, err := holder.Load(ctx)
	if err != nil {
		slog.Warn(config.ErrVaultLoad,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
	}
	if sess == nil {
		email, password, err := credentials(s)
		if err != nil {
			return err
		}
		if _, err := holder.SignIn(ctx, email, password); err != nil {
			return err
		}
	}

	entries, err := birthdays.NewService(backend, holder, engine.RealClock{}).Refresh(ctx)
	if err != nil {
		return err
	}
	return printEntries(out, entries)
}

// credentials come from the environment, or from the terminal when missing.
func credentials(s config.Settings) (string, string, error) {
	email, password := s.Email, s.Password
	if email == "" {
		fmt.Fprint(os.Stderr, config.PromptEmail)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", err
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Fprint(os.Stderr, config.PromptPassword)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", config.ErrReadPassword, err)
		}
		password = string(raw)
	}
	return email, password, nil
}

func printEntries(out io.Writer, entries []engine.BirthdayEntry) error {
	if _, err := fmt.Fprintf(out, config.ListHeaderFormat, "NAME", "NEXT", "DAYS", "TIER"); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(out, config.ListLineFormat,
			e.Name,
			e.NextOccurrence.Format(config.DateFormatFullDash),
			e.DaysUntil,
			e.Tier,
			e.AgeNext)
		if err != nil {
			return err
		}
	}
	return nil
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. The -list mode keeps stdout
// for its table, so logs only go to the file there.
func setupLogging(debugMode, toStdout bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if toStdout {
		writers = append(writers, os.Stdout)
	}

	if dir, err := appCacheDir(); err == nil {
		logPath := filepath.Join(dir, config.LogFileName)
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// appCacheDir returns the per-user application directory, creating it with
// owner-only permissions.
func appCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return appDir, nil
}
