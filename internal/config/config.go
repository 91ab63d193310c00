package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP clients (record store, address book import).
var UserAgent = "Go-Birthdays/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Birthdays"
	AppID             = "com.github.tartampluch.go-birthdays"
	KeyringService    = "com.github.tartampluch.go-birthdays"
	KeyringSession    = "supabase-refresh-token"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "birthdays.db"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs, exports and the local database.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagList         = "list"
	FlagBackend      = "backend"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescList     = "Print upcoming birthdays to stdout and exit"
	FlagDescBackend  = "Record store backend (supabase, sqlite, postgres); overrides BIRTHDAYS_BACKEND"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
	PromptEmail      = "Email: "
	PromptPassword   = "Password: "
	ListLineFormat   = "%-30s %-18s %5d  %-5s turning %d\n"
	ListHeaderFormat = "%-30s %-18s %5s  %-5s\n"
)

// -----------------------------------------------------------------------------
// Record Store Backends
// -----------------------------------------------------------------------------

const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// Hosted backend (GoTrue + PostgREST) routes and parameters.
	SupabaseAuthToken   = "/auth/v1/token"
	SupabaseAuthSignup  = "/auth/v1/signup"
	SupabaseAuthLogout  = "/auth/v1/logout"
	SupabaseRestTable   = "/rest/v1/birthdays"
	ParamGrantType      = "grant_type"
	GrantPassword       = "password"
	GrantRefreshToken   = "refresh_token"
	ParamSelect         = "select"
	ParamOrder          = "order"
	ParamUserID         = "user_id"
	ParamID             = "id"
	SelectColumns       = "id,name,date_of_birth"
	OrderDateOfBirthAsc = "date_of_birth.asc"
	FilterEqualsPrefix  = "eq."

	PreferRepresentation = "return=representation"

	// SessionExpiryLeeway refreshes a token slightly before the server would reject it.
	SessionExpiryLeeway = 30 * time.Second

	// Goose dialects and embedded migration roots.
	GooseDialectSQLite   = "sqlite3"
	GooseDialectPostgres = "pgx"
	MigrationsDir        = "migrations"
	SQLiteDriverName     = "sqlite"
	SQLiteMemoryDSN      = ":memory:"
	SQLitePragmas        = "PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;"

	// PgUniqueViolation is the SQLSTATE of a unique constraint failure.
	PgUniqueViolation = "23505"

	// GoTrue error codes. Older servers only send "error", newer ones "error_code".
	AuthCodeInvalidGrant       = "invalid_grant"
	AuthCodeInvalidCredentials = "invalid_credentials"
	AuthCodeEmailNotConfirmed  = "email_not_confirmed"
	AuthCodeUserExists         = "user_already_exists"
	AuthCodeEmailExists        = "email_exists"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 480
	ListWindowWidth     = 520
	ListWindowHeight    = 640
	AuthWindowWidth     = 380
	DialogWidth         = 420

	// Preference Keys
	PrefLanguage        = "language"
	PrefServerPort      = "server_port"
	PrefReminderEnabled = "reminder_enabled"
	PrefReminderValue   = "reminder_value"
	PrefReminderUnit    = "reminder_unit"
	PrefReminderDir     = "reminder_direction"
	PrefLastRun         = "last_run_version"
	PrefLastEmail       = "last_email"
	PrefImportURL       = "import_url"
	PrefImportUser      = "import_user"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinAuth         = "win_auth_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyMenuOpen        = "menu_open"
	TKeyMenuRefresh     = "menu_refresh"
	TKeyMenuSettings    = "menu_settings"
	TKeyTrayStatus      = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero  = "tray_status_zero" // Explicit key for 0
	TKeyHeaderUpcoming  = "header_upcoming"
	TKeyBtnLogout       = "btn_logout"
	TKeyBtnAdd          = "btn_add"
	TKeyBtnImport       = "btn_import"
	TKeyBtnImportURL    = "btn_import_url"
	TKeyBtnExportVCard  = "btn_export_vcard"
	TKeyBtnExportICS    = "btn_export_ics"
	TKeyBtnSettings     = "btn_settings"
	TKeyBtnSignIn       = "btn_sign_in"
	TKeyBtnSignUp       = "btn_sign_up"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyBtnUpdate       = "btn_update"
	TKeyLblEmail        = "lbl_email"
	TKeyLblPassword     = "lbl_password"
	TKeyLblName         = "lbl_name"
	TKeyLblDateOfBirth  = "lbl_date_of_birth"
	TKeyLblYear         = "lbl_year"
	TKeyLblMonth        = "lbl_month"
	TKeyLblDay          = "lbl_day"
	TKeyLblURL          = "lbl_url"
	TKeyLblUser         = "lbl_user"
	TKeyLblPass         = "lbl_pass"
	TKeyLblLanguage     = "lbl_language"
	TKeyLblPort         = "lbl_server_port"
	TKeyHelpPort        = "help_port"
	TKeyLblEnableRem    = "lbl_enable_reminders"
	TKeyLblNotif        = "lbl_notifications"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblFooter       = "lbl_footer"
	TKeyUnitDays        = "unit_days"
	TKeyUnitHours       = "unit_hours"
	TKeyUnitMinutes     = "unit_minutes"
	TKeyDirBefore       = "dir_before"
	TKeyDirAfter        = "dir_after"
	TKeyPlaceholderName = "placeholder_name"
	TKeyDlgAddTitle     = "dlg_add_title"
	TKeyDlgAddDesc      = "dlg_add_desc"
	TKeyDlgEditTitle    = "dlg_edit_title"
	TKeyDlgEditDesc     = "dlg_edit_desc"
	TKeyDlgImportURL    = "dlg_import_url_title"
	TKeyEmptyList       = "empty_list"
	TKeyLoading         = "loading"
	TKeyCardToday       = "card_today"
	TKeyCardDays        = "card_days"    // Requires Count
	TKeyCardTurning     = "card_turning" // Requires Age
	TKeyFormatDate      = "format_date_long"
	TKeyToastAdded      = "toast_added"   // Requires Name
	TKeyToastUpdated    = "toast_updated" // Requires Name
	TKeyToastLoggedOut  = "toast_logged_out"
	TKeyToastImported   = "toast_imported" // Requires Added, Skipped, Failed
	TKeyToastExported   = "toast_exported" // Requires File
	TKeyToastSignUp     = "toast_sign_up_confirm"
	TKeyErrFillAll      = "err_fill_all_fields"
	TKeyErrNameTooLong  = "err_name_too_long"
	TKeyErrDateInvalid  = "err_date_invalid"
	TKeyErrDateFuture   = "err_date_future"
	TKeyErrDateTooOld   = "err_date_too_old"
	TKeyErrNotLoggedIn  = "err_not_logged_in"
	TKeyErrLoad         = "err_load_failed"
	TKeyErrAdd          = "err_add_failed"
	TKeyErrUpdate       = "err_update_failed"
	TKeyErrPortReq      = "err_port_required"
	TKeyErrPortNum      = "err_port_number"
	TKeyErrPortRange    = "err_port_range"
	TKeyErrImport       = "err_import_failed"
	TKeyErrExport       = "err_export_failed"
	TKeyErrCredentials  = "err_invalid_credentials"
	TKeyErrCredsReq     = "err_credentials_required"
	TKeyErrEmailTaken   = "err_email_taken"
	TKeyErrSignIn       = "err_sign_in_failed"
	TKeyHelpImportURL   = "help_import_url"
	TKeyLblReminder     = "lbl_reminder"
	TKeyMenuSignOut     = "menu_sign_out"
	TKeyMenuFile        = "menu_file"
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)
	TKeyMonthPrefix     = "month_"              // month_1 .. month_12
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort          = "18080"
	DefaultLanguage      = "en"
	DefaultLeapYear      = 2000 // Leap year placeholder for year-less vCard dates like --02-29
	DefaultReminderValue = 1
	DefaultBackend       = BackendSQLite
	DefaultBcryptCost    = 10

	// MinBirthYear is the earliest accepted year of birth.
	MinBirthYear = 1900

	// MaxNameLength is counted in characters (runes), not bytes.
	MaxNameLength = 100

	// SoonWindowDays is the inclusive upper bound of the "soon" tier.
	SoonWindowDays = 7

	// MaxDaysUntil is the largest possible distance to a next occurrence.
	MaxDaysUntil = 366
)

// Tier labels used for logs and the headless listing.
const (
	TierLabelToday = "today"
	TierLabelSoon  = "soon"
	TierLabelLater = "later"
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Birthdays//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gobirthdays"

	// iCal Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	// vCard Fields
	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardUID  = "UID"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatFullDash is also the wire format of date_of_birth in every backend.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatDisplay   = "January 2, 2006"

	// Limits
	MinPort           = 1
	MaxPort           = 65535
	MaxReminderDigits = 3

	// MinBcryptCost and MaxBcryptCost mirror golang.org/x/crypto/bcrypt bounds.
	MinBcryptCost = 4
	MaxBcryptCost = 31

	// MaxVCardDecodeErrors stops an import on a stream that never yields a card.
	MaxVCardDecodeErrors = 16

	// UID Generation
	FormatUID = "%s-%d@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtICS   = ".ics"

	ExportVCardName = "birthdays.vcf"
	ExportICSName   = "birthdays.ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	MaxAPIResponseSize  = 8 * 1024 * 1024   // 8MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteCalendar       = "/birthdays.ics"
	RouteContacts       = "/birthdays.vcf"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAPIKey          = "apikey"
	HeaderAuthorization   = "Authorization"
	HeaderPrefer          = "Prefer"
	HeaderAccept          = "Accept"

	BearerPrefix        = "Bearer "
	MimeJSON            = "application/json"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeVCard           = "text/vcard; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardEncode      = "failed to encode vCard"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrParseEnv         = "parse env"
	ErrUnknownBackend   = "configuration error: unknown record store backend"
	ErrSupabaseURL      = "configuration error: BIRTHDAYS_SUPABASE_URL is required"
	ErrSupabaseKey      = "configuration error: BIRTHDAYS_SUPABASE_KEY is required"
	ErrPostgresDSN      = "configuration error: BIRTHDAYS_POSTGRES_DSN is required"
	ErrBcryptCost       = "configuration error: bcrypt cost must be between 4 and 31"
	ErrOpenDB           = "failed to open database"
	ErrMigrate          = "failed to run migrations"
	ErrListRecords      = "failed to list birthdays"
	ErrInsertRecord     = "failed to insert birthday"
	ErrUpdateRecord     = "failed to update birthday"
	ErrScanRecord       = "failed to scan birthday"
	ErrCreateAccount    = "failed to create account"
	ErrFindAccount      = "failed to look up account"
	ErrHashPassword     = "failed to hash password"
	ErrBuildRequest     = "failed to create request"
	ErrNetwork          = "network error"
	ErrDecodeResponse   = "failed to decode response"
	ErrEncodeRequest    = "failed to encode request"
	ErrTokenClaims      = "failed to read access token claims"
	ErrVaultLoad        = "failed to load stored session"
	ErrVaultClear       = "failed to clear stored session"
	ErrReadPassword     = "failed to read password"
	ErrExportFile       = "failed to write export file"
	ErrImportSource     = "failed to read import source"
	ErrFetchStatus      = "address book server returned unexpected status"
)

// Store and validation error messages. These are surfaced to users verbatim when
// no translation exists, so they are phrased for people, not logs.
const (
	MsgNotFound             = "birthday not found"
	MsgInvalidCredentials   = "invalid email or password"
	MsgNoSession            = "You must be logged in to manage birthdays"
	MsgConfirmationRequired = "check your inbox to confirm the account before signing in"
	MsgEmailTaken           = "an account with this email already exists"
	MsgForbidden            = "this birthday belongs to another account"
	MsgCredentialsRequired  = "email and password are required"
	MsgFillAllFields        = "Please fill in all fields"
	MsgNameTooLong          = "Name must be at most 100 characters"
	MsgDateInvalid          = "Date of birth is not a valid calendar date"
	MsgDateFuture           = "Date of birth cannot be in the future"
	MsgDateTooOld           = "Date of birth cannot be before 1900"
)

// Validation field names.
const (
	FieldName        = "name"
	FieldDateOfBirth = "date_of_birth"
)

// Store operation names (StoreError.Op).
const (
	OpList   = "list"
	OpInsert = "insert"
	OpUpdate = "update"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackTrayDefault  = "Go Birthdays (%d today)"
	FallbackTrayLabel    = "Go Birthdays"
	FallbackTrayError    = "Go Birthdays (unavailable)"
	FallbackToday        = "Today!"
	FallbackDays         = "%d days"
	FallbackDay          = "%d day"
	FallbackTurning      = "Turning %d years old"
	FallbackAdded        = "%s's birthday has been added!"
	FallbackUpdated      = "%s's birthday has been updated!"
	FallbackImported     = "Imported %d, skipped %d, failed %d"
	FallbackExported     = "Saved %s"
	PlaceholderURL       = "https://..."

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgTooManyErrors   = "Too many malformed vCards, stopping import"
	MsgGenSuccess      = "Calendar generation successful"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Feed cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgBdayToday       = "Birthday found today"
	MsgListRefreshed   = "Birthday list refreshed"
	MsgRecordAdded     = "Birthday added"
	MsgRecordUpdated   = "Birthday updated"
	MsgValidationFail  = "Birthday input rejected"
	MsgStoreFail       = "Record store request failed"
	MsgSessionChanged  = "Session changed"
	MsgSessionRestored = "Session restored from keyring"
	MsgSessionRefresh  = "Refreshing access token"
	MsgSignedIn        = "Signed in"
	MsgSignedUp        = "Account created"
	MsgSignedOut       = "Signed out"
	MsgMigrated        = "Database migrations applied"
	MsgBackendSelected = "Record store backend selected"
	MsgImportDone      = "vCard import finished"
	MsgFeedPublished   = "Feed documents published"
	MsgFeedFailed      = "Failed to rebuild feed documents"
	MsgOpenList        = "Opening birthday list window"
	MsgOpenAuth        = "Opening sign-in window"
	MsgRequest         = "Record store request"
	MsgBadStatus       = "Record store returned error status"
	MsgFetchStart      = "Downloading address book"
	MsgSessionDropped  = "Stored session rejected, signing out"
	MsgLogoutFailed    = "Remote logout failed"
	MsgVaultFailed     = "Keyring access failed"
	MsgFetchBadStatus  = "Address book server returned error status"
	MsgFetchStream     = "Address book streaming"
	MsgOpenSettings    = "Opening settings window"
	MsgSavePrefs       = "Saving preferences"
	MsgRemindersOff    = "Reminders disabled via settings (value is empty)"
	MsgCredsSaveFailed = "Failed to save address book credentials to keyring"
	MsgMidnight        = "Day changed, refreshing birthdays"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Background worker stopped"
	MsgExportDone      = "Export written"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyBackend   = "backend"
	LogKeyMethod    = "method"
	LogKeyUser      = "user"
	LogKeyID        = "id"
	LogKeyField     = "field"
	LogKeyOp        = "op"
	LogKeyRoute     = "route"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeyAdded     = "added"
	LogKeySkipped   = "skipped"
	LogKeyFailed    = "failed"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeySignedIn  = "signed_in"
	LogKeyLength    = "content_length"
	LogKeyNext      = "next_run"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompSession  = "session"
	CompService  = "birthdays"
	CompSupabase = "store_supabase"
	CompSQLite   = "store_sqlite"
	CompPostgres = "store_postgres"
	CompAuth     = "store_auth"
	CompWorker   = "worker"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	LayoutColumnsTriple = 3
)
