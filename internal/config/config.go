package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string

	// источник: файл или Google-таблица
	DataFile    string
	HeaderRow   int
	SheetName   string
	ColumnsFile string

	SheetsCredentials   string
	SheetsSpreadsheetID string
	SheetsRange         string

	ReloadMode string // per_query | startup | watch | schedule
	ReloadCron string

	MatchThreshold float64
	MatchLimit     int
	LookupTimeout  time.Duration

	TelegramToken       string
	TelegramAPIURL      string
	TelegramPollTimeout time.Duration
}

// Load читает окружение; .env в рабочем каталоге подхватывается, если есть.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         atoi(getenv("PORT", "8082"), 8082),
		AllowOrigins: strings.Split(getenv("ALLOW_ORIGINS", "*"), ","),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/warehouse-service.log"),

		DataFile:    getenv("WAREHOUSE_FILE", "warehouse.xlsx"),
		HeaderRow:   atoi(getenv("HEADER_ROW", "1"), 1),
		SheetName:   os.Getenv("SHEET_NAME"),
		ColumnsFile: os.Getenv("COLUMNS_FILE"),

		SheetsCredentials:   os.Getenv("SHEETS_CREDENTIALS"),
		SheetsSpreadsheetID: os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetsRange:         getenv("SHEETS_RANGE", "A:I"),

		ReloadMode: getenv("RELOAD_MODE", "per_query"),
		ReloadCron: getenv("RELOAD_CRON", "@every 5m"),

		MatchThreshold: toFloat(os.Getenv("MATCH_THRESHOLD"), 0.45),
		MatchLimit:     atoi(os.Getenv("MATCH_LIMIT"), 5),
		LookupTimeout:  toDuration(os.Getenv("LOOKUP_TIMEOUT"), 15*time.Second),

		TelegramToken:       os.Getenv("TELEGRAM_TOKEN"),
		TelegramAPIURL:      getenv("TELEGRAM_API_URL", "https://api.telegram.org"),
		TelegramPollTimeout: toDuration(os.Getenv("TELEGRAM_POLL_TIMEOUT"), 30*time.Second),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// UseSheets: источником служит Google-таблица, а не файл.
func (c Config) UseSheets() bool { return c.SheetsSpreadsheetID != "" }

func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("PORT out of range: %d", c.Port)
	case c.HeaderRow < 1:
		return errors.New("HEADER_ROW must be >= 1")
	case c.MatchThreshold <= 0 || c.MatchThreshold > 1:
		return fmt.Errorf("MATCH_THRESHOLD must be in (0, 1]: %v", c.MatchThreshold)
	case c.MatchLimit < 1:
		return errors.New("MATCH_LIMIT must be >= 1")
	case !c.UseSheets() && c.DataFile == "":
		return errors.New("WAREHOUSE_FILE or SHEETS_SPREADSHEET_ID must be provided")
	case c.UseSheets() && c.SheetsCredentials == "":
		return errors.New("SHEETS_CREDENTIALS must be provided with SHEETS_SPREADSHEET_ID")
	case c.ReloadMode == "watch" && c.UseSheets():
		return errors.New("RELOAD_MODE=watch works only with WAREHOUSE_FILE")
	}
	switch c.ReloadMode {
	case "per_query", "startup", "watch", "schedule":
	default:
		return fmt.Errorf("unknown RELOAD_MODE %q", c.ReloadMode)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func toFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}

func toDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
