package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ProjectRoot string `validate:"required"`
	DataDir     string `validate:"required"`
	InputPath   string `validate:"required"`
	OutputPath  string `validate:"required,nefield=InputPath"`

	DBPath     string
	ReportPath string

	PhoneRegion string `validate:"required,len=2,alpha"`
	IndentWidth int    `validate:"min=1,max=8"`
	LogEnv      string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	root := getEnv("PROJECT_ROOT", cwd)
	dataDir := getEnv("DIRECTORY_DATA_DIR", filepath.Join(root, "data", "directory"))

	cfg := Config{
		ProjectRoot: root,
		DataDir:     dataDir,
		InputPath:   getEnv("LEGISLATIVE_INPUT", filepath.Join(dataDir, "legislative.json")),
		OutputPath:  getEnv("LEGISLATIVE_OUTPUT", filepath.Join(dataDir, "legislative_cleaned.json")),

		DBPath:     getEnv("DB_PATH", filepath.Join(root, "data", "app.db")),
		ReportPath: getEnv("CONTACT_REPORT_PATH", ""),

		PhoneRegion: strings.ToUpper(getEnv("PHONE_REGION", "PH")),
		IndentWidth: getEnvInt("INDENT_WIDTH", 2),
		LogEnv:      getEnv("LOG_ENV", ""),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) LedgerEnabled() bool {
	return strings.TrimSpace(c.DBPath) != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
