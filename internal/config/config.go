package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxBodyKB    int

	// reference table
	DatasetPath      string
	DatasetHeaderRow int

	// matching
	MatchStrategy  string // exact-single | exact-dual | fuzzy-single
	FuzzyThreshold int    // accepted only if fuzzy score strictly exceeds this

	// Brevo delivery; empty API key disables dispatch
	BrevoAPIKey      string
	BrevoContactURL  string
	BrevoEmailURL    string
	BrevoSenderName  string
	BrevoSenderEmail string
	BrevoTemplateID  int
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	kb, _ := strconv.Atoi(getenv("MAX_BODY_KB", "64"))
	headerRow, _ := strconv.Atoi(getenv("DATASET_HEADER_ROW", "1"))
	threshold, _ := strconv.Atoi(getenv("FUZZY_THRESHOLD", "70"))
	templateID, _ := strconv.Atoi(getenv("BREVO_TEMPLATE_ID", "0"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/tankfill-service.log"),
		MaxBodyKB:    kb,

		DatasetPath:      getenv("DATASET_PATH", "data/cargo_tp.csv"),
		DatasetHeaderRow: headerRow,

		MatchStrategy:  getenv("MATCH_STRATEGY", "fuzzy-single"),
		FuzzyThreshold: threshold,

		BrevoAPIKey:      getenv("BREVO_API_KEY", ""),
		BrevoContactURL:  getenv("BREVO_CONTACT_URL", "https://api.brevo.com/v3/contacts"),
		BrevoEmailURL:    getenv("BREVO_EMAIL_URL", "https://api.brevo.com/v3/smtp/email"),
		BrevoSenderName:  getenv("BREVO_SENDER_NAME", "BOLT"),
		BrevoSenderEmail: getenv("BREVO_SENDER_EMAIL", ""),
		BrevoTemplateID:  templateID,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
