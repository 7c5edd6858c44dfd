package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	RawMailDir string
	OutputDir  string
	LogLevel   string

	SheetIndex int

	SummaryMarker      string
	ProductHeader      string
	PriceHeader        string
	QtyHeader          string
	AmountHeader       string
	TotalMarker        string
	TotalPriceMarker   string
	OrdersHeaderMarker string
	CustomerHeader     string
	ContentHeader      string
	DeliveryPrefixes   []string

	DistanceAPIBaseURL   string
	DistanceAPIToken     string
	DistanceProvider     string
	DistanceRateLimitRPS int
	DistanceTimeoutMs    int
	DistanceOrigin       string
	DeliveryBaseFee      float64
	DeliveryPerMile      float64
	DeliveryFreeMiles    float64

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	ListenerProvider     string
	ListenerLabel        string
	ListenerIntervalSec  int
	ListenerFetchMax     int
	ListenerProcessBatch int
	ListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "orders.db")),
		RawMailDir: getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		SheetIndex: getEnvInt("SHEET_INDEX", 0),

		SummaryMarker:      getEnv("SHEET_SUMMARY_MARKER", "商品汇总"),
		ProductHeader:      getEnv("SHEET_PRODUCT_HEADER", "商品"),
		PriceHeader:        getEnv("SHEET_PRICE_HEADER", "单价"),
		QtyHeader:          getEnv("SHEET_QTY_HEADER", "数量"),
		AmountHeader:       getEnv("SHEET_AMOUNT_HEADER", "金额"),
		TotalMarker:        getEnv("SHEET_TOTAL_MARKER", "总计"),
		TotalPriceMarker:   getEnv("SHEET_TOTAL_PRICE_MARKER", "总价"),
		OrdersHeaderMarker: getEnv("SHEET_ORDERS_HEADER_MARKER", "序号"),
		CustomerHeader:     getEnv("SHEET_CUSTOMER_HEADER", "姓名"),
		ContentHeader:      getEnv("SHEET_CONTENT_HEADER", "内容"),
		DeliveryPrefixes:   getEnvList("SHEET_DELIVERY_PREFIXES", []string{"选择配送"}),

		DistanceAPIBaseURL:   getEnv("DISTANCE_API_BASE_URL", "https://api.route-lookup.example.com/v1"),
		DistanceAPIToken:     getEnv("DISTANCE_API_TOKEN", ""),
		DistanceProvider:     getEnv("DISTANCE_PROVIDER", "route-api"),
		DistanceRateLimitRPS: getEnvInt("DISTANCE_RATE_LIMIT_RPS", 5),
		DistanceTimeoutMs:    getEnvInt("DISTANCE_TIMEOUT_MS", 15000),
		DistanceOrigin:       getEnv("DISTANCE_ORIGIN", ""),
		DeliveryBaseFee:      getEnvFloat("DELIVERY_BASE_FEE", 5.0),
		DeliveryPerMile:      getEnvFloat("DELIVERY_PER_MILE", 1.5),
		DeliveryFreeMiles:    getEnvFloat("DELIVERY_FREE_MILES", 3.0),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		ListenerProvider:     getEnv("SHEET_LISTENER_PROVIDER", "gmail"),
		ListenerLabel:        getEnv("SHEET_LISTENER_LABEL", "INBOX"),
		ListenerIntervalSec:  getEnvInt("SHEET_LISTENER_INTERVAL_SEC", 60),
		ListenerFetchMax:     getEnvInt("SHEET_LISTENER_FETCH_MAX", 20),
		ListenerProcessBatch: getEnvInt("SHEET_LISTENER_PROCESS_BATCH", 20),
		ListenerAutoExport:   getEnvBool("SHEET_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
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

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
