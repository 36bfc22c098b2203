package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	BotToken string

	ReferralBonus     float64
	BroadcastHour     int
	BroadcastMinute   int
	BroadcastTimezone string

	AdminUsernames []string
	ManagerContact string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	hour, minute := parseClock(getEnv("BROADCAST_TIME", "13:00"))

	return &Config{
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "richmarket_bot"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		BotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
		ReferralBonus:     parseBonus(getEnv("REFERRAL_BONUS", "0.5")),
		BroadcastHour:     hour,
		BroadcastMinute:   minute,
		BroadcastTimezone: getEnv("BROADCAST_TZ", "Europe/Moscow"),
		AdminUsernames:    parseUsernames(getEnv("ADMIN_USERNAMES", "")),
		ManagerContact:    getEnv("MANAGER_CONTACT", "@managersrich"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// parseBonus rejects malformed and negative values so a bad deploy cannot
// turn the referral bonus into a debit.
func parseBonus(raw string) float64 {
	const fallback = 0.5
	bonus, err := strconv.ParseFloat(raw, 64)
	if err != nil || bonus < 0 {
		log.Warnf("Invalid REFERRAL_BONUS %q, using %.2f", raw, fallback)
		return fallback
	}
	return bonus
}

func parseClock(raw string) (hour, minute int) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		log.Warnf("Invalid BROADCAST_TIME %q, using 13:00", raw)
		return 13, 0
	}
	return t.Hour(), t.Minute()
}

func parseUsernames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimPrefix(strings.TrimSpace(part), "@")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
