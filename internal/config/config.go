package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RoundDuration int // seconds
	BoardWidth    int
	BoardHeight   int
	TargetRadius  int
	BestFile      string
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RoundDuration: getEnvInt("ROUND_DURATION", 30),
		BoardWidth:    getEnvInt("BOARD_WIDTH", 800),
		BoardHeight:   getEnvInt("BOARD_HEIGHT", 600),
		TargetRadius:  getEnvInt("TARGET_RADIUS", 30),
		BestFile:      getEnv("BEST_FILE", "aimtest_best.txt"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
