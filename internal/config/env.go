package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv overlays EMBERLOG_* environment variables on top of the loaded
// configuration. Unset or unparseable values leave the config untouched.
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("EMBERLOG_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("EMBERLOG_OUTLINE_PATH")); v != "" {
		c.Outline.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("EMBERLOG_BACKUP_DIR")); v != "" {
		c.Outline.BackupDir = v
	}
	if v := getEnvBool("EMBERLOG_WATCH"); v != nil {
		c.Outline.Watch = *v
	}
	if v := getEnvInt("EMBERLOG_MAX_ENERGY"); v > 0 {
		c.Energy.MaxEnergy = v
	}
	if v := getEnvInt("EMBERLOG_REGEN_INTERVAL_MINUTES"); v > 0 {
		c.Energy.RegenIntervalMinutes = v
	}
	if v := getEnvInt("EMBERLOG_TICK_SECONDS"); v > 0 {
		c.Energy.TickSeconds = v
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvBool(key string) *bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		b := true
		return &b
	case "0", "false", "no":
		b := false
		return &b
	default:
		return nil
	}
}
