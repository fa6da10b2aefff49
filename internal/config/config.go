package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

var cfgFile = "diagonal-squares/config.json"

type Config struct {
	HTTPAddr       string `json:"http_addr"`
	LogLevel       string `json:"log_level"`
	PollIntervalMs int    `json:"poll_interval_ms"`
	HumanAIDelayMs int    `json:"human_ai_delay_ms"`
	AIVsAIDelayMs  int    `json:"ai_vs_ai_delay_ms"`
	// FinishedRoomTTLSec is how long a finished room stays around; 0 keeps
	// rooms forever.
	FinishedRoomTTLSec int          `json:"finished_room_ttl_sec"`
	Defaults           GameSettings `json:"defaults"`
}

func Default() Config {
	return Config{
		HTTPAddr:           ":8080",
		LogLevel:           "info",
		PollIntervalMs:     100,
		HumanAIDelayMs:     120,
		AIVsAIDelayMs:      700,
		FinishedRoomTTLSec: 600,
		Defaults:           DefaultGameSettings(),
	}
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c Config) HumanAIDelay() time.Duration {
	return time.Duration(c.HumanAIDelayMs) * time.Millisecond
}

func (c Config) AIVsAIDelay() time.Duration {
	return time.Duration(c.AIVsAIDelayMs) * time.Millisecond
}

func (c Config) FinishedRoomTTL() time.Duration {
	return time.Duration(c.FinishedRoomTTLSec) * time.Second
}

// Load reads the XDG config file if there is one, then applies environment
// overrides. Game defaults come back clamped.
func Load() (*Config, error) {
	cfg := Default()
	if path, err := xdg.SearchConfigFile(cfgFile); err == nil {
		if err := readCfgFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(&cfg)
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = Default().PollIntervalMs
	}
	cfg.Defaults = cfg.Defaults.Clamp()
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.PollIntervalMs = getenvInt("POLL_INTERVAL_MS", cfg.PollIntervalMs)
	cfg.HumanAIDelayMs = getenvInt("HUMAN_AI_DELAY_MS", cfg.HumanAIDelayMs)
	cfg.AIVsAIDelayMs = getenvInt("AI_VS_AI_DELAY_MS", cfg.AIVsAIDelayMs)
	cfg.FinishedRoomTTLSec = getenvInt("FINISHED_ROOM_TTL_SEC", cfg.FinishedRoomTTLSec)

	d := &cfg.Defaults
	d.BoardSize = getenvInt("BOARD_SIZE", d.BoardSize)
	d.RestrictionIntervalSec = getenvInt("RESTRICTION_INTERVAL_SEC", d.RestrictionIntervalSec)
	d.LineLengthLimit = getenvInt("LINE_LENGTH_LIMIT", d.LineLengthLimit)
	d.DiagonalRule = getenvBool("DIAGONAL_RULE", d.DiagonalRule)
	d.Mode = Mode(getenv("GAME_MODE", string(d.Mode)))
	d.AILevelP1 = getenvInt("AI_LEVEL_P1", d.AILevelP1)
	d.AILevelP2 = getenvInt("AI_LEVEL_P2", d.AILevelP2)
	d.EndOnRestrictionLock = getenvBool("END_ON_RESTRICTION_LOCK", d.EndOnRestrictionLock)
}

func readCfgFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
