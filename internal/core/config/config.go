package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

type MetricsCfg struct {
	Enabled bool
	Addr    string
	Path    string
}

type CacheCfg struct {
	RedisAddr string
	LRUSize   int
	TTL       time.Duration
	OpTimeout time.Duration
}

type Config struct {
	Addr         string
	LogLevel     string
	LogConsole   bool
	LogSampleN   int
	DefaultLevel int
	MaxCells     int
	H3Res        int
	Cache        CacheCfg
	Metrics      MetricsCfg
}

func FromEnv() Config {
	level := getint("MESH_DEFAULT_LEVEL", 3)
	if level < meshcode.MinLevel || level > meshcode.MaxLevel {
		level = 3
	}
	h3Res := getint("H3_RES", 8)
	if h3Res < 0 || h3Res > 15 {
		h3Res = 8
	}

	return Config{
		Addr:         getenv("ADDR", ":8090"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogConsole:   getbool("LOG_CONSOLE", false),
		LogSampleN:   getint("LOG_SAMPLE_N", 0),
		DefaultLevel: level,
		MaxCells:     getint("MESH_MAX_CELLS", 10000),
		H3Res:        h3Res,
		Cache: CacheCfg{
			RedisAddr: strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			LRUSize:   getint("CACHE_LRU_SIZE", 4096),
			TTL:       getduration("CACHE_TTL", time.Hour),
			OpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		},
		Metrics: MetricsCfg{
			Enabled: getbool("METRICS_ENABLED", false),
			Addr:    getenv("METRICS_ADDR", ":9090"),
			Path:    getenv("METRICS_PATH", "/metrics"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
