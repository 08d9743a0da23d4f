package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SongsDir  string
	Workers   int
	CacheSize int
	FailDir   string

	DB     DBConfig
	Export ExportConfig
	Fetch  FetchConfig
}

type DBConfig struct {
	Driver string // sqlite3 or pgx
	DSN    string
}

type ExportConfig struct {
	Dir string
	S3  S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough is configured to build an S3 sink.
func (c S3Config) Enabled() bool { return c.Endpoint != "" }

type FetchConfig struct {
	URLFormat string // fmt pattern taking the beatmap id
	PerMinute int
}

// Load reads a .env file when one exists, then the environment. Command
// flags are applied on top by the caller.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SongsDir:  env("OSUINDEX_SONGS_DIR", ""),
		Workers:   envInt("OSUINDEX_WORKERS", 4),
		CacheSize: envInt("OSUINDEX_CACHE_SIZE", 1024),
		FailDir:   env("OSUINDEX_FAIL_DIR", ""),
		DB: DBConfig{
			Driver: env("OSUINDEX_DB_DRIVER", "sqlite3"),
			DSN:    env("OSUINDEX_DB_DSN", "osuindex.db"),
		},
		Export: ExportConfig{
			Dir: env("OSUINDEX_EXPORT_DIR", ""),
			S3: S3Config{
				Endpoint:  env("OSUINDEX_S3_ENDPOINT", ""),
				Region:    env("OSUINDEX_S3_REGION", "us-east-1"),
				AccessKey: firstNonEmpty(env("OSUINDEX_S3_ACCESS_KEY", ""), env("MINIO_ROOT_USER", "")),
				SecretKey: firstNonEmpty(env("OSUINDEX_S3_SECRET_KEY", ""), env("MINIO_ROOT_PASSWORD", "")),
				Bucket:    env("OSUINDEX_S3_BUCKET", "osuindex-exports"),
				UseSSL:    envBool("OSUINDEX_S3_USE_SSL", true),
			},
		},
		Fetch: FetchConfig{
			URLFormat: env("OSUINDEX_FETCH_URL", "https://osu.ppy.sh/osu/%d"),
			PerMinute: envInt("OSUINDEX_FETCH_RATE", 30),
		},
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(env(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(env(key, ""))
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
