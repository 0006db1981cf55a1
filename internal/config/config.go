package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	APIPort            string
	WorkerEnabled      bool
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Directories
	OutputDir string // final artifacts, served under /media
	TempDir   string // per-job scratch
	CacheDir  string // persistent verse audio cache, unbounded

	// Audio source
	AudioHostURL           string // base URL of the recitation host
	DefaultReciterID       string
	DownloadTimeoutSeconds int // per-file download timeout

	// Text provider
	QuranAPIURL string

	// Background image sources, tried in priority order
	BackgroundSources []string

	// Overlay rendering
	FontPath     string // preferred Arabic font file
	FontFallback string // known-good system font tried when FontPath fails
	FontSize     float64

	// Video geometry
	VideoWidth  int
	VideoHeight int
	VideoFPS    int

	// Worker
	MaxConcurrentJobs int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:                getEnv("API_PORT", "8080"),
		WorkerEnabled:          getEnvBool("WORKER_ENABLED", true),
		BackendAPIKey:          getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins:     getEnv("CORS_ALLOWED_ORIGINS", ""),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379"),
		OutputDir:              getEnv("OUTPUT_DIR", "public/reels"),
		TempDir:                getEnv("TEMP_DIR", "/tmp/ayahreels"),
		CacheDir:               getEnv("AUDIO_CACHE_DIR", "cache/audio"),
		AudioHostURL:           getEnv("AUDIO_HOST_URL", "https://everyayah.com"),
		DefaultReciterID:       getEnv("DEFAULT_RECITER_ID", "Alafasy_128kbps"),
		DownloadTimeoutSeconds: getEnvInt("DOWNLOAD_TIMEOUT_SECONDS", 120),
		QuranAPIURL:            getEnv("QURAN_API_URL", "https://api.alquran.cloud/v1"),
		BackgroundSources:      getEnvList("BACKGROUND_SOURCES", "https://picsum.photos/1080/1920,https://source.unsplash.com/random/1080x1920/?nature"),
		FontPath:               getEnv("FONT_PATH", "assets/fonts/Amiri-Regular.ttf"),
		FontFallback:           getEnv("FONT_FALLBACK", "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"),
		FontSize:               getEnvFloat("FONT_SIZE", 56),
		VideoWidth:             getEnvInt("VIDEO_WIDTH", 1080),
		VideoHeight:            getEnvInt("VIDEO_HEIGHT", 1920),
		VideoFPS:               getEnvInt("VIDEO_FPS", 30),
		MaxConcurrentJobs:      getEnvInt("MAX_CONCURRENT_JOBS", 1),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AudioHostURL == "" {
		return nil, fmt.Errorf("AUDIO_HOST_URL is required")
	}

	if len(cfg.BackgroundSources) == 0 {
		return nil, fmt.Errorf("at least one BACKGROUND_SOURCES entry is required")
	}

	if cfg.VideoWidth <= 0 || cfg.VideoHeight <= 0 || cfg.VideoFPS <= 0 {
		return nil, fmt.Errorf("video geometry must be positive (got %dx%d@%d)", cfg.VideoWidth, cfg.VideoHeight, cfg.VideoFPS)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
