package config

import (
	"os"
	"strconv"
)

// Config is the environment-backed configuration surface. Tunables default
// to values that favor producing output over producing nothing.
type Config struct {
	Port    string
	DBPath  string
	WorkDir string

	GeminiAPIKey string
	GeminiModel  string

	YTClientID     string
	YTClientSecret string
	YTRefreshToken string

	WhisperModelDir string
	CaptionLang     string

	MinScore   float64
	MinClipSec float64
	MaxClipSec float64
	MaxShorts  int
	Aspect     string

	FFmpegPath  string
	FFprobePath string
}

// FromEnv reads the configuration from environment variables.
func FromEnv() Config {
	return Config{
		Port:    getenv("PORT", "8080"),
		DBPath:  getenv("SHORTS_DB", "data/shorts.db"),
		WorkDir: getenv("SHORTS_WORKDIR", "data/work"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),

		YTClientID:     os.Getenv("SHORTS_YT_CLIENT_ID"),
		YTClientSecret: os.Getenv("SHORTS_YT_CLIENT_SECRET"),
		YTRefreshToken: os.Getenv("SHORTS_YT_REFRESH_TOKEN"),

		WhisperModelDir: os.Getenv("SHORTS_WHISPER_DIR"),
		CaptionLang:     getenv("SHORTS_CAPTION_LANG", "en"),

		MinScore:   getenvFloat("SHORTS_MIN_SCORE", 0.4),
		MinClipSec: getenvFloat("SHORTS_MIN_CLIP_SEC", 15),
		MaxClipSec: getenvFloat("SHORTS_MAX_CLIP_SEC", 60),
		MaxShorts:  getenvInt("SHORTS_MAX_SHORTS", 5),
		Aspect:     getenv("SHORTS_ASPECT", "9:16"),

		FFmpegPath:  getenv("SHORTS_FFMPEG", "ffmpeg"),
		FFprobePath: getenv("SHORTS_FFPROBE", "ffprobe"),
	}
}

// PublishEnabled reports whether the YouTube publish credential is fully
// configured. Absence deterministically skips the uploading stage.
func (c Config) PublishEnabled() bool {
	return c.YTClientID != "" && c.YTClientSecret != "" && c.YTRefreshToken != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
