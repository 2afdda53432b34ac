// Package config provides configuration management for the PDF translator.
// Values come from defaults, an optional .env file, and environment variables,
// with the environment taking precedence.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// EnvOpenAIAPIKey is the environment variable name for the OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for the OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// EnvOpenAIModel is the environment variable name for the OpenAI model
	EnvOpenAIModel = "OPENAI_MODEL"
	// EnvLibreTranslateURL is the environment variable name for the LibreTranslate endpoint
	EnvLibreTranslateURL = "LIBRETRANSLATE_URL"
	// EnvFontDir is the environment variable name for the font directory
	EnvFontDir = "PDF_TRANSLATOR_FONT_DIR"
	// EnvOCRLanguages is the environment variable name for the tesseract language list
	EnvOCRLanguages = "PDF_TRANSLATOR_OCR_LANGS"

	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model to use
	DefaultModel = "gpt-4o-mini"
	// DefaultLibreTranslateURL is the default self-hosted LibreTranslate endpoint
	DefaultLibreTranslateURL = "http://localhost:5000"
	// DefaultProvider is the default translation provider name
	DefaultProvider = "libre"
	// DefaultRasterDPI is the default resolution for page rasterization
	DefaultRasterDPI = 150
)

// Config holds the runtime configuration for a translation run.
type Config struct {
	Provider          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	LibreTranslateURL string
	FontDir           string
	OCRLanguages      string
	RasterDPI         int
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Provider:          DefaultProvider,
		OpenAIBaseURL:     DefaultBaseURL,
		OpenAIModel:       DefaultModel,
		LibreTranslateURL: DefaultLibreTranslateURL,
		OCRLanguages:      "eng",
		RasterDPI:         DefaultRasterDPI,
	}
}

// Load builds the configuration from defaults, an optional .env file in the
// working directory, and environment variables. A missing .env file is not
// an error.
func Load() *Config {
	godotenv.Load()

	cfg := Default()
	cfg.OpenAIAPIKey = getEnv(EnvOpenAIAPIKey, cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = getEnv(EnvOpenAIBaseURL, cfg.OpenAIBaseURL)
	cfg.OpenAIModel = getEnv(EnvOpenAIModel, cfg.OpenAIModel)
	cfg.LibreTranslateURL = getEnv(EnvLibreTranslateURL, cfg.LibreTranslateURL)
	cfg.FontDir = getEnv(EnvFontDir, cfg.FontDir)
	cfg.OCRLanguages = getEnv(EnvOCRLanguages, cfg.OCRLanguages)
	cfg.RasterDPI = getEnvInt("PDF_TRANSLATOR_RASTER_DPI", cfg.RasterDPI)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
