package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	DataPath      string
	MediaPath     string
	DBPath        string
	WatchPath     string
	ConfigFile    string
	OpenAIKey     string
	OpenAIBaseURL string
	NotesModel    string
	WhisperURL    string
	DiarizeURL    string
	HFToken       string
	ASRRetries    int
	MaxUploadSize int64
	CORSOrigins   []string
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "/data")
	retries, _ := strconv.Atoi(getEnv("ASR_RETRIES", "2"))

	// Hugging Face token, under any of the names people actually use.
	hfToken := os.Getenv("HUGGINGFACE_TOKEN")
	if hfToken == "" {
		hfToken = os.Getenv("HF_TOKEN")
	}
	if hfToken == "" {
		hfToken = os.Getenv("HF_ACCESS_TOKEN")
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:          port,
		DataPath:      dataPath,
		MediaPath:     getEnv("MEDIA_PATH", dataPath+"/uploads"),
		DBPath:        getEnv("DB_PATH", dataPath+"/scribeflow.db"),
		WatchPath:     os.Getenv("WATCH_PATH"),
		ConfigFile:    getEnv("CONFIG_FILE", "./config.toml"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		NotesModel:    os.Getenv("NOTES_MODEL"),
		WhisperURL:    os.Getenv("WHISPER_URL"),
		DiarizeURL:    os.Getenv("DIARIZE_URL"),
		HFToken:       hfToken,
		ASRRetries:    retries,
		MaxUploadSize: parseSize(getEnv("MAX_FILE_SIZE", "2GB")),
		CORSOrigins:   corsOrigins,
	}
}

// parseSize reads values like "100MB", "2GB" or plain bytes.
func parseSize(v string) int64 {
	v = strings.TrimSpace(strings.ToUpper(v))
	mult := int64(1)
	switch {
	case strings.HasSuffix(v, "GB"):
		mult = 1 << 30
		v = strings.TrimSuffix(v, "GB")
	case strings.HasSuffix(v, "MB"):
		mult = 1 << 20
		v = strings.TrimSuffix(v, "MB")
	case strings.HasSuffix(v, "KB"):
		mult = 1 << 10
		v = strings.TrimSuffix(v, "KB")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		return 2 << 30
	}
	return n * mult
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
