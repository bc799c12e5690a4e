package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultDatabasePath = "organizer.db"
	DefaultListenAddr   = "127.0.0.1:8080"
	DefaultPhotosSubDir = "photos"
)

const (
	defaultPhotoMaxSize = 800
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

type Config struct {
	// database path, resolved to an absolute path
	DatabasePath string
	DBLogLevel   string

	// address of the local HTTP API
	ListenAddr         string
	CORSAllowedOrigins []string

	// media storage configuration
	MediaStoragePath string // root for stored photos
	PhotosPath       string // full-calculated path for photos
	PhotoMaxSize     int    // longest side in px

	// search settings
	SearchIncludePlates bool

	// optional rotating log file
	LogFile      string
	LogMaxSizeMB int
	LogMaxFiles  int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", DefaultDatabasePath)
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for database '%s': %w", dbPath, err)
	}

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	photosSubDir := getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir)
	if photosSubDir != filepath.Base(photosSubDir) || photosSubDir == "." || photosSubDir == ".." {
		return Config{}, fmt.Errorf("PHOTOS_SUBDIR must be a single directory name, got '%s'", photosSubDir)
	}

	cfg := Config{
		DatabasePath:        absDBPath,
		DBLogLevel:          getEnvOrDefault("DB_LOG_LEVEL", "warn"),
		ListenAddr:          getEnvOrDefault("LISTEN_ADDR", DefaultListenAddr),
		CORSAllowedOrigins:  splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		MediaStoragePath:    absMediaStorage,
		PhotosPath:          filepath.Join(absMediaStorage, photosSubDir),
		PhotoMaxSize:        getEnvIntOrDefault("PHOTO_MAX_SIZE", defaultPhotoMaxSize),
		SearchIncludePlates: getEnvBoolOrDefault("SEARCH_INCLUDE_PLATES", true),
		LogFile:             os.Getenv("LOG_FILE"),
		LogMaxSizeMB:        getEnvIntOrDefault("LOG_MAX_SIZE_MB", defaultLogMaxSizeMB),
		LogMaxFiles:         getEnvIntOrDefault("LOG_MAX_FILES", defaultLogMaxFiles),
	}

	return cfg, nil
}

// PhotosSubDir is the photo directory name relative to MediaStoragePath
func (c Config) PhotosSubDir() string {
	return filepath.Base(c.PhotosPath)
}
