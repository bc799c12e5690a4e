package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/camden-git/organizer/config"
	"github.com/camden-git/organizer/database"
	"github.com/camden-git/organizer/handlers"
	"github.com/camden-git/organizer/media"
	"github.com/camden-git/organizer/repository"
	"github.com/camden-git/organizer/services"
	"github.com/camden-git/organizer/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logCloser, err := utils.SetupLogOutput(utils.RotationConfig{
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
		MaxFiles:  cfg.LogMaxFiles,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to set up log file: %v", err)
	}
	defer logCloser.Close()

	db, err := database.OpenOrRecreate(cfg.DatabasePath, database.Options{
		GormLogLevel: database.ParseLogLevel(cfg.DBLogLevel),
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer db.Close()

	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, map[media.AssetType]string{
		media.AssetTypePhoto: cfg.PhotosSubDir(),
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	editor := services.NewEditor(
		repository.NewPersonRepository(db),
		repository.NewVehicleRepository(db),
		database.SearchOptions{IncludePlates: cfg.SearchIncludePlates},
	)
	editor.UsePhotoStore(mediaStore)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing photos in: %s (max %dpx)", cfg.PhotosPath, cfg.PhotoMaxSize)
	log.Printf("Search matches plates: %t", cfg.SearchIncludePlates)

	router := handlers.NewRouter(handlers.RouterDeps{
		Editor:         editor,
		PhotoProcessor: media.NewPhotoProcessor(mediaStore, cfg.PhotoMaxSize),
		PhotosPath:     cfg.PhotosPath,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	fmt.Printf("Organizer listening on http://%s\n", cfg.ListenAddr)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("FATAL: server stopped: %v", err)
	}
}
