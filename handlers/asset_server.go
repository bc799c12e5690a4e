package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// AssetServer creates a handler to serve stored files from one directory.
// It must be mounted on a wildcard route; the wildcard is the file path
// inside dir, e.g.
//
//	r.Get("/photos/*", AssetServer(cfg.PhotosPath))
func AssetServer(dir string) http.HandlerFunc {
	assetDir := filepath.Clean(dir)
	log.Printf("Serving assets from directory: %s", assetDir)

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := chi.URLParam(r, "*")
		if relativePath == "" || strings.Contains(relativePath, "..") {
			WriteAPIError(w, http.StatusBadRequest, "invalid_path", "Invalid asset path")
			return
		}

		cleanedAssetPath := filepath.Join(assetDir, filepath.FromSlash(relativePath))
		if !strings.HasPrefix(cleanedAssetPath, assetDir+string(filepath.Separator)) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Forbidden")
			log.Printf("SECURITY: Attempted asset access outside designated directory: Request='%s', Resolved='%s', Allowed Base='%s'",
				r.URL.Path, cleanedAssetPath, assetDir)
			return
		}

		if info, err := os.Stat(cleanedAssetPath); os.IsNotExist(err) || (err == nil && info.IsDir()) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			log.Printf("Error stating asset file %s: %v", cleanedAssetPath, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", int(cacheDuration.Seconds())))
		http.ServeFile(w, r, cleanedAssetPath)
	}
}
