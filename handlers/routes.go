package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/organizer/media"
	"github.com/camden-git/organizer/services"
)

// RouterDeps is everything the HTTP surface needs
type RouterDeps struct {
	Editor         *services.Editor
	PhotoProcessor *media.PhotoProcessor
	PhotosPath     string
	AllowedOrigins []string
}

// NewRouter builds the local API
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	personHandler := &PersonHandler{Editor: deps.Editor}
	selectionHandler := &SelectionHandler{Editor: deps.Editor}
	photoHandler := &PhotoHandler{Processor: deps.PhotoProcessor}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/people", func(r chi.Router) {
			r.Get("/", personHandler.SearchPeople)
			r.Route("/{person_id}", func(r chi.Router) {
				r.Get("/", personHandler.GetPerson)
				r.Delete("/", personHandler.DeletePerson)
				r.Get("/vehicles", personHandler.ListVehicles)
			})
		})

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", selectionHandler.GetSelection)
			r.Put("/fields", selectionHandler.PutFields)
			r.Post("/save", selectionHandler.Save)
			r.Post("/clear", selectionHandler.Clear)
			r.Post("/vehicles", selectionHandler.AddVehicle)
		})

		if deps.PhotoProcessor != nil {
			r.Post("/photos", photoHandler.UploadPhoto)
		}
		if deps.PhotosPath != "" {
			r.Get("/photos/*", AssetServer(deps.PhotosPath))
		}
	})

	return r
}
