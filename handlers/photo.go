package handlers

import (
	"log"
	"net/http"

	"github.com/camden-git/organizer/media"
)

const maxPhotoUploadBytes = 20 << 20

type PhotoHandler struct {
	Processor *media.PhotoProcessor
}

// UploadPhoto stores a multipart "photo" file and returns the reference to
// put into the person's photo_reference field
func (ph *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Invalid multipart upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "missing_photo", "Missing form file: photo")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusUnsupportedMediaType, "unsupported_type", "Unsupported image type: "+header.Filename)
		return
	}

	ref, err := ph.Processor.ProcessPhoto(file)
	if err != nil {
		log.Printf("Error processing uploaded photo '%s': %v", header.Filename, err)
		WriteAPIError(w, http.StatusUnprocessableEntity, "invalid_image", "Failed to process photo")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"photo_reference": ref})
}
