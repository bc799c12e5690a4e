package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/camden-git/organizer/models"
	"github.com/camden-git/organizer/services"
)

// SelectionHandler exposes the single edit session of the local user
type SelectionHandler struct {
	Editor *services.Editor
}

func (sh *SelectionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sh.Editor.Selection())
}

// PutFields replaces the edit buffer without saving
func (sh *SelectionHandler) PutFields(w http.ResponseWriter, r *http.Request) {
	var fields models.PersonFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}
	sh.Editor.SetFields(fields)
	writeJSON(w, http.StatusOK, sh.Editor.Selection())
}

// Save upserts the posted fields, or the current buffer when the body is
// empty, keyed by the selection
func (sh *SelectionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var (
		details *services.PersonDetails
		err     error
	)
	if r.ContentLength == 0 {
		details, err = sh.Editor.SaveBuffer()
	} else {
		var fields models.PersonFields
		if decodeErr := json.NewDecoder(r.Body).Decode(&fields); decodeErr != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+decodeErr.Error())
			return
		}
		details, err = sh.Editor.Save(fields)
	}
	if err != nil {
		writeStoreError(w, err, "save person")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Clear starts a new record
func (sh *SelectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sh.Editor.NewRecord()
	writeJSON(w, http.StatusOK, sh.Editor.Selection())
}

func (sh *SelectionHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
		Plate string `json:"plate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	vehicle, err := sh.Editor.AddVehicle(req.Model, req.Plate)
	if err != nil {
		writeStoreError(w, err, "add vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}
