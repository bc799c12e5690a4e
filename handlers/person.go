package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/organizer/services"
)

type PersonHandler struct {
	Editor *services.Editor
}

func personIDParam(r *http.Request) (int64, bool) {
	personID, err := strconv.ParseInt(chi.URLParam(r, "person_id"), 10, 64)
	if err != nil || personID <= 0 {
		return 0, false
	}
	return personID, true
}

// SearchPeople handles GET /api/people?q=
func (ph *PersonHandler) SearchPeople(w http.ResponseWriter, r *http.Request) {
	people, err := ph.Editor.Search(r.URL.Query().Get("q"))
	if err != nil {
		writeStoreError(w, err, "search people")
		return
	}
	writeJSON(w, http.StatusOK, people)
}

// GetPerson loads a person with vehicles and selects them for editing
func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	personID, ok := personIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid person ID format")
		return
	}

	details, err := ph.Editor.Select(personID)
	if err != nil {
		writeStoreError(w, err, "retrieve person")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	personID, ok := personIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid person ID format")
		return
	}

	if err := ph.Editor.Delete(personID); err != nil {
		writeStoreError(w, err, "delete person")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (ph *PersonHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	personID, ok := personIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid person ID format")
		return
	}

	vehicles, err := ph.Editor.Vehicles(personID)
	if err != nil {
		writeStoreError(w, err, "list vehicles")
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}
