package notes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bkatic/memopad/internal/instrumentation"
	"github.com/bkatic/memopad/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	api      Api
	validate *validator.Validate
	instr    *instrumentation.Instrumentation
}

func NewHandler(
	api Api,
	instr *instrumentation.Instrumentation,
) *Handler {
	return &Handler{
		api:      api,
		validate: validator.New(),
		instr:    instr,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/notes", handler.HandleList).Methods("GET", "OPTIONS").Name("list-notes")
	r.HandleFunc("/notes", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-note")
	r.HandleFunc("/notes/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-note")
	r.HandleFunc("/notes/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-note")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add new note, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	if err := handler.validate.Struct(req); err != nil {
		pkg.WriteJSONError(w, "content empty", http.StatusBadRequest)
		return
	}

	addedNote, err := handler.api.Add(r.Context(), &Note{
		Content: req.Content,
	})
	if err != nil {
		log.Errorf("failed to add new note: %s", err)
		pkg.WriteJSONError(w, "failed to add new note", http.StatusInternalServerError)
		return
	}

	handler.instr.CounterNotes.Inc()
	log.Printf("new note added: %d", addedNote.Id)

	respJson, err := json.Marshal(AddNoteResponse{
		Id:      addedNote.Id,
		Content: addedNote.Content,
	})
	if err != nil {
		log.Errorf("failed to marshal added note %d: %s", addedNote.Id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		pkg.WriteJSONError(w, "id invalid", http.StatusBadRequest)
		return
	}

	note, err := handler.api.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			pkg.WriteJSONError(w, "note not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get note %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to get note", http.StatusInternalServerError)
		return
	}

	noteJson, err := json.Marshal(note)
	if err != nil {
		log.Errorf("failed to marshal note %d: %s", id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, noteJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		pkg.WriteJSONError(w, "id NaN", http.StatusBadRequest)
		return
	}

	// success regardless of whether the note was there at all
	if err := handler.api.Delete(r.Context(), id); err != nil {
		log.Errorf("failed to delete note %d: %s", id, err)
		pkg.WriteJSONError(w, "note not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteNoteResponse{Success: true})
	if err != nil {
		log.Errorf("failed to marshal delete note response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	// preflight for POST /notes lands here too, the list route matches first
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	notes, err := handler.api.List(r.Context())
	if err != nil {
		log.Errorf("list notes error: %s", err)
		pkg.WriteJSONError(w, "failed to get notes", http.StatusInternalServerError)
		return
	}

	if len(notes) == 0 {
		notes = []Note{}
	}

	notesJson, err := json.Marshal(notes)
	if err != nil {
		log.Errorf("marshal notes error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, notesJson)
}
