package companion

import (
	"encoding/json"
	"net/http"

	"github.com/bkatic/memopad/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type Handler struct {
	companion *Companion
	validate  *validator.Validate
}

func NewHandler(companion *Companion) *Handler {
	return &Handler{
		companion: companion,
		validate:  validator.New(),
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/chat", handler.HandleChat).Methods("POST", "OPTIONS").Name("chat")
}

func (handler *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("chat, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	if err := handler.validate.Struct(req); err != nil {
		pkg.WriteJSONError(w, "message empty", http.StatusBadRequest)
		return
	}

	reply := handler.companion.Chat(r.Context(), req.Message)

	replyJson, err := json.Marshal(reply)
	if err != nil {
		log.Errorf("failed to marshal chat reply: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, replyJson)
}
