package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// Handler exposes the quiz engine over JSON endpoints.
type Handler struct {
	service *app.QuizService
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{service: service}
}

type saveResponseRequest struct {
	SessionID  string `json:"sessionId"`
	QuestionID int64  `json:"questionId"`
	AnswerText string `json:"answerText"`
}

type saveResponseResult struct {
	Success    bool  `json:"success"`
	ResponseID int64 `json:"responseId"`
}

type errorBody struct {
	Error string `json:"error"`
}

type errorsBody struct {
	Errors []string `json:"errors"`
}

// GetQuestions serves the flat catalog for the grid view.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListGrid(r.Context())
	if err != nil {
		h.storeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetQuestionDetail serves a fresh randomized attempt subset. Every call may
// return a different ordering.
func (h *Handler) GetQuestionDetail(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.SelectQuizSet(r.Context())
	if err != nil {
		h.storeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetQuestionByOrder serves one question by its catalog position.
func (h *Handler) GetQuestionByOrder(w http.ResponseWriter, r *http.Request) {
	orderNo, err := strconv.Atoi(chi.URLParam(r, "orderNo"))
	if err != nil || orderNo < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Order number must be >= 1."})
		return
	}

	total, err := h.service.CountQuestions(r.Context())
	if err != nil {
		h.storeFault(w, err)
		return
	}
	if orderNo > total {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error: fmt.Sprintf("Order number %d is out of range (1-%d).", orderNo, total),
		})
		return
	}

	view, err := h.service.GetByOrder(r.Context(), orderNo)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Question not found."})
		return
	}
	if err != nil {
		h.storeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SaveResponse validates and upserts one answer.
func (h *Handler) SaveResponse(w http.ResponseWriter, r *http.Request) {
	var req saveResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorsBody{Errors: []string{"Invalid request body."}})
		return
	}
	if _, err := uuid.Parse(req.SessionID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorsBody{Errors: []string{"Session ID is required."}})
		return
	}

	responseID, validationErrs, err := h.service.SaveResponse(r.Context(), req.SessionID, req.QuestionID, req.AnswerText)
	if err != nil {
		h.storeFault(w, err)
		return
	}
	if len(validationErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, errorsBody{Errors: validationErrs})
		return
	}
	writeJSON(w, http.StatusOK, saveResponseResult{Success: true, ResponseID: responseID})
}

// GetResponsesBySession lists a session's stored answers; 204 when none.
func (h *Handler) GetResponsesBySession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}

	views, err := h.service.ResponsesBySession(r.Context(), sessionID)
	if err != nil {
		h.storeFault(w, err)
		return
	}
	if len(views) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetSummary serves the scored summary; unknown sessions get empty items and
// zero stats rather than an error.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}

	summary, err := h.service.BuildSummary(r.Context(), sessionID)
	if err != nil {
		h.storeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func sessionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := chi.URLParam(r, "sessionId")
	if _, err := uuid.Parse(sessionID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Session ID is required."})
		return "", false
	}
	return sessionID, true
}

func (h *Handler) storeFault(w http.ResponseWriter, err error) {
	log.Printf("store fault: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
