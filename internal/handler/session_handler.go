package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-paper/internal/middleware"
	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/paper"
	"github.com/stemsi/exstem-paper/internal/response"
	"github.com/stemsi/exstem-paper/internal/service"
	"github.com/stemsi/exstem-paper/internal/validator"
)

// SessionHandler handles exam editing session endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "session_handler").Logger(),
	}
}

// StartSession godoc
// POST /api/v1/sessions
// Opens an editing session over the caller's question bank.
func (h *SessionHandler) StartSession(c *gin.Context) {
	viewer, ok := viewerOf(c)
	if !ok {
		return
	}

	state, err := h.sessionService.Start(c.Request.Context(), viewer)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, state)
}

// ListSessions godoc
// GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	viewer, ok := viewerOf(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), viewer)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, sessions)
}

// GetSession godoc
// GET /api/v1/sessions/:id
// Returns the session view: visible questions, facets, selection and metadata.
func (h *SessionHandler) GetSession(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	state, err := h.sessionService.Get(c.Request.Context(), viewer, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// SetCriteria godoc
// PUT /api/v1/sessions/:id/criteria
func (h *SessionHandler) SetCriteria(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	var req model.UpdateCriteriaRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.SetCriteria(c.Request.Context(), viewer, id, req.ToCriteria())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// ResetCriteria godoc
// DELETE /api/v1/sessions/:id/criteria
func (h *SessionHandler) ResetCriteria(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	state, err := h.sessionService.ResetCriteria(c.Request.Context(), viewer, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// ToggleQuestion godoc
// POST /api/v1/sessions/:id/selection/:question_id/toggle
// Adds the question to the end of the selection, or removes it if present.
// Unknown question ids leave the selection unchanged.
func (h *SessionHandler) ToggleQuestion(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}
	questionID, ok := questionParam(c)
	if !ok {
		return
	}

	state, err := h.sessionService.Toggle(c.Request.Context(), viewer, id, questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// RemoveQuestion godoc
// DELETE /api/v1/sessions/:id/selection/:question_id
func (h *SessionHandler) RemoveQuestion(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}
	questionID, ok := questionParam(c)
	if !ok {
		return
	}

	state, err := h.sessionService.Remove(c.Request.Context(), viewer, id, questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// SetMetadata godoc
// PUT /api/v1/sessions/:id/metadata
func (h *SessionHandler) SetMetadata(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	var req model.UpdateMetadataRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.SetMetadata(c.Request.Context(), viewer, id, req.ToMetadata())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// AssembleDocument godoc
// POST /api/v1/sessions/:id/document
// Builds the exam document. Responds 422 while nothing is selected.
func (h *SessionHandler) AssembleDocument(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	doc, err := h.sessionService.Assemble(c.Request.Context(), viewer, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// EndSession godoc
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) EndSession(c *gin.Context) {
	viewer, id, ok := sessionTarget(c)
	if !ok {
		return
	}

	if err := h.sessionService.End(c.Request.Context(), viewer, id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// fail maps service and engine errors to API responses.
func (h *SessionHandler) fail(c *gin.Context, err error) {
	status, code := sessionErrorCode(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Session request failed")
	}
	response.Fail(c, status, code)
}

func sessionErrorCode(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrSessionNotFound
	case errors.Is(err, service.ErrSessionConflict):
		return http.StatusConflict, response.ErrSessionConflict
	case errors.Is(err, paper.ErrNoQuestionsSelected):
		return http.StatusUnprocessableEntity, response.ErrNoQuestionsSelected
	case errors.Is(err, paper.ErrRepositoryUnavailable):
		return http.StatusServiceUnavailable, response.ErrRepositoryUnavailable
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func viewerOf(c *gin.Context) (model.Viewer, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return model.Viewer{}, false
	}
	return claims.Viewer(), true
}

// sessionTarget resolves the caller and the :id session parameter.
func sessionTarget(c *gin.Context) (model.Viewer, string, bool) {
	viewer, ok := viewerOf(c)
	if !ok {
		return model.Viewer{}, "", false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return model.Viewer{}, "", false
	}
	return viewer, id.String(), true
}

func questionParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("question_id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
