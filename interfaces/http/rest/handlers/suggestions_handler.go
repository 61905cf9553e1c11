package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"videorec/application/queries"
	querybus "videorec/application/queries/bus"
	apperrors "videorec/pkg/errors"
)

// SuggestionsHandler handles recommendation HTTP requests
type SuggestionsHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewSuggestionsHandler creates a new suggestions handler
func NewSuggestionsHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetRelatedVideos handles GET /videos/{videoID}/related
func (h *SuggestionsHandler) GetRelatedVideos(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if videoID == "" {
		h.respondError(w, http.StatusBadRequest, "Video ID is required")
		return
	}
	if _, err := uuid.Parse(videoID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid video ID format")
		return
	}

	pageSize, pagingState, ok := h.parsePaging(w, r)
	if !ok {
		return
	}

	query := queries.GetRelatedVideosQuery{
		VideoID:     videoID,
		PageSize:    pageSize,
		PagingState: pagingState,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get related videos",
			zap.String("videoID", videoID),
			zap.Error(err),
		)
		h.respondAppError(w, err, "Failed to retrieve related videos")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetSuggestedVideos handles GET /users/{userID}/suggested
func (h *SuggestionsHandler) GetSuggestedVideos(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if _, err := uuid.Parse(userID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	pageSize, pagingState, ok := h.parsePaging(w, r)
	if !ok {
		return
	}

	query := queries.GetSuggestedVideosQuery{
		UserID:      userID,
		PageSize:    pageSize,
		PagingState: pagingState,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get suggested videos",
			zap.String("userID", userID),
			zap.Error(err),
		)
		h.respondAppError(w, err, "Failed to retrieve suggested videos")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// parsePaging reads the pageSize and pagingState query parameters. It writes
// the error response itself and returns ok=false on bad input.
func (h *SuggestionsHandler) parsePaging(w http.ResponseWriter, r *http.Request) (int, []byte, bool) {
	pageSize := 0
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid pageSize")
			return 0, nil, false
		}
		pageSize = n
	}

	var pagingState []byte
	if raw := r.URL.Query().Get("pagingState"); raw != "" {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid pagingState")
			return 0, nil, false
		}
		pagingState = decoded
	}

	return pageSize, pagingState, true
}

// Helper methods

func (h *SuggestionsHandler) respondAppError(w http.ResponseWriter, err error, fallback string) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		h.respondError(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	h.respondError(w, http.StatusInternalServerError, fallback)
}

func (h *SuggestionsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *SuggestionsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
