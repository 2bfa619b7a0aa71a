package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/x036ox/video-api/internal/application"
)

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		p, ok := principalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId is required")
			return
		}
		userID = p.UserID
	}
	view, err := h.service.FindUserByID(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	// Self-registration always binds to the authenticated subject.
	if p, ok := principalFromContext(r.Context()); ok && !p.isAdmin() {
		req.ID = p.UserID
		req.Authorities = ""
	}
	view, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, view)
}

func (h *Handler) findUsersByOption(w http.ResponseWriter, r *http.Request) {
	options := r.URL.Query()["option"]
	values := r.URL.Query()["value"]
	views, err := h.service.FindUsersByOption(r.Context(), options, values)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) userVideos(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId is required")
		return
	}
	sort := application.SortNone
	if raw := r.URL.Query().Get("sortOption"); raw != "" {
		option, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "sortOption must be an integer")
			return
		}
		sort, err = application.VideoSortFromOption(option)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}
	views, err := h.service.UserVideos(r.Context(), userID, sort)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) hasLiked(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	liked, err := h.service.HasUserLikedVideo(r.Context(), p.UserID, id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handler) userLikes(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	views, err := h.service.UserLikes(r.Context(), p.UserID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) userSubscriptions(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	views, err := h.service.UserSubscriptions(r.Context(), p.UserID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) hasSubscribed(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "channelId is required")
		return
	}
	subscribed, err := h.service.HasUserSubscribed(r.Context(), p.UserID, channelID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"subscribed": subscribed})
}

func (h *Handler) searchHistory(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	queries, err := h.service.SearchHistory(r.Context(), p.UserID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, queries)
}

func (h *Handler) addSearchOption(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query is required")
		return
	}
	if err := h.service.AddSearchOption(r.Context(), p.UserID, query); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "search option added")
}

func (h *Handler) deleteSearchOption(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query is required")
		return
	}
	if err := h.service.DeleteSearchOption(r.Context(), p.UserID, query); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "search option deleted")
}

func (h *Handler) watchHistory(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	views, err := h.service.WatchHistory(r.Context(), p.UserID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) markNotInterested(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	if err := h.service.MarkNotInterested(r.Context(), id, p.UserID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "preference recorded")
}

func (h *Handler) likeVideo(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	view, err := h.service.LikeVideo(r.Context(), p.UserID, id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) dislikeVideo(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	if err := h.service.DislikeVideo(r.Context(), p.UserID, id); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "like removed")
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "channelId is required")
		return
	}
	if err := h.service.Subscribe(r.Context(), p.UserID, channelID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "subscribed")
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "channelId is required")
		return
	}
	if err := h.service.Unsubscribe(r.Context(), p.UserID, channelID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "unsubscribed")
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart form")
		return
	}
	var req application.UpdateUserRequest
	if r.Form.Has("email") {
		email := r.FormValue("email")
		req.Email = &email
	}
	req.Picture, _ = formFileBytes(r, "picture")
	if err := h.service.UpdateUser(r.Context(), p.UserID, req); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "user updated")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = p.UserID
	}
	if userID != p.UserID && !p.isAdmin() {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "cannot delete another user")
		return
	}
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}

func (h *Handler) seedUsers(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.Atoi(r.URL.Query().Get("amount"))
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a positive integer")
		return
	}
	created, err := h.service.SeedUsers(r.Context(), amount)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int{"created": created})
}
