package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/x036ox/video-api/internal/application"
	"github.com/x036ox/video-api/internal/domain"
)

const maxUploadBytes = 512 << 20

var (
	errForbiddenOwner    = fmt.Errorf("not the video owner: %w", domain.ErrForbidden)
	errInvalidForm       = fmt.Errorf("invalid multipart form: %w", domain.ErrInvalidArgument)
	errThumbnailRequired = fmt.Errorf("thumbnail file is required: %w", domain.ErrInvalidArgument)
	errVideoRequired     = fmt.Errorf("video file is required: %w", domain.ErrInvalidArgument)
)

func (h *Handler) getVideo(w http.ResponseWriter, r *http.Request) {
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	view, err := h.service.FindVideoByID(r.Context(), id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	languages := splitCSV(r.Header.Get("User-Languages"))
	if len(languages) == 0 {
		writeError(w, http.StatusNotAcceptable, "LANGUAGES_REQUIRED", "User-Languages header is required")
		return
	}
	excludes, err := parseIDList(r.URL.Query().Get("exclude"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "exclude must be a comma-separated id list")
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	sort := application.SortNone
	if raw := r.URL.Query().Get("sortOption"); raw != "" {
		option, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "sortOption must be an integer")
			return
		}
		sort, err = application.VideoSortFromOption(option)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}
	var userID string
	if p, ok := principalFromContext(r.Context()); ok {
		userID = p.UserID
	}
	views, err := h.service.RecommendedVideos(r.Context(), userID, excludes, languages, size, sort)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) searchVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "search is required")
		return
	}
	views, err := h.service.SearchVideos(r.Context(), query)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	if p, ok := principalFromContext(r.Context()); ok {
		// Search history is best-effort; a failed insert never fails the search.
		_ = h.service.AddSearchOption(r.Context(), p.UserID, query)
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) findVideosByOption(w http.ResponseWriter, r *http.Request) {
	options := r.URL.Query()["option"]
	values := r.URL.Query()["value"]
	views, err := h.service.FindVideosByOption(r.Context(), options, values)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) watchVideo(w http.ResponseWriter, r *http.Request) {
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	var userID string
	if p, ok := principalFromContext(r.Context()); ok {
		userID = p.UserID
	}
	view, err := h.service.WatchVideo(r.Context(), id, userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) streamPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "videoID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid video id")
		return
	}
	rc, err := h.service.StreamPlaylist(r.Context(), id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
	_, _ = io.Copy(w, rc)
}

func (h *Handler) streamSegment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "videoID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid video id")
		return
	}
	segment := chi.URLParam(r, "segment")
	rc, err := h.service.StreamSegment(r.Context(), id, segment)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "video/mp2t")
	_, _ = io.Copy(w, rc)
}

func (h *Handler) createVideo(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	req, err := videoFormRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	id, err := h.service.CreateVideo(r.Context(), req, p.UserID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) updateVideo(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart form")
		return
	}
	id, err := strconv.ParseInt(r.FormValue("videoId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	if err := h.requireOwnerOrAdmin(r, p, id); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	req := application.UpdateVideoRequest{VideoID: id}
	if r.Form.Has("title") {
		title := r.FormValue("title")
		req.Title = &title
	}
	if r.Form.Has("description") {
		description := r.FormValue("description")
		req.Description = &description
	}
	if r.Form.Has("category") {
		category := r.FormValue("category")
		req.Category = &category
	}
	req.Thumbnail, _ = formFileBytes(r, "thumbnail")
	req.Video, _ = formFileBytes(r, "video")
	view, err := h.service.UpdateVideo(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) deleteVideo(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	id, err := queryInt64(r, "videoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "videoId is required")
		return
	}
	if err := h.requireOwnerOrAdmin(r, p, id); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	if err := h.service.DeleteVideo(r.Context(), id); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "video deleted")
}

func (h *Handler) seedVideos(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.Atoi(r.URL.Query().Get("amount"))
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a positive integer")
		return
	}
	created, err := h.service.SeedVideos(r.Context(), amount)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int{"created": created})
}

func (h *Handler) requireOwnerOrAdmin(r *http.Request, p principal, videoID int64) error {
	if p.isAdmin() {
		return nil
	}
	view, err := h.service.FindVideoByID(r.Context(), videoID)
	if err != nil {
		return err
	}
	if view.ChannelID != p.UserID {
		return errForbiddenOwner
	}
	return nil
}

func videoFormRequest(r *http.Request) (application.CreateVideoRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return application.CreateVideoRequest{}, errInvalidForm
	}
	thumbnail, err := formFileBytes(r, "thumbnail")
	if err != nil {
		return application.CreateVideoRequest{}, errThumbnailRequired
	}
	video, err := formFileBytes(r, "video")
	if err != nil {
		return application.CreateVideoRequest{}, errVideoRequired
	}
	return application.CreateVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Thumbnail:   thumbnail,
		Video:       video,
	}, nil
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func queryInt64(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(param), 10, 64)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIDList(raw string) ([]int64, error) {
	parts := splitCSV(raw)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
