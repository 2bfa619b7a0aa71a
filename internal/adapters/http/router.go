package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/x036ox/video-api/internal/application"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(identityMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Get("/", handler.getVideo)
	r.Get("/recs", handler.getRecommendations)
	r.Get("/search", handler.searchVideos)
	r.Get("/watch", handler.watchVideo)
	r.Get("/{videoID}/index.m3u8", handler.streamPlaylist)
	r.Get("/{videoID}/{segment}", handler.streamSegment)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", handler.createVideo)
		r.Put("/", handler.updateVideo)
		r.Delete("/", handler.deleteVideo)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/admin", handler.findVideosByOption)
		r.Post("/admin/add", handler.seedVideos)
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/user-info", handler.getUser)
		r.Post("/user-info", handler.registerUser)
		r.Get("/videos", handler.userVideos)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/liked", handler.hasLiked)
			r.Get("/likes", handler.userLikes)
			r.Get("/subscribes", handler.userSubscriptions)
			r.Get("/subscribed", handler.hasSubscribed)
			r.Get("/search-history", handler.searchHistory)
			r.Post("/search-history", handler.addSearchOption)
			r.Delete("/search-history", handler.deleteSearchOption)
			r.Get("/watch-history", handler.watchHistory)
			r.Post("/not-interested", handler.markNotInterested)
			r.Post("/like", handler.likeVideo)
			r.Post("/dislike", handler.dislikeVideo)
			r.Post("/subscribe", handler.subscribe)
			r.Post("/unsubscribe", handler.unsubscribe)
			r.Put("/", handler.updateUser)
			r.Delete("/", handler.deleteUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin", handler.findUsersByOption)
			r.Post("/admin/add", handler.seedUsers)
		})
	})
	return r
}
