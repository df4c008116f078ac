package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/streamtube/streamtube-server/internal/api/http/handler"
	"github.com/streamtube/streamtube-server/internal/api/http/middleware"
	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
)

// New assembles the API routes. Registration, login and token refresh are
// public; everything else requires a valid access token.
func New(
	auth *handler.Auth,
	user *handler.User,
	video *handler.Video,
	tokens model.TokenManager,
	ctxManager model.ContextManager,
	l *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(l))
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/refresh-token", auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, ctxManager))

			r.Post("/logout", auth.Logout)
			r.Post("/change-password", auth.ChangePassword)
			r.Get("/user", auth.Me)
			r.Patch("/user", user.UpdateProfile)
			r.Patch("/avatar", user.UpdateAvatar)
			r.Patch("/cover-image", user.UpdateCoverImage)
			r.Get("/profile/{username}", user.ChannelProfile)
			r.Post("/do-subscribe/{username}", user.Subscribe)
			r.Post("/do-unsubscribe/{username}", user.Unsubscribe)
			r.Post("/add-video", video.Publish)
			r.Get("/watch-history", video.WatchHistory)
		})
	})

	return r
}
