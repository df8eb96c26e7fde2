package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mini-maxit/modelboard/internal/auth"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/services"
)

// multipartOverheadBytes leaves room for the text fields and part headers of a submission form.
const multipartOverheadBytes = 1 << 20

type Dependencies struct {
	Auth                 auth.Service
	Submissions          services.SubmissionService
	Leaderboard          services.LeaderboardService
	Profiles             services.ProfileService
	MaxArtifactSizeBytes int64
}

func NewRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	h := &handlers{
		auth:                 deps.Auth,
		submissions:          deps.Submissions,
		leaderboard:          deps.Leaderboard,
		profiles:             deps.Profiles,
		maxArtifactSizeBytes: deps.MaxArtifactSizeBytes,
	}
	requireAuth := AuthMiddleware(deps.Auth)

	r := gin.New()
	r.Use(RequestLogger(logger.NewNamedLogger("api")), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Code: 0, Msg: "ok"})
	})

	apiGroup := r.Group("/api")
	{
		authRoutes := apiGroup.Group("/auth")
		{
			authRoutes.POST("/signup", h.signUp)
			authRoutes.POST("/signin", h.signIn)
			authRoutes.POST("/signout", requireAuth, h.signOut)
			authRoutes.GET("/session", requireAuth, h.session)
		}

		modelRoutes := apiGroup.Group("/models")
		{
			modelRoutes.POST("", LimitBody(deps.MaxArtifactSizeBytes+multipartOverheadBytes), requireAuth, h.submitModel)
			modelRoutes.GET("/sample", h.sampleModel)
			modelRoutes.GET("/requirements", h.requirements)
			modelRoutes.GET("/:id/download", h.downloadModel)
		}

		apiGroup.GET("/leaderboard", h.listLeaderboard)

		profileRoutes := apiGroup.Group("/profile")
		profileRoutes.Use(requireAuth)
		{
			profileRoutes.GET("", h.profile)
			profileRoutes.GET("/models", h.listOwnModels)
			profileRoutes.DELETE("/models/:id", h.deleteOwnModel)
		}
	}

	return r
}
