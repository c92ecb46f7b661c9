package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"anoa.com/socialplatform/internal/config"
	"anoa.com/socialplatform/internal/middleware"
	"anoa.com/socialplatform/pkg/database"
	"anoa.com/socialplatform/pkg/logging"
	"anoa.com/socialplatform/pkg/ratelimiter"
	"anoa.com/socialplatform/pkg/response"
	"anoa.com/socialplatform/pkg/storage"

	activityHttp "anoa.com/socialplatform/internal/modules/activity/delivery/http"
	activityService "anoa.com/socialplatform/internal/modules/activity/service"

	commentHttp "anoa.com/socialplatform/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/socialplatform/internal/modules/comment/repository"
	commentService "anoa.com/socialplatform/internal/modules/comment/service"

	likeRepo "anoa.com/socialplatform/internal/modules/like/repository"

	postHttp "anoa.com/socialplatform/internal/modules/post/delivery/http"
	postRepo "anoa.com/socialplatform/internal/modules/post/repository"
	postService "anoa.com/socialplatform/internal/modules/post/service"

	profileHttp "anoa.com/socialplatform/internal/modules/profile/delivery/http"
	profileService "anoa.com/socialplatform/internal/modules/profile/service"

	searchService "anoa.com/socialplatform/internal/modules/search/service"

	userRepo "anoa.com/socialplatform/internal/modules/user/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer wires every module. redisClient may be nil: rate limiting and the
// activity stream are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	log := logging.WithComponent("server")

	userRepo := userRepo.NewUserRepository(db)
	postRepo := postRepo.NewPostRepository(db)
	commentRepo := commentRepo.NewCommentRepository(db)
	likeRepo := likeRepo.NewLikeRepository(db)

	limiter := ratelimiter.New(redisClient)
	publisher := activityService.NewPublisher(redisClient)

	var postIndex searchService.PostIndex
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		postIndex = searchService.NewPostIndex(searchService.NewMeiliClient(meiliHost, cfg.MeiliMasterKey))
	} else {
		log.Info("MEILISEARCH_HOST not set, post search uses the database")
	}

	var imageStorage storage.ImageStorage
	if cfg.CloudinaryURL != "" {
		s, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryCloudName)
		if err != nil {
			log.Warn("cloudinary unavailable, avatar uploads disabled", zap.Error(err))
		} else {
			imageStorage = s
		}
	}

	postSvc := postService.NewPostService(postRepo, userRepo, likeRepo, postIndex, limiter, publisher, cfg.RateLimitPost)
	postHandler := postHttp.NewPostHandler(postSvc)

	commentSvc := commentService.NewCommentService(commentRepo, postRepo, userRepo, likeRepo, limiter, publisher, cfg.RateLimitComment)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	profileSvc := profileService.NewProfileService(userRepo, imageStorage, cfg.CloudinaryUploadFolder, cfg.ExposeProfileEmail)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	activityHandler := activityHttp.NewActivityHandler(redisClient, originChecker(cfg.AllowedOrigins))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog("/healthz"))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.ResponseError(c, err)
			return
		}
		response.Message(c, http.StatusOK, "ok")
	})

	registerRoutes(router, authMiddleware, postHandler, commentHandler, profileHandler, activityHandler)

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func registerRoutes(
	router *gin.Engine,
	authMiddleware *middleware.AuthMiddleware,
	postHandler *postHttp.PostHandler,
	commentHandler *commentHttp.CommentHandler,
	profileHandler *profileHttp.ProfileHandler,
	activityHandler *activityHttp.ActivityHandler,
) {
	requireAuth := authMiddleware.RequireAuth()

	api := router.Group("/api")

	posts := api.Group("/posts")
	{
		posts.GET("", postHandler.GetAllPosts)
		posts.GET("/search", postHandler.SearchPosts)
		posts.GET("/user/:userId", postHandler.GetPostsByUser)
		posts.GET("/:id", postHandler.GetPostByID)

		posts.POST("", requireAuth, postHandler.CreatePost)
		posts.PUT("/:id", requireAuth, postHandler.UpdatePost)
		posts.DELETE("/:id", requireAuth, postHandler.DeletePost)
		posts.POST("/:id/like", requireAuth, postHandler.ToggleLike)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/post/:postId", commentHandler.GetCommentsByPost)
		comments.GET("/:id/replies", commentHandler.GetReplies)

		comments.POST("/post/:postId", requireAuth, commentHandler.AddComment)
		comments.POST("/:id/reply", requireAuth, commentHandler.AddReply)
		comments.PUT("/:id", requireAuth, commentHandler.UpdateComment)
		comments.DELETE("/:id", requireAuth, commentHandler.DeleteComment)
		comments.POST("/:id/like", requireAuth, commentHandler.ToggleLike)
	}

	users := api.Group("/users")
	{
		users.GET("/me", requireAuth, profileHandler.GetCurrentUser)
		users.PUT("/profile", requireAuth, profileHandler.UpdateProfile)
		users.GET("/:id", profileHandler.GetProfile)
	}

	api.GET("/activity/ws", requireAuth, activityHandler.Stream)
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// originChecker applies the CORS allow-list to websocket upgrades.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
