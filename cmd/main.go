package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/config"
	"github.com/lshigami/Meerkats/database"
	adminctrl "github.com/lshigami/Meerkats/internal/controller/admin"
	authctrl "github.com/lshigami/Meerkats/internal/controller/auth"
	candidatectrl "github.com/lshigami/Meerkats/internal/controller/candidate"
	hrctrl "github.com/lshigami/Meerkats/internal/controller/hr"
	"github.com/lshigami/Meerkats/internal/logger"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Excel Interview Platform API
// @version 1.0
// @description AI-driven Excel skills interviews with adaptive questions, answer scoring, and an HR review dashboard.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewInterviewRepository,
			repository.NewQuestionRepository,
			repository.NewEvaluationHistoryRepository,
			repository.NewCalibrationRepository,
		),

		fx.Provide(
			service.NewGeminiLLMService,
			service.NewConsistencyService,
			service.NewInterviewService,
			service.NewQuestionService,
			service.NewHRService,
			service.NewAnalyticsService,
			service.NewAuthService,
		),

		fx.Provide(
			candidatectrl.NewInterviewController,
			hrctrl.NewHRController,
			hrctrl.NewAnalyticsController,
			authctrl.NewAuthController,
			adminctrl.NewQuestionController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.MaxMultipartMemory = candidatectrl.MaxAudioUploadBytes

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires API routes and manages the HTTP server
// lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	interviewCtrl *candidatectrl.InterviewController,
	hrCtrl *hrctrl.HRController,
	analyticsCtrl *hrctrl.AnalyticsController,
	authCtrl *authctrl.AuthController,
	questionCtrl *adminctrl.QuestionController,
) {
	api := router.Group("/api")
	{
		interviews := api.Group("/interviews")
		interviews.POST("/start", interviewCtrl.StartInterview)
		interviews.GET("/:id", interviewCtrl.GetInterview)
		interviews.POST("/:id/introduction", interviewCtrl.SubmitIntroduction)
		interviews.POST("/:id/answer", interviewCtrl.SubmitAnswer)
		interviews.POST("/:id/complete", interviewCtrl.CompleteInterview)

		api.POST("/transcribe", interviewCtrl.Transcribe)

		hr := api.Group("/hr")
		hr.GET("/metrics", hrCtrl.GetMetrics)
		hr.GET("/candidates", hrCtrl.ListCandidates)
		hr.GET("/interview/:id", hrCtrl.GetInterviewDetail)
		hr.POST("/interview/:id/recommendation", hrCtrl.SetRecommendation)

		analytics := api.Group("/analytics")
		analytics.GET("/metrics", analyticsCtrl.GetSystemMetrics)
		analytics.GET("/evaluation-history", analyticsCtrl.ListEvaluationHistory)

		auth := api.Group("/auth")
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.GET("/me", authCtrl.Me)
		auth.POST("/logout", authCtrl.Logout)
		auth.POST("/init-demo", authCtrl.InitDemoUsers)

		api.POST("/questions/seed", questionCtrl.SeedQuestions)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Excel Interview API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Interview{},
		&model.Question{},
		&model.EvaluationHistory{},
		&model.CalibrationBaseline{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
