package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Legacy "gigs" aliases are kept for older mobile clients
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/v1/gigs", SunsetDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Alternative: "/v1/urgent-jobs"},
		{Path: "/v1/gigs/nearby", SunsetDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Alternative: "/v1/urgent-jobs/nearby"},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")

	// Job postings
	v1.Post("/jobs", timeout.NewWithContext(CreateJobHandler(deps), 15*time.Second))
	v1.Get("/jobs", timeout.NewWithContext(ListJobsHandler(deps), 15*time.Second))
	v1.Get("/jobs/search", timeout.NewWithContext(SearchJobsHandler(deps), 15*time.Second))
	v1.Get("/jobs/:id", timeout.NewWithContext(GetJobHandler(deps), 15*time.Second))
	v1.Post("/jobs/:id/close", timeout.NewWithContext(CloseJobHandler(deps), 15*time.Second))
	v1.Post("/jobs/:id/applications", timeout.NewWithContext(ApplyHandler(deps), 15*time.Second))
	v1.Get("/jobs/:id/applications", timeout.NewWithContext(JobApplicationsHandler(deps), 15*time.Second))
	v1.Post("/applications/:id/decision", timeout.NewWithContext(DecideApplicationHandler(deps), 15*time.Second))

	// Urgent jobs
	v1.Post("/urgent-jobs", timeout.NewWithContext(PostUrgentJobHandler(deps), 15*time.Second))
	v1.Get("/urgent-jobs", timeout.NewWithContext(UrgentFeedHandler(deps), 15*time.Second))
	v1.Get("/urgent-jobs/nearby", timeout.NewWithContext(NearbyUrgentJobsHandler(deps), 15*time.Second))
	v1.Get("/urgent-jobs/:id", timeout.NewWithContext(GetUrgentJobHandler(deps), 15*time.Second))
	v1.Get("/urgent-jobs/:id/matches", timeout.NewWithContext(UrgentMatchesHandler(deps), 15*time.Second))
	v1.Post("/urgent-jobs/:id/accept", timeout.NewWithContext(AcceptMatchHandler(deps), 15*time.Second))
	v1.Post("/urgent-jobs/:id/cancel", timeout.NewWithContext(CancelUrgentJobHandler(deps), 15*time.Second))

	// Legacy aliases (deprecated, see DeprecationMiddleware above)
	v1.Get("/gigs", timeout.NewWithContext(UrgentFeedHandler(deps), 15*time.Second))
	v1.Get("/gigs/nearby", timeout.NewWithContext(NearbyUrgentJobsHandler(deps), 15*time.Second))

	// Training & certifications
	v1.Get("/courses", timeout.NewWithContext(ListCoursesHandler(deps), 15*time.Second))
	v1.Get("/courses/:id", timeout.NewWithContext(GetCourseHandler(deps), 15*time.Second))
	v1.Post("/courses/:id/enroll", timeout.NewWithContext(EnrollHandler(deps), 15*time.Second))
	v1.Post("/courses/:id/progress", timeout.NewWithContext(ProgressHandler(deps), 15*time.Second))
	v1.Post("/certifications", timeout.NewWithContext(IssueCertificationHandler(deps), 15*time.Second))
	v1.Get("/certifications/verify/:code", timeout.NewWithContext(VerifyCertificationHandler(deps), 15*time.Second))
	v1.Post("/certifications/:code/revoke", timeout.NewWithContext(RevokeCertificationHandler(deps), 15*time.Second))

	// KYC
	v1.Post("/kyc", timeout.NewWithContext(SubmitKYCHandler(deps), 15*time.Second))
	v1.Get("/kyc/queue", timeout.NewWithContext(KYCQueueHandler(deps), 15*time.Second))
	v1.Post("/kyc/:id/review", timeout.NewWithContext(BeginKYCReviewHandler(deps), 15*time.Second))
	v1.Post("/kyc/:id/decision", timeout.NewWithContext(DecideKYCHandler(deps), 15*time.Second))

	// Workers
	v1.Post("/workers", timeout.NewWithContext(RegisterWorkerHandler(deps), 15*time.Second))
	v1.Get("/workers/:id", timeout.NewWithContext(GetWorkerHandler(deps), 15*time.Second))
	v1.Put("/workers/:id/availability", timeout.NewWithContext(WorkerAvailabilityHandler(deps), 15*time.Second))
	v1.Get("/workers/:id/applications", timeout.NewWithContext(WorkerApplicationsHandler(deps), 15*time.Second))
	v1.Get("/workers/:id/enrollments", timeout.NewWithContext(WorkerEnrollmentsHandler(deps), 15*time.Second))
	v1.Get("/workers/:id/certifications", timeout.NewWithContext(WorkerCertificationsHandler(deps), 15*time.Second))
	v1.Get("/workers/:id/kyc", timeout.NewWithContext(KYCStatusHandler(deps), 15*time.Second))

	// Employers
	v1.Post("/employers", timeout.NewWithContext(RegisterEmployerHandler(deps), 15*time.Second))
	v1.Get("/employers", timeout.NewWithContext(ListEmployersHandler(deps), 15*time.Second))
	v1.Get("/employers/:slug", timeout.NewWithContext(GetEmployerHandler(deps), 15*time.Second))

	// Marketplace stats
	v1.Get("/stats", timeout.NewWithContext(StatsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
