package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/pkg/geo"
	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
)

// MarketplaceStats holds row counts from the marketplace tables.
type MarketplaceStats struct {
	Workers        int    `json:"workers"`
	Employers      int    `json:"employers"`
	JobsOpen       int    `json:"jobs_open"`
	UrgentOpen     int    `json:"urgent_open"`
	Applications   int    `json:"applications"`
	Certifications int    `json:"certifications"`
	LastPosting    string `json:"last_posting,omitempty"`
}

// StatsHandler returns row counts from the marketplace tables.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats MarketplaceStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM workers),
				(SELECT count(*) FROM employers),
				(SELECT count(*) FROM job_postings WHERE status = 'open'),
				(SELECT count(*) FROM urgent_jobs WHERE status = 'open' AND expires_at > now()),
				(SELECT count(*) FROM applications),
				(SELECT count(*) FROM certifications WHERE revoked_at IS NULL),
				COALESCE((SELECT max(created_at)::text FROM job_postings), '')
		`)
		if err := row.Scan(&stats.Workers, &stats.Employers, &stats.JobsOpen,
			&stats.UrgentOpen, &stats.Applications, &stats.Certifications, &stats.LastPosting); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// --- Job postings ---

// CreateJobHandler creates a job posting.
func CreateJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var job domain.JobPosting
		if err := c.BodyParser(&job); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Jobs.Create(c.Context(), &job); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(job)
	}
}

// ListJobsHandler lists postings, optionally annotated with distance from
// the caller. Listing never fails for lack of a position: jobs without
// coordinates simply carry no distance_km.
func ListJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category")
		status := c.Query("status")
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		jobs, total, err := deps.Jobs.List(c.Context(), category, status, limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Optional caller position for distance annotation
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if c.Query("lat") != "" && c.Query("lon") != "" {
			for i := range jobs {
				if jobs[i].Location == nil {
					continue
				}
				d := geo.Haversine(lat, lon, jobs[i].Location.Lat, jobs[i].Location.Lon)
				jobs[i].DistanceKm = &d
			}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: jobs, Pagination: pg})
	}
}

// SearchJobsHandler performs fuzzy search on titles and descriptions.
func SearchJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)
		if limit <= 0 || limit > 50 {
			limit = 20
		}

		jobs, err := deps.Jobs.Search(c.Context(), query, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(jobs)
	}
}

// GetJobHandler returns a single posting by ID.
func GetJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "job id is required")
		}
		job, err := deps.Jobs.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "job not found")
		}
		return c.JSON(job)
	}
}

// CloseJobHandler marks a posting closed.
func CloseJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "job id is required")
		}
		if err := deps.Jobs.Close(c.Context(), id); err != nil {
			return errConflict(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": "closed"})
	}
}

// --- Applications ---

// ApplyHandler submits an application to a posting.
func ApplyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var app domain.Application
		if err := c.BodyParser(&app); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		app.JobID = c.Params("id")
		if err := deps.Applications.Apply(c.Context(), &app); err != nil {
			return errUnprocessable(c, err.Error())
		}
		metrics.ApplicationsSubmitted.Inc()
		return c.Status(201).JSON(app)
	}
}

// JobApplicationsHandler lists applications for a posting.
func JobApplicationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "job id is required")
		}
		apps, err := deps.Applications.ListByJob(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(apps)
	}
}

// WorkerApplicationsHandler lists a worker's applications.
func WorkerApplicationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "worker id is required")
		}
		apps, err := deps.Applications.ListByWorker(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(apps)
	}
}

// DecideApplicationHandler moves an application to a new status.
func DecideApplicationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return errBadRequest(c, "status is required")
		}
		if err := deps.Applications.Decide(c.Context(), id, body.Status); err != nil {
			return errConflict(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": body.Status})
	}
}

// --- Urgent jobs ---

// PostUrgentJobHandler posts a short-notice gig.
func PostUrgentJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var job domain.UrgentJob
		if err := c.BodyParser(&job); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Urgent.Post(c.Context(), &job); err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.UrgentJobsPosted.WithLabelValues(job.Category).Inc()
		return c.Status(201).JSON(job)
	}
}

// UrgentFeedHandler returns the open urgent-job feed. With lat/lon (or a
// working server-side location fallback) entries are annotated with
// distance_km and can be sorted nearest-first via sort=distance. Without a
// position the feed degrades to an unannotated listing instead of failing.
func UrgentFeedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category")
		sortMode := c.Query("sort")
		limit := c.QueryInt("limit", 50)

		var ref *domain.GeoPoint
		if c.Query("lat") != "" && c.Query("lon") != "" {
			ref = &domain.GeoPoint{
				Lat: c.QueryFloat("lat", 0),
				Lon: c.QueryFloat("lon", 0),
			}
			if ref.Lat < -90 || ref.Lat > 90 || ref.Lon < -180 || ref.Lon > 180 {
				return errBadRequest(c, "invalid coordinates")
			}
		}

		jobs, annotated, err := deps.Urgent.Feed(c.UserContext(), category, ref, sortMode, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"jobs":               jobs,
			"count":              len(jobs),
			"distance_available": annotated,
		})
	}
}

// NearbyUrgentJobsHandler returns open urgent jobs within a radius.
func NearbyUrgentJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius_km", 10)
		limit := c.QueryInt("limit", 50)

		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "invalid coordinates")
		}

		jobs, err := deps.Urgent.Nearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(jobs)
	}
}

// GetUrgentJobHandler returns a single urgent job.
func GetUrgentJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "urgent job id is required")
		}
		job, err := deps.Urgent.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "urgent job not found")
		}
		return c.JSON(job)
	}
}

// UrgentMatchesHandler lists the matches recorded for an urgent job.
func UrgentMatchesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "urgent job id is required")
		}
		matches, err := deps.Urgent.Matches(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(matches)
	}
}

// CancelUrgentJobHandler cancels an open urgent job.
func CancelUrgentJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "urgent job id is required")
		}
		if err := deps.Urgent.Cancel(c.Context(), id); err != nil {
			return errConflict(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": "cancelled"})
	}
}
