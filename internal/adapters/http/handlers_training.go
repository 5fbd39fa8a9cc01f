package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
)

// --- Training ---

// ListCoursesHandler returns the course catalogue.
func ListCoursesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courses, err := deps.Training.ListCourses(c.Context(), c.Query("category"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(courses)
	}
}

// GetCourseHandler returns a single course.
func GetCourseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "course id is required")
		}
		course, err := deps.Training.GetCourse(c.Context(), id)
		if err != nil {
			return errNotFound(c, "course not found")
		}
		return c.JSON(course)
	}
}

// EnrollHandler enrolls a worker in a course. Enrolling twice returns the
// existing enrollment with 200 instead of 201.
func EnrollHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID := c.Params("id")
		var body struct {
			WorkerID string `json:"worker_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.WorkerID == "" {
			return errBadRequest(c, "worker_id is required")
		}

		e, err := deps.Training.Enroll(c.Context(), courseID, body.WorkerID)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}
		status := 201
		if e.Progress > 0 || !e.LastActivityAt.Equal(e.EnrolledAt) {
			status = 200
		}
		return c.Status(status).JSON(e)
	}
}

// ProgressHandler records a client autosave of course progress.
func ProgressHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID := c.Params("id")
		var body struct {
			WorkerID     string  `json:"worker_id"`
			Progress     float64 `json:"progress"`
			MinutesDelta int     `json:"minutes_delta"`
		}
		if err := c.BodyParser(&body); err != nil || body.WorkerID == "" {
			return errBadRequest(c, "worker_id is required")
		}

		e, err := deps.Training.RecordProgress(c.Context(), courseID, body.WorkerID, body.Progress, body.MinutesDelta)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}
		return c.JSON(e)
	}
}

// WorkerEnrollmentsHandler lists a worker's enrollments.
func WorkerEnrollmentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "worker id is required")
		}
		enrollments, err := deps.Training.ListEnrollments(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(enrollments)
	}
}

// --- Certifications ---

// IssueCertificationHandler issues a certification for a completed course.
func IssueCertificationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			CourseID string `json:"course_id"`
			WorkerID string `json:"worker_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.CourseID == "" || body.WorkerID == "" {
			return errBadRequest(c, "course_id and worker_id are required")
		}

		cert, err := deps.Certifications.Issue(c.Context(), body.CourseID, body.WorkerID)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}
		metrics.CertificationsIssued.Inc()
		return c.Status(201).JSON(cert)
	}
}

// VerifyCertificationHandler verifies a certification code.
func VerifyCertificationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return errBadRequest(c, "certification code is required")
		}
		cert, valid, err := deps.Certifications.Verify(c.Context(), code)
		if err != nil {
			return errNotFound(c, "certification not found")
		}
		return c.JSON(fiber.Map{
			"certification": cert,
			"valid":         valid,
		})
	}
}

// RevokeCertificationHandler invalidates a certification.
func RevokeCertificationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return errBadRequest(c, "certification code is required")
		}
		if err := deps.Certifications.Revoke(c.Context(), code); err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": "revoked"})
	}
}

// WorkerCertificationsHandler lists a worker's certifications.
func WorkerCertificationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "worker id is required")
		}
		certs, err := deps.Certifications.ListByWorker(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(certs)
	}
}

// --- KYC ---

// SubmitKYCHandler files an identity-verification submission.
func SubmitKYCHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec domain.KYCRecord
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.KYC.Submit(c.Context(), &rec); err != nil {
			return errConflict(c, err.Error())
		}
		return c.Status(201).JSON(rec)
	}
}

// KYCStatusHandler returns a worker's latest KYC record.
func KYCStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workerID := c.Params("id")
		if workerID == "" {
			return errBadRequest(c, "worker id is required")
		}
		rec, err := deps.KYC.Status(c.Context(), workerID)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if rec == nil {
			return errNotFound(c, "no KYC submission for worker")
		}
		return c.JSON(rec)
	}
}

// KYCQueueHandler returns pending submissions for reviewers.
func KYCQueueHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		records, err := deps.KYC.PendingQueue(c.Context(), limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(records)
	}
}

// BeginKYCReviewHandler moves a pending record into review.
func BeginKYCReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.KYC.BeginReview(c.Context(), id); err != nil {
			return errConflict(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": domain.KYCInReview})
	}
}

// DecideKYCHandler approves or rejects a submission.
func DecideKYCHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body struct {
			Decision string `json:"decision"`
			Notes    string `json:"notes"`
		}
		if err := c.BodyParser(&body); err != nil || body.Decision == "" {
			return errBadRequest(c, "decision is required")
		}
		if err := deps.KYC.Decide(c.Context(), id, body.Decision, body.Notes); err != nil {
			return errConflict(c, err.Error())
		}
		metrics.KYCDecisions.WithLabelValues(body.Decision).Inc()
		return c.JSON(fiber.Map{"status": body.Decision})
	}
}

// --- Workers & employers ---

// RegisterWorkerHandler creates a worker profile.
func RegisterWorkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var w domain.Worker
		if err := c.BodyParser(&w); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Workers.Register(c.Context(), &w); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(w)
	}
}

// GetWorkerHandler returns a worker profile.
func GetWorkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "worker id is required")
		}
		w, err := deps.Workers.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "worker not found")
		}
		return c.JSON(w)
	}
}

// WorkerAvailabilityHandler toggles availability and optionally refreshes
// the worker's position.
func WorkerAvailabilityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body struct {
			Available bool             `json:"available"`
			Location  *domain.GeoPoint `json:"location"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Workers.SetAvailability(c.Context(), id, body.Available, body.Location); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(fiber.Map{"available": body.Available})
	}
}

// AcceptMatchHandler records a worker's acceptance of an urgent-job match.
func AcceptMatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		urgentJobID := c.Params("id")
		var body struct {
			WorkerID string `json:"worker_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.WorkerID == "" {
			return errBadRequest(c, "worker_id is required")
		}
		m, err := deps.Urgent.Accept(c.Context(), urgentJobID, body.WorkerID)
		if err != nil {
			return errConflict(c, err.Error())
		}
		return c.JSON(m)
	}
}

// RegisterEmployerHandler creates an employer account.
func RegisterEmployerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e domain.Employer
		if err := c.BodyParser(&e); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Employers.Register(c.Context(), &e); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(e)
	}
}

// GetEmployerHandler returns an employer by slug.
func GetEmployerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "employer slug is required")
		}
		e, err := deps.Employers.GetBySlug(c.Context(), slug)
		if err != nil {
			return errNotFound(c, "employer not found")
		}
		return c.JSON(e)
	}
}

// ListEmployersHandler returns all employers with offset pagination.
func ListEmployersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		employers, err := deps.Employers.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(employers)
		if offset >= total {
			employers = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			employers = employers[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: employers, Pagination: pg})
	}
}
