package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/models"
	"github.com/vinodverma25/ShortCreatorWithMultiFallback/internal/storage"
)

// JobHandler serves the job API.
type JobHandler struct {
	jobs   *storage.JobRepository
	shorts *storage.ShortRepository
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *storage.JobRepository, shorts *storage.ShortRepository) *JobHandler {
	return &JobHandler{jobs: jobs, shorts: shorts}
}

type submitRequest struct {
	URL         string `json:"url"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// Submit creates a new job for a source URL. Malformed URLs are rejected
// before any job record exists.
func (h *JobHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if !validSourceURL(req.URL) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid source url"})
	}

	job := &models.Job{URL: req.URL, AspectRatio: req.AspectRatio}
	if err := h.jobs.Create(ctx, job); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": job.ID})
}

// statusResponse is the polling projection of a job. Reading it twice
// without an intervening stage transition returns identical values.
type statusResponse struct {
	Status            models.Status `json:"status"`
	Progress          int           `json:"progress"`
	Title             *string       `json:"title"`
	CurrentStatusText string        `json:"current_status_text"`
	ShortsCount       int           `json:"shorts_count"`
	ErrorMessage      *string       `json:"error_message"`
}

// Status returns the live progress projection for a job.
func (h *JobHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.jobs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	count, err := h.shorts.CountRendered(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	resp := statusResponse{
		Status:            job.Status,
		Progress:          job.Progress,
		CurrentStatusText: job.CurrentStep,
		ShortsCount:       count,
	}
	if job.Title != "" {
		resp.Title = &job.Title
	}
	if job.Error != "" {
		resp.ErrorMessage = &job.Error
	}
	return c.JSON(http.StatusOK, resp)
}

// Shorts returns the ordered shorts of a job with their time ranges,
// scores and publish status.
func (h *JobHandler) Shorts(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.jobs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	shorts, err := h.shorts.ListByJob(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if shorts == nil {
		shorts = []models.Short{}
	}
	return c.JSON(http.StatusOK, shorts)
}

// List returns recent jobs.
func (h *JobHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	jobs, err := h.jobs.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return c.JSON(http.StatusOK, jobs)
}

// Stats returns job counts per status.
func (h *JobHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.jobs.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, counts)
}

// Delete removes a terminal job. Active jobs cannot be deleted; a
// resubmission creates a new job rather than mutating an old one.
func (h *JobHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.jobs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	if !job.Status.Terminal() {
		return c.JSON(http.StatusConflict, map[string]string{"error": "job is still processing"})
	}

	if err := h.jobs.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// validSourceURL accepts absolute http(s) URLs with a host.
func validSourceURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
