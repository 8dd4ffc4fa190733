package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// handlers binds the repository to the REST resources.
type handlers struct {
	repo *Repository
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *handlers) createSession(c *gin.Context) {
	var session domain.FastingSession
	if err := c.ShouldBindJSON(&session); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if session.TargetHours <= 0 {
		writeError(c, http.StatusBadRequest, domain.ErrInvalidTargetHours)
		return
	}
	if session.Status == "" {
		session.Status = domain.SessionStatusActive
	}

	created, err := h.repo.CreateSession(c.Request.Context(), &session)
	if err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyActive) {
			writeError(c, http.StatusConflict, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) activeSession(c *gin.Context) {
	session, err := h.repo.ActiveSession(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if session == nil {
		writeError(c, http.StatusNotFound, domain.ErrNoActiveSession)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handlers) endSession(c *gin.Context) {
	h.finishSession(c, h.repo.EndSession)
}

func (h *handlers) cancelSession(c *gin.Context) {
	h.finishSession(c, h.repo.CancelSession)
}

func (h *handlers) finishSession(c *gin.Context, finish func(context.Context, string) (*domain.FastingSession, error)) {
	session, err := finish(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handlers) updateSession(c *gin.Context) {
	var session domain.FastingSession
	if err := c.ShouldBindJSON(&session); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	updated, err := h.repo.UpdateSession(c.Request.Context(), c.Param("id"), &session)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) recentSessions(c *gin.Context) {
	limit := domain.RecentSessionsLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessions, err := h.repo.RecentSessions(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if sessions == nil {
		sessions = []*domain.FastingSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) createSchedule(c *gin.Context) {
	var fast domain.ScheduledFast
	if err := c.ShouldBindJSON(&fast); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if !fast.ScheduledEnd.After(fast.ScheduledStart) {
		writeError(c, http.StatusBadRequest, domain.ErrEndBeforeStart)
		return
	}

	created, err := h.repo.CreateSchedule(c.Request.Context(), &fast)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateSchedule(c *gin.Context) {
	var fast domain.ScheduledFast
	if err := c.ShouldBindJSON(&fast); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if !fast.ScheduledEnd.After(fast.ScheduledStart) {
		writeError(c, http.StatusBadRequest, domain.ErrEndBeforeStart)
		return
	}

	updated, err := h.repo.UpdateSchedule(c.Request.Context(), c.Param("id"), &fast)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteSchedule(c *gin.Context) {
	if err := h.repo.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listSchedules(c *gin.Context) {
	fasts, err := h.repo.ListSchedules(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if fasts == nil {
		fasts = []*domain.ScheduledFast{}
	}
	c.JSON(http.StatusOK, fasts)
}

func (h *handlers) upcomingSchedules(c *gin.Context) {
	fasts, err := h.repo.UpcomingSchedules(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if fasts == nil {
		fasts = []*domain.ScheduledFast{}
	}
	c.JSON(http.StatusOK, fasts)
}

func (h *handlers) createWeight(c *gin.Context) {
	var entry domain.WeightEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if entry.WeightKg <= 0 {
		writeError(c, http.StatusBadRequest, errors.New("weight must be positive"))
		return
	}

	created, err := h.repo.CreateWeight(c.Request.Context(), &entry)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateWeight(c *gin.Context) {
	var entry domain.WeightEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	updated, err := h.repo.UpdateWeight(c.Request.Context(), c.Param("id"), &entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(c, http.StatusNotFound, errors.New("weight entry not found"))
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteWeight(c *gin.Context) {
	if err := h.repo.DeleteWeight(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(c, http.StatusNotFound, errors.New("weight entry not found"))
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listWeights(c *gin.Context) {
	entries, err := h.repo.ListWeights(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []*domain.WeightEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) createMetric(c *gin.Context) {
	var metric domain.HealthMetric
	if err := c.ShouldBindJSON(&metric); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if metric.Kind == "" {
		writeError(c, http.StatusBadRequest, errors.New("metric kind is required"))
		return
	}

	created, err := h.repo.CreateMetric(c.Request.Context(), &metric)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateMetric(c *gin.Context) {
	var metric domain.HealthMetric
	if err := c.ShouldBindJSON(&metric); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	updated, err := h.repo.UpdateMetric(c.Request.Context(), c.Param("id"), &metric)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(c, http.StatusNotFound, errors.New("metric not found"))
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteMetric(c *gin.Context) {
	if err := h.repo.DeleteMetric(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(c, http.StatusNotFound, errors.New("metric not found"))
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listMetrics(c *gin.Context) {
	metrics, err := h.repo.ListMetrics(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if metrics == nil {
		metrics = []*domain.HealthMetric{}
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *handlers) getProfile(c *gin.Context) {
	profile, err := h.repo.GetProfile(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handlers) updateProfile(c *gin.Context) {
	var profile domain.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	updated, err := h.repo.UpdateProfile(c.Request.Context(), &profile)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
