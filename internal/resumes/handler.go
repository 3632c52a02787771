package resumes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder-api/internal/shared/server/middleware"
	"resume-builder-api/internal/shared/server/respond"
	"resume-builder-api/internal/shared/telemetry"
)

// Handler wires résumé routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes to an authenticated /api/resumes group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)

	rg.POST("/:id/education", addItem(h.Svc.AddEducation))
	rg.PATCH("/:id/education/:itemId", patchItem(h.Svc.UpdateEducation))
	rg.DELETE("/:id/education/:itemId", removeItem(h.Svc.RemoveEducation))

	rg.POST("/:id/experience", addItem(h.Svc.AddExperience))
	rg.PATCH("/:id/experience/:itemId", patchItem(h.Svc.UpdateExperience))
	rg.DELETE("/:id/experience/:itemId", removeItem(h.Svc.RemoveExperience))

	rg.POST("/:id/skills", addItem(h.Svc.AddSkill))
	rg.PATCH("/:id/skills/:itemId", patchItem(h.Svc.UpdateSkill))
	rg.DELETE("/:id/skills/:itemId", removeItem(h.Svc.RemoveSkill))
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	list, err := h.Svc.GetUserResumes(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "GET_RESUMES_ERROR", "Failed to retrieve resumes")
		return
	}
	respond.Data(c, http.StatusOK, list)
}

func (h *Handler) get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := resumeID(c)
	if !ok {
		return
	}
	detail, err := h.Svc.GetResumeByID(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err, "GET_RESUME_ERROR", "Failed to retrieve resume")
		return
	}
	if detail == nil {
		writeError(c, ErrNotFound, "", "")
		return
	}
	respond.Data(c, http.StatusOK, detail)
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		respond.Error(c, http.StatusBadRequest, "MISSING_REQUIRED_FIELDS", "Resume title is required", nil)
		return
	}
	sum, err := h.Svc.CreateResume(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err, "CREATE_RESUME_ERROR", "Failed to create resume")
		return
	}
	c.Set("resumeId", sum.ID)
	respond.Data(c, http.StatusCreated, sum)
}

func (h *Handler) update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := resumeID(c)
	if !ok {
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	detail, err := h.Svc.UpdateResume(c.Request.Context(), id, userID, in)
	if err != nil {
		writeError(c, err, "UPDATE_RESUME_ERROR", "Failed to update resume")
		return
	}
	respond.Data(c, http.StatusOK, detail)
}

func (h *Handler) remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := resumeID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteResume(c.Request.Context(), id, userID); err != nil {
		writeError(c, err, "DELETE_RESUME_ERROR", "Failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func addItem[In any](add func(ctx context.Context, id, userID int64, in In) (int, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := resumeID(c)
		if !ok {
			return
		}
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
			return
		}
		itemID, err := add(c.Request.Context(), id, userID, in)
		if err != nil {
			writeError(c, err, "UPDATE_RESUME_ERROR", "Failed to update resume")
			return
		}
		respond.Data(c, http.StatusCreated, ItemRef{ID: itemID})
	}
}

func patchItem[P any](update func(ctx context.Context, id, userID int64, itemID int, patch P) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := resumeID(c)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(c)
		if !ok {
			return
		}
		var patch P
		if err := c.ShouldBindJSON(&patch); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
			return
		}
		if err := update(c.Request.Context(), id, userID, itemID, patch); err != nil {
			writeError(c, err, "UPDATE_RESUME_ERROR", "Failed to update resume")
			return
		}
		respond.Data(c, http.StatusOK, ItemRef{ID: itemID})
	}
}

func removeItem(remove func(ctx context.Context, id, userID int64, itemID int) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := resumeID(c)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(c)
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), id, userID, itemID); err != nil {
			writeError(c, err, "UPDATE_RESUME_ERROR", "Failed to update resume")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func requireUser(c *gin.Context) (int64, bool) {
	userID := middleware.UserIDFromContext(c)
	if userID <= 0 {
		respond.Fail(c, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return userID, true
}

func resumeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid resume ID", nil)
		return 0, false
	}
	c.Set("resumeId", id)
	return id, true
}

func itemIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
		return 0, false
	}
	return id, true
}

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported with the route's generic code and message.
func writeError(c *gin.Context, err error, code, message string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Msg, gin.H{"field": verr.Field})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", nil)
	case errors.Is(err, ErrEntryNotFound):
		respond.Error(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Resume item not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "RESUME_NOT_FOUND", "Resume not found", nil)
	case errors.Is(err, ErrVersionConflict):
		respond.Error(c, http.StatusConflict, "VERSION_CONFLICT", "Resume was modified by another request", nil)
	default:
		telemetry.Error("resume.request_failed", map[string]any{
			"code":  code,
			"path":  c.FullPath(),
			"error": err,
		})
		respond.Error(c, http.StatusInternalServerError, code, message, nil)
	}
}
