package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NehanAhmed/Forge/internal/llm"
	"github.com/NehanAhmed/Forge/internal/middleware"
	"github.com/NehanAhmed/Forge/internal/modules/serializer"
	"github.com/NehanAhmed/Forge/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Title            string  `json:"title" binding:"required,min=3,max=255"`
	Description      string  `json:"description" binding:"required,min=10,max=5000"`
	ProblemStatement string  `json:"problemStatement" binding:"required,min=10,max=5000"`
	TargetUsers      *int    `json:"targetUsers" binding:"omitempty,min=1"`
	TeamSize         *int    `json:"teamSize" binding:"omitempty,min=1,max=1000"`
	TimelineWeeks    *int    `json:"timelineWeeks" binding:"omitempty,min=1,max=520"`
	BudgetRange      *string `json:"budgetRange" binding:"omitempty,oneof=low medium high"`
	IsPublic         *bool   `json:"isPublic"`
}

// CreateProject generates a plan for the submitted brief and persists it
// under a freshly allocated slug.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, err := h.svc.Create(c.Request.Context(), service.CreateProjectInput{
		Title:            req.Title,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
		TargetUsers:      req.TargetUsers,
		TeamSize:         req.TeamSize,
		TimelineWeeks:    req.TimelineWeeks,
		BudgetRange:      req.BudgetRange,
		IsPublic:         req.IsPublic,
	}, middleware.UserID(c))
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// writeCreateError maps generation and persistence failures onto HTTP
// statuses without leaking provider error text to clients.
func (h *ProjectHandler) writeCreateError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSlugExhausted) {
		c.JSON(http.StatusConflict, serializer.Err(http.StatusConflict, "could not allocate a unique slug, please retry", err))
		return
	}

	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	switch genErr.Kind {
	case llm.KindConfigMissing:
		c.JSON(http.StatusServiceUnavailable, serializer.Err(http.StatusServiceUnavailable, "plan generation is not configured", err))
	case llm.KindAuthFailed:
		c.JSON(http.StatusBadGateway, serializer.Err(http.StatusBadGateway, "plan generation provider rejected our credentials", err))
	case llm.KindRateLimited:
		c.JSON(http.StatusTooManyRequests, serializer.Err(http.StatusTooManyRequests, "plan generation is rate limited, try again later", err))
	case llm.KindInsufficientQuota:
		c.JSON(http.StatusPaymentRequired, serializer.Err(http.StatusPaymentRequired, "plan generation quota exhausted", err))
	case llm.KindInvalidResponse:
		c.JSON(http.StatusBadGateway, serializer.Err(http.StatusBadGateway, "plan generation returned an unusable response", err))
	default:
		c.JSON(http.StatusBadGateway, serializer.Err(http.StatusBadGateway, "plan generation failed", err))
	}
}

// GetProjectBySlug serves the public project page. Private projects are
// indistinguishable from missing ones for non-owners.
func (h *ProjectHandler) GetProjectBySlug(c *gin.Context) {
	s := c.Param("slug")
	if s == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("slug is required")))
		return
	}

	project, err := h.svc.GetBySlug(c.Request.Context(), s, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

type ListProjectsReq struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

func (h *ProjectHandler) ListPublicProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	projects, total, err := h.svc.ListPublic(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: gin.H{"items": projects, "total": total}})
}

func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	uid := middleware.UserID(c)
	if uid == nil {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
		return
	}

	projects, total, err := h.svc.ListMine(c.Request.Context(), *uid, req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: gin.H{"items": projects, "total": total}})
}

type UpdateProjectReq struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,min=10,max=5000"`
	IsPublic    *bool   `json:"isPublic"`
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	uid := middleware.UserID(c)
	if uid == nil {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
		return
	}

	project, err := h.svc.Update(c.Request.Context(), id, *uid, service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		h.writeOwnershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	uid := middleware.UserID(c)
	if uid == nil {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, *uid); err != nil {
		h.writeOwnershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

func (h *ProjectHandler) writeOwnershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(""))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

// ForkProject copies a viewable project under the caller's account with a
// freshly allocated slug.
func (h *ProjectHandler) ForkProject(c *gin.Context) {
	s := c.Param("slug")
	if s == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("slug is required")))
		return
	}

	fork, err := h.svc.Fork(c.Request.Context(), s, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
		case errors.Is(err, service.ErrSlugExhausted):
			c.JSON(http.StatusConflict, serializer.Err(http.StatusConflict, "could not allocate a unique slug, please retry", err))
		default:
			c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		}
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: fork})
}
