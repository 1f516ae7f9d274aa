package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/store"
)

type CreateOrganizationRequest struct {
	Name        string  `json:"name" binding:"required,min=1"`
	Description *string `json:"description,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name        string  `json:"name" binding:"required,min=1"`
	Description *string `json:"description,omitempty"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	org, err := h.store.CreateOrganization(ctx, middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Organization created successfully", org))
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orgs, err := h.store.ListOrganizations(ctx, middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Organizations retrieved successfully", orgs))
}

// CurrentOrganization resolves the working organization for this session.
// The client may pass its remembered choice as ?preferred=<id>; a stale or
// revoked preference silently falls back to the first membership.
func (h *Handler) CurrentOrganization(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	org, err := h.store.ResolveCurrentOrganization(ctx, middleware.UserID(c), c.Query("preferred"))
	if err != nil {
		handleStoreError(c, err)
		return
	}
	if org == nil {
		c.JSON(http.StatusOK, successResponse("No organizations yet", nil))
		return
	}

	c.JSON(http.StatusOK, successResponse("Current organization resolved", org))
}

func (h *Handler) GetOrganization(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	org, err := h.store.GetOrganization(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Organization retrieved successfully", org))
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	org, err := h.store.UpdateOrganization(ctx, c.Param("orgId"), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Organization updated successfully", org))
}

func (h *Handler) DeleteOrganization(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.store.DeleteOrganization(ctx, c.Param("orgId"), middleware.UserID(c)); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Organization deleted successfully", nil))
}

func (h *Handler) ListMembers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	members, err := h.store.ListMembers(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Members retrieved successfully", members))
}

func (h *Handler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if !store.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, errorResponse("Unknown role: "+req.Role))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := h.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	member, err := h.store.AddMember(ctx, c.Param("orgId"), middleware.UserID(c), user.ID, req.Role)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Member added successfully", member))
}

func (h *Handler) LeaveOrganization(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.store.LeaveOrganization(ctx, c.Param("orgId"), middleware.UserID(c)); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Left organization", nil))
}
