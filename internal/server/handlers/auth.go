package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/mailer"
	"roaddog-system/internal/sheets"
	"roaddog-system/internal/sheetsync"
	"roaddog-system/internal/store"
	"roaddog-system/internal/utils"
)

// Handler carries every dependency the HTTP surface needs. The sheets
// client and mailer are optional; routes that need them answer 503 when
// they were not configured.
type Handler struct {
	store    *store.Store
	syncer   *sheetsync.Syncer
	sheets   *sheets.Client
	mailer   *mailer.Mailer
	tokenTTL time.Duration
}

func New(st *store.Store, sheetsClient *sheets.Client, m *mailer.Mailer, tokenTTL time.Duration) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	h := &Handler{
		store:    st,
		sheets:   sheetsClient,
		mailer:   m,
		tokenTTL: tokenTTL,
	}
	if sheetsClient != nil {
		h.syncer = sheetsync.NewSyncer(sheetsClient)
	}
	return h
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authPayload struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      interface{} `json:"user"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.store.RegisterUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error generating token"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("User registered successfully", authPayload{
		Token:     token,
		ExpiresAt: exp,
		User:      userView{ID: user.ID, Username: user.Username, Email: user.Email},
	}))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.store.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error generating token"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", authPayload{
		Token:     token,
		ExpiresAt: exp,
		User:      userView{ID: user.ID, Username: user.Username, Email: user.Email},
	}))
}
