package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

type AuthHandler struct {
	auth    service.IAuthService
	ratings service.IRatingService
}

func NewAuthHandler(auth service.IAuthService, ratings service.IRatingService) *AuthHandler {
	return &AuthHandler{auth: auth, ratings: ratings}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	me := rg.Group("/me", authMW)
	{
		me.GET("", h.Me)
		me.PUT("/allergens", h.UpdateAllergens)
	}

	rg.GET("/users/:id/score", h.UserScore)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateAllergens(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.UpdateAllergensRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.UpdateAllergens(c.Request.Context(), userID, req.Allergens)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserScore returns the sum of ratings on the user's recipes.
func (h *AuthHandler) UserScore(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	score, err := h.ratings.UserScore(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.UserScoreResponse{UserID: userID, Score: score})
}
