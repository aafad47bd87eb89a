package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

type FollowHandler struct {
	follows service.IFollowService
}

func NewFollowHandler(follows service.IFollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users/:id")
	{
		users.GET("/following", h.Following)
		users.GET("/followers", h.Followers)
		users.PUT("/follow", authMW, h.Follow)
		users.DELETE("/follow", authMW, h.Unfollow)
	}
}

// Follow makes the current user follow the user in the path.
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.follows.Follow(c.Request.Context(), userID, targetID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FollowHandler) Following(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	users, err := h.follows.Following(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	users, err := h.follows.Followers(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
