package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

type MealPlanHandler struct {
	plans service.IMealPlanService
	auth  service.IAuthService
	now   func() time.Time
}

func NewMealPlanHandler(plans service.IMealPlanService, auth service.IAuthService) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, auth: auth, now: time.Now}
}

func (h *MealPlanHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	plan := rg.Group("/mealplan", authMW)
	{
		plan.GET("", h.Get)
		plan.POST("/fill", h.Fill)
		plan.PUT("/entries", h.SetEntry)
		plan.DELETE("/entries/:id", h.RemoveEntry)
	}
}

func (h *MealPlanHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Fill adds a main dinner to every empty day of the week containing the
// requested date, or the current week when no date is given.
func (h *MealPlanHandler) Fill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.FillMealPlanRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	ref := h.now()
	if req.Date != "" {
		d, ok := parseDay(c, req.Date)
		if !ok {
			return
		}
		ref = d
	}

	ctx := c.Request.Context()
	user, err := h.auth.GetUser(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	plan, err := h.plans.FillWeek(ctx, user, ref)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) SetEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.SetMealPlanEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDay(c, req.Date)
	if !ok {
		return
	}
	mealType, ok := models.ParseMealType(req.MealType)
	if !ok {
		_ = c.Error(fmt.Errorf("%w: unknown meal type %q", service.ErrInvalidInput, req.MealType))
		return
	}
	recipeType := models.RecipeTypeMain
	if req.RecipeType != "" {
		if recipeType, ok = models.ParseRecipeType(req.RecipeType); !ok {
			_ = c.Error(fmt.Errorf("%w: unknown recipe type %q", service.ErrInvalidInput, req.RecipeType))
			return
		}
	}

	plan, err := h.plans.SetEntry(c.Request.Context(), userID, date, mealType, recipeType, req.RecipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) RemoveEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.plans.RemoveEntry(c.Request.Context(), userID, entryID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseDay(c *gin.Context, s string) (time.Time, bool) {
	d, err := time.Parse(models.DayLayout, s)
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: date must look like %s", service.ErrInvalidInput, models.DayLayout))
		return time.Time{}, false
	}
	return d, true
}
