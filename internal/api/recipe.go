package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-planner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/repository"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

const (
	defaultPageSize = 20
	maxImageBytes   = 10 << 20
	imageURLTTL     = 15 * time.Minute
)

type RecipeHandler struct {
	recipes service.IRecipeService
	ratings service.IRatingService
	fridge  service.IFridgeService
	images  service.IImageService
}

func NewRecipeHandler(recipes service.IRecipeService, ratings service.IRatingService, fridge service.IFridgeService, images service.IImageService) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		ratings: ratings,
		fridge:  fridge,
		images:  images,
	}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	recipes := rg.Group("/recipes")
	{
		recipes.GET("", h.List)
		recipes.GET("/:id", h.Get)
		recipes.GET("/:id/similar", h.Similar)
		recipes.GET("/:id/progress", h.Progress)
		recipes.GET("/:id/images/:imageId/url", h.ImageURL)
	}

	protected := rg.Group("/recipes", authMW)
	{
		protected.POST("", h.Create)
		protected.DELETE("/:id", h.Delete)
		protected.PUT("/:id/rating", h.Rate)
		protected.POST("/:id/cook", h.Cook)
		protected.POST("/:id/images", h.UploadImage)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	var q types.ListRecipesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultPageSize
	}

	filter := repository.ListFilter{
		Search:  q.Search,
		Cuisine: q.Cuisine,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	if q.MealType != "" {
		mt, ok := models.ParseMealType(q.MealType)
		if !ok {
			_ = c.Error(fmt.Errorf("%w: unknown meal type %q", service.ErrInvalidInput, q.MealType))
			return
		}
		filter.MealType = mt
	}
	if q.RecipeType != "" {
		rt, ok := models.ParseRecipeType(q.RecipeType)
		if !ok {
			_ = c.Error(fmt.Errorf("%w: unknown recipe type %q", service.ErrInvalidInput, q.RecipeType))
			return
		}
		filter.RecipeType = rt
	}
	if q.Owner != "" {
		owner, err := uuid.Parse(q.Owner)
		if err != nil {
			_ = c.Error(fmt.Errorf("%w: invalid owner", service.ErrInvalidInput))
			return
		}
		filter.OwnerID = &owner
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.ListRecipesResponse{
		Recipes: recipes,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Create accepts a recipe in the loose shape produced by generators and
// scrapers. Rejections carry the offending object as details.
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var raw map[string]interface{}
	if !bindJSON(c, &raw) {
		return
	}

	recipe, err := h.recipes.CreateFromRaw(c.Request.Context(), userID, raw)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), userID, middleware.UserRole(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Similar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid limit", service.ErrInvalidInput))
		return
	}

	recipes, err := h.recipes.Similar(c.Request.Context(), id, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// Progress reports ingredient usage after the given step, zero based.
func (h *RecipeHandler) Progress(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.DefaultQuery("step", "0"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid step", service.ErrInvalidInput))
		return
	}

	progress, err := h.recipes.Progress(c.Request.Context(), id, step)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *RecipeHandler) Rate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.RateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.ratings.Rate(c.Request.Context(), id, userID, *req.Score, req.Message)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Cook takes the recipe's ingredients out of the caller's fridge.
func (h *RecipeHandler) Cook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	items, err := h.fridge.Cook(c.Request.Context(), userID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UploadImage takes either a multipart "image" field or a raw image body.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	var (
		body        io.Reader
		contentType string
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("image")
		if err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			return
		}
		file, err := header.Open()
		if err != nil {
			_ = c.Error(err)
			return
		}
		defer file.Close()
		body, contentType = file, header.Header.Get("Content-Type")
	} else {
		body, contentType = c.Request.Body, c.ContentType()
	}

	image, err := h.images.UploadRecipeImage(c.Request.Context(), userID, middleware.UserRole(c), id, contentType, body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *RecipeHandler) ImageURL(c *gin.Context) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := uuidParam(c, "imageId")
	if !ok {
		return
	}

	url, err := h.images.ImageURL(c.Request.Context(), recipeID, imageID, imageURLTTL)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(imageURLTTL.Seconds())})
}
