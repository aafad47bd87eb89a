package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-planner/backend/internal/mocks"
	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
)

func TestFridgeHandler(t *testing.T) {
	userID := uuid.New()
	fridge := new(mocks.MockFridgeService)
	r := newTestRouter(t, NewFridgeHandler(fridge), userID, models.RolePlain)

	fridge.On("List", mock.Anything, userID).Return([]models.FridgeItem{}, nil)
	fridge.On("Put", mock.Anything, userID, "Plain Flour", 500.0, "g").
		Return(&models.FridgeItem{UserID: userID, IngredientID: "plain-flour", Amount: 500, Unit: models.UnitGram}, nil)
	fridge.On("Put", mock.Anything, userID, "Sugar", 1.0, "handful").
		Return(nil, service.ErrInvalidInput)
	fridge.On("Remove", mock.Anything, userID, "plain-flour").Return(nil)
	fridge.On("Remove", mock.Anything, userID, "saffron").Return(service.ErrFridgeItemNotFound)

	w := doJSON(t, r, http.MethodGet, "/api/v1/fridge", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/api/v1/fridge", `{"ingredient":"Plain Flour","amount":500,"unit":"g"}`, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/fridge", `{"ingredient":"Sugar","amount":1,"unit":"handful"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/fridge", `{"ingredient":"Sugar","amount":-1,"unit":"g"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/fridge/plain-flour", nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/fridge/saffron", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/fridge", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
