package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-planner/backend/internal/mocks"
	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/service"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

func TestRegister(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	handler := NewAuthHandler(authSvc, new(mocks.MockRatingService))
	r := newTestRouter(t, handler, uuid.New(), models.RolePlain)

	user := &models.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: models.RolePlain}
	authSvc.On("Register", mock.Anything, "Ada", "ada@example.com", "password123").Return(user, nil)
	authSvc.On("GenerateToken", user).Return("signed", nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	}, false)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed", resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	authSvc.AssertExpectations(t)
}

func TestRegisterErrors(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		authSvc := new(mocks.MockAuthService)
		r := newTestRouter(t, NewAuthHandler(authSvc, new(mocks.MockRatingService)), uuid.New(), models.RolePlain)
		authSvc.On("Register", mock.Anything, "Ada", "ada@example.com", "password123").Return(nil, service.ErrUserExists)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
			Name: "Ada", Email: "ada@example.com", Password: "password123",
		}, false)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		authSvc := new(mocks.MockAuthService)
		r := newTestRouter(t, NewAuthHandler(authSvc, new(mocks.MockRatingService)), uuid.New(), models.RolePlain)

		w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
			Name: "Ada", Email: "ada@example.com", Password: "short",
		}, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		authSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLoginInvalidCredentials(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	r := newTestRouter(t, NewAuthHandler(authSvc, new(mocks.MockRatingService)), uuid.New(), models.RolePlain)
	authSvc.On("Login", mock.Anything, "ada@example.com", "wrong-password").Return(nil, service.ErrInvalidCredentials)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{
		Email: "ada@example.com", Password: "wrong-password",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	authSvc.AssertNotCalled(t, "GenerateToken", mock.Anything)
}

func TestUpdateAllergens(t *testing.T) {
	userID := uuid.New()
	authSvc := new(mocks.MockAuthService)
	r := newTestRouter(t, NewAuthHandler(authSvc, new(mocks.MockRatingService)), userID, models.RolePlain)

	entries := []types.AllergenEntry{{Type: "peanut", Severity: 3}}
	updated := &models.User{ID: userID, Allergens: []models.Allergen{{UserID: userID, AllergenType: models.AllergenPeanut, SeverityLevel: 3}}}
	authSvc.On("UpdateAllergens", mock.Anything, userID, entries).Return(updated, nil)

	t.Run("requires authentication", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/me/allergens", types.UpdateAllergensRequest{Allergens: entries}, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("replaces allergens", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/me/allergens", types.UpdateAllergensRequest{Allergens: entries}, true)
		require.Equal(t, http.StatusOK, w.Code)
		var user models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		require.Len(t, user.Allergens, 1)
		assert.Equal(t, 3, user.Allergens[0].SeverityLevel)
	})

	t.Run("rejects out of range severity", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/me/allergens", `{"allergens":[{"type":"peanut","severity":9}]}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserScore(t *testing.T) {
	ratings := new(mocks.MockRatingService)
	r := newTestRouter(t, NewAuthHandler(new(mocks.MockAuthService), ratings), uuid.New(), models.RolePlain)

	target := uuid.New()
	ratings.On("UserScore", mock.Anything, target).Return(7.5, nil)
	ratings.On("UserScore", mock.Anything, mock.Anything).Return(0.0, service.ErrUserNotFound)

	w := doJSON(t, r, http.MethodGet, "/api/v1/users/"+target.String()+"/score", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var resp types.UserScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, target, resp.UserID)
	assert.Equal(t, 7.5, resp.Score)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/score", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/not-a-uuid/score", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
