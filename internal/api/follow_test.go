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
)

func TestFollow(t *testing.T) {
	userID := uuid.New()
	target := uuid.New()
	follows := new(mocks.MockFollowService)
	r := newTestRouter(t, NewFollowHandler(follows), userID, models.RolePlain)

	follows.On("Follow", mock.Anything, userID, target).Return(nil)
	follows.On("Follow", mock.Anything, userID, userID).Return(service.ErrInvalidInput)
	follows.On("Unfollow", mock.Anything, userID, target).Return(nil)

	t.Run("requires authentication", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+target.String()+"/follow", nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("follows", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+target.String()+"/follow", nil, true)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("cannot follow self", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/users/"+userID.String()+"/follow", nil, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unfollows", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/api/v1/users/"+target.String()+"/follow", nil, true)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	follows.AssertExpectations(t)
}

func TestListFollowers(t *testing.T) {
	follows := new(mocks.MockFollowService)
	r := newTestRouter(t, NewFollowHandler(follows), uuid.New(), models.RolePlain)

	target := uuid.New()
	fan := models.User{ID: uuid.New(), Name: "Fan"}
	follows.On("Followers", mock.Anything, target).Return([]models.User{fan}, nil)
	follows.On("Following", mock.Anything, target).Return([]models.User{}, nil)
	follows.On("Followers", mock.Anything, mock.Anything).Return(nil, service.ErrUserNotFound)

	w := doJSON(t, r, http.MethodGet, "/api/v1/users/"+target.String()+"/followers", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, fan.ID, resp.Users[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/"+target.String()+"/following", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":[]}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/followers", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/nope/followers", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
