package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-planner/backend/internal/middleware"
	"github.com/pageza/alchemorsel-planner/backend/internal/mocks"
	"github.com/pageza/alchemorsel-planner/backend/internal/models"
	"github.com/pageza/alchemorsel-planner/backend/internal/types"
)

const testToken = "test-token"

type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc)
}

// newTestRouter mounts h the way the application does. Requests carrying
// testToken authenticate as userID with the given role.
func newTestRouter(t *testing.T, h routeRegistrar, userID uuid.UUID, role models.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	validator := new(mocks.MockAuthService)
	validator.On("ValidateToken", testToken).Return(&types.TokenClaims{UserID: userID, Name: "tester", Role: role}, nil).Maybe()
	validator.On("ValidateToken", mock.Anything).Return(nil, middleware.ErrUnauthorized).Maybe()

	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	h.RegisterRoutes(r.Group("/api/v1"), middleware.AuthMiddleware(validator))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
