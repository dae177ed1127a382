package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fabstore/models"
	"fabstore/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type MockUserEnsurer struct {
	mock.Mock
}

func (m *MockUserEnsurer) EnsureUser(ctx context.Context, id services.Identity) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func newAuthRouter(users UserEnsurer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, users))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c), "role": Role(c)})
	})
	admin := r.Group("/admin", AdminMiddleware())
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, services.Identity{ExternalID: "ext_1", Email: "a@example.com", Role: "user"}).
		Return(&models.User{ExternalID: "ext_1", Role: models.RoleUser}, nil)

	token := signToken(t, jwt.MapClaims{"sub": "ext_1", "email": "a@example.com", "role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	w := doGet(newAuthRouter(users), "/me", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"ext_1","role":"user"}`, w.Body.String())
	users.AssertExpectations(t)
}

func TestAuthMiddleware_LegacyUserIDClaim(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, mock.MatchedBy(func(id services.Identity) bool { return id.ExternalID == "legacy_7" })).
		Return(&models.User{ExternalID: "legacy_7", Role: models.RoleUser}, nil)

	w := doGet(newAuthRouter(users), "/me", signToken(t, jwt.MapClaims{"userId": "legacy_7"}))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("other"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"missing", "", `{"error":"Token required"}`},
		{"garbage", "abc.def.ghi", `{"error":"Invalid or expired token"}`},
		{"wrong secret", other, `{"error":"Invalid or expired token"}`},
		{"expired", signToken(t, jwt.MapClaims{"sub": "ext_1", "exp": time.Now().Add(-time.Minute).Unix()}), `{"error":"Invalid or expired token"}`},
		{"no subject", signToken(t, jwt.MapClaims{"role": "admin"}), `{"error":"Invalid or expired token"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserEnsurer)
			w := doGet(newAuthRouter(users), "/me", tt.token)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			users.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthMiddleware_UserStoreDown(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, mock.Anything).Return(nil, errors.New("server selection timeout"))

	w := doGet(newAuthRouter(users), "/me", signToken(t, jwt.MapClaims{"sub": "ext_1"}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "server selection timeout")
}

func TestAdminMiddleware(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, mock.MatchedBy(func(id services.Identity) bool { return id.ExternalID == "admin_1" })).
		Return(&models.User{ExternalID: "admin_1", Role: models.RoleAdmin}, nil)
	users.On("EnsureUser", mock.Anything, mock.MatchedBy(func(id services.Identity) bool { return id.ExternalID == "user_1" })).
		Return(&models.User{ExternalID: "user_1", Role: models.RoleUser}, nil)
	r := newAuthRouter(users)

	w := doGet(r, "/admin/ping", signToken(t, jwt.MapClaims{"sub": "admin_1"}))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doGet(r, "/admin/ping", signToken(t, jwt.MapClaims{"sub": "user_1", "role": "admin"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied: admin only"}`, w.Body.String())
}
