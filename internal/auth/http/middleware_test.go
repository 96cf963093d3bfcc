package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/petadopt/internal/account/domain"
	authDomain "github.com/allisson/petadopt/internal/auth/domain"
	"github.com/allisson/petadopt/internal/auth/policy"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// MockTokenService is a mock implementation of service.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ExtractSubject(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) IsValid(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

// MockIdentityUseCase is a mock implementation of usecase.IdentityUseCase
type MockIdentityUseCase struct {
	mock.Mock
}

func (m *MockIdentityUseCase) ResolveSubject(
	ctx context.Context,
	subject string,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPrincipal(role accountDomain.Role) *authDomain.Principal {
	return &authDomain.Principal{
		AccountID: 7,
		Username:  "john",
		Email:     "john@example.com",
		Role:      role,
	}
}

// setupFilterRouter builds a router with the authentication filter installed
// globally plus one public and one protected probe route.
func setupFilterRouter(
	tokenService *MockTokenService,
	identityUseCase *MockIdentityUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(AuthenticationFilter(
		policy.NewDefaultMatcher(),
		tokenService,
		identityUseCase,
		testLogger(),
	))

	probe := func(c *gin.Context) {
		if principal, ok := GetPrincipal(c.Request.Context()); ok {
			c.JSON(http.StatusOK, gin.H{"username": principal.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	}
	router.GET("/api/pets", probe)
	router.GET("/api/users", probe)
	return router
}

func doRequest(router *gin.Engine, method, target, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticationFilter_PublicRoute(t *testing.T) {
	t.Run("PassesWithoutToken", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		w := doRequest(router, http.MethodGet, "/api/pets", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("PassesWithGarbageToken", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		w := doRequest(router, http.MethodGet, "/api/pets", "Bearer total-garbage")
		assert.Equal(t, http.StatusOK, w.Code)

		// The token is never even inspected on public routes
		tokenService.AssertNotCalled(t, "ExtractSubject", mock.Anything)
	})
}

func TestAuthenticationFilter_ProtectedRoute(t *testing.T) {
	t.Run("ValidTokenAttachesPrincipal", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "good-token").Return("john@example.com", nil)
		identityUseCase.On("ResolveSubject", mock.Anything, "john@example.com").
			Return(testPrincipal(accountDomain.RoleUser), nil)
		tokenService.On("IsValid", "good-token").Return(true)

		w := doRequest(router, http.MethodGet, "/api/users", "Bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "john", body["username"])
	})

	t.Run("MissingHeaderRejects", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		w := doRequest(router, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeaderRejects", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		for _, header := range []string{"Basic abc", "Bearer", "Bearer ", "token-without-scheme"} {
			w := doRequest(router, http.MethodGet, "/api/users", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "header: %q", header)
		}
	})

	t.Run("BearerIsCaseInsensitive", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "good-token").Return("john@example.com", nil)
		identityUseCase.On("ResolveSubject", mock.Anything, "john@example.com").
			Return(testPrincipal(accountDomain.RoleUser), nil)
		tokenService.On("IsValid", "good-token").Return(true)

		w := doRequest(router, http.MethodGet, "/api/users", "bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidTokenRejects", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "bad-token").Return("", authDomain.ErrInvalidToken)

		w := doRequest(router, http.MethodGet, "/api/users", "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		identityUseCase.AssertNotCalled(t, "ResolveSubject", mock.Anything, mock.Anything)
	})

	t.Run("UnknownSubjectRejectsUniformly", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "orphan-token").Return("ghost@example.com", nil)
		identityUseCase.On("ResolveSubject", mock.Anything, "ghost@example.com").
			Return(nil, authDomain.ErrInvalidCredentials)

		w := doRequest(router, http.MethodGet, "/api/users", "Bearer orphan-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredTokenRejects", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "expired-token").Return("john@example.com", nil)
		identityUseCase.On("ResolveSubject", mock.Anything, "john@example.com").
			Return(testPrincipal(accountDomain.RoleUser), nil)
		tokenService.On("IsValid", "expired-token").Return(false)

		w := doRequest(router, http.MethodGet, "/api/users", "Bearer expired-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UniformRejectionBody", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "bad-token").Return("", authDomain.ErrInvalidToken)
		tokenService.On("ExtractSubject", "orphan-token").Return("ghost@example.com", nil)
		identityUseCase.On("ResolveSubject", mock.Anything, "ghost@example.com").
			Return(nil, authDomain.ErrInvalidCredentials)

		missing := doRequest(router, http.MethodGet, "/api/users", "")
		malformed := doRequest(router, http.MethodGet, "/api/users", "Bearer bad-token")
		orphan := doRequest(router, http.MethodGet, "/api/users", "Bearer orphan-token")

		assert.Equal(t, missing.Body.String(), malformed.Body.String())
		assert.Equal(t, missing.Body.String(), orphan.Body.String())
	})

	t.Run("StoreFailureIs5xxNotAuthFailure", func(t *testing.T) {
		tokenService := &MockTokenService{}
		identityUseCase := &MockIdentityUseCase{}
		router := setupFilterRouter(tokenService, identityUseCase)

		tokenService.On("ExtractSubject", "good-token").Return("john@example.com", nil)
		identityUseCase.On("ResolveSubject", mock.Anything, "john@example.com").
			Return(nil, apperrors.Wrap(apperrors.ErrUnavailable, "db down"))

		w := doRequest(router, http.MethodGet, "/api/users", "Bearer good-token")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	setupAdminRouter := func(principal *authDomain.Principal) *gin.Engine {
		router := gin.New()
		if principal != nil {
			router.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(
					WithPrincipal(c.Request.Context(), principal),
				)
				c.Next()
			})
		}
		router.Use(RequireAdmin(testLogger()))
		router.GET("/api/users", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("AdminPasses", func(t *testing.T) {
		router := setupAdminRouter(testPrincipal(accountDomain.RoleAdmin))
		w := doRequest(router, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		router := setupAdminRouter(testPrincipal(accountDomain.RoleUser))
		w := doRequest(router, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NoPrincipalUnauthorized", func(t *testing.T) {
		router := setupAdminRouter(nil)
		w := doRequest(router, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER abc", "abc", true},
		{"Bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
		{"abc", "", false},
	}

	for _, tt := range tests {
		token, ok := extractBearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header: %q", tt.header)
		assert.Equal(t, tt.token, token, "header: %q", tt.header)
	}
}
