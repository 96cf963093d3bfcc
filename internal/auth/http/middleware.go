package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/petadopt/internal/auth/policy"
	authService "github.com/allisson/petadopt/internal/auth/service"
	authUseCase "github.com/allisson/petadopt/internal/auth/usecase"
	apperrors "github.com/allisson/petadopt/internal/errors"
	"github.com/allisson/petadopt/internal/httputil"
)

// AuthenticationFilter authenticates requests according to the route policy
// table.
//
// Public routes pass through untouched, even when the request carries a
// malformed or expired token. Protected routes must present a valid
// "Authorization: Bearer <token>" header; the filter extracts the subject,
// resolves it to a principal and attaches the principal to the request
// context. Every failure mode on a protected route answers with the same
// 401 body, so a response never reveals whether the token was missing,
// malformed, expired or referenced an unknown account.
func AuthenticationFilter(
	matcher *policy.Matcher,
	tokenService authService.TokenService,
	identityUseCase authUseCase.IdentityUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if matcher.Classify(c.Request.Method, c.Request.URL.Path) == policy.Public {
			c.Next()
			return
		}

		token, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed bearer token",
				slog.String("path", c.Request.URL.Path))
			reject(c, logger)
			return
		}

		subject, err := tokenService.ExtractSubject(token)
		if err != nil {
			logger.Debug("authentication failed: token rejected",
				slog.String("path", c.Request.URL.Path))
			reject(c, logger)
			return
		}

		principal, err := identityUseCase.ResolveSubject(c.Request.Context(), subject)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				logger.Debug("authentication failed: unknown subject",
					slog.String("path", c.Request.URL.Path))
				reject(c, logger)
				return
			}
			// Storage-level failure: fail this request only, as 5xx.
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !tokenService.IsValid(token) {
			reject(c, logger)
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin rejects requests whose principal does not carry the admin
// role. Must run after AuthenticationFilter.
func RequireAdmin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			reject(c, logger)
			return
		}
		if !principal.IsAdmin() {
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, logger *slog.Logger) {
	httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
	c.Abort()
}

// extractBearerToken parses "Bearer <token>" case-insensitively.
func extractBearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) <= len(bearerPrefix) ||
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
