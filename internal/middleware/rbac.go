package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

// RequireRoles lets the request through only for the listed roles. It must run after JWT.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return RequireRolesOr(appErrors.ErrForbidden, roles...)
}

// RequireRolesOr is RequireRoles answering other roles with denied, so the caller
// sees the same message and redirect the service would have produced. It runs
// before any body binding.
func RequireRolesOr(denied *appErrors.Error, roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	if denied == nil {
		denied = appErrors.ErrForbidden
	}
	return func(c *gin.Context) {
		principal := Principal(c)
		if !principal.Authenticated() {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[principal.Role]; !ok {
			response.Error(c, denied)
			return
		}
		c.Next()
	}
}
