package middleware

import (
	"context"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/shared/apperror"
	"github.com/srihar-15/EMS/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service; declared here so the middleware
// does not depend on the rbac package.
type RBACService interface {
	Authorize(ctx context.Context, req domain.EnforceRequest) error
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return authorize(service, resource, action, "")
}

// RBACAuthorizeTarget passes the employee id found in the named path param as
// the target, enabling the self-access exceptions.
func RBACAuthorizeTarget(service RBACService, resource, action, param string) gin.HandlerFunc {
	return authorize(service, resource, action, param)
}

func authorize(service RBACService, resource, action, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor.ID == "" {
			response.Error(c, apperror.ErrUnauthorized.HTTPStatus, apperror.ErrUnauthorized.Code, apperror.ErrUnauthorized.Message, nil)
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			Actor:    actor,
			Resource: resource,
			Action:   action,
		}
		if param != "" {
			req.TargetID = c.Param(param)
		}

		if err := service.Authorize(c.Request.Context(), req); err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, gin.H{"required": req.Permission()})
			c.Abort()
			return
		}
		c.Next()
	}
}
