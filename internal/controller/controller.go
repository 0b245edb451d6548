// Package controller dispatches requests to services. Path matching
// goes through the route parser rather than gin's tree so converter
// rejection can fall through between overlapping patterns.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/middleware"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/router"
	"github.com/baajur/users/internal/service"
)

type Controller struct {
	routes *router.Parser
	jwt    *service.JWTService
	users  *service.UsersService
	roles  *service.RolesService
}

func New(routes *router.Parser, jwt *service.JWTService, users *service.UsersService, roles *service.RolesService) *Controller {
	return &Controller{routes: routes, jwt: jwt, users: users, roles: roles}
}

// Register mounts the dispatcher. Every path the engine does not
// claim is resolved by the route parser.
func (ct *Controller) Register(r *gin.Engine) {
	r.NoRoute(ct.Dispatch)
}

// Dispatch resolves the path into a typed route and invokes the
// matching service operation.
func (ct *Controller) Dispatch(c *gin.Context) {
	route, ok := ct.routes.Resolve(c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	ctx := c.Request.Context()
	actor := actorID(c)

	switch r := route.(type) {
	case router.Healthcheck:
		if !is(c, http.MethodGet) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})

	case router.Users:
		switch c.Request.Method {
		case http.MethodGet:
			from, count, err := listParams(c)
			if err != nil {
				render(c, nil, err)
				return
			}
			users, err := ct.users.List(ctx, actor, from, count)
			render(c, users, err)
		case http.MethodPost:
			var payload model.NewEmailIdentity
			if !bind(c, &payload) {
				return
			}
			user, err := ct.users.Create(ctx, payload)
			render(c, user, err)
		default:
			methodNotAllowed(c)
		}

	case router.User:
		switch c.Request.Method {
		case http.MethodGet:
			user, err := ct.users.Find(ctx, actor, r.ID)
			render(c, user, err)
		case http.MethodPut:
			var payload model.UpdateUser
			if !bind(c, &payload) {
				return
			}
			user, err := ct.users.Update(ctx, actor, r.ID, payload)
			render(c, user, err)
		case http.MethodDelete:
			user, err := ct.users.Deactivate(ctx, actor, r.ID)
			render(c, user, err)
		default:
			methodNotAllowed(c)
		}

	case router.UserBySagaID:
		if !is(c, http.MethodGet) {
			return
		}
		user, err := ct.users.FindBySagaID(ctx, actor, r.SagaID)
		render(c, user, err)

	case router.Current:
		if !is(c, http.MethodGet) {
			return
		}
		email, ok := middleware.EmailFromContext(ctx)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errs.ErrAuth.Error()})
			return
		}
		user, err := ct.users.Current(ctx, email)
		render(c, user, err)

	case router.JWTEmail:
		if !is(c, http.MethodPost) {
			return
		}
		var payload model.NewEmailIdentity
		if !bind(c, &payload) {
			return
		}
		jwt, err := ct.jwt.CreateTokenEmail(ctx, payload)
		render(c, jwt, err)

	case router.JWTGoogle:
		if !is(c, http.MethodPost) {
			return
		}
		var payload service.ProviderOauth
		if !bind(c, &payload) {
			return
		}
		jwt, err := ct.jwt.CreateTokenGoogle(ctx, payload)
		render(c, jwt, err)

	case router.JWTFacebook:
		if !is(c, http.MethodPost) {
			return
		}
		var payload service.ProviderOauth
		if !bind(c, &payload) {
			return
		}
		jwt, err := ct.jwt.CreateTokenFacebook(ctx, payload)
		render(c, jwt, err)

	case router.PasswordReset:
		switch c.Request.Method {
		case http.MethodPost:
			var payload service.ResetRequest
			if !bind(c, &payload) {
				return
			}
			tok, err := ct.users.RequestPasswordReset(ctx, payload)
			render(c, tok, err)
		case http.MethodPut:
			var payload service.ResetApply
			if !bind(c, &payload) {
				return
			}
			user, err := ct.users.ApplyPasswordReset(ctx, payload)
			render(c, user, err)
		default:
			methodNotAllowed(c)
		}

	case router.UserRoles:
		var payload model.NewUserRole
		switch c.Request.Method {
		case http.MethodPost:
			if !bind(c, &payload) {
				return
			}
			grant, err := ct.roles.Grant(ctx, actor, payload)
			render(c, grant, err)
		case http.MethodDelete:
			if !bind(c, &payload) {
				return
			}
			grant, err := ct.roles.Revoke(ctx, actor, payload)
			render(c, grant, err)
		default:
			methodNotAllowed(c)
		}

	case router.UserRole:
		if !is(c, http.MethodGet) {
			return
		}
		grants, err := ct.roles.ListForUser(ctx, actor, r.UserID)
		render(c, grants, err)

	case router.DefaultRole:
		switch c.Request.Method {
		case http.MethodPost:
			grant, err := ct.roles.AssignDefault(ctx, r.UserID)
			render(c, grant, err)
		case http.MethodDelete:
			grants, err := ct.roles.DeleteAllForUser(ctx, r.UserID)
			render(c, grants, err)
		default:
			methodNotAllowed(c)
		}

	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
}

func actorID(c *gin.Context) *model.UserID {
	if id, ok := middleware.UserIDFromContext(c.Request.Context()); ok {
		return &id
	}
	return nil
}

func listParams(c *gin.Context) (model.UserID, int, error) {
	from, err := strconv.ParseInt(c.Query("from"), 10, 32)
	if err != nil {
		return 0, 0, errs.Validation("from", "Invalid value provided for `from`")
	}
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		return 0, 0, errs.Validation("count", "Invalid value provided for `count`")
	}
	return model.UserID(from), count, nil
}

func bind(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return false
	}
	return true
}

func is(c *gin.Context, method string) bool {
	if c.Request.Method != method {
		methodNotAllowed(c)
		return false
	}
	return true
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
