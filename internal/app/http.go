package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/config"
	"github.com/baajur/users/internal/controller"
	"github.com/baajur/users/internal/middleware"
	"github.com/baajur/users/internal/profile"
	"github.com/baajur/users/internal/repo"
	"github.com/baajur/users/internal/roles"
	"github.com/baajur/users/internal/router"
	"github.com/baajur/users/internal/service"
	"github.com/baajur/users/internal/token"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	usersRepo := repo.NewUsers(infra.DB)
	identsRepo := repo.NewIdentities(infra.DB)
	grantsRepo := repo.NewUserRoles(infra.DB)
	resetsRepo := repo.NewResetTokens(infra.DB)

	rolesCache := roles.New(infra.RolesCache, grantsRepo)
	acls := authz.NewAclFactory(authz.DefaultPermissions(), rolesCache)

	codec := token.NewCodec([]byte(cfg.JWTSecretKey))
	fetcher := profile.NewFetcher(cfg.ProviderTimeout)

	jwtService := service.NewJWT(usersRepo, identsRepo, fetcher, codec, cfg.Google(), cfg.Facebook())
	usersService := service.NewUsers(usersRepo, identsRepo, resetsRepo, acls)
	rolesService := service.NewRoles(grantsRepo, rolesCache, acls)

	ctrl := controller.New(router.NewRouteParser(), jwtService, usersService, rolesService)
	authMiddleware := middleware.NewAuthMiddleware(codec, usersRepo)

	// ----------------------------
	// Router
	// ----------------------------

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.GinIdentify(authMiddleware))

	ctrl.Register(engine)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return engine, func() error {
		return infra.DB.Close()
	}, nil
}
