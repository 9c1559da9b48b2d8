package router

import (
	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/container"
	gcsinfra "github.com/Agrawal-Rajat/techno-club-backend/internal/infrastructure/gcs"
	pginfra "github.com/Agrawal-Rajat/techno-club-backend/internal/infrastructure/postgres"
	handlers "github.com/Agrawal-Rajat/techno-club-backend/internal/interface/http"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/router/modules"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
)

// InitModules builds every feature module from container singletons and adds
// them to the registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(pool)
	appRepo := pginfra.NewApplicationRepository(pool)
	eventRepo := pginfra.NewEventRepository(pool)

	files := gcsinfra.NewFileStore(container.GetGCS(), cfg.GCSBucket)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	// Leave the interface nil when no publisher is configured so services
	// skip notifications instead of calling through a nil *RabbitPublisher.
	var jobs application.JobPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		jobs = pub
	}

	userSvc := application.NewUserService(userRepo, eventRepo, jwt, container.GetRedis(), logger, container.GetES(), cfg.ESUsersIndex)
	certSvc := application.NewCertificateService(userRepo, files, jobs, logger)
	clubSvc := application.NewClubService(appRepo, jobs, logger)
	eventSvc := application.NewEventService(eventRepo, logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, cookies, logger), jwt))
	r.Add(modules.NewCertificateModule(handlers.NewCertificateHandler(certSvc, logger), jwt))
	r.Add(modules.NewClubModule(handlers.NewClubHandler(clubSvc, logger), jwt))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(eventSvc, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
