package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/ericogr/kids-games/internal/api"
	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/media"
	"github.com/ericogr/kids-games/internal/service"
	"github.com/ericogr/kids-games/internal/storage"
	"github.com/ericogr/kids-games/internal/version"

	"github.com/gin-gonic/gin"
	_ "go.uber.org/automaxprocs"
)

func main() {
	// Configuration file path may be provided via KGM_CONFIG or defaults
	// to ./kids_games_config.json in the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./kids_games_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	logging.Configure(logging.Config{Level: cfg.LogLevel, Dir: cfg.LogDir, App: "kids-games"})
	defer logging.Sync()
	logging.Info("Starting kids games manager", logging.Fields{"version": version.Version, "commit": version.Commit})

	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	db := openDatabaseOrExit(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal("Failed to access database handle", err, nil)
	}
	defer sqlDB.Close()

	repo := storage.NewGormRepository(db)
	backend := mediaBackendOrExit(context.Background(), cfg, repo)
	library := media.NewLibrary(repo, backend, cfg.MaxUploadBytes)
	library.SetMaxPixels(cfg.MaxImagePixels)

	signer, err := auth.NewSigner(os.Getenv(constants.EnvSessionSecret), cfg.NonceTTL)
	if err != nil {
		logging.Fatal("Failed to initialize session signer", err, nil)
	}

	mgr := service.NewManager(repo, signer, library)
	handler := api.NewHandler(mgr, signer, library, repo, sqlDB, api.Options{
		AdminEmails:        cfg.AdminEmails,
		EditorEmails:       cfg.EditorEmails,
		SessionTTL:         cfg.SessionTTL,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		GoogleClientID:     os.Getenv(constants.EnvGoogleClientID),
		GoogleClientSecret: os.Getenv(constants.EnvGoogleClientSecret),
		SecureCookie:       os.Getenv(constants.EnvSessionSecureCookie) == "1",
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(handler)
	if err != nil {
		logging.Fatal("Failed to load admin templates", err, nil)
	}

	serve(&http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// checkEnvVars warns about missing variables; sign-in and stable sessions
// depend on them but public rendering does not.
func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Warn("Environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
