package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/gateway/memory"
	mongogw "github.com/musetera/comunidade/client/internal/gateway/mongo"
	postgresgw "github.com/musetera/comunidade/client/internal/gateway/postgres"
	"github.com/musetera/comunidade/client/internal/identity"
	"github.com/musetera/comunidade/client/internal/insight"
	"github.com/musetera/comunidade/client/internal/realtime"
	"github.com/musetera/comunidade/client/internal/router"
	"github.com/musetera/comunidade/client/internal/storage"
	"github.com/musetera/comunidade/client/pkg/config"
	"github.com/musetera/comunidade/client/pkg/firebase"
	"github.com/musetera/comunidade/client/pkg/logger"
	"github.com/musetera/comunidade/client/validators"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.Init(logger.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// Gateway: remote stores when configured, in-memory otherwise.
	var gw *gateway.Gateway
	if cfg.Remote() {
		db, err := config.InitDB(cfg)
		if err != nil {
			zlog.Fatal("failed to initialize databases", zap.Error(err))
		}
		defer db.CloseDB()

		hub := gateway.NewHub()
		pg, err := postgresgw.New(db.Postgres, hub)
		if err != nil {
			zlog.Fatal("failed to set up postgres stores", zap.Error(err))
		}
		mg := mongogw.New(db.Mongo.Database(cfg.MongoDatabase), hub)

		gw = &gateway.Gateway{
			Profiles:      pg.Profiles,
			Posts:         mg.Posts,
			Likes:         pg.Likes,
			Comments:      pg.Comments,
			Notifications: pg.Notifications,
			Chats:         pg.Chats,
			Messages:      pg.Messages,
			Stories:       mg.Stories,
			Changes:       hub,
		}
	} else {
		zlog.Warn("no remote stores configured, running on the in-memory gateway")
		gw = memory.New().Gateway()
	}

	// Identity and blob storage: Firebase when credentials are present.
	var (
		provider identity.Provider
		blobs    storage.Store
	)
	if cfg.FirebaseCredentialsPath != "" {
		fb, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			zlog.Fatal("failed to initialize firebase", zap.Error(err))
		}
		provider = identity.NewFirebaseProvider(fb.AuthClient, cfg.FirebaseAPIKey, zlog)
		blobs = storage.NewGCSStore(fb.StorageClient, zlog)
	} else {
		zlog.Warn("no firebase credentials configured, using static identity and in-memory storage")
		provider = identity.NewStaticProvider()
		blobs = storage.NewMemoryStore()
	}

	eng := engine.New(gw, zlog)
	dispatcher := realtime.New(gw.Changes, eng, zlog)
	defer dispatcher.Close()

	// Feed and stories are global views, watched for the whole process
	// lifetime. Notification watching starts per session.
	dispatcher.WatchFeed(ctx)
	dispatcher.WatchStories(ctx)
	provider.OnChange(func(sess *identity.Session) {
		if sess != nil {
			dispatcher.WatchNotifications(ctx, sess.UserID)
		}
	})

	gen := insight.NewGenerator(cfg.GeminiAPIKey, zlog)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, router.Deps{
		Engine:     eng,
		Dispatcher: dispatcher,
		Notifier:   gw.Changes,
		Identity:   provider,
		Blobs:      blobs,
		Insight:    gen,
		Log:        zlog,
	})

	zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
