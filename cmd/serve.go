package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/controllers"
	"github.com/vnkhanh/visa-rent-server/middleware"
	"github.com/vnkhanh/visa-rent-server/notify"
	"github.com/vnkhanh/visa-rent-server/pagecache"
	"github.com/vnkhanh/visa-rent-server/routes"
	"github.com/vnkhanh/visa-rent-server/utils"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Get(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run AutoMigrate on startup when a database is configured")
	return cmd
}

func buildDeps(cfg *config.Config, cache *pagecache.Cache) controllers.Deps {
	d := controllers.Deps{Cache: cache}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		d.Notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.SiteURL)
	} else {
		logrus.Warn("TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set, notifications disabled")
		d.Notifier = notify.Noop{}
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		d.Blobs = utils.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	} else {
		logrus.Warn("SUPABASE_URL/SUPABASE_KEY not set, image uploads disabled")
		d.Blobs = utils.DisabledStore{}
	}
	return d
}

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  cfg.AllowsOrigin,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Visa & rent server is running")
	})

	cache := pagecache.New(cfg.PageCacheTTL)
	controllers.Configure(buildDeps(cfg, cache))
	routes.SetupRoutes(r, routes.Options{
		Cache:       cache,
		LeadLimiter: middleware.NewLeadFormsLimiter(),
	})
	return r
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	if db, err := config.Database(); err != nil {
		logrus.WithError(err).Warn("database unavailable, persistence endpoints will answer 503")
	} else if migrate {
		if err := config.Migrate(db); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
