package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Rally/internal/api"
	"github.com/soaringjerry/Rally/internal/config"
	"github.com/soaringjerry/Rally/internal/logger"
	"github.com/soaringjerry/Rally/internal/metrics"
	"github.com/soaringjerry/Rally/internal/middleware"
	"github.com/soaringjerry/Rally/internal/scheduler"
	"github.com/soaringjerry/Rally/internal/services"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "rally-server",
		Short:         "HTTP API for sports skill calibration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./rally.yaml)")
	root.AddCommand(newMigrateCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New("rally-api", cfg.LogLevel)
	entry := log.Entry()

	bank := services.DefaultBank()
	if cfg.BankPath != "" {
		b, err := services.LoadBank(cfg.BankPath)
		if err != nil {
			return err
		}
		bank = b
		entry.WithField("path", cfg.BankPath).Info("question bank loaded")
	}

	m := metrics.New()
	sched := scheduler.New(entry)

	var store api.Store
	if cfg.InMemory() {
		entry.Warn("sqlite_path is empty, data will not survive a restart")
		store = api.NewMemoryStore()
	} else {
		sqliteStore, closeDB, err := openSQLite(cfg.SQLitePath, cfg.MigrationsDir, entry)
		if err != nil {
			return err
		}
		defer closeDB()
		store = sqliteStore
		if err := sched.Add("db_pool_stats", cfg.MetricsInterval, scheduler.DBStatsJob(sqliteStore.DB(), m)); err != nil {
			return err
		}
	}
	if seeded, err := api.SeedSports(ctx, store, api.DefaultSports); err != nil {
		return err
	} else if seeded {
		entry.WithField("sports", len(api.DefaultSports)).Info("sports catalogue seeded")
	}

	jwt := middleware.NewJWT(cfg.JWTSecret)
	mux := http.NewServeMux()
	api.NewRouter(api.Options{
		Store:     store,
		Bank:      bank,
		JWT:       jwt,
		TokenTTL:  cfg.JWTTTL,
		Logger:    entry,
		Metrics:   m,
		Commit:    cfg.Commit,
		BuildTime: cfg.BuildTime,
	}).Register(mux)
	mountFrontend(mux, cfg, entry)

	// metrics wraps the mux directly so it sees the matched pattern
	handler := middleware.Chain(m.Middleware(mux),
		logger.AccessLog(entry),
		middleware.SecureHeaders,
		middleware.CORS(cfg.CORSOrigins),
		middleware.NoStore,
		middleware.LocaleMiddleware,
		jwt.WithAuth,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		entry.WithField("addr", cfg.Addr).Info("Rally server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	entry.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// mountFrontend serves static files when static_dir is set, otherwise proxies
// to a dev frontend when dev_frontend_url is set.
func mountFrontend(mux *http.ServeMux, cfg *config.Config, log logrus.FieldLogger) {
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		return
	}
	if cfg.DevFrontendURL == "" {
		return
	}
	u, err := url.Parse(cfg.DevFrontendURL)
	if err != nil {
		log.WithError(err).WithField("url", cfg.DevFrontendURL).Error("invalid dev_frontend_url")
		return
	}
	rp := httputil.NewSingleHostReverseProxy(u)
	rp.ModifyResponse = func(res *http.Response) error {
		res.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		res.Header.Set("Pragma", "no-cache")
		res.Header.Set("Expires", "0")
		return nil
	}
	mux.Handle("/", rp)
}
