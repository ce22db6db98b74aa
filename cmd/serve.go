package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/salesdash/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only metrics API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if servePort == 0 {
			servePort = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", servePort),
			Handler:           newRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("api listening", zap.Int("port", servePort))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			zap.L().Info("api stopped")
			return nil
		case err := <-errCh:
			return err
		}
	},
}

func newRouter(env *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(throttle(rate.Limit(cfg.Server.RequestsPerSec), cfg.Server.Burst))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/dashboard", func(w http.ResponseWriter, req *http.Request) {
		period, ok := requestPeriod(w, req)
		if !ok {
			return
		}
		report, err := buildDashboard(req.Context(), env, period)
		respond(w, report, err)
	})

	r.Get("/api/squads", func(w http.ResponseWriter, req *http.Request) {
		period, ok := requestPeriod(w, req)
		if !ok {
			return
		}
		report, err := buildSquads(req.Context(), env, period)
		respond(w, report, err)
	})

	r.Get("/api/forecast", func(w http.ResponseWriter, req *http.Request) {
		period, ok := requestPeriod(w, req)
		if !ok {
			return
		}
		report, err := buildForecast(req.Context(), env, period, req.URL.Query().Get("squad"), time.Now().UTC())
		respond(w, report, err)
	})

	r.Get("/api/compare", func(w http.ResponseWriter, req *http.Request) {
		period, ok := requestPeriod(w, req)
		if !ok {
			return
		}
		previous := period.Previous()
		if key := req.URL.Query().Get("previous"); key != "" {
			var err error
			if previous, err = parsePeriod(key); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
		}
		report, err := buildCompare(req.Context(), env, period, previous)
		respond(w, report, err)
	})

	return r
}

// throttle applies a shared token-bucket limit across all clients. The API
// fronts a dashboard that polls on a timer, so a single bucket is enough.
func throttle(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// requestPeriod resolves the ?period= query parameter, defaulting to the
// current month. Reports false after writing the error response.
func requestPeriod(w http.ResponseWriter, req *http.Request) (model.Period, bool) {
	key := req.URL.Query().Get("period")
	if key == "" {
		key = time.Now().UTC().Format("2006-01")
	}
	period, err := parsePeriod(key)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return model.Period{}, false
	}
	return period, true
}

func respond(w http.ResponseWriter, report any, err error) {
	if err != nil {
		zap.L().Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
