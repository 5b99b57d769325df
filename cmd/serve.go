package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/accessible-outings/outings/internal/aggregator"
	"github.com/accessible-outings/outings/internal/discovery"
	"github.com/accessible-outings/outings/internal/geo"
	"github.com/accessible-outings/outings/internal/model"
	"github.com/accessible-outings/outings/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/api/venues/search", func(w http.ResponseWriter, req *http.Request) {
			handleVenueSearch(env, w, req)
		})

		r.Get("/api/events/search", func(w http.ResponseWriter, req *http.Request) {
			handleEventSearch(env, w, req)
		})

		r.Get("/api/providers/status", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, env.Aggregator.ProviderStatus(req.Context()))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func handleVenueSearch(env *appEnv, w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	location := q.Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}
	pt, ok := geocodeQuery(env, req, location)
	if !ok {
		writeError(w, http.StatusBadRequest, "could not geocode location")
		return
	}

	category := model.CategoryUnknown
	if name := q.Get("category"); name != "" {
		category = model.ParseCategory(name)
		if category == model.CategoryUnknown {
			writeError(w, http.StatusBadRequest, "unknown category: "+name)
			return
		}
	}

	results, err := env.Engine.Discover(req.Context(), discovery.Request{
		Center:         pt,
		RadiusMiles:    floatQuery(q.Get("radius"), cfg.Discovery.RadiusMiles),
		Category:       category,
		WheelchairOnly: q.Get("wheelchair") == "true",
		Limit:          intQuery(q.Get("limit"), cfg.Discovery.MaxResults),
	})
	if err != nil {
		zap.L().Error("venue search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	type venueResult struct {
		model.Venue
		DistanceMiles      float64 `json:"distance_miles"`
		AccessibilityLevel string  `json:"accessibility_level"`
	}
	out := make([]venueResult, 0, len(results))
	for _, r := range results {
		out = append(out, venueResult{
			Venue:              r.Venue,
			DistanceMiles:      r.DistanceMiles,
			AccessibilityLevel: r.Venue.AccessibilityLevel(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"venues": out})
}

func handleEventSearch(env *appEnv, w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	location := q.Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	start := time.Now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, intQuery(q.Get("days"), 30))

	var types []string
	if raw := q.Get("types"); raw != "" {
		types = strings.Split(raw, ",")
	}

	found, err := env.Aggregator.SearchAndSync(req.Context(), aggregator.Request{
		Location:    location,
		Start:       start,
		End:         end,
		RadiusMiles: cfg.Events.RadiusMiles,
		Types:       types,
		MaxResults:  intQuery(q.Get("limit"), cfg.Events.MaxResults),
	})
	if err != nil {
		zap.L().Error("event search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": found})
}

func geocodeQuery(env *appEnv, req *http.Request, location string) (geo.Point, bool) {
	if geocode.ValidZip(location) {
		return env.Geocoder.GeocodeZip(req.Context(), location)
	}
	return env.Geocoder.GeocodeAddress(req.Context(), location)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func floatQuery(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
