package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelcraft/manager/internal/config"
	"github.com/pixelcraft/manager/internal/db"
	"github.com/pixelcraft/manager/internal/migrations"
	"github.com/pixelcraft/manager/internal/observability/metrics"
	"github.com/pixelcraft/manager/internal/projects"
	"github.com/pixelcraft/manager/internal/settings"
)

type server struct {
	store    projects.Store
	settings *settings.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	prefs := settings.NewService(database)
	if err := prefs.Ensure(); err != nil {
		log.Fatalf("failed to ensure settings: %v", err)
	}

	metrics.Init()

	srv := &server{
		store:    projects.NewSQLiteStore(database),
		settings: prefs,
	}

	r := newRouter(srv)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newRouter(srv *server) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/projects", srv.handleProjectsList)
	r.Post("/api/projects", srv.handleProjectCreate)
	r.Put("/api/projects/{handle}", srv.handleProjectUpdate)
	r.Delete("/api/projects/{handle}", srv.handleProjectDelete)
	r.Post("/api/projects/clear", srv.handleProjectsClear)
	r.Get("/api/projects/stream", srv.handleProjectsStream)
	r.Get("/api/projects/export", srv.handleProjectsExport)
	r.Get("/api/settings", srv.handleSettingsGet)
	r.Put("/api/settings", srv.handleSettingsUpdate)
	return r
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.settings.Get()
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EnergyRatePerKWh float64 `json:"energyRatePerKWh"`
		MarginPercent    float64 `json:"marginPercent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la solicitud inválido")
		return
	}

	if err := validateNonNegative(body.EnergyRatePerKWh, "energyRatePerKWh"); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePercent(body.MarginPercent, "marginPercent"); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs := settings.Preferences{
		EnergyRatePerKWh: body.EnergyRatePerKWh,
		MarginPercent:    body.MarginPercent,
	}
	if err := s.settings.Update(prefs); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func validateNonNegative(value float64, field string) error {
	if value < 0 {
		return fmt.Errorf("%s debe ser mayor o igual a 0", field)
	}
	return nil
}

func validatePercent(value float64, field string) error {
	if err := validateNonNegative(value, field); err != nil {
		return err
	}
	if value > 100 {
		return fmt.Errorf("%s debe estar entre 0 y 100", field)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
