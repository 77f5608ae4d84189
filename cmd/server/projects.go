package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelcraft/manager/internal/export"
	"github.com/pixelcraft/manager/internal/observability/metrics"
	"github.com/pixelcraft/manager/internal/pricing"
	"github.com/pixelcraft/manager/internal/projects"
)

const storeErrorNotice = "No se pudo guardar el proyecto. Revisa tu conexión."

// looseFloat decodes JSON numbers leniently: missing, null, empty or
// unparsable values become zero instead of failing the request. This mirrors
// how the calculator has always treated raw form input.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = looseFloat(value)
	return nil
}

type quoteRequest struct {
	Name               string      `json:"name"`
	Material           string      `json:"material"`
	WeightGrams        looseFloat  `json:"weightGrams"`
	FilamentPricePerKg looseFloat  `json:"filamentPricePerKg"`
	Hours              looseFloat  `json:"hours"`
	Minutes            looseFloat  `json:"minutes"`
	UsesDryingAssist   bool        `json:"usesDryingAssist"`
	EnergyRatePerKWh   *looseFloat `json:"energyRatePerKWh"`
	MarginPercent      *looseFloat `json:"marginPercent"`
}

func (s *server) handleProjectsList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load projects", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la solicitud inválido")
		return
	}

	rec, err := s.buildRecord(req)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	handle, err := s.store.Create(r.Context(), rec)
	if err != nil {
		metrics.ObserveStoreWrite("create", metrics.ResultError)
		writeJSONError(w, http.StatusBadGateway, storeErrorNotice)
		return
	}
	metrics.ObserveStoreWrite("create", metrics.ResultSuccess)

	rec.Handle = handle
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		http.Error(w, "invalid project handle", http.StatusBadRequest)
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la solicitud inválido")
		return
	}

	rec, err := s.buildRecord(req)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	if err := s.store.Update(r.Context(), handle, rec); err != nil {
		metrics.ObserveStoreWrite("update", metrics.ResultError)
		writeJSONError(w, http.StatusBadGateway, storeErrorNotice)
		return
	}
	metrics.ObserveStoreWrite("update", metrics.ResultSuccess)

	rec.Handle = handle
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		http.Error(w, "invalid project handle", http.StatusBadRequest)
		return
	}

	if err := s.store.Delete(r.Context(), handle); err != nil {
		metrics.ObserveStoreWrite("delete", metrics.ResultError)
		writeJSONError(w, http.StatusBadGateway, "No se pudo borrar el proyecto. Revisa tu conexión.")
		return
	}
	metrics.ObserveStoreWrite("delete", metrics.ResultSuccess)

	w.WriteHeader(http.StatusNoContent)
}

// handleProjectsClear deletes every currently visible record, one request per
// record. The sweep is not atomic: records created concurrently by other
// writers survive it.
func (s *server) handleProjectsClear(w http.ResponseWriter, r *http.Request) {
	visible, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load projects", http.StatusInternalServerError)
		return
	}

	deleted := projects.DeleteAll(r.Context(), s.store, visible)
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (s *server) handleProjectsStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapshots := make(chan []byte, 16)
	unsubscribe := s.store.Subscribe(func(records []projects.Record) {
		payload, err := json.Marshal(records)
		if err != nil {
			return
		}
		select {
		case snapshots <- payload:
		default:
		}
	})
	defer unsubscribe()

	metrics.StreamClientConnected()
	defer metrics.StreamClientDisconnected()

	writeEvent := func(payload []byte) {
		_, _ = w.Write([]byte("event: projects\ndata: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	for {
		select {
		case payload := <-snapshots:
			writeEvent(payload)
		case <-r.Context().Done():
			// Flush snapshots published before the disconnect.
			for {
				select {
				case payload := <-snapshots:
					writeEvent(payload)
				default:
					return
				}
			}
		}
	}
}

func (s *server) handleProjectsExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load projects", http.StatusInternalServerError)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "pdf":
		data, err := export.HistoryPDF(records)
		if err != nil {
			http.Error(w, "failed to export history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="historial.pdf"`)
		_, _ = w.Write(data)
	case "", "xlsx":
		data, err := export.HistoryXLSX(records)
		if err != nil {
			http.Error(w, "failed to export history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="historial.xlsx"`)
		_, _ = w.Write(data)
	default:
		writeJSONError(w, http.StatusBadRequest, "formato no soportado: "+format)
	}
}

// buildRecord computes a fresh quote from the request, falling back to the
// stored preferences when the caller omits energy rate or margin.
func (s *server) buildRecord(req quoteRequest) (projects.Record, error) {
	prefs, err := s.settings.Get()
	if err != nil {
		return projects.Record{}, err
	}

	energyRate := prefs.EnergyRatePerKWh
	if req.EnergyRatePerKWh != nil {
		energyRate = float64(*req.EnergyRatePerKWh)
	}
	margin := prefs.MarginPercent
	if req.MarginPercent != nil {
		margin = float64(*req.MarginPercent)
	}

	totalHours := pricing.Hours(float64(req.Hours), float64(req.Minutes))
	result := pricing.Quote(pricing.Input{
		Name:               strings.TrimSpace(req.Name),
		Material:           req.Material,
		WeightGrams:        float64(req.WeightGrams),
		FilamentPricePerKg: float64(req.FilamentPricePerKg),
		TotalHours:         totalHours,
		UsesDryingAssist:   req.UsesDryingAssist,
		EnergyRatePerKWh:   energyRate,
		MarginPercent:      margin,
	})
	metrics.ObserveQuote()

	return projects.Record{
		DisplayID:          result.ID,
		Name:               result.Name,
		Material:           req.Material,
		WeightGrams:        float64(req.WeightGrams),
		FilamentPricePerKg: float64(req.FilamentPricePerKg),
		TotalHours:         totalHours,
		UsesDryingAssist:   req.UsesDryingAssist,
		EnergyRatePerKWh:   energyRate,
		MarginPercent:      result.MarginPercent,
		EnergyCost:         result.Breakdown.EnergyCost,
		MaterialCost:       result.Breakdown.MaterialCost,
		ProductionCost:     result.ProductionCost,
		SalePrice:          result.SalePrice,
	}, nil
}
