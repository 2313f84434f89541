package server

import (
	"encoding/json"
	"net/http"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/engine"
	"notquiteparadise/internal/infrastructure/storage"
	"notquiteparadise/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка.
// Все чтения идут через цикл игры (Inspect).
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
	mux.HandleFunc("/debug/snapshots", h.handleSnapshots)
}

// /debug/state - автомат, время и размер мира
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	type StateSummary struct {
		State       string `json:"state"`
		Holder      string `json:"holder"`
		GlobalTime  int    `json:"global_time"`
		Round       int    `json:"round"`
		Turns       uint64 `json:"turns"`
		EntityCount int    `json:"entity_count"`
		Seed        int64  `json:"seed"`
	}

	var summary StateSummary
	err := h.Service.Inspect(r.Context(), func(g *engine.Game) {
		summary = StateSummary{
			State:       g.Scheduler.State().String(),
			Holder:      g.Scheduler.Holder().String(),
			GlobalTime:  g.Scheduler.GlobalTime(),
			Round:       g.Scheduler.Round(),
			Turns:       g.Scheduler.Turns(),
			EntityCount: g.Store.Len(),
			Seed:        g.Seed,
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, summary)
}

// /debug/entities - дамп всех сохраняемых компонентов
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	var (
		data   any
		dumpEr error
	)
	err := h.Service.Inspect(r.Context(), func(g *engine.Game) {
		data, dumpEr = g.Store.Export(components.Persistent)
	})
	if err == nil {
		err = dumpEr
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, data)
}

// /debug/queue - очередь ходов от головы к хвосту
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	var dump []map[string]any
	err := h.Service.Inspect(r.Context(), func(g *engine.Game) {
		dump = g.Scheduler.Queue().DebugDump()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, dump)
}

// /debug/snapshots - список сохранений
func (h *DebugHandler) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.Service.Snapshots == nil {
		http.Error(w, "snapshot store is not configured", http.StatusNotFound)
		return
	}
	list, err := h.Service.Snapshots.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []storage.SnapshotInfo{}
	}
	writeJSON(w, list)
}

func writeJSON(w http.ResponseWriter, data any) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустая очередь), возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("debug response encode failed")
	}
}
