package main

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"gridcaster/engine"
	"gridcaster/logger"
)

// debugWorld is what the debug server reads and drives.
type debugWorld interface {
	Status() Status
	RequestDoorToggle(id int) error
	Snapshot() *engine.Frame
	FrameStats() engine.Stats
}

func (w *World) Snapshot() *engine.Frame  { return w.Comp.Snapshot() }
func (w *World) FrameStats() engine.Stats { return w.Comp.Stats() }

type debugHandler struct {
	world debugWorld
	log   *logrus.Entry
}

// debugRoutes serves a live view of a running world.
func debugRoutes(w debugWorld) http.Handler {
	h := &debugHandler{world: w, log: logger.Component("debug")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/frame.png", h.frame)
	r.Get("/stats", h.stats)
	r.Post("/doors/{id}/toggle", h.toggleDoor)
	return r
}

func (h *debugHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

// frame handles GET /frame.png with the last composed frame
func (h *debugHandler) frame(w http.ResponseWriter, r *http.Request) {
	f := h.world.Snapshot()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, f.RGBA()); err != nil {
		h.log.WithError(err).Warn("encode frame")
	}
}

type statsResponse struct {
	Status
	Frames      uint64  `json:"frames"`
	LastFrameMS float64 `json:"last_frame_ms"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// stats handles GET /stats
func (h *debugHandler) stats(w http.ResponseWriter, r *http.Request) {
	st := h.world.FrameStats()
	respondJSON(w, http.StatusOK, statsResponse{
		Status:      h.world.Status(),
		Frames:      st.Frames,
		LastFrameMS: float64(st.LastFrame) / float64(time.Millisecond),
		Width:       st.Width,
		Height:      st.Height,
	})
}

// toggleDoor handles POST /doors/{id}/toggle. The toggle is applied on the
// world's next tick, so the response is 202.
func (h *debugHandler) toggleDoor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid door id")
		return
	}
	switch err := h.world.RequestDoorToggle(id); {
	case errors.Is(err, ErrUnknownDoor):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBusy):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusAccepted, map[string]int{"door": id})
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// serveDebug runs the debug server until ctx is cancelled.
func serveDebug(ctx context.Context, addr string, w debugWorld) {
	log := logger.Component("debug")
	srv := &http.Server{
		Addr:              addr,
		Handler:           debugRoutes(w),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithField("addr", addr).Info("debug server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("debug server stopped")
	}
}
