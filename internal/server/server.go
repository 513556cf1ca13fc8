// Package server exposes a paint session over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/imaging"
	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/palette"
	"github.com/maax3v3/zebra/internal/pictures"
	"github.com/maax3v3/zebra/internal/preprocess"
	"github.com/maax3v3/zebra/internal/renderer"
	"github.com/maax3v3/zebra/internal/session"
)

// Session is the subset of *session.Session the handlers use.
type Session interface {
	Pictures() ([]string, error)
	ChoosePicture(name string) error
	Status() session.Status
	Render() *image.RGBA
	Tap(x, y int) bool
	Slots() []palette.Slot
	ClickSlot(i int) error
	PickColor(c color.RGBA) error
	Color() color.RGBA
}

type handler struct {
	s Session
}

// New returns the HTTP handler for s.
func New(s Session) http.Handler {
	h := &handler{s: s}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", h.healthz)
	r.Get("/pictures", h.listPictures)
	r.Post("/pictures/{name}", h.choosePicture)
	r.Get("/status", h.status)
	r.Get("/image.png", h.image)
	r.Post("/paint", h.paint)
	r.Get("/slots", h.slots)
	r.Post("/slots/{index}", h.selectSlot)
	r.Post("/color", h.pickColor)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Logger().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type statusResponse struct {
	Picture string `json:"picture"`
	Loading bool   `json:"loading"`
	Percent int    `json:"percent"`
	Ready   bool   `json:"ready"`
	Error   string `json:"error,omitempty"`
	Color   string `json:"color"`
}

type slotResponse struct {
	Index    int    `json:"index"`
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

type paintResponse struct {
	Filled bool `json:"filled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (h *handler) listPictures(w http.ResponseWriter, r *http.Request) {
	names, err := h.s.Pictures()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *handler) choosePicture(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	names, err := h.s.Pictures()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !slices.Contains(names, name) {
		writeError(w, r, pictures.ErrUnknownPicture)
		return
	}
	if err := h.s.ChoosePicture(name); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, h.statusBody())
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.statusBody())
}

func (h *handler) statusBody() statusResponse {
	st := h.s.Status()
	resp := statusResponse{
		Picture: st.Picture,
		Loading: st.Loading,
		Percent: st.Percent,
		Ready:   st.Ready,
		Color:   h.s.Color().Hex(),
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	return resp
}

func (h *handler) image(w http.ResponseWriter, r *http.Request) {
	img := h.s.Render()
	if img == nil {
		writeError(w, r, preprocess.ErrNotReady)
		return
	}
	if r.URL.Query().Get("swatches") == "1" {
		img = renderer.Compose(img, h.s.Slots(), renderer.NewFaceFont(), renderer.DefaultConfig())
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (h *handler) paint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "x and y must be integers"})
		return
	}
	if !h.s.Status().Ready {
		writeError(w, r, preprocess.ErrNotReady)
		return
	}
	writeJSON(w, http.StatusOK, paintResponse{Filled: h.s.Tap(x, y)})
}

func (h *handler) slots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, slotsBody(h.s.Slots()))
}

func slotsBody(slots []palette.Slot) []slotResponse {
	out := make([]slotResponse, len(slots))
	for i, s := range slots {
		out[i] = slotResponse{Index: i, Color: s.Color.Hex(), Selected: s.Selected}
	}
	return out
}

func (h *handler) selectSlot(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "slot index must be an integer"})
		return
	}
	if err := h.s.ClickSlot(i); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotsBody(h.s.Slots()))
}

func (h *handler) pickColor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	c, err := color.Parse(body.Color)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.s.PickColor(c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slotsBody(h.s.Slots()))
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pictures.ErrUnknownPicture):
		return http.StatusNotFound
	case errors.Is(err, palette.ErrUnknownSlot):
		return http.StatusNotFound
	case errors.Is(err, preprocess.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, palette.ErrNotInitialized):
		return http.StatusConflict
	}
	var de *imaging.DecodeError
	if errors.As(err, &de) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	level := slog.LevelDebug
	if code >= 500 {
		level = slog.LevelError
	}
	logging.Logger().Log(r.Context(), level, "request failed",
		"path", r.URL.Path, "status", code, "err", err)
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
