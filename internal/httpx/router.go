package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/sellerdash/internal/daterange"
	"github.com/AngelCh415/sellerdash/internal/ingest"
	"github.com/AngelCh415/sellerdash/internal/metrics"
	"github.com/AngelCh415/sellerdash/internal/store"
	"github.com/AngelCh415/sellerdash/internal/utils"
)

// Ready reports whether the first order batch has been loaded.
type Ready func() bool

func NewRouter(log *slog.Logger, svc *metrics.Service, ready Ready, allowedOrigins []string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", utils.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", utils.RequestIDHeader},
	}))
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)
	mux.Use(bearerToken)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			http.Error(w, "orders not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/presets", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, daterange.Labels) })

	mux.Route("/orders", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			page, err := svc.OrdersDashboard(r.Context(), r.URL.Query())
			respond(w, log, page, err)
		})
		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			n, err := svc.RefreshOrders(r.Context())
			respond(w, log, map[string]any{"orders": n}, err)
		})
		r.Get("/label", func(w http.ResponseWriter, r *http.Request) {
			b, err := svc.ShippingLabel(r.Context(), r.URL.Query().Get("awb"))
			sendBlob(w, log, b, err)
		})
		r.Get("/invoice", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			b, err := svc.ShippingInvoice(r.Context(), q.Get("awb"), q.Get("order_id"))
			sendBlob(w, log, b, err)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			d, err := svc.Order(r.Context(), chi.URLParam(r, "id"))
			respond(w, log, d, err)
		})
		r.Post("/{originalID}/shipment", func(w http.ResponseWriter, r *http.Request) {
			d, err := svc.CreateShipment(r.Context(), chi.URLParam(r, "originalID"))
			respond(w, log, d, err)
		})
		r.Post("/{originalID}/cancel", func(w http.ResponseWriter, r *http.Request) {
			d, err := svc.CancelOrder(r.Context(), chi.URLParam(r, "originalID"))
			respond(w, log, d, err)
		})
	})

	mux.Get("/insights", func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Insights(r.Context(), r.URL.Query())
		respond(w, log, v, err)
	})
	mux.Get("/ad-performance", func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.AdPerformance(r.Context(), r.URL.Query())
		respond(w, log, v, err)
	})
	mux.Get("/adset-performance", func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.AdsetBreakdown(r.Context(), r.URL.Query())
		respond(w, log, v, err)
	})
	mux.Post("/adset-performance/sort", func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.SortAdsets(r.Context(), r.URL.Query().Get("key"))
		respond(w, log, v, err)
	})

	mux.Route("/reports", func(r chi.Router) {
		r.Get("/pdf", func(w http.ResponseWriter, r *http.Request) {
			b, err := svc.AdsetPDF(r.Context(), r.URL.Query())
			sendBlob(w, log, b, err)
		})
		r.Get("/excel", func(w http.ResponseWriter, r *http.Request) {
			b, err := svc.ExcelReport(r.Context(), r.URL.Query())
			sendBlob(w, log, b, err)
		})
		r.Get("/amazon", func(w http.ResponseWriter, r *http.Request) {
			b, err := svc.AmazonReport(r.Context(), r.URL.Query())
			sendBlob(w, log, b, err)
		})
	})

	return mux
}

// bearerToken forwards the caller's Authorization header to the upstream API.
func bearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && strings.TrimSpace(tok) != "" {
			r = r.WithContext(ingest.WithToken(r.Context(), strings.TrimSpace(tok)))
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps service errors; anything unrecognised came from upstream.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ingest.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, metrics.ErrInvalidInput), errors.Is(err, metrics.ErrNoData):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, metrics.ErrActionNotAllowed):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func respond(w http.ResponseWriter, log *slog.Logger, v any, err error) {
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, v)
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	code := statusFor(err)
	if code >= 500 {
		log.Error("request failed", slog.Int("status", code), slog.String("err", err.Error()))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func sendBlob(w http.ResponseWriter, log *slog.Logger, b ingest.Blob, err error) {
	if err != nil {
		writeError(w, log, err)
		return
	}
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": b.Filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(b.Data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
