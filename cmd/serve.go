package cmd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var addr string

// maxRequestBytes bounds a /quantize request body.
const maxRequestBytes = 1 << 20

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves quantization over HTTP",
	Long:  `Serves POST /quantize (same JSON as the quantize command) and GET /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           NewRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logrus.WithField("addr", addr).Info("serving")

		return srv.ListenAndServe()
	},
}

// NewRouter returns the HTTP handler with CORS enabled.
func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/quantize", HandleQuantize).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return cors.Default().Handler(router)
}

// HandleQuantize decodes a QuantizeRequest and writes a QuantizeResponse.
func HandleQuantize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	log := logrus.WithField("remote", r.RemoteAddr)
	resp, err := run(r.Context(), req, defaults, log)
	if err != nil {
		log.WithError(err).Warn("quantize request failed")
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("write response")
	}
}
