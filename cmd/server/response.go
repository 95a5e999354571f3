package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const imagetorVersion = "2.0.0"

type failureEnvelope struct {
	ImagetorVersion string `json:"imagetorVersion"`
	Date            string `json:"date"`
	Error           string `json:"error"`
}

func writeSuccess(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func writeFailure(w http.ResponseWriter, log zerolog.Logger, requestBody []byte, status int, err error) {
	log.Error().
		Err(err).
		Int("status", status).
		Bytes("requestBody", requestBody).
		Msg("request failed")

	envelope := failureEnvelope{
		ImagetorVersion: imagetorVersion,
		Date:            time.Now().UTC().Format("2006-01-02T15:04"),
		Error:           err.Error(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope)
}
