package main

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/thebartekbanach/imagetor/pkg/ingest"
)

const (
	maxRequestBodySize = 1 << 20

	requestTimeout = time.Minute
)

func handleImagetorRequest(baseCtx context.Context, service ingest.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeFailure(w, log, nil, http.StatusMethodNotAllowed, errors.New("only POST requests are accepted"))
			return
		}

		if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
			writeFailure(w, log, nil, http.StatusUnsupportedMediaType, errors.New("request body must be application/json"))
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
		if err != nil {
			writeFailure(w, log, nil, http.StatusBadRequest, errors.New("unable to read request body"))
			return
		}

		ctx, cancel := context.WithTimeout(baseCtx, requestTimeout)
		defer cancel()

		request, err := ingest.DecodeRequest(body)
		if err != nil {
			writeFailure(w, log, body, ingest.StatusOf(err), err)
			return
		}

		switch request := request.(type) {
		case *ingest.AddRequest:
			results, err := service.Add(ctx, *request)
			if err != nil {
				writeFailure(w, log, body, ingest.StatusOf(err), err)
				return
			}
			writeSuccess(w, map[string]interface{}{"OK": results})

		case *ingest.DeleteRequest:
			if err := service.Delete(ctx, *request); err != nil {
				writeFailure(w, log, body, ingest.StatusOf(err), err)
				return
			}
			writeSuccess(w, map[string]interface{}{"OK": "deleted"})

		default:
			writeFailure(w, log, body, http.StatusBadRequest, errors.New("unrecognized request action"))
		}
	}
}
