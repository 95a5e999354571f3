package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/franela/goblin"
	"github.com/rs/zerolog"

	"github.com/thebartekbanach/imagetor/pkg/ingest"
)

type stubIngestService struct {
	addResults []ingest.Result
	addErr     error
	deleteErr  error

	addCalls    []ingest.AddRequest
	deleteCalls []ingest.DeleteRequest
}

func (s *stubIngestService) Add(ctx context.Context, req ingest.AddRequest) ([]ingest.Result, error) {
	s.addCalls = append(s.addCalls, req)
	return s.addResults, s.addErr
}

func (s *stubIngestService) Delete(ctx context.Context, req ingest.DeleteRequest) error {
	s.deleteCalls = append(s.deleteCalls, req)
	return s.deleteErr
}

func TestImagetorRequestHandler(t *testing.T) {
	g := goblin.Goblin(t)

	serve := func(service ingest.Service, method, contentType, body string) *httptest.ResponseRecorder {
		handler := handleImagetorRequest(context.Background(), service, zerolog.Nop())
		request := httptest.NewRequest(method, "/", strings.NewReader(body))
		if contentType != "" {
			request.Header.Set("Content-Type", contentType)
		}
		recorder := httptest.NewRecorder()
		handler(recorder, request)
		return recorder
	}

	validAddBody := `{
		"action": "add",
		"url": "https://images.example.com/cat.jpg",
		"bucket": "landing-page",
		"extension": "jpeg",
		"authToken": "secret",
		"originalImageRelativePath": "cats/original.jpeg"
	}`

	validDelBody := `{
		"action": "del",
		"bucket": "landing-page",
		"authToken": "secret",
		"relativePath": "cats/original.jpeg"
	}`

	g.Describe("Imagetor request handler", func() {
		g.It("Should respond with uploaded URLs for a successful add request", func() {
			service := &stubIngestService{
				addResults: []ingest.Result{
					{URL: "https://cdn.example.com/landing-page/cats/original.jpeg"},
					{URL: "https://cdn.example.com/landing-page/cats/small.jpeg"},
				},
			}

			recorder := serve(service, http.MethodPost, "application/json", validAddBody)

			g.Assert(recorder.Code).Equal(http.StatusOK)
			g.Assert(len(service.addCalls)).Equal(1)

			var response struct {
				OK []struct {
					URL string `json:"url"`
				} `json:"OK"`
			}
			g.Assert(json.Unmarshal(recorder.Body.Bytes(), &response)).IsNil()
			g.Assert(len(response.OK)).Equal(2)
			g.Assert(response.OK[0].URL).Equal("https://cdn.example.com/landing-page/cats/original.jpeg")
		})

		g.It("Should respond with deleted confirmation for a successful del request", func() {
			service := &stubIngestService{}

			recorder := serve(service, http.MethodPost, "application/json", validDelBody)

			g.Assert(recorder.Code).Equal(http.StatusOK)
			g.Assert(len(service.deleteCalls)).Equal(1)
			g.Assert(service.deleteCalls[0].RelativePath).Equal("cats/original.jpeg")

			var response map[string]string
			g.Assert(json.Unmarshal(recorder.Body.Bytes(), &response)).IsNil()
			g.Assert(response["OK"]).Equal("deleted")
		})

		g.It("Should reject non-POST requests without calling the service", func() {
			service := &stubIngestService{}

			recorder := serve(service, http.MethodGet, "application/json", "")

			g.Assert(recorder.Code).Equal(http.StatusMethodNotAllowed)
			g.Assert(len(service.addCalls)).Equal(0)
			g.Assert(len(service.deleteCalls)).Equal(0)
		})

		g.It("Should reject requests without a JSON content type", func() {
			service := &stubIngestService{}

			recorder := serve(service, http.MethodPost, "text/plain", validAddBody)

			g.Assert(recorder.Code).Equal(http.StatusUnsupportedMediaType)
			g.Assert(len(service.addCalls)).Equal(0)
		})

		g.It("Should accept a JSON content type carrying a charset parameter", func() {
			service := &stubIngestService{}

			recorder := serve(service, http.MethodPost, "application/json; charset=utf-8", validDelBody)

			g.Assert(recorder.Code).Equal(http.StatusOK)
			g.Assert(len(service.deleteCalls)).Equal(1)
		})

		g.It("Should respond with a validation failure envelope for a malformed request", func() {
			service := &stubIngestService{}

			recorder := serve(service, http.MethodPost, "application/json", `{"action": "add"}`)

			g.Assert(recorder.Code).Equal(http.StatusBadRequest)
			g.Assert(len(service.addCalls)).Equal(0)

			var envelope failureEnvelope
			g.Assert(json.Unmarshal(recorder.Body.Bytes(), &envelope)).IsNil()
			g.Assert(envelope.ImagetorVersion).Equal(imagetorVersion)
			g.Assert(envelope.Date != "").IsTrue()
			g.Assert(envelope.Error != "").IsTrue()
		})

		g.It("Should map service failures to their HTTP status", func() {
			service := &stubIngestService{
				deleteErr: &ingest.Error{Kind: ingest.KindAuth, Err: ingest.ErrTokenMismatch},
			}

			recorder := serve(service, http.MethodPost, "application/json", validDelBody)

			g.Assert(recorder.Code).Equal(http.StatusUnauthorized)

			var envelope failureEnvelope
			g.Assert(json.Unmarshal(recorder.Body.Bytes(), &envelope)).IsNil()
			g.Assert(envelope.Error != "").IsTrue()
		})
	})
}
