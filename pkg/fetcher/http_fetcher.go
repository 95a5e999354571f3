package fetcher

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ryanuber/go-glob"
	"github.com/thebartekbanach/imagetor/pkg/fanout"
)

type httpGetFunc func(ctx context.Context, url string, header http.Header) (*http.Response, error)

type HTTPFetcher struct {
	getter httpGetFunc
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher builds a fetcher with the given connect/response
// timeout applied to every source download.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	client := &http.Client{Timeout: timeout}

	getFunc := func(ctx context.Context, url string, header http.Header) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		for key, values := range header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		return client.Do(req)
	}

	return &HTTPFetcher{getFunc}
}

func (fetcher *HTTPFetcher) Fetch(ctx context.Context, src Source, input fanout.Producer) error {
	if err := checkSourceDomain(src); err != nil {
		input.Close(err)
		return err
	}

	header := http.Header{}
	for key, value := range src.AuthHeader {
		header.Set(key, value)
	}

	response, err := fetcher.getter(ctx, src.URL, header)
	if err != nil {
		input.Close(err)
		return err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		err := fmt.Errorf("%w: %d", ErrResponseStatusNotOK, response.StatusCode)
		input.Close(err)
		return err
	}

	if src.Base64 {
		return decodeBase64Body(response.Body, input)
	}

	go func() {
		_, err := input.ReadFrom(response.Body)
		input.Close(err)
		response.Body.Close()
	}()

	return nil
}

// decodeBase64Body fully buffers and decodes the fetched body before
// exposing it, because base64 text cannot be sniffed or transformed
// incrementally without knowing it decodes cleanly.
func decodeBase64Body(body io.ReadCloser, input fanout.Producer) error {
	defer body.Close()

	encoded, err := io.ReadAll(body)
	if err != nil {
		input.Close(err)
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrInvalidBase64, err)
		input.Close(wrapped)
		return wrapped
	}

	go func() {
		_, err := input.ReadFrom(bytes.NewReader(decoded))
		input.Close(err)
	}()

	return nil
}

func checkSourceDomain(src Source) error {
	if len(src.AllowedDomains) == 0 {
		return nil
	}

	parsed, err := url.Parse(src.URL)
	if err != nil {
		return err
	}

	hostname := parsed.Hostname()
	for _, allowed := range src.AllowedDomains {
		if glob.Glob(allowed, hostname) {
			return nil
		}
	}

	return ErrDomainNotAllowed
}
