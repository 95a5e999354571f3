package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/thebartekbanach/imagetor/pkg/config"
	"github.com/thebartekbanach/imagetor/pkg/fanout"
	"github.com/thebartekbanach/imagetor/pkg/fetcher"
	"github.com/thebartekbanach/imagetor/pkg/record"
	"github.com/thebartekbanach/imagetor/pkg/sniff"
	"github.com/thebartekbanach/imagetor/pkg/storage"
	"github.com/thebartekbanach/imagetor/pkg/transform"
)

type ingestService struct {
	buckets config.Buckets
	fetcher fetcher.Fetcher
	store   storage.ObjectStore
	records record.Repository
	log     zerolog.Logger
}

var _ Service = (*ingestService)(nil)

func NewService(
	buckets config.Buckets,
	fetcher fetcher.Fetcher,
	store storage.ObjectStore,
	records record.Repository,
	log zerolog.Logger,
) Service {
	return &ingestService{
		buckets: buckets,
		fetcher: fetcher,
		store:   store,
		records: records,
		log:     log,
	}
}

// pipeline is one fanned-out consumer: a destination path, the stage
// that produces its bytes, and its own cursor over the source stream.
type pipeline struct {
	path    string
	stage   transform.Stage
	source  io.Reader
	closer  io.Closer
	variant bool
}

type outcome struct {
	object  storage.UploadedObject
	variant bool
	err     error
}

func (s *ingestService) Add(ctx context.Context, req AddRequest) ([]Result, error) {
	results, err := s.add(ctx, req)
	if err != nil {
		requestsTotal.WithLabelValues(ActionAdd, "failure").Inc()
		return nil, err
	}

	requestsTotal.WithLabelValues(ActionAdd, "success").Inc()
	return results, nil
}

func (s *ingestService) add(ctx context.Context, req AddRequest) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bucket, err := s.authorize(req.Bucket, req.AuthToken)
	if err != nil {
		return nil, err
	}

	// watermarking with no configured overlay must fail before any
	// upload starts, otherwise the passthrough pipeline would succeed
	// and leave an orphan behind a guaranteed variant failure
	if req.Watermark && len(req.Files) > 0 && bucket.Watermark == "" {
		return nil, newError(KindTransform, fmt.Errorf("%w: no overlay configured for bucket %s", transform.ErrWatermarkUnavailable, req.Bucket))
	}

	contentType, err := req.Extension.ContentType()
	if err != nil {
		return nil, newError(KindInternal, err)
	}

	requestID := uuid.New().String()
	logger := s.log.With().Str("requestId", requestID).Str("bucket", req.Bucket).Logger()

	broadcast := fanout.NewBroadcaster()
	src := fetcher.Source{
		URL:            req.URL,
		Base64:         req.Base64Format,
		AuthHeader:     bucket.AuthHeader,
		AllowedDomains: bucket.AllowedDomains,
	}
	if err := s.fetcher.Fetch(ctx, src, broadcast.Producer()); err != nil {
		return nil, newError(classify(err, KindFetch), err)
	}

	sniffReader := broadcast.NewReader()
	kind, restored, err := sniff.Peek(sniffReader)
	if err != nil {
		sniffReader.Close()
		return nil, newError(classify(err, KindSniff), err)
	}
	logger.Debug().Str("sourceType", string(kind)).Msg("source stream validated")

	pipelines := s.buildPipelines(req, bucket, restored, sniffReader, broadcast)

	outcomes := make(chan outcome, len(pipelines))
	for _, p := range pipelines {
		go s.runPipeline(ctx, req.Bucket, contentType, p, outcomes)
	}

	results := make([]Result, 0, len(pipelines))
	objects := make([]storage.UploadedObject, 0, len(pipelines))
	variants := make([]bool, 0, len(pipelines))
	var failures *multierror.Error
	for range pipelines {
		o := <-outcomes
		if o.err != nil {
			pipelineFailuresTotal.WithLabelValues(classify(o.err, KindInternal).String()).Inc()
			failures = multierror.Append(failures, o.err)
			continue
		}

		uploadedBytesTotal.Add(float64(o.object.Size))
		results = append(results, Result{URL: o.object.PublicURL, Path: o.object.Path})
		objects = append(objects, o.object)
		variants = append(variants, o.variant)
	}

	if aggregate := failures.ErrorOrNil(); aggregate != nil {
		for _, res := range results {
			logger.Warn().
				Str("path", res.Path).
				Str("url", res.URL).
				Msg("upload orphaned by sibling pipeline failure, no rollback performed")
		}

		firstKind := classify(failures.Errors[0], KindInternal)
		return nil, newError(firstKind, aggregate)
	}

	for i, object := range objects {
		s.recordUpload(ctx, logger, requestID, req, object, contentType, variants[i])
	}

	logger.Info().Int("pipelines", len(pipelines)).Msg("add request succeeded")
	return results, nil
}

func (s *ingestService) buildPipelines(
	req AddRequest,
	bucket config.BucketConfig,
	restored io.Reader,
	sniffCloser io.Closer,
	broadcast *fanout.Broadcaster,
) []pipeline {
	pipelines := make([]pipeline, 0, len(req.Files)+1)

	// the passthrough pipeline reuses the sniffed reader so the peeked
	// prefix is consumed exactly once
	pipelines = append(pipelines, pipeline{
		path:   req.OriginalImageRelativePath,
		stage:  transform.Passthrough(),
		source: restored,
		closer: sniffCloser,
	})

	for _, file := range req.Files {
		var stage transform.Stage
		if req.Watermark {
			stage = transform.ResizeWithWatermark(file.Width, file.Height, req.Extension, bucket.Watermark, req.WatermarkPosition)
		} else {
			stage = transform.Resize(file.Width, file.Height, req.Extension)
		}

		reader := broadcast.NewReader()
		pipelines = append(pipelines, pipeline{
			path:    file.RelativePath,
			stage:   stage,
			source:  reader,
			closer:  reader,
			variant: true,
		})
	}

	return pipelines
}

func (s *ingestService) runPipeline(ctx context.Context, bucket, contentType string, p pipeline, out chan<- outcome) {
	defer p.closer.Close()

	pipeReader, pipeWriter := io.Pipe()
	stageErr := make(chan error, 1)
	go func() {
		err := p.stage.Apply(ctx, p.source, pipeWriter)
		pipeWriter.CloseWithError(err)
		stageErr <- err
	}()

	object, uploadErr := s.store.Upload(ctx, bucket, p.path, contentType, pipeReader)
	pipeReader.Close()

	// a stage failure surfaces through the pipe as an upload read
	// error; report the stage error so the failure keeps its kind. An
	// ErrClosedPipe from the stage just means the upload aborted first.
	err := <-stageErr
	if errors.Is(err, io.ErrClosedPipe) {
		err = nil
	}
	if err != nil {
		out <- outcome{err: fmt.Errorf("pipeline %s: %w", p.path, err), variant: p.variant}
		return
	}
	if uploadErr != nil {
		out <- outcome{err: fmt.Errorf("pipeline %s: %w", p.path, uploadErr), variant: p.variant}
		return
	}

	out <- outcome{object: object, variant: p.variant}
}

func (s *ingestService) recordUpload(
	ctx context.Context,
	logger zerolog.Logger,
	requestID string,
	req AddRequest,
	object storage.UploadedObject,
	contentType string,
	variant bool,
) {
	rec := record.IngestionRecord{
		RequestID: requestID,
		Bucket:    req.Bucket,
		Path:      object.Path,
		PublicURL: object.PublicURL,
		MimeType:  contentType,
		Size:      object.Size,
		SourceURL: req.URL,
		Variant:   variant,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.records.Create(ctx, rec); err != nil {
		logger.Warn().Err(err).Str("path", object.Path).Msg("could not persist ingestion record")
	}
}

func (s *ingestService) Delete(ctx context.Context, req DeleteRequest) error {
	if err := s.delete(ctx, req); err != nil {
		requestsTotal.WithLabelValues(ActionDel, "failure").Inc()
		return err
	}

	requestsTotal.WithLabelValues(ActionDel, "success").Inc()
	return nil
}

func (s *ingestService) delete(ctx context.Context, req DeleteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.authorize(req.Bucket, req.AuthToken); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, req.Bucket, req.RelativePath); err != nil {
		return newError(KindStorage, err)
	}

	if err := s.records.DeleteByPath(ctx, req.Bucket, req.RelativePath); err != nil && err != record.ErrRecordNotFound {
		s.log.Warn().Err(err).Str("path", req.RelativePath).Msg("could not remove ingestion record")
	}

	s.log.Info().Str("bucket", req.Bucket).Str("path", req.RelativePath).Msg("object deleted")
	return nil
}

func (s *ingestService) authorize(bucketName, token string) (config.BucketConfig, error) {
	bucket, err := s.buckets.Lookup(bucketName)
	if err != nil {
		return config.BucketConfig{}, newError(KindAuth, err)
	}

	if token != bucket.Token {
		return config.BucketConfig{}, newError(KindAuth, ErrTokenMismatch)
	}

	return bucket, nil
}
