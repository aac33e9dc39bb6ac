package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout  = 10 * time.Second
	maxCatalogBytes = 16 << 20
	tracerName      = "github.com/LingaMahesh11/Style-Spot/internal/catalog"
	outcomeOK       = "ok"
)

// Load operations reported in LoadError.Op.
const (
	OpFetch    = "fetch"
	OpDecode   = "decode"
	OpValidate = "validate"
)

var (
	errEmptySource   = errors.New("catalog: source is required")
	errMissingObject = errors.New("catalog: object storage source needs bucket and object")
)

// LoadError reports a failed catalog fetch or parse. Callers keep the catalog empty.
type LoadError struct {
	Source string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog: %s %s: %v", e.Op, e.Source, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// ObjectOpener opens an object stored in a bucket (gs:// sources).
type ObjectOpener func(ctx context.Context, bucket, object string) (io.ReadCloser, error)

// Loader performs the single read of the catalog resource.
type Loader struct {
	source     string
	http       *http.Client
	openObject ObjectOpener
	tracer     trace.Tracer
	meter      metric.Meter
	latency    metric.Float64Histogram
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient overrides the client used for http(s) sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.http = client
		}
	}
}

// WithTimeout bounds http(s) fetches.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.http = &http.Client{Timeout: d}
		}
	}
}

// WithObjectOpener overrides how gs:// objects are opened.
func WithObjectOpener(open ObjectOpener) LoaderOption {
	return func(l *Loader) {
		if open != nil {
			l.openObject = open
		}
	}
}

// WithStorageClient reads gs:// sources through client. The caller keeps ownership and closes it.
func WithStorageClient(client *storage.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.openObject = clientOpener(client)
		}
	}
}

// WithMeter records load latency on m instead of the global meter provider.
func WithMeter(m metric.Meter) LoaderOption {
	return func(l *Loader) {
		if m != nil {
			l.meter = m
		}
	}
}

// NewLoader constructs a Loader for a local path, file://, http(s):// or gs:// source.
func NewLoader(source string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:     strings.TrimSpace(source),
		http:       &http.Client{Timeout: defaultTimeout},
		openObject: openStorageObject,
		tracer:     otel.Tracer(tracerName),
		meter:      otel.GetMeterProvider().Meter(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	latency, err := l.meter.Float64Histogram(
		"catalog.load.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds of the catalog load"),
	)
	if err == nil {
		l.latency = latency
	}
	return l
}

// Source returns the configured catalog location.
func (l *Loader) Source() string { return l.source }

// Load fetches and parses the catalog once. Any failure yields a *LoadError and no products.
func (l *Loader) Load(ctx context.Context) ([]Product, error) {
	ctx, span := l.tracer.Start(ctx, "catalog.Load", trace.WithAttributes(attribute.String("catalog.source", l.source)))
	defer span.End()

	start := time.Now()
	products, err := l.load(ctx)
	l.record(ctx, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog load failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	return products, nil
}

func (l *Loader) record(ctx context.Context, start time.Time, err error) {
	if l.latency == nil {
		return
	}
	outcome := outcomeOK
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		outcome = loadErr.Op
	}
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	l.latency.Record(ctx, elapsed, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (l *Loader) load(ctx context.Context) ([]Product, error) {
	body, contentType, err := l.fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: l.source, Op: OpFetch, Err: err}
	}
	defer body.Close()

	records, err := decode(io.LimitReader(body, maxCatalogBytes), formatOf(l.source, contentType))
	if err != nil {
		return nil, &LoadError{Source: l.source, Op: OpDecode, Err: err}
	}
	products, err := ingest(records)
	if err != nil {
		return nil, &LoadError{Source: l.source, Op: OpValidate, Err: err}
	}
	return products, nil
}

func (l *Loader) fetch(ctx context.Context) (io.ReadCloser, string, error) {
	src := l.source
	switch {
	case src == "":
		return nil, "", errEmptySource
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetchHTTP(ctx, src)
	case strings.HasPrefix(src, "gs://"):
		bucket, object, _ := strings.Cut(strings.TrimPrefix(src, "gs://"), "/")
		if bucket == "" || object == "" {
			return nil, "", errMissingObject
		}
		rc, err := l.openObject(ctx, bucket, object)
		return rc, "", err
	default:
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, "", err
		}
		return f, "", nil
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, endpoint string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(source, contentType string) format {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.Contains(mt, "yaml") {
			return formatYAML
		}
	}
	clean := source
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	switch strings.ToLower(path.Ext(clean)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func decode(r io.Reader, f format) ([]record, error) {
	var records []record
	switch f {
	case formatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ingest assigns identifiers and enforces title uniqueness.
func ingest(records []record) ([]Product, error) {
	products := make([]Product, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		p := rec.product()
		if p.Title == "" {
			return nil, fmt.Errorf("record %d has no title", i)
		}
		if prev, ok := seen[p.Title]; ok {
			return nil, fmt.Errorf("records %d and %d share title %q", prev, i, p.Title)
		}
		seen[p.Title] = i
		products = append(products, p)
	}
	return products, nil
}

func clientOpener(client *storage.Client) ObjectOpener {
	return func(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// openStorageObject dials a client for a single read and closes it with the reader.
// The catalog is read once per process, so no client is kept around.
func openStorageObject(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	r, err := clientOpener(client)(ctx, bucket, object)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &objectReader{ReadCloser: r, client: client}, nil
}

type objectReader struct {
	io.ReadCloser
	client *storage.Client
}

func (o *objectReader) Close() error {
	err := o.ReadCloser.Close()
	if cerr := o.client.Close(); err == nil {
		err = cerr
	}
	return err
}
