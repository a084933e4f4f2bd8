package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"beautylist/internal/catalog/metrics"
	"beautylist/internal/catalog/models"
	"beautylist/internal/catalog/transfer"
	"beautylist/internal/catalog/view"
	dErrors "beautylist/pkg/domain-errors"
	"beautylist/pkg/platform/sentinel"
)

// Service is the session controller. It owns the product store, the query
// parameters and the form draft, and serializes every operation so each one
// runs to completion before the next starts.
type Service struct {
	mu sync.Mutex

	store ProductStore
	query models.Query

	mode      models.FormMode
	editingID models.ProductID
	draft     models.Draft

	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	newID        func() models.ProductID
	exportPrefix string
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithIDGenerator replaces the UUID generator used for new products.
func WithIDGenerator(fn func() models.ProductID) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// WithDefaultTab sets the tab shown when the session starts.
func WithDefaultTab(tab models.Tab) Option {
	return func(s *Service) {
		if tab.IsValid() {
			s.query.Tab = tab
		}
	}
}

func WithExportPrefix(prefix string) Option {
	return func(s *Service) {
		s.exportPrefix = prefix
	}
}

// New constructs a Service.
func New(store ProductStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("product store is required")
	}
	s := &Service{
		store:        store,
		query:        models.DefaultQuery(models.TabSkincare),
		mode:         models.FormClosed,
		draft:        models.NewDraft(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:       otel.Tracer("beautylist/catalog"),
		newID:        func() models.ProductID { return models.ProductID(uuid.NewString()) },
		exportPrefix: transfer.DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Taxonomy returns the static tab, category and retailer enumerations.
func (s *Service) Taxonomy() models.Taxonomy {
	return models.CurrentTaxonomy()
}

// Products returns the whole store in order.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// Product returns one product by id.
func (s *Service) Product(ctx context.Context, id models.ProductID) (*models.Product, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load product")
	}
	return p, nil
}

// View derives the view model from the store and the session query.
func (s *Service) View(ctx context.Context) (models.ViewModel, error) {
	s.mu.Lock()
	q := s.query
	s.mu.Unlock()
	return s.ViewFor(ctx, q)
}

// ViewFor derives the view model for q without touching the session query.
func (s *Service) ViewFor(ctx context.Context, q models.Query) (models.ViewModel, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.View")
	defer span.End()

	products, err := s.store.List(ctx)
	if err != nil {
		return models.ViewModel{}, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products"))
	}
	vm := view.Derive(products, q)
	span.SetAttributes(
		attribute.String("catalog.tab", string(q.Tab)),
		attribute.Int("catalog.matches", vm.MatchCount),
	)
	return vm, nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, dErrors.Message(err))
	return err
}

func (s *Service) recordStoreSize(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if n, err := s.store.Count(ctx); err == nil {
		s.metrics.SetStoreSize(n)
	}
}

func translateStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "product not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "product id already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) importFailed(ctx context.Context, span trace.Span, prompter Prompter, format transfer.Format, err error) error {
	if s.metrics != nil {
		s.metrics.ObserveImport(string(format), importResultFailure)
	}
	s.logger.WarnContext(ctx, "import rejected", "format", format, "error", err)
	prompter.Notify(ctx, models.Notice{Kind: models.NoticeError, Message: models.MsgImportFailed})
	return s.fail(span, err)
}
