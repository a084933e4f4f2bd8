package service

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"beautylist/internal/catalog/models"
	"beautylist/internal/catalog/transfer"
	dErrors "beautylist/pkg/domain-errors"
	"beautylist/pkg/requestcontext"
)

const (
	importResultSuccess = "success"
	importResultFailure = "failure"
)

// Delete removes a product after the user confirms. It reports false with no
// error when the user declines.
func (s *Service) Delete(ctx context.Context, id models.ProductID, prompter Prompter) (bool, error) {
	prompter = orSilent(prompter)
	ctx, span := s.tracer.Start(ctx, "catalog.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.product_id", string(id)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if !prompter.Confirm(ctx, models.MsgConfirmDelete) {
		s.logger.DebugContext(ctx, "delete declined", "product_id", id)
		return false, nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return false, s.fail(span, translateStoreErr(err, "failed to delete product"))
	}
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	s.recordStoreSize(ctx)
	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return true, nil
}

// Export serializes the whole store, ignoring the current view filters.
func (s *Service) Export(ctx context.Context, format transfer.Format) (transfer.Document, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Export")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.format", string(format)))

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.List(ctx)
	if err != nil {
		return transfer.Document{}, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products"))
	}
	body, err := transfer.Export(products, format)
	if err != nil {
		return transfer.Document{}, s.fail(span, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(string(format))
	}
	s.logger.InfoContext(ctx, "products exported", "format", format, "count", len(products))
	return transfer.Document{
		Filename:    transfer.Filename(s.exportPrefix, format, requestcontext.Now(ctx)),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// Import replaces the whole store with the products read from r. Nothing is
// changed unless the entire document is valid.
func (s *Service) Import(ctx context.Context, r io.Reader, format transfer.Format, prompter Prompter) (int, error) {
	prompter = orSilent(prompter)
	ctx, span := s.tracer.Start(ctx, "catalog.Import")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.format", string(format)))

	products, err := transfer.Import(r, format)
	if err != nil {
		return 0, s.importFailed(ctx, span, prompter, format, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ReplaceAll(ctx, products); err != nil {
		return 0, s.importFailed(ctx, span, prompter, format, translateStoreErr(err, "failed to replace products"))
	}
	if s.metrics != nil {
		s.metrics.ObserveImport(string(format), importResultSuccess)
	}
	s.recordStoreSize(ctx)
	s.logger.InfoContext(ctx, "products imported", "format", format, "count", len(products))
	prompter.Notify(ctx, models.Notice{Kind: models.NoticeSuccess, Message: models.MsgImportSucceeded})
	span.SetAttributes(attribute.Int("catalog.imported", len(products)))
	return len(products), nil
}
