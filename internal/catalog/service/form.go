package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"beautylist/internal/catalog/models"
	dErrors "beautylist/pkg/domain-errors"
)

// DraftState returns the open form, if any, and the category options of the
// active tab.
func (s *Service) DraftState() models.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftStateLocked()
}

// BeginCreate opens an empty create form.
func (s *Service) BeginCreate(ctx context.Context) models.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetDraftLocked()
	s.mode = models.FormCreate
	s.logger.DebugContext(ctx, "create form opened", "tab", s.query.Tab)
	return s.draftStateLocked()
}

// BeginEdit loads the product into the form and switches to the tab that owns
// its category.
func (s *Service) BeginEdit(ctx context.Context, id models.ProductID) (models.DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.draftStateLocked(), translateStoreErr(err, "failed to load product")
	}
	if tab, ok := p.Category.Tab(); ok {
		s.query.Tab = tab
	}
	s.mode = models.FormEdit
	s.editingID = p.ID
	s.draft = models.DraftFromProduct(*p)
	s.logger.DebugContext(ctx, "edit form opened", "product_id", p.ID)
	return s.draftStateLocked(), nil
}

// UpdateDraft writes the patch's fields into the open form.
func (s *Service) UpdateDraft(patch models.DraftPatch) (models.DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == models.FormClosed {
		return s.draftStateLocked(), dErrors.New(dErrors.CodeBadRequest, "no product form is open")
	}
	s.draft = s.draft.Apply(patch)
	return s.draftStateLocked(), nil
}

// Cancel discards the draft and closes the form.
func (s *Service) Cancel() models.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetDraftLocked()
	return s.draftStateLocked()
}

// Submit validates the open draft and commits it. A create form appends a new
// product; an edit form replaces the product in place. On any failure the
// store and the draft are left as they were and an error notice is sent.
func (s *Service) Submit(ctx context.Context, prompter Prompter) (*models.Product, error) {
	prompter = orSilent(prompter)
	ctx, span := s.tracer.Start(ctx, "catalog.Submit")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	span.SetAttributes(attribute.String("catalog.form_mode", string(s.mode)))

	var (
		p   *models.Product
		err error
	)
	switch s.mode {
	case models.FormCreate:
		p, err = s.createLocked(ctx, s.draft, s.query.Tab)
	case models.FormEdit:
		p, err = s.updateLocked(ctx, s.editingID, s.draft)
	default:
		err = dErrors.New(dErrors.CodeBadRequest, "no product form is open")
	}
	if err != nil {
		s.rejected(ctx, prompter, err)
		return nil, s.fail(span, err)
	}

	s.resetDraftLocked()
	s.recordStoreSize(ctx)
	return p, nil
}

// SubmitForm creates a product from a complete form in one step, without
// touching an open form. The category decides which tab the product is
// validated against.
func (s *Service) SubmitForm(ctx context.Context, form models.Draft, prompter Prompter) (*models.Product, error) {
	prompter = orSilent(prompter)
	ctx, span := s.tracer.Start(ctx, "catalog.SubmitForm")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.query.Tab
	if owner, ok := models.Category(form.Category).Tab(); ok {
		tab = owner
	}
	p, err := s.createLocked(ctx, form, tab)
	if err != nil {
		s.rejected(ctx, prompter, err)
		return nil, s.fail(span, err)
	}
	s.recordStoreSize(ctx)
	return p, nil
}

func (s *Service) createLocked(ctx context.Context, d models.Draft, tab models.Tab) (*models.Product, error) {
	p, err := d.Build(s.newID(), tab)
	if err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, p); err != nil {
		return nil, translateStoreErr(err, "failed to save product")
	}
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	s.logger.InfoContext(ctx, "product created",
		"product_id", p.ID,
		"category", p.Category,
		"retailer", p.Retailer,
	)
	return &p, nil
}

func (s *Service) updateLocked(ctx context.Context, id models.ProductID, d models.Draft) (*models.Product, error) {
	p, err := d.Build(id, s.query.Tab)
	if err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, p); err != nil {
		return nil, translateStoreErr(err, "failed to update product")
	}
	if s.metrics != nil {
		s.metrics.IncrementUpdated()
	}
	s.logger.InfoContext(ctx, "product updated", "product_id", p.ID)
	return &p, nil
}

func (s *Service) rejected(ctx context.Context, prompter Prompter, err error) {
	if dErrors.HasCode(err, dErrors.CodeValidation) {
		if s.metrics != nil {
			s.metrics.IncrementValidationFailures()
		}
		s.logger.WarnContext(ctx, "product form rejected", "reason", dErrors.Message(err))
	}
	prompter.Notify(ctx, models.Notice{Kind: models.NoticeError, Message: dErrors.Message(err)})
}

func (s *Service) resetDraftLocked() {
	s.mode = models.FormClosed
	s.editingID = ""
	s.draft = models.NewDraft()
}

func (s *Service) draftStateLocked() models.DraftState {
	return models.DraftState{
		Mode:      s.mode,
		EditingID: s.editingID,
		Draft:     s.draft,
		Options:   s.query.Tab.Categories(),
	}
}
