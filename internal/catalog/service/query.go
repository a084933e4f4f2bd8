package service

import (
	"context"

	"beautylist/internal/catalog/models"
)

// QueryUpdate carries new query parameters; nil fields are left unchanged.
type QueryUpdate struct {
	Tab      *string `json:"tab,omitempty"`
	Search   *string `json:"search,omitempty"`
	Retailer *string `json:"retailer,omitempty"`
}

// Query returns the current query parameters.
func (s *Service) Query() models.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// ApplyQuery validates and applies u. Either every field is applied or none.
//
// Switching to another tab while a form is open discards the draft, so a
// pending category can never belong to a tab other than the active one.
func (s *Service) ApplyQuery(ctx context.Context, u QueryUpdate) (models.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.query
	if u.Tab != nil {
		tab, err := models.ParseTab(*u.Tab)
		if err != nil {
			return s.query, err
		}
		next.Tab = tab
	}
	if u.Retailer != nil {
		r, err := models.ParseRetailerFilter(*u.Retailer)
		if err != nil {
			return s.query, err
		}
		next.Retailer = r
	}
	if u.Search != nil {
		next.Search = *u.Search
	}

	if next.Tab != s.query.Tab && s.mode != models.FormClosed {
		s.logger.InfoContext(ctx, "tab switched with open form, discarding draft",
			"from", s.query.Tab,
			"to", next.Tab,
			"mode", s.mode,
		)
		s.resetDraftLocked()
	}
	s.query = next
	return s.query, nil
}

// SetTab switches the active tab.
func (s *Service) SetTab(ctx context.Context, tab string) (models.Query, error) {
	return s.ApplyQuery(ctx, QueryUpdate{Tab: &tab})
}

// SetSearch replaces the free-text search.
func (s *Service) SetSearch(ctx context.Context, search string) models.Query {
	q, _ := s.ApplyQuery(ctx, QueryUpdate{Search: &search})
	return q
}

// ClearSearch empties the free-text search.
func (s *Service) ClearSearch(ctx context.Context) models.Query {
	return s.SetSearch(ctx, "")
}

// SetRetailerFilter restricts the view to one retailer, or "All".
func (s *Service) SetRetailerFilter(ctx context.Context, retailer string) (models.Query, error) {
	return s.ApplyQuery(ctx, QueryUpdate{Retailer: &retailer})
}
