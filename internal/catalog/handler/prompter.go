package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"beautylist/internal/catalog/models"
)

// ConfirmHeader answers the deletion prompt when set to "yes".
const ConfirmHeader = "X-Confirm"

// requestPrompter answers confirmations from the request and collects the
// notices raised while serving it so they can be returned in the response.
type requestPrompter struct {
	confirmed bool

	mu      sync.Mutex
	notices []models.Notice
}

func newRequestPrompter(r *http.Request) *requestPrompter {
	return &requestPrompter{confirmed: confirmedByRequest(r)}
}

func confirmedByRequest(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get(ConfirmHeader), "yes") {
		return true
	}
	ok, err := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return err == nil && ok
}

func (p *requestPrompter) Confirm(context.Context, string) bool {
	return p.confirmed
}

func (p *requestPrompter) Notify(_ context.Context, n models.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, n)
}

func (p *requestPrompter) Notices() []models.Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notices) == 0 {
		return nil
	}
	out := make([]models.Notice, len(p.notices))
	copy(out, p.notices)
	return out
}
