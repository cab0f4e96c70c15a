package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
	"github.com/prasetya/wholesale-coupon-guard/internal/hooks"
	"github.com/prasetya/wholesale-coupon-guard/internal/platform"
	"github.com/prasetya/wholesale-coupon-guard/internal/usecase"
)

type fakeStore struct {
	accounts map[string]*domain.Account
	coupons  map[string]*domain.Coupon
}

func (f *fakeStore) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if a, ok := f.accounts[email]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) CouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if c, ok := f.coupons[code]; ok {
		return c, nil
	}
	return nil, domain.ErrCouponNotFound
}

type fakeSession struct {
	coupons map[string][]string
	notices map[string][]domain.Notice
	flags   map[string]map[string]bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		coupons: map[string][]string{},
		notices: map[string][]domain.Notice{},
		flags:   map[string]map[string]bool{},
	}
}

func (f *fakeSession) AppliedCoupons(ctx context.Context, sessionID string) ([]string, error) {
	return f.coupons[sessionID], nil
}

func (f *fakeSession) ApplyCoupon(ctx context.Context, sessionID, code string) error {
	for _, c := range f.coupons[sessionID] {
		if c == code {
			return nil
		}
	}
	f.coupons[sessionID] = append(f.coupons[sessionID], code)
	return nil
}

func (f *fakeSession) RemoveCoupon(ctx context.Context, sessionID, code string) error {
	kept := f.coupons[sessionID][:0]
	for _, c := range f.coupons[sessionID] {
		if c != code {
			kept = append(kept, c)
		}
	}
	f.coupons[sessionID] = kept
	return nil
}

func (f *fakeSession) AddNotice(ctx context.Context, sessionID string, notice domain.Notice) error {
	f.notices[sessionID] = append(f.notices[sessionID], notice)
	return nil
}

func (f *fakeSession) Notices(ctx context.Context, sessionID string) ([]domain.Notice, error) {
	return f.notices[sessionID], nil
}

func (f *fakeSession) SetFlag(ctx context.Context, sessionID, key string, value bool) error {
	if f.flags[sessionID] == nil {
		f.flags[sessionID] = map[string]bool{}
	}
	f.flags[sessionID][key] = value
	return nil
}

func (f *fakeSession) Flag(ctx context.Context, sessionID, key string) (bool, error) {
	return f.flags[sessionID][key], nil
}

type noopPublisher struct{}

func (noopPublisher) CouponRemoved(ctx context.Context, sessionID, code, email string) error {
	return nil
}

func newTestRouter(t *testing.T, store *fakeStore, sess *fakeSession, platformVersion string) chi.Router {
	t.Helper()

	gate := platform.NewGate()
	gate.Check(platform.Info{Name: "Storefront", Version: platformVersion})

	guard := usecase.NewCheckoutGuard(gate, sess, store, noopPublisher{})

	dispatcher := hooks.NewRegistry()
	dispatcher.Register(hooks.CheckoutValidate, 5, func(ctx context.Context, payload any) error {
		sub, ok := payload.(domain.CheckoutSubmission)
		if !ok {
			t.Fatalf("unexpected payload type %T", payload)
		}
		return guard.ValidateCheckout(ctx, sub)
	})

	handler := NewHandler(dispatcher, sess, store, gate)
	r := chi.NewRouter()
	handler.Routes(r)
	return r
}

func TestValidateCheckout_StripsWholesaleCoupons(t *testing.T) {
	store := &fakeStore{
		accounts: map[string]*domain.Account{
			"buyer@acme.com": {ID: 1, Email: "buyer@acme.com", Roles: []string{"wholesale"}},
		},
		coupons: map[string]*domain.Coupon{
			"SAVE10":     {Code: "SAVE10", Enabled: true},
			"WHOLESALE5": {Code: "WHOLESALE5", Enabled: true},
		},
	}
	sess := newFakeSession()
	sess.coupons["sess-1"] = []string{"SAVE10", "WHOLESALE5"}

	r := newTestRouter(t, store, sess, "4.0.0")

	body := `{"session_id":"sess-1","fields":{"billing_email":"Buyer@Acme.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var snap CartSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(snap.Coupons) != 0 {
		t.Errorf("expected empty cart, got %v", snap.Coupons)
	}
	if len(snap.Notices) != 2 {
		t.Errorf("expected two notices, got %+v", snap.Notices)
	}
	if !snap.RefreshTotals {
		t.Error("expected refresh_totals to be true")
	}
}

func TestValidateCheckout_RetailAccountKeepsCoupon(t *testing.T) {
	store := &fakeStore{
		accounts: map[string]*domain.Account{
			"retail@example.com": {ID: 2, Email: "retail@example.com", Roles: []string{"customer"}},
		},
		coupons: map[string]*domain.Coupon{
			"SAVE10": {Code: "SAVE10", Enabled: true},
		},
	}
	sess := newFakeSession()
	sess.coupons["sess-2"] = []string{"SAVE10"}

	r := newTestRouter(t, store, sess, "4.0.0")

	body := `{"session_id":"sess-2","fields":{"billing_email":"retail@example.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap CartSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(snap.Coupons) != 1 || snap.Coupons[0] != "SAVE10" {
		t.Errorf("expected coupon kept, got %v", snap.Coupons)
	}
	if snap.RefreshTotals {
		t.Error("expected refresh_totals to be false")
	}
}

func TestValidateCheckout_MissingSessionID(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, newFakeSession(), "4.0.0")

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/validate", strings.NewReader(`{"fields":{}}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestApplyCoupon(t *testing.T) {
	store := &fakeStore{
		coupons: map[string]*domain.Coupon{
			"SAVE10":  {Code: "SAVE10", Enabled: true},
			"OLDCODE": {Code: "OLDCODE", Enabled: false},
		},
	}
	sess := newFakeSession()
	r := newTestRouter(t, store, sess, "4.0.0")

	cases := []struct {
		name string
		code string
		want int
	}{
		{"valid coupon", "SAVE10", http.StatusCreated},
		{"unknown coupon", "NOPE", http.StatusNotFound},
		{"disabled coupon", "OLDCODE", http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"code":"` + tc.code + `"}`
			req := httptest.NewRequest(http.MethodPost, "/api/carts/sess-3/coupons", strings.NewReader(body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}

	if got := sess.coupons["sess-3"]; len(got) != 1 || got[0] != "SAVE10" {
		t.Errorf("expected cart to hold SAVE10, got %v", got)
	}
}

func TestAdminNotices_ReportsVersionGateWarning(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, newFakeSession(), "3.4.9")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/notices", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp AdminNoticesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Notices) != 1 {
		t.Fatalf("expected one admin notice, got %d", len(resp.Notices))
	}
	if !strings.Contains(resp.Notices[0], platform.MinPlatformVersion) {
		t.Errorf("notice missing required version: %s", resp.Notices[0])
	}
}
