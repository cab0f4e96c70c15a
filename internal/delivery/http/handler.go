package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
	"github.com/prasetya/wholesale-coupon-guard/internal/hooks"
	"github.com/prasetya/wholesale-coupon-guard/internal/platform"
	"github.com/prasetya/wholesale-coupon-guard/internal/repository"
	"github.com/prasetya/wholesale-coupon-guard/internal/usecase"
	"github.com/rs/zerolog/log"
)

type ValidateCheckoutRequest struct {
	SessionID string            `json:"session_id"`
	Fields    map[string]string `json:"fields"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// CartSnapshot reports the post-validation session state: the coupons
// that survived, the queued notices, and whether totals need a
// refresh.
type CartSnapshot struct {
	SessionID     string          `json:"session_id"`
	Coupons       []string        `json:"coupons"`
	Notices       []domain.Notice `json:"notices"`
	RefreshTotals bool            `json:"refresh_totals"`
}

type AdminNoticesResponse struct {
	Notices []string `json:"notices"`
}

type Handler struct {
	dispatcher *hooks.Registry
	session    usecase.SessionState
	store      repository.Store
	gate       *platform.Gate
}

func NewHandler(dispatcher *hooks.Registry, session usecase.SessionState, store repository.Store, gate *platform.Gate) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		session:    session,
		store:      store,
		gate:       gate,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout/validate", h.ValidateCheckout)
		r.Post("/carts/{session}/coupons", h.ApplyCoupon)
		r.Get("/carts/{session}", h.GetCart)
		r.Get("/admin/notices", h.AdminNotices)
	})
}

func (h *Handler) ValidateCheckout(w http.ResponseWriter, r *http.Request) {
	var req ValidateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	sub := domain.CheckoutSubmission{SessionID: req.SessionID, Fields: req.Fields}
	if err := h.dispatcher.Fire(r.Context(), hooks.CheckoutValidate, sub); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("checkout validation failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeSnapshot(w, r, req.SessionID)
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")

	var req ApplyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	coupon, err := h.store.CouponByCode(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			http.Error(w, "coupon not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !coupon.Valid() {
		http.Error(w, "coupon is not valid", http.StatusUnprocessableEntity)
		return
	}

	if err := h.session.ApplyCoupon(r.Context(), sessionID, coupon.Code); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, r, chi.URLParam(r, "session"))
}

func (h *Handler) AdminNotices(w http.ResponseWriter, r *http.Request) {
	resp := AdminNoticesResponse{Notices: h.gate.AdminNotices()}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, r *http.Request, sessionID string) {
	coupons, err := h.session.AppliedCoupons(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	notices, err := h.session.Notices(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	refresh, err := h.session.Flag(r.Context(), sessionID, domain.FlagRefreshTotals)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := CartSnapshot{
		SessionID:     sessionID,
		Coupons:       coupons,
		Notices:       notices,
		RefreshTotals: refresh,
	}
	if resp.Coupons == nil {
		resp.Coupons = []string{}
	}
	if resp.Notices == nil {
		resp.Notices = []domain.Notice{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
