// Package v1handler implements version 1 of the HTTP API. Handlers decode
// requests, call into the service layer and translate semantic errors into
// HTTP status codes.
package v1handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"wefund/internal/admin"
	"wefund/internal/auth"
	"wefund/internal/compliance"
	"wefund/internal/funding"
	"wefund/internal/messaging"
	"wefund/internal/notify"
	"wefund/internal/verify"
	"wefund/internal/wallet"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultLimit is the page size used when the client does not ask for one.
const DefaultLimit = 20

// MaxLimit caps the page size a client may ask for.
const MaxLimit = 100

// Deps carries the services the handlers are backed by.
type Deps struct {
	Auth       auth.Auth
	Verifier   verify.Verifier
	Funding    funding.Funding
	Wallet     wallet.Wallet
	Compliance compliance.Compliance
	Messaging  messaging.Messaging
	Notifier   notify.Notifier
	Admin      admin.Admin
	// Hub carries live websocket sessions for the messaging endpoints.
	Hub *messaging.Hub
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Routes builds the v1 route tree. Everything under /auth is public; the
// rest requires a bearer token, and /admin additionally requires the admin
// role.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	// the email link is followed from a mail client, no token attached
	r.Get("/verification/email", h.confirmEmail)

	r.Group(func(r chi.Router) {
		r.Use(h.withUser)

		r.Get("/profile", h.profile)
		r.Put("/profile", h.updateProfile)
		r.Get("/dashboard", h.dashboard)
		r.Get("/stats", h.quickStats)

		r.Route("/verification", func(r chi.Router) {
			r.Get("/status", h.verificationStatus)
			r.Post("/email/send", h.sendEmailVerification)
			r.Post("/phone/send", h.sendPhoneCode)
			r.Post("/phone/confirm", h.confirmPhoneCode)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.listProjects)
			r.Post("/", h.createProject)
			r.Get("/featured", h.featuredProjects)
			r.Get("/{id}", h.getProject)
			r.Delete("/{id}", h.deleteProject)
			r.Post("/{id}/invest", h.invest)
		})

		// older clients fetch the ledger under /user
		r.Get("/user/transactions", h.listTransactions)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", h.walletSummary)
			r.Post("/deposit", h.deposit)
			r.Post("/withdraw", h.withdraw)
			r.Get("/transactions", h.listTransactions)
			r.Get("/momo/number", h.collectionNumber)
			r.Post("/momo/deposit", h.momoDeposit)
			r.Post("/momo/withdraw", h.momoWithdraw)
		})

		r.Route("/kyc", func(r chi.Router) {
			r.Get("/", h.kycRecords)
			r.Post("/information", h.submitKYCInformation)
			r.Post("/documents", h.submitKYCDocument)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", h.conversations)
			r.Post("/", h.sendMessage)
			r.Get("/ws", h.messagesWS)
			r.Get("/{userID}", h.thread)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Post("/read", h.markNotificationsRead)
			r.Post("/devices", h.registerDevice)
			r.Delete("/devices/{token}", h.unregisterDevice)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAdmin)

			r.Get("/users", h.adminListUsers)
			r.Put("/users/{id}/verified", h.adminSetUserVerified)
			r.Put("/users/{id}/blocked", h.adminSetUserBlocked)

			r.Get("/projects", h.adminListProjects)
			r.Get("/projects/pending", h.adminPendingProjects)
			r.Post("/projects/{id}/review/start", h.adminStartReview)
			r.Post("/projects/{id}/review", h.adminReviewProject)
			r.Put("/projects/{id}/blocked", h.adminSetProjectBlocked)

			r.Get("/kyc/pending", h.adminPendingKYC)
			r.Post("/kyc/{id}/screen", h.adminScreenKYC)
			r.Post("/kyc/{id}/decision", h.adminDecideKYC)

			r.Get("/momo/transfers", h.adminListTransfers)
			r.Get("/momo/stats", h.adminMoMoStats)
			r.Post("/momo/{reference}/confirm", h.adminConfirmMoMo)
			r.Post("/momo/{reference}/reject", h.adminRejectMoMo)
			r.Post("/momo/bank-transfer", h.adminTransferToBank)

			r.Post("/notifications", h.adminNotify)
			r.Post("/emails/send", h.adminEmailUser)
			r.Post("/emails/bulk", h.adminEmailBroadcast)

			r.Get("/stats", h.adminStats)
			r.Get("/dashboard", h.adminDashboard)
			r.Get("/analytics/financial", h.adminFinancial)
			r.Get("/analytics/snapshots", h.adminSnapshots)
			r.Get("/reports/{kind}", h.adminReportCSV)
		})
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps a semantic error kind onto an HTTP status code.
func statusOf(err error) int {
	switch {
	case errors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, serrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, serrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, serrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, serrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, serrors.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, serrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the error as JSON. Internal errors are logged and
// their message is hidden from the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", zap.Error(err))
		message = "internal error"
	}

	h.respondJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return false
	}

	return true
}

// pagination reads the cursor and limit query parameters. The cursor is an
// RFC 3339 timestamp; a missing cursor means the first page.
func pagination(r *http.Request) (time.Time, uint, error) {
	var cursor time.Time
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return time.Time{}, 0, serrors.With(serrors.ErrBadRequest, "invalid cursor")
		}
		cursor = parsed
	}

	limit := uint(DefaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return time.Time{}, 0, serrors.With(serrors.ErrBadRequest, "invalid limit")
		}
		limit = uint(parsed)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return cursor, limit, nil
}

// nextCursor formats a page's next cursor for the response, or nil when the
// page is the last one.
func nextCursor(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)

	return &s
}
