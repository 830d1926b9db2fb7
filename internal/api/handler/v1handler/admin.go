package v1handler

import (
	"fmt"
	"net/http"
	"time"

	"wefund/internal/admin"
	"wefund/internal/funding"
	"wefund/pkg/domain"
	"wefund/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type userList struct {
	Items      []domain.User `json:"items"`
	NextCursor *string       `json:"nextCursor"`
}

func userIDParam(r *http.Request) (domain.UserID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return domain.UserID{}, serrors.With(serrors.ErrBadRequest, "invalid user id")
	}

	return domain.UserID(id), nil
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	page, err := h.deps.Admin.Users(r.Context(), cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, userList{
		Items:      page.Users,
		NextCursor: nextCursor(page.NextCursor),
	})
}

func (h *Handler) adminSetUserVerified(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.deps.Admin.SetUserVerified(r.Context(), id, req.Verified)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) adminSetUserBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Blocked bool `json:"blocked"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.deps.Admin.SetUserBlocked(r.Context(), id, req.Blocked)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) adminListProjects(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	page, err := h.deps.Funding.AllProjects(r.Context(), cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, projectList{
		Items:      page.Projects,
		NextCursor: nextCursor(page.NextCursor),
	})
}

func (h *Handler) adminPendingProjects(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	page, err := h.deps.Funding.PendingProjects(r.Context(), cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, projectList{
		Items:      page.Projects,
		NextCursor: nextCursor(page.NextCursor),
	})
}

func (h *Handler) adminStartReview(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	project, err := h.deps.Funding.StartReview(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, project)
}

func (h *Handler) adminReviewProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Approve        bool   `json:"approve"`
		Notes          string `json:"notes"`
		RiskRating     int    `json:"riskRating"`
		ViabilityScore int    `json:"viabilityScore"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	project, err := h.deps.Funding.ReviewProject(r.Context(), UserFromContext(r.Context()), id, funding.ReviewParams{
		Approve:        req.Approve,
		Notes:          req.Notes,
		RiskRating:     req.RiskRating,
		ViabilityScore: req.ViabilityScore,
	})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, project)
}

func (h *Handler) adminSetProjectBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Blocked bool `json:"blocked"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	project, err := h.deps.Funding.SetProjectBlocked(r.Context(), id, req.Blocked)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, project)
}

func kycRecordIDParam(r *http.Request) (domain.KYCRecordID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return domain.KYCRecordID{}, serrors.With(serrors.ErrBadRequest, "invalid record id")
	}

	return domain.KYCRecordID(id), nil
}

func (h *Handler) adminPendingKYC(w http.ResponseWriter, r *http.Request) {
	_, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	records, err := h.deps.Compliance.PendingRecords(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) adminScreenKYC(w http.ResponseWriter, r *http.Request) {
	id, err := kycRecordIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Level string `json:"level"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	record, err := h.deps.Compliance.Screen(r.Context(), id, domain.ScreeningLevel(req.Level))
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, record)
}

func (h *Handler) adminDecideKYC(w http.ResponseWriter, r *http.Request) {
	id, err := kycRecordIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	record, err := h.deps.Compliance.Decide(r.Context(), UserFromContext(r.Context()), id, req.Approve)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, record)
}

func (h *Handler) adminListTransfers(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	transfers, err := h.deps.Wallet.MoMoTransfers(r.Context(),
		domain.TransferDirection(r.URL.Query().Get("direction")), cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": transfers})
}

func (h *Handler) adminMoMoStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Wallet.MoMoStats(r.Context())
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) adminConfirmMoMo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.deps.Wallet.ConfirmMoMo(r.Context(), chi.URLParam(r, "reference"), req.Notes)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, tx)
}

func (h *Handler) adminRejectMoMo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.deps.Wallet.RejectMoMo(r.Context(), chi.URLParam(r, "reference"), req.Notes)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, tx)
}

func (h *Handler) adminTransferToBank(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64  `json:"amount"`
		Notes  string `json:"notes"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	transfer, err := h.deps.Wallet.TransferToBank(r.Context(), req.Amount, req.Notes)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, transfer)
}

// adminNotify raises a system notification for one user, delivered through
// the regular push pipeline.
func (h *Handler) adminNotify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string            `json:"userId"`
		Title   string            `json:"title"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid user id"))

		return
	}
	if req.Title == "" || req.Message == "" {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "title and message are required"))

		return
	}

	notification, err := h.deps.Notifier.Notify(r.Context(), domain.Notification{
		UserID: domain.UserID(userID),
		Title:  req.Title,
		Body:   req.Message,
		Type:   domain.NotificationTypeSystem,
		Data:   req.Data,
	})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, notification)
}

func (h *Handler) adminEmailUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"userId"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid user id"))

		return
	}

	if err := h.deps.Admin.EmailUser(r.Context(), domain.UserID(userID), req.Subject, req.Body); err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) adminEmailBroadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	queued, err := h.deps.Admin.BroadcastEmail(r.Context(), req.Subject, req.Body)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]int{"queued": queued})
}

func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Admin.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.deps.Admin.Dashboard(r.Context())
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) adminFinancial(w http.ResponseWriter, r *http.Request) {
	period := domain.FinancialPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = domain.FinancialPeriodMonthly
	}

	since := time.Now().AddDate(-1, 0, 0)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid since"))

			return
		}
		since = parsed
	}

	buckets, err := h.deps.Admin.Financial(r.Context(), period, since)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": buckets})
}

func (h *Handler) adminSnapshots(w http.ResponseWriter, r *http.Request) {
	until := time.Now()
	since := until.AddDate(0, -1, 0)

	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid since"))

			return
		}
		since = parsed
	}
	if raw := r.URL.Query().Get("until"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid until"))

			return
		}
		until = parsed
	}

	snapshots, err := h.deps.Admin.Snapshots(r.Context(), since, until)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": snapshots})
}

func (h *Handler) adminReportCSV(w http.ResponseWriter, r *http.Request) {
	kind := admin.ReportKind(chi.URLParam(r, "kind"))
	switch kind {
	case admin.ReportKindUsers, admin.ReportKindProjects, admin.ReportKindTransactions:
	default:
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "unknown report kind %q", kind))

		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", kind))

	if err := h.deps.Admin.ReportCSV(r.Context(), kind, w); err != nil {
		// Headers may already be out; the CSV stream just ends early.
		h.respondError(w, r, err)
	}
}
