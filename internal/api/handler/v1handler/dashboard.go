package v1handler

import (
	"net/http"
	"time"

	"wefund/pkg/domain"
)

// dashboardRecentItems bounds the activity lists on the member landing view.
const dashboardRecentItems = 5

// featuredProjectCount is how many listings the featured rail shows.
const featuredProjectCount = 6

type dashboardResponse struct {
	User                domain.User           `json:"user"`
	RecentTransactions  []domain.Transaction  `json:"recentTransactions"`
	RecentNotifications []domain.Notification `json:"recentNotifications"`
}

// dashboard composes the member landing view: profile, wallet figures and
// the latest activity in one round trip.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	transactions, err := h.deps.Wallet.Transactions(r.Context(), user.ID, nil, time.Time{}, dashboardRecentItems)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	notifications, err := h.deps.Notifier.Notifications(r.Context(), user.ID, time.Time{}, dashboardRecentItems)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, dashboardResponse{
		User:                user,
		RecentTransactions:  transactions.Transactions,
		RecentNotifications: notifications.Notifications,
	})
}

func (h *Handler) featuredProjects(w http.ResponseWriter, r *http.Request) {
	page, err := h.deps.Funding.Projects(r.Context(), "", time.Time{}, featuredProjectCount)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, projectList{Items: page.Projects, NextCursor: nextCursor(page.NextCursor)})
}

// quickStats exposes the public subset of the platform aggregates for the
// app's landing screen.
func (h *Handler) quickStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Admin.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]int64{
		"totalUsers":       stats.TotalUsers,
		"activeProjects":   stats.ActiveProjects,
		"fundedProjects":   stats.FundedProjects,
		"totalInvestments": stats.TotalInvestments,
	})
}
