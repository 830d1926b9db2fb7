package v1handler

import (
	"net/http"

	"wefund/internal/funding"
	"wefund/pkg/domain"
	"wefund/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type projectList struct {
	Items      []domain.Project `json:"items"`
	NextCursor *string          `json:"nextCursor"`
}

func projectIDParam(r *http.Request) (domain.ProjectID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return domain.ProjectID{}, serrors.With(serrors.ErrBadRequest, "invalid project id")
	}

	return domain.ProjectID(id), nil
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	page, err := h.deps.Funding.Projects(r.Context(), r.URL.Query().Get("category"), cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, projectList{
		Items:      page.Projects,
		NextCursor: nextCursor(page.NextCursor),
	})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string  `json:"title"`
		Description   string  `json:"description"`
		ROI           float64 `json:"roi"`
		Duration      string  `json:"duration"`
		Category      string  `json:"category"`
		Image         string  `json:"image"`
		FundingGoal   int64   `json:"fundingGoal"`
		MinInvestment int64   `json:"minInvestment"`
		RiskLevel     string  `json:"riskLevel"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	project, err := h.deps.Funding.CreateProject(r.Context(), UserFromContext(r.Context()), funding.CreateProjectParams{
		Title:         req.Title,
		Description:   req.Description,
		ROI:           req.ROI,
		Duration:      req.Duration,
		Category:      req.Category,
		Image:         req.Image,
		FundingGoal:   req.FundingGoal,
		MinInvestment: req.MinInvestment,
		RiskLevel:     domain.RiskLevel(req.RiskLevel),
	})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, project)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	project, err := h.deps.Funding.Project(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, project)
}

func (h *Handler) invest(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	investment, err := h.deps.Funding.Invest(r.Context(), UserFromContext(r.Context()), id, req.Amount)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, investment)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	if err := h.deps.Funding.DeleteProject(r.Context(), UserFromContext(r.Context()), id); err != nil {
		h.respondError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
