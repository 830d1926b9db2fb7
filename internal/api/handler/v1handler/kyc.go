package v1handler

import (
	"net/http"

	"wefund/internal/compliance"
	"wefund/pkg/domain"
)

func (h *Handler) kycRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.deps.Compliance.Records(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) submitKYCInformation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    string `json:"fullName"`
		DateOfBirth string `json:"dateOfBirth"`
		Address     string `json:"address"`
		IDNumber    string `json:"idNumber"`
		Country     string `json:"country"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	record, err := h.deps.Compliance.SubmitInformation(r.Context(), UserFromContext(r.Context()),
		compliance.InformationParams{
			FullName:    req.FullName,
			DateOfBirth: req.DateOfBirth,
			Address:     req.Address,
			IDNumber:    req.IDNumber,
			Country:     req.Country,
		})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, record)
}

func (h *Handler) submitKYCDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type      string `json:"documentType"`
		Country   string `json:"country"`
		SizeBytes int64  `json:"sizeBytes"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	record, err := h.deps.Compliance.SubmitDocument(r.Context(), UserFromContext(r.Context()),
		compliance.DocumentParams{
			Type:      domain.DocumentType(req.Type),
			Country:   req.Country,
			SizeBytes: req.SizeBytes,
		})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, record)
}
