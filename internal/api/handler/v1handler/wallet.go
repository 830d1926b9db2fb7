package v1handler

import (
	"net/http"

	"wefund/pkg/domain"
	"wefund/pkg/momo"
)

type transactionList struct {
	Items      []domain.Transaction `json:"items"`
	NextCursor *string              `json:"nextCursor"`
}

func (h *Handler) walletSummary(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	h.respondJSON(w, http.StatusOK, map[string]int64{
		"walletBalance": user.WalletBalance,
		"totalInvested": user.TotalInvested,
		"totalReturns":  user.TotalReturns,
	})
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.deps.Wallet.Deposit(r.Context(), UserFromContext(r.Context()), req.Amount)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, tx)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.deps.Wallet.Withdraw(r.Context(), UserFromContext(r.Context()), req.Amount)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, tx)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	var types []domain.TransactionType
	for _, t := range r.URL.Query()["type"] {
		types = append(types, domain.TransactionType(t))
	}

	page, err := h.deps.Wallet.Transactions(r.Context(), UserFromContext(r.Context()).ID, types, cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, transactionList{
		Items:      page.Transactions,
		NextCursor: nextCursor(page.NextCursor),
	})
}

func (h *Handler) collectionNumber(w http.ResponseWriter, r *http.Request) {
	instructions, err := h.deps.Wallet.DepositInstructions(r.Context())
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, instructions)
}

type momoDepositResponse struct {
	Transaction  domain.Transaction       `json:"transaction"`
	Instructions momo.DepositInstructions `json:"instructions"`
}

func (h *Handler) momoDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      int64  `json:"amount"`
		PhoneNumber string `json:"phoneNumber"`
		Provider    string `json:"provider"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tx, instructions, err := h.deps.Wallet.MoMoDeposit(r.Context(), UserFromContext(r.Context()),
		req.Amount, req.PhoneNumber, domain.MoMoProvider(req.Provider))
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, momoDepositResponse{Transaction: *tx, Instructions: instructions})
}

func (h *Handler) momoWithdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      int64  `json:"amount"`
		PhoneNumber string `json:"phoneNumber"`
		Provider    string `json:"provider"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.deps.Wallet.MoMoWithdraw(r.Context(), UserFromContext(r.Context()),
		req.Amount, req.PhoneNumber, domain.MoMoProvider(req.Provider))
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, tx)
}
