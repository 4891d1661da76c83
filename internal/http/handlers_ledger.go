package http

import (
	"net/http"

	"pulse/internal/identity"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, identity.OwnerID(r.Context()), s.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := s.ledger.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, newTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSummary totals the caller's transactions over the date filters; the
// type filter does not apply to totals.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, identity.OwnerID(r.Context()), s.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Type = ""
	sum, err := s.ledger.Summary(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(sum))
}
