package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pulse/internal/core"
	"pulse/internal/identity"
	"pulse/internal/ingest"
	"pulse/internal/log"
	"pulse/internal/pdftext"
	"pulse/internal/storage"
)

// errorResponse carries failures under "message", the key clients read.
type errorResponse struct {
	Message        string `json:"message"`
	DetectedLayout string `json:"detectedLayout,omitempty"`
}

type transactionResponse struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Amount      json.Number    `json:"amount"`
	Type        core.Direction `json:"type"`
	Date        string         `json:"date"`
	Category    string         `json:"category"`
	ImportID    string         `json:"importId,omitempty"`
	CreatedAt   string         `json:"createdAt"`
}

type summaryResponse struct {
	TotalIncome  json.Number `json:"totalIncome"`
	TotalExpense json.Number `json:"totalExpense"`
	NetSavings   json.Number `json:"netSavings"`
}

type profileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeError maps err to a status code. Server errors are logged and reach the
// client only as a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err, log.FieldPath, r.URL.Path)
		writeMessage(w, status, "Internal server error.")
		return
	}

	resp := errorResponse{Message: err.Error()}
	var layoutErr *ingest.LayoutError
	if errors.As(err, &layoutErr) {
		resp.DetectedLayout = string(layoutErr.Layout)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status
	}
	switch {
	case errors.Is(err, ingest.ErrUnauthenticated), errors.Is(err, identity.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, ingest.ErrNoExtractableText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrUnsupportedSource), errors.Is(err, pdftext.ErrNotPDF):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, pdftext.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrNoValidRows),
		errors.Is(err, ingest.ErrLayoutNotRecognized),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyOwner),
		errors.Is(err, core.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	status := identity.StatusCode(err)
	if status >= http.StatusInternalServerError {
		writeError(w, r, err)
		return
	}
	writeMessage(w, status, err.Error())
}

func writeRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

func newTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      json.Number(core.FormatAmount(t.Amount)),
		Type:        t.Type,
		Date:        formatTimestamp(t.Date),
		Category:    t.Category,
		ImportID:    t.ImportID,
		CreatedAt:   formatTimestamp(t.CreatedAt),
	}
}

func newSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  json.Number(core.FormatAmount(s.TotalIncome)),
		TotalExpense: json.Number(core.FormatAmount(s.TotalExpense)),
		NetSavings:   json.Number(core.FormatAmount(s.NetSavings())),
	}
}

func newProfileResponse(u core.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: formatTimestamp(u.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
