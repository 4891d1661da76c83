package http

import (
	"net/http"

	"pulse/internal/core"
	"pulse/internal/identity"
	"pulse/internal/log"
)

var csvContentTypes = []string{"text/csv", "application/vnd.ms-excel"}

type csvUploadResponse struct {
	Message   string `json:"message"`
	Received  int    `json:"received"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
}

type pdfUploadResponse struct {
	Message        string `json:"message"`
	DetectedLayout string `json:"detectedLayout"`
	Inserted       int    `json:"inserted"`
}

// handleFetchMock stores the aggregator feed for the caller.
func (s *Server) handleFetchMock(w http.ResponseWriter, r *http.Request) {
	owner := identity.OwnerID(r.Context())
	report, err := s.imports.Import(r.Context(), owner, core.SourceMock, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": report.Message()})
}

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	owner := identity.OwnerID(r.Context())
	up, err := readUpload(w, r, s.csvMaxBytes, csvContentTypes...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "CSV upload received",
		log.FieldBytes, len(up.Data), "filename", up.Name)

	report, err := s.imports.Import(r.Context(), owner, core.SourceCSV, up.Data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, csvUploadResponse{
		Message:   report.Message(),
		Received:  report.Received,
		Processed: report.Candidates,
		Inserted:  report.Inserted,
	})
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	owner := identity.OwnerID(r.Context())
	up, err := readUpload(w, r, s.pdfMaxBytes, "application/pdf")
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "PDF upload received",
		log.FieldBytes, len(up.Data), "filename", up.Name)

	report, err := s.imports.Import(r.Context(), owner, core.SourcePDF, up.Data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pdfUploadResponse{
		Message:        report.Message(),
		DetectedLayout: string(report.Layout),
		Inserted:       report.Inserted,
	})
}
