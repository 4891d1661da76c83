package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"pulse/internal/core"
)

// requestError is a client mistake whose message is safe to return as is.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func tooLarge(limit int64) error {
	return &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("File too large. Limit is %d bytes.", limit)}
}

func unsupportedType(declared string) error {
	return &requestError{status: http.StatusUnsupportedMediaType, msg: fmt.Sprintf("Unsupported file type %q.", declared)}
}

var errMissingFile = &requestError{status: http.StatusBadRequest, msg: "Missing file or authentication."}

// multipartOverhead is the room left for boundaries and part headers on top
// of the file size limit.
const multipartOverhead = 64 << 10

// upload is a buffered multipart file with its declared MIME type.
type upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// readUpload buffers the multipart field "file". The declared MIME type must
// be one of allowed and the file may not exceed maxBytes.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64, allowed ...string) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return upload{}, tooLarge(maxBytes)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return upload{}, errMissingFile
		}
		return upload{}, badRequest("Malformed multipart body.")
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, errMissingFile
	}
	defer file.Close()

	if header.Size > maxBytes {
		return upload{}, tooLarge(maxBytes)
	}

	declared := header.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || !contains(allowed, strings.ToLower(mediaType)) {
		return upload{}, unsupportedType(declared)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return upload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return upload{}, tooLarge(maxBytes)
	}
	return upload{Name: header.Filename, ContentType: mediaType, Data: data}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parseFilter reads type, startDate and endDate from the query string. An end
// date without a time of day includes that whole day up to 23:59:59.999.
func parseFilter(r *http.Request, owner string, loc *time.Location) (core.TransactionFilter, error) {
	q := r.URL.Query()
	f := core.TransactionFilter{OwnerID: owner}

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		d, err := core.ParseDirection(v)
		if err != nil {
			return core.TransactionFilter{}, err
		}
		f.Type = d
	}
	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		t, _, err := parseQueryDate(v, loc)
		if err != nil {
			return core.TransactionFilter{}, badRequest("Invalid startDate %q.", v)
		}
		f.Start = t
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		t, dateOnly, err := parseQueryDate(v, loc)
		if err != nil {
			return core.TransactionFilter{}, badRequest("Invalid endDate %q.", v)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		f.End = t
	}
	return f, nil
}

func parseQueryDate(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

type profilePatch struct {
	Name *string `json:"name"`
}

// parseProfilePatch decodes a PATCH body that must set at least one field.
func parseProfilePatch(r *http.Request) (profilePatch, error) {
	var p profilePatch
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	if err := dec.Decode(&p); err != nil {
		return profilePatch{}, badRequest("Invalid JSON body.")
	}
	if p.Name == nil {
		return profilePatch{}, badRequest("At least one field is required.")
	}
	return p, nil
}
