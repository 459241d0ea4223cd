package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

var validate = validator.New()

type errorResponse struct {
	Error   errs.Code         `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type listResponse struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Pages   int         `json:"pages"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError renders err with the status of its code. Internal errors keep
// their detail in the log only.
func writeError(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	resp := errorResponse{Error: code, Message: err.Error()}
	var e *errs.Error
	if errors.As(err, &e) {
		resp.Message = e.Message
		resp.Fields = e.Fields
	}
	if code == errs.CodeInternal {
		slog.Error("Request failed", "error", err)
		resp.Message = "internal server error"
		resp.Fields = nil
	}
	writeJSON(w, errs.HTTPStatus(code), resp)
}

func writeList(w http.ResponseWriter, items interface{}, total int64, page repository.Page) {
	writeJSON(w, http.StatusOK, listResponse{
		Items:   items,
		Total:   total,
		Page:    page.Page,
		PerPage: page.PerPage,
		Pages:   pageCount(total, page.PerPage),
	})
}

func pageCount(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// decodeRequest reads a JSON body into dst and runs its validate tags.
func decodeRequest(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Validation("invalid request body", map[string]string{"body": err.Error()})
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[jsonFieldName(fe.Field())] = describeTag(fe)
			}
			return errs.Validation("request validation failed", fields)
		}
		return errs.Validation("request validation failed", nil)
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// jsonFieldName converts a Go field name such as CandidateID to candidate_id.
func jsonFieldName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parsePage(r *http.Request) repository.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return repository.Page{Page: page, PerPage: perPage}.Normalize(defaultPerPage, maxPerPage)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errs.Validation("invalid "+key, map[string]string{key: "must be a positive integer"})
	}
	return v, nil
}

// queryTime accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. A plain
// date_to covers the whole day.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errs.Validation("invalid "+key, map[string]string{key: "must be RFC 3339 or YYYY-MM-DD"})
	}
	if strings.HasSuffix(key, "_to") {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
