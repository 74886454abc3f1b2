package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domainerrors "certitrack/pkg/domain-errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation so every endpoint returns
// the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	var de *domainerrors.Error
	if errors.As(err, &de) {
		body["message"] = de.Message
	}
	writeJSON(w, domainerrors.ToHTTPStatus(code), body)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domainerrors.New(domainerrors.CodeBadRequest, "corps de requête invalide")
	}
	return nil
}

// parseDate accepts date-only or RFC3339 timestamps; API clients send both.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domainerrors.Newf(domainerrors.CodeBadRequest, "date invalide: %s", s)
	}
	return t, nil
}
