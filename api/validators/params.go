package validators

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
)

// ParseUUIDParam extracts a UUID path parameter.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}

// ParseTimestampQuery reads an RFC3339 timestamp from the query string,
// falling back to now() when absent. A present-but-malformed value is an
// error rather than a silent fallback.
func ParseTimestampQuery(r *http.Request, key string, now func() time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return now(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, key+" must be RFC3339").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return at, nil
}
