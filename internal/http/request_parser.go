package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// maxBodyBytes bounds request bodies; the largest legitimate one is a
// meal description.
const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("bad request")

// CellParams holds the week/day/meal indices addressed by a request path.
// Indices missing from the route are -1.
type CellParams struct {
	Week int
	Day  int
	Meal int
}

// ParseCellParams reads {week}, {day} and {meal} from the route pattern.
// Range checks are left to the tracker, which reports them as
// core.ErrIndexOutOfRange.
func ParseCellParams(r *http.Request) (CellParams, error) {
	params := CellParams{Week: -1, Day: -1, Meal: -1}
	for name, dst := range map[string]*int{"week": &params.Week, "day": &params.Day, "meal": &params.Meal} {
		raw := r.PathValue(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return CellParams{}, fmt.Errorf("%w: %s %q is not an integer", errBadRequest, name, raw)
		}
		*dst = v
	}
	return params, nil
}

type selectWeekRequest struct {
	Index *int `json:"index"`
}

type mealTextRequest struct {
	Text *string `json:"text"`
}

type weightRequest struct {
	Weight *string `json:"weight"`
}

// DecodeJSONBody decodes exactly one JSON object from r into dst. Unknown
// fields and trailing data are rejected.
func DecodeJSONBody(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes+1)
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", errBadRequest, err)
	}
	if len(data) > maxBodyBytes {
		return fmt.Errorf("%w: body larger than %d bytes", errBadRequest, maxBodyBytes)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadRequest)
	}
	return nil
}
