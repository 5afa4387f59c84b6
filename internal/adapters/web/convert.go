package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Nicolas2912/UnitConverter/internal/ctxlog"
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
)

// maxBodyBytes caps the POST /convert request body.
const maxBodyBytes = 64 << 10

// Client-facing error messages.
const (
	msgInvalidInput  = "Invalid input"
	msgMissingFields = "Missing required fields (type, value, fromUnit, toUnit)"
	msgInvalidValue  = "Invalid input value, must be a number"
	msgTooLarge      = "Request body too large"
	msgInternal      = "An internal server error occurred."
)

// ConvertRequest is the body of POST /convert. Value may be a JSON number
// or a numeric string.
type ConvertRequest struct {
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
	FromUnit string          `json:"fromUnit"`
	ToUnit   string          `json:"toUnit"`
}

// ConvertResponse is the success body of POST /convert.
type ConvertResponse struct {
	Result      float64 `json:"result"`
	Explanation string  `json:"explanation"`
}

// catalog marshals as a JSON object whose keys keep registry order.
type catalog []units.Listing

func (c catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l.Dimension)
		if err != nil {
			return nil, err
		}
		ids := l.Units
		if ids == nil {
			ids = []string{}
		}
		val, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, catalog(s.backend.Registry().Catalog()))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		writeError(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if req.Type == "" && req.FromUnit == "" && req.ToUnit == "" && isNull(req.Value) {
		writeError(w, r, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if req.Type == "" || req.FromUnit == "" || req.ToUnit == "" || isNull(req.Value) {
		writeError(w, r, http.StatusBadRequest, msgMissingFields)
		return
	}
	value, ok := parseValue(req.Value)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidValue)
		return
	}

	res, err := s.backend.Convert(r.Context(), req.Type, req.FromUnit, req.ToUnit, value)
	if err != nil {
		var ue *units.Error
		if errors.As(err, &ue) {
			writeError(w, r, http.StatusBadRequest, ue.Error())
			return
		}
		ctxlog.FromContext(r.Context()).Error("Conversion error",
			slog.String("type", req.Type),
			slog.String("error", err.Error()))
		writeError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, r, http.StatusOK, ConvertResponse{
		Result:      res.Value,
		Explanation: res.Explanation,
	})
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// parseValue accepts a JSON number or a string holding one. Strings such as
// "NaN" and "Inf" parse here and are rejected later as InvalidValue.
func parseValue(raw json.RawMessage) (float64, bool) {
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}
