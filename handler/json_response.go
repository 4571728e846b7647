package handler

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the envelope for JSON endpoints.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON wraps v in the data envelope with status 200.
func JSON(v any) Response {
	return jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
}

// JSONError maps err to a status and an error envelope. ValidationError
// becomes 422 with per-field details, HTTPError keeps its code, anything
// else is a 500 without internals.
func JSONError(err error) Response {
	status, detail := errorDetail(err)
	return jsonResponse{status: status, body: JSONResponse{Error: detail}}
}

func errorDetail(err error) (int, *ErrorDetail) {
	info := classifyError(err)
	detail := &ErrorDetail{Code: info.Code, Message: info.Message}
	if info.Fields != nil {
		detail.Details = map[string][]string(info.Fields)
	}
	return info.StatusCode, detail
}
