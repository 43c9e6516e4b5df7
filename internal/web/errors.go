package web

// errors.go provides unified error response handling for the API.
//
// Handlers call respondError with the technical error; the full detail is
// logged server-side with the request ID, and the client receives a
// user-friendly message plus a stable code it can quote to support.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// userMessage is a client-safe rendering of an internal error.
type userMessage struct {
	Message string
	Action  string
	Code    string
}

// errorPatterns maps substrings of internal error text to user messages.
// First match wins; order from most to least specific.
var errorPatterns = []struct {
	pattern string
	msg     userMessage
}{
	{"duplicate key", userMessage{
		Message: "A record with this value already exists",
		Action:  "Check for duplicate entries in your CSV",
		Code:    "DB001",
	}},
	{"foreign key", userMessage{
		Message: "A referenced record does not exist",
		Action:  "Ensure related records are imported first",
		Code:    "DB002",
	}},
	{"connection refused", userMessage{
		Message: "Unable to reach the database",
		Action:  "Please try again in a few moments",
		Code:    "DB003",
	}},
	{"context deadline exceeded", userMessage{
		Message: "The request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "REQ001",
	}},
	{"context canceled", userMessage{
		Message: "The request was cancelled",
		Action:  "Please try again",
		Code:    "REQ002",
	}},
	{"too many concurrent imports", userMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP001",
	}},
	{"import not found", userMessage{
		Message: "Import session not found",
		Action:  "The import may have expired; start a new one",
		Code:    "IMP002",
	}},
	{"unsupported file type", userMessage{
		Message: "Only .csv files can be imported",
		Action:  "Save your spreadsheet as CSV and retry",
		Code:    "FILE001",
	}},
	{"unknown entity kind", userMessage{
		Message: "Unknown record type",
		Action:  "Use deals, investors, or portfolio-companies",
		Code:    "ENT001",
	}},
}

// mapError converts an internal error to a client-safe message.
func mapError(err error) userMessage {
	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return userMessage{
		Message: "Something went wrong processing your request",
		Action:  "Please try again; contact support if it persists",
		Code:    "GEN001",
	}
}

// respondError logs the technical error and writes the mapped JSON response.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := mapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}
