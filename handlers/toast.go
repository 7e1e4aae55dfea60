package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// SetToast sets the HX-Trigger response header so the client shows a
// non-blocking toast. Persistence and external-system failures are reported
// this way; optimistic state is never rolled back because of them.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	triggers := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		// Merge with triggers another helper already set; an unparsable
		// value is discarded.
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			triggers = map[string]any{}
		}
	}
	triggers["showToast"] = map[string]string{
		"message": message,
		"type":    toastType,
	}

	data, err := json.Marshal(triggers)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// ErrorToast sets an error toast carrying the raw error payload and answers
// with the given status. HX-Reswap: none keeps the body out of the DOM while
// the trigger still fires.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// badRequest is the common shape for malformed JSON bodies.
func badRequest(e *core.RequestEvent, context string, err error) error {
	log.Printf("%s: could not parse request: %v", context, err)
	return ErrorToast(e, http.StatusBadRequest, "Invalid request data")
}
