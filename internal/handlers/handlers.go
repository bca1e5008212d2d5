// Package handlers exposes the deduction engine over HTTP: stateless
// solve endpoints plus the account surface guarding run history.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func SendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		logger.Error(
			"failed to send data",
			slog.Any("data", v),
			slog.Any("error", err),
		)
	}
}

func SendMessageOrLog(w http.ResponseWriter, logger *slog.Logger, m string) {
	SendJSONOrLog(w, logger, map[string]string{"message": m})
}

func SendErrorOrLog(w http.ResponseWriter, logger *slog.Logger, e error) {
	SendJSONOrLog(w, logger, map[string]string{"error": e.Error()})
}
