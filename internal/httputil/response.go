// Package httputil holds the response writers shared by the HTTP layers.
package httputil

import (
	"encoding/json"
	"net/http"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=UTF-8"
	ContentTypeHTML = "text/html; charset=UTF-8"
)

// WriteJSON encodes data as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteText writes body verbatim, without a trailing newline.
func WriteText(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WritePlain writes a text/plain body.
func WritePlain(w http.ResponseWriter, status int, body string) {
	WriteText(w, status, ContentTypeText, body)
}
