// internal/handler/greeting_handler.go
package handler

import (
	"net/http"

	"github.com/unclebandit/customer-service/internal/httputil"
)

const helloHTML = `
<html>
    <head>
    </head>
    <body>
        <h1>Hello World!</h1>
    </body>
</html>
`

// Root handles GET /
func Root(w http.ResponseWriter, r *http.Request) {
	httputil.WritePlain(w, http.StatusOK, "This is the root")
}

// PlainHello handles GET /plain-hello
func PlainHello(w http.ResponseWriter, r *http.Request) {
	httputil.WritePlain(w, http.StatusOK, "Hello World!")
}

// HTMLHello handles GET /html-hello
func HTMLHello(w http.ResponseWriter, r *http.Request) {
	httputil.WriteText(w, http.StatusOK, httputil.ContentTypeHTML, helloHTML)
}

// Healthz reports liveness for probes.
func Healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WritePlain(w, http.StatusOK, "ok")
}
