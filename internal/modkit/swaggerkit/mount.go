package swaggerkit

import (
	"net/http"

	phttp "capturebox/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI at /api/docs/ and the document at /api/docs/doc.json
func Mount(r phttp.Router, enabled bool, info Info, routes []Route) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(Document(info, routes)))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("capturebox"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
