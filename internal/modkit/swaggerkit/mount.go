package swaggerkit

import (
	"net/http"

	phttp "textguard/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	uiPath  = "/api/docs"
	docPath = uiPath + "/doc.json"
)

// Mount serves the UI under /api/docs and the decorated document at
// /api/docs/doc.json; nothing is mounted when disabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(uiPath, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, uiPath+"/", http.StatusPermanentRedirect)
	})
	r.Get(docPath, serveDocJSON())
	r.Handle(uiPath+"/*", httpSwagger.Handler(
		httpSwagger.URL(docPath),
		httpSwagger.DocExpansion("list"),
	))
}
