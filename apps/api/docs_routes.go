package main

import (
	"html/template"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/contracts"
)

const docsName = "portfolio"

var swaggerUIPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} - Swagger UI</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>body{margin:0} #swagger-ui{max-width:1400px;margin:0 auto}</style>
  </head>
  <body>
    <div id="swagger-ui" data-spec-url="{{.SpecURL}}"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: document.getElementById("swagger-ui").dataset.specUrl,
        dom_id: "#swagger-ui",
        deepLinking: true,
        persistAuthorization: true,
        presets: [SwaggerUIBundle.presets.apis]
      });
    </script>
  </body>
</html>`))

// registerDocsRoutes serves Swagger UI on /docs and the contract as JSON and YAML under /openapi.
func registerDocsRoutes(router chi.Router, spec *openapi3.T, logger *zap.Logger) {
	router.Get("/docs", docsUIHandler(spec, logger))
	router.Get("/openapi/{name}.json", openapiJSONHandler(spec, logger))
	router.Get("/openapi/{name}.yaml", openapiYAMLHandler())
}

func docsUIHandler(spec *openapi3.T, logger *zap.Logger) http.HandlerFunc {
	title := "Portfolio API"
	if spec.Info != nil && spec.Info.Title != "" {
		title = spec.Info.Title
	}
	data := struct {
		Title   string
		SpecURL string
	}{Title: title, SpecURL: "/openapi/" + docsName + ".json"}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := swaggerUIPage.Execute(w, data); err != nil {
			logger.Error("render docs page", zap.Error(err))
		}
	}
}

func openapiJSONHandler(spec *openapi3.T, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") != docsName {
			http.NotFound(w, r)
			return
		}

		b, err := spec.MarshalJSON()
		if err != nil {
			logger.Error("marshal openapi json", zap.Error(err))
			http.Error(w, "failed to marshal OpenAPI", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	}
}

func openapiYAMLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") != docsName {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(contracts.PortfolioYAML())
	}
}
