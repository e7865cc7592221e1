// The proxy serves the static frontend and forwards /api and /healthz to the
// backend service.
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/config"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, err := url.Parse(cfg.BackendURL)
	if err != nil {
		log.Fatalf("invalid BACKEND_URL %q: %v", cfg.BackendURL, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(backend)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy %s %s: %v", r.Method, r.URL.Path, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"backend unavailable"}`))
	}
	forward := gin.WrapH(proxy)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.Any("/api/*path", forward)
	r.GET("/healthz", forward)

	r.StaticFile("/", cfg.StaticDir+"/index.html")
	r.Static("/static", cfg.StaticDir+"/static")
	r.NoRoute(func(c *gin.Context) {
		c.File(cfg.StaticDir + "/index.html")
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ProxyPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	log.Printf("proxy listening on :%s -> %s", cfg.ProxyPort, backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("proxy error: %v", err)
	}
}
