package relay

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stratumforge/sv2wire/internal/observability"
)

// AdminRouter builds the diagnostics HTTP surface for one relay.
func (r *Relay) AdminRouter() *gin.Engine {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(r.log))
	router.Use(observability.RequestMetricsMiddleware(r.cfg.Name))
	router.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(r.cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = router.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(r.started).String(),
			"service": r.cfg.Name,
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   r.ln != nil,
			"service": r.cfg.Name,
		})
	})

	router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, r.Snapshot())
	})

	router.GET("/catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"messages": CatalogEntries()})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// ServeAdmin runs the diagnostics server until the relay stops.
func (r *Relay) ServeAdmin() error {
	srv := &http.Server{
		Addr:              r.cfg.AdminAddr,
		Handler:           r.AdminRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-r.done
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
