package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/triptangle/internal/fakeapi"
	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		slog.Error("Invalid PORT", "error", err)
		os.Exit(1)
	}

	backend := fakeapi.New(fakeapi.Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Logger:    slog.Default(),
	})

	// Optional demo account so the client can log in right away
	if email := os.Getenv("SEED_EMAIL"); email != "" {
		user, err := backend.SeedUser(context.Background(), models.RegisterRequest{
			Username: getEnv("SEED_USERNAME", "demo"),
			Email:    email,
			Password: getEnv("SEED_PASSWORD", "demo"),
		})
		if err != nil {
			slog.Error("Failed to seed user", "email", email, "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded user", "user_id", user.ID, "email", user.Email)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "triptangle",
			Subsystem: "fakebackend",
			Name:      "requests_served",
			Help:      "Requests handled since start.",
		}, func() float64 { return float64(backend.RequestCount()) }),
	)
	backend.Echo().GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Wrap with h2c so HTTP/2 clients work without TLS
	h2cHandler := h2c.NewHandler(backend, &http2.Server{})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Fake backend starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
