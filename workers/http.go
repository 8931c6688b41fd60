// Package workers hosts the long-running service threads. Only the HTTP
// worker remains resident; trackers are spawned per request.
package workers

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/hashicorp/go-hclog"

	"goicpbridge/config"
	"goicpbridge/workers/handlers"
)

func Worker_HTTP(logger hclog.Logger) {
	logger = logger.Named("http")
	logger.Info("starting HTTP service")

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Options("/*", CORSHeaders)

	r.Get("/health", handlers.HealthCheck)
	r.Get("/state", handlers.State)

	r.Get("/balance/{owner}", handlers.Balance)

	r.Get("/logs/pending", handlers.GetPendingLogs)
	r.Get("/logs/finalized", handlers.GetFinalizedLogs)
	r.Get("/logs/my/pending", handlers.GetMyPendingLogs)
	r.Get("/logs/my/finalized", handlers.GetMyFinalizedLogs)

	r.Post("/submit/bridge", handlers.SubmitBridge)
	r.Post("/submit/transfer", handlers.SubmitTransfer)
	r.Get("/track/{id}", handlers.Track)

	// a bit of logic to prevent directory listing
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		workDir, _ := os.Getwd()
		filesDir := filepath.Join(workDir, "app")
		filePath := filepath.Join(filesDir, r.URL.Path)

		fileInfo, err := os.Stat(filePath)
		if err != nil || fileInfo.IsDir() {
			filePath = filepath.Join(filesDir, "index.html")
			fileInfo, _ = os.Stat(filePath)
		}

		file, err := os.Open(filePath)
		if err != nil {
			// this should not happen at this point
			http.Error(w, "unable to open", http.StatusInternalServerError)
			return
		}

		http.ServeContent(w, r, file.Name(), fileInfo.ModTime(), file)
	})

	listen := config.Config.Server.Listen
	if listen == "" {
		listen = ":8080"
	}

	var server *http.Server

	if config.Config.Server.UseSSL {
		cert, _ := tls.LoadX509KeyPair("certchain.pem", "privatekey.pem")
		server = &http.Server{
			Addr:    ":443",
			Handler: r,
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
		}
	} else {
		server = &http.Server{
			Addr:    listen,
			Handler: r,
		}
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if config.Config.Server.UseSSL {
			if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				logger.Error("error listening", "err", err)
				os.Exit(1)
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("error listening", "err", err)
				os.Exit(1)
			}
		}
	}()
	logger.Info("HTTP service started", "listen", server.Addr)

	<-done
	logger.Info("HTTP service stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP service shutdown error", "err", err)
		os.Exit(1)
	}
	logger.Info("HTTP service shutdown normal")
}

func CORSHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Origin, X-Requested-With")
}
