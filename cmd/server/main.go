package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomrelay/internal/bus"
	"roomrelay/internal/config"
	"roomrelay/internal/logging"
	"roomrelay/internal/service"
	"roomrelay/internal/store"
	"roomrelay/internal/transport/rest"
	"roomrelay/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(log)

	// Optional cross-node bridge for global broadcasts
	if cfg.RedisAddr != "" {
		b, err := bus.New(ctx, cfg.RedisAddr, log)
		if err != nil {
			log.Error("failed to connect to redis", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		defer b.Close()
		hub.SetMirror(b)
		go b.Subscribe(ctx, hub.DeliverForeign)
		log.Info("redis bridge connected", "addr", cfg.RedisAddr)
	}

	rooms := store.NewRoomStore()
	relay := service.NewRelay(rooms, hub, log)
	wsHandler := ws.NewHandler(hub, relay, cfg.Origins, log)

	router := rest.NewRouter(&rest.Container{
		WSHandler: wsHandler,
		Origins:   cfg.Origins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("relay listening", "port", cfg.Port, "env", cfg.Env, "origins", cfg.Origins)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "err", err)
		os.Exit(1)
	}

	log.Info("server exited")
}
