package main

import (
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/blendle/zapdriver"
	"github.com/muxable/playbin/api"
	"github.com/muxable/playbin/internal/config"
	"github.com/muxable/playbin/internal/gst"
	"github.com/muxable/playbin/internal/mpris"
	"github.com/muxable/playbin/internal/server"
	"github.com/muxable/playbin/pkg/playbin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func logger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zapdriver.NewProduction()
	} else {
		return zap.NewDevelopment()
	}
}

func main() {
	addr := flag.String("addr", "", "The address to listen on, overrides the config file")
	configPath := flag.String("config", "", "Path to a config file")
	flag.Parse()

	logger, err := logger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.L().Fatal("failed to load config", zap.Error(err))
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	session, err := playbin.Open(
		playbin.WithWindowHandle(uintptr(cfg.WindowHandle)),
		playbin.WithDiscoveryTimeout(cfg.DiscoveryTimeout),
		playbin.WithStateChangeTimeout(cfg.StateChangeTimeout))
	if err != nil {
		zap.L().Fatal("failed to open session", zap.Error(err))
	}
	defer session.Close()

	if err := session.SetVolume(cfg.Volume); err != nil {
		zap.L().Fatal("failed to set volume", zap.Error(err))
	}
	if cfg.Visualization != "" {
		session.SetVisualization(cfg.Visualization)
	}

	if cfg.MPRIS.Enabled {
		adapter, err := mpris.New(cfg.MPRIS.Name, session)
		if err != nil {
			zap.L().Fatal("failed to start mpris", zap.Error(err))
		}
		defer adapter.Close()
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		zap.L().Fatal("failed to listen", zap.String("addr", cfg.Listen), zap.Error(err))
	}

	s := grpc.NewServer()

	api.RegisterPlayerServer(s, server.NewPlayerServer(session))
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		zap.L().Info("shutting down")
		// closing the session ends the event streams so the server can drain.
		if err := session.Close(); err != nil {
			zap.L().Error("failed to close session", zap.Error(err))
		}
		s.GracefulStop()
	}()

	zap.L().Info("starting playbin server", zap.String("addr", cfg.Listen), zap.String("id", session.ID()), zap.String("gstreamer", gst.Version()))

	if err := s.Serve(lis); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
	}
}
