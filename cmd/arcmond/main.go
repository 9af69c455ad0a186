package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/arc-monitor/arcmon/internal/config"
	"github.com/arc-monitor/arcmon/internal/logfile"
	"github.com/arc-monitor/arcmon/internal/mock"
	"github.com/arc-monitor/arcmon/internal/monitor"
	"github.com/arc-monitor/arcmon/internal/session"
	"github.com/arc-monitor/arcmon/internal/transport"
	"github.com/arc-monitor/arcmon/internal/ws"
)

func main() {
	configPath := flag.String("config", "arcmon.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	mockMode := flag.Bool("mock", false, "Use an emulated device instead of real hardware")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if os.IsNotExist(err) {
		log.Printf("No config at %s, writing a starter one", *configPath)
		if werr := config.WriteSample(*configPath); werr != nil {
			log.Fatalf("Failed to write starter config: %v", werr)
		}
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	store := session.NewStore(cfg.Monitor.MaxLogLines, cfg.Monitor.MaxPlotSamples)
	broadcaster := ws.NewBroadcaster(store.Snapshot,
		cfg.Monitor.BroadcastThrottle.Std(), cfg.Monitor.SnapshotInterval.Std())

	logWriter := logfile.New(cfg.Log.Dir)
	defer logWriter.Close()

	dial := buildDialer(cfg, *mockMode)

	mon := monitor.New(monitor.Options{
		Store:             store,
		Publisher:         broadcaster,
		LogWriter:         logWriter,
		Dial:              dial,
		ReconnectMinDelay: cfg.Monitor.ReconnectMinDelay.Std(),
		ReconnectMaxDelay: cfg.Monitor.ReconnectMaxDelay.Std(),
	})

	server := ws.NewServer(store, broadcaster, mon, cfg.Server.AllowedOrigins, cfg.Server.AuthToken)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go mon.Run(ctx)

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		broadcaster.Stop()
		logWriter.Close()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func buildDialer(cfg *config.Config, mockMode bool) func() (transport.Conn, error) {
	if mockMode {
		log.Println("Starting in mock mode (emulated device)")
		return func() (transport.Conn, error) {
			return mock.NewDevice(), nil
		}
	}

	switch cfg.Connection.Mode {
	case "tcp":
		log.Printf("Device transport: tcp %s:%d", cfg.Connection.TCP.Host, cfg.Connection.TCP.Port)
		return func() (transport.Conn, error) {
			return transport.DialTCP(cfg.Connection.TCP.Host, cfg.Connection.TCP.Port)
		}
	default:
		log.Printf("Device transport: serial %s @ %d", cfg.Connection.Serial.Port, cfg.Connection.Serial.Baud)
		return func() (transport.Conn, error) {
			return transport.OpenSerial(cfg.Connection.Serial.Port, cfg.Connection.Serial.Baud)
		}
	}
}
