package simulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muurk/coopdoor/internal/logging"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Config holds the simulator server configuration
type Config struct {
	Host             string
	Port             int
	LogLevel         string
	Unresponsive     bool // Answer every command with the AVR no-answer message
	BatteryDeciVolts int  // Battery voltage in 100mV units (0 = full)
	OpenHours        int
	OpenMinutes      int
	DisableMetrics   bool
}

// Server serves a simulated device over HTTP
type Server struct {
	config   *Config
	device   *Device
	metrics  *Metrics
	listener net.Listener
	http     *http.Server
}

// New creates a simulator server with a fresh device built from config.
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if config.OpenHours < 0 || config.OpenHours > maxOpenHours {
		return nil, fmt.Errorf("open hours must be between 0 and %d, got %d", maxOpenHours, config.OpenHours)
	}
	if config.OpenMinutes < 0 || config.OpenMinutes > maxOpenMinutes {
		return nil, fmt.Errorf("open minutes must be between 0 and %d, got %d", maxOpenMinutes, config.OpenMinutes)
	}

	device := NewDevice()
	device.SetUnresponsive(config.Unresponsive)
	if config.BatteryDeciVolts > 0 {
		device.SetBattery(config.BatteryDeciVolts)
	}
	device.openHours, device.openMinutes = config.OpenHours, config.OpenMinutes

	s := &Server{
		config: config,
		device: device,
	}

	mux := http.NewServeMux()
	if !config.DisableMetrics {
		s.metrics = NewMetrics()
		device.AttachMetrics(s.metrics)
		mux.Handle("/metrics", s.metrics.Handler())
	}
	mux.Handle("/", device.Handler())

	s.http = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Device returns the simulated device
func (s *Server) Device() *Device {
	return s.device
}

// Listen binds the configured address without serving yet.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve serves requests on the bound listener until Shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("simulator stopped: %w", err)
	}
	return nil
}

// Start serves the simulator and blocks until SIGINT/SIGTERM or a serve error.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting coop-door simulator",
		zap.String("addr", s.listener.Addr().String()),
		zap.Bool("unresponsive", s.config.Unresponsive),
		zap.Bool("metrics", s.metrics != nil),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping simulator...")
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down simulator...")

	if err := s.http.Shutdown(ctx); err != nil {
		logging.Error("Simulator shutdown incomplete", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info("Simulator stopped")
	return nil
}
