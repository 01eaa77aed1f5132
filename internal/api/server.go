package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/device"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/house"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/config"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/influxdb"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/logging"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/infrastructure/mqtt"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/room"
	"github.com/AkBongu1219/EC530-SmartHomeSystem/internal/user"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Users   *user.Registry
	Houses  *house.Registry
	Rooms   *room.Registry
	Devices *device.Registry
	MQTT    *mqtt.Client     // optional: device command intake and state publish
	TSDB    *influxdb.Client // optional: device telemetry storage
	Version string
}

// Server is the HTTP API server for the smart home core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	users   *user.Registry
	houses  *house.Registry
	rooms   *room.Registry
	devices *device.Registry
	mqtt    *mqtt.Client
	tsdb    *influxdb.Client
	version string
	server  *http.Server
	hub     *Hub
	cancel  context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
// MQTT and TSDB are optional; HTTP CRUD and WebSocket work without them.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Users == nil || deps.Houses == nil || deps.Rooms == nil || deps.Devices == nil {
		return nil, fmt.Errorf("all four registries are required")
	}

	return &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		users:   deps.Users,
		houses:  deps.Houses,
		rooms:   deps.Rooms,
		devices: deps.Devices,
		mqtt:    deps.MQTT,
		tsdb:    deps.TSDB,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, subscribes to MQTT device command topics,
// and launches the HTTP listener in a background goroutine. The server
// can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	// Device commands may arrive over MQTT as well as HTTP.
	if err := s.subscribeDeviceCommands(); err != nil {
		s.logger.Warn("failed to subscribe to device commands", "error", err)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
