package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	authclient "github.com/vibast-solutions/lib-go-auth/client"
	authmiddleware "github.com/vibast-solutions/lib-go-auth/middleware"
	authlibservice "github.com/vibast-solutions/lib-go-auth/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/controller"
	gatewaygrpc "github.com/vibast-solutions/ms-go-billing-gateway/app/grpc"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/metrics"
	"github.com/vibast-solutions/ms-go-billing-gateway/config"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start the HTTP (Echo) server for REST, SOAP-compatible and legacy routes, and the internal gRPC server.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// internalAuth holds the optional internal access checks. Both are nil when
// AUTH_SERVICE_GRPC_ADDR is not configured.
type internalAuth struct {
	echo echo.MiddlewareFunc
	grpc grpc.UnaryServerInterceptor
}

func runServe(_ *cobra.Command, _ []string) {
	deps, cleanup := mustCreateGateway()
	defer cleanup()
	cfg := deps.cfg

	var auth internalAuth
	if addr := strings.TrimSpace(cfg.InternalEndpoints.AuthGRPCAddr); addr != "" {
		authGRPCClient, err := authclient.NewGRPCClientFromAddr(context.Background(), addr)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize auth gRPC client")
		}
		defer authGRPCClient.Close()

		internalAuthService := authlibservice.NewInternalAuthService(authGRPCClient)
		auth.echo = authmiddleware.NewEchoInternalAuthMiddleware(internalAuthService).RequireInternalAccess(cfg.App.ServiceName)
		auth.grpc = authmiddleware.NewGRPCInternalAuthMiddleware(internalAuthService).UnaryRequireInternalAccess(cfg.App.ServiceName)
	} else {
		logrus.Warn("AUTH_SERVICE_GRPC_ADDR not set, internal routes are unauthenticated")
	}

	e := setupHTTPServer(deps, auth)
	grpcSrv, lis := setupGRPCServer(cfg, gatewaygrpc.NewServer(deps.gateway), auth)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(deps *gatewayDeps, auth internalAuth) *echo.Echo {
	cfg := deps.cfg

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	gatewayController := controller.NewGatewayController(deps.gateway, deps.renderer)
	soapController := controller.NewSOAPController(deps.gateway, deps.connectivity, cfg.App.PublicURL)
	legacyController := controller.NewLegacyController(deps.gateway, deps.renderer, cfg.App.PublicURL)
	infoController := controller.NewInfoController(cfg.App.Version, deps.store.Enabled())

	var internal []echo.MiddlewareFunc
	if auth.echo != nil {
		internal = append(internal, auth.echo)
	}

	e.GET("/", infoController.Root)
	e.GET("/health", gatewayController.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.POST("/resolve-customer", gatewayController.ResolveCustomer, internal...)
	e.POST("/post-payment", gatewayController.PostPayment, internal...)

	bank := e.Group("/banco-estado")
	bank.GET("/health", gatewayController.Health)
	bank.POST("/consultar-cliente", gatewayController.BankResolveCustomer)
	bank.POST("/registrar-pago", gatewayController.BankPostPayment)

	e.POST("/consultarCliente", soapController.ConsultarCliente)
	e.POST("/registrarPago", soapController.RegistrarPago)
	e.GET("/wsdl", soapController.WSDL)
	e.GET("/test-connection", soapController.TestConnection, internal...)
	e.GET("/payment-methods", soapController.PaymentMethods, internal...)

	e.GET(legacy.LegacyPath, legacyController.Get)
	e.POST(legacy.LegacyPath, legacyController.Post)

	return e
}

func setupGRPCServer(cfg *config.Config, gatewayServer *gatewaygrpc.Server, auth internalAuth) (*grpc.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	interceptors := []grpc.UnaryServerInterceptor{
		gatewaygrpc.RecoveryInterceptor(),
		gatewaygrpc.RequestIDInterceptor(),
		gatewaygrpc.LoggingInterceptor(),
	}
	if auth.grpc != nil {
		interceptors = append(interceptors, auth.grpc)
	}

	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	gatewaygrpc.RegisterGatewayServiceServer(grpcSrv, gatewayServer)

	return grpcSrv, lis
}
