package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type paymentMethodLister interface {
	ListPaymentMethods(ctx context.Context) ([]splynx.PaymentMethod, error)
}

// ChannelStatus is the health of one data channel.
type ChannelStatus struct {
	Success bool
	Message string
	Latency time.Duration
}

type ConnectivityReport struct {
	Store     ChannelStatus
	API       ChannelStatus
	CheckedAt time.Time
}

func (r ConnectivityReport) Success() bool {
	return r.Store.Success && r.API.Success
}

func (r ConnectivityReport) Message() string {
	if r.Success() {
		return "BD y API funcionando"
	}
	return "Hay problemas de conexión"
}

// ConnectivityService probes both channels and proxies the CRM payment method list.
type ConnectivityService struct {
	store   pinger
	api     pinger
	methods paymentMethodLister
	logger  logrus.FieldLogger
}

func NewConnectivityService(store, api pinger, methods paymentMethodLister) *ConnectivityService {
	return &ConnectivityService{
		store:   store,
		api:     api,
		methods: methods,
		logger:  factory.NewModuleLogger("connectivity"),
	}
}

func (s *ConnectivityService) Check(ctx context.Context) ConnectivityReport {
	report := ConnectivityReport{
		Store:     s.probe(ctx, "store", s.store, "Conexión exitosa a base de datos Splynx"),
		API:       s.probe(ctx, "api", s.api, "Conexión exitosa con Splynx"),
		CheckedAt: time.Now().UTC(),
	}
	return report
}

// RunCheck logs one probe of both channels and fails when either is down.
func (s *ConnectivityService) RunCheck(ctx context.Context) error {
	report := s.Check(ctx)
	l := s.logger.
		WithField("store_ok", report.Store.Success).
		WithField("api_ok", report.API.Success)
	if !report.Success() {
		l.WithField("store", report.Store.Message).WithField("api", report.API.Message).Warn(report.Message())
		return ErrConnectivity
	}
	l.Info(report.Message())
	return nil
}

func (s *ConnectivityService) PaymentMethods(ctx context.Context) ([]splynx.PaymentMethod, error) {
	return s.methods.ListPaymentMethods(ctx)
}

func (s *ConnectivityService) probe(ctx context.Context, name string, target pinger, okMessage string) ChannelStatus {
	if target == nil {
		return ChannelStatus{Message: "Canal no configurado"}
	}
	start := time.Now()
	if err := target.Ping(ctx); err != nil {
		_, message := Classify(err)
		s.logger.WithField("channel", name).WithError(err).Warn("Channel probe failed")
		return ChannelStatus{Message: message, Latency: time.Since(start)}
	}
	return ChannelStatus{Success: true, Message: okMessage, Latency: time.Since(start)}
}
