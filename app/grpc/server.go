package grpc

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/mapper"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Server struct {
	gateway *service.Gateway
}

func NewServer(gateway *service.Gateway) *Server {
	return &Server{gateway: gateway}
}

func (s *Server) Health(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(&types.HealthResponse{Status: "healthy", Service: "BancoEstado API"})
}

func (s *Server) ResolveCustomer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	req := &types.ResolveCustomerRequest{
		FiscalIdentifier: stringField(fields, "fiscalIdentifier", "rut_cliente", "rutCliente"),
	}
	if err := req.Validate(); err != nil {
		return toStruct(mapper.ErrorEnvelope(service.Classify(err)))
	}

	out := s.gateway.Query(ctx, req)
	loggerWithContext(ctx).WithField("error_code", out.Code.String()).Debug("Customer query completed")
	return toStruct(mapper.QueryEnvelope(out))
}

func (s *Server) PostPayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	req := &types.PostPaymentRequest{
		FiscalIdentifier:      stringField(fields, "fiscalIdentifier", "rut_cliente", "rutCliente"),
		InvoiceReference:      stringField(fields, "invoiceReference", "factura"),
		Amount:                types.Amount(stringField(fields, "amount", "monto")),
		Description:           stringField(fields, "description", "descripcion"),
		ChannelLabel:          stringField(fields, "channelLabel", "pasarela"),
		ExternalTransactionID: stringField(fields, "externalTransactionId", "transaccion"),
	}
	if err := req.Validate(); err != nil {
		return toStruct(mapper.ErrorEnvelope(service.Classify(err)))
	}

	out := s.gateway.Pay(ctx, req)
	loggerWithContext(ctx).WithField("error_code", out.Code.String()).Debug("Payment completed")
	return toStruct(mapper.PaymentEnvelope(out))
}

// stringField reads the first populated field. Numbers keep their shortest
// decimal form so amounts survive the float64 carried by Struct.
func stringField(fields map[string]*structpb.Value, names ...string) string {
	for _, name := range names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			s = kind.StringValue
		case *structpb.Value_NumberValue:
			s = strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}
