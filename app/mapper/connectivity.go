package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/splynx"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
)

func ConnectivityToResponse(report service.ConnectivityReport) *types.ConnectivityResponse {
	return &types.ConnectivityResponse{
		Success:   report.Success(),
		Store:     channelStatusToResponse(report.Store),
		API:       channelStatusToResponse(report.API),
		Message:   report.Message(),
		CheckedAt: report.CheckedAt.Format(time.RFC3339),
	}
}

func PaymentMethodsToResponse(methods []splynx.PaymentMethod) *types.PaymentMethodsResponse {
	out := make([]types.PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		out = append(out, types.PaymentMethodResponse{ID: m.ID, Name: m.Name, IsActive: m.IsActive})
	}
	return &types.PaymentMethodsResponse{Success: true, PaymentMethods: out}
}

func channelStatusToResponse(status service.ChannelStatus) *types.ChannelStatusResponse {
	return &types.ChannelStatusResponse{
		Success:   status.Success,
		Message:   status.Message,
		LatencyMs: status.Latency.Milliseconds(),
	}
}
