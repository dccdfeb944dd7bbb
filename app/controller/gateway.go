package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/mapper"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
)

const serviceLabel = "BancoEstado API"

// GatewayController serves the REST envelope. Business outcomes, failures
// included, are answered with 200 and carry their code in the body.
type GatewayController struct {
	gateway  *service.Gateway
	renderer *legacy.Renderer
	logger   logrus.FieldLogger
}

func NewGatewayController(gateway *service.Gateway, renderer *legacy.Renderer) *GatewayController {
	return &GatewayController{
		gateway:  gateway,
		renderer: renderer,
		logger:   factory.NewModuleLogger("gateway-controller"),
	}
}

func (c *GatewayController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "healthy", Service: serviceLabel})
}

func (c *GatewayController) ResolveCustomer(ctx echo.Context) error {
	return c.resolveCustomer(ctx, false)
}

func (c *GatewayController) PostPayment(ctx echo.Context) error {
	return c.postPayment(ctx, false)
}

// BankResolveCustomer is ResolveCustomer with the legacy XML attached as raw_xml.
func (c *GatewayController) BankResolveCustomer(ctx echo.Context) error {
	return c.resolveCustomer(ctx, true)
}

// BankPostPayment is PostPayment with the legacy XML attached as raw_xml.
func (c *GatewayController) BankPostPayment(ctx echo.Context) error {
	return c.postPayment(ctx, true)
}

func (c *GatewayController) resolveCustomer(ctx echo.Context, withXML bool) error {
	req, err := types.NewResolveCustomerRequestFromContext(ctx)
	if err != nil {
		return c.writeFailure(ctx, withXML, service.CodeMissingParameter, "Cuerpo de solicitud inválido")
	}
	if err := req.Validate(); err != nil {
		code, message := service.Classify(err)
		return c.writeFailure(ctx, withXML, code, message)
	}

	out := c.gateway.Query(ctx.Request().Context(), req)
	factory.LoggerWithContext(c.logger, ctx).
		WithField("error_code", out.Code.String()).
		Info("Customer query completed")

	envelope := mapper.QueryEnvelope(out)
	if withXML {
		envelope.RawXML = string(c.renderer.Query(out))
	}
	return ctx.JSON(http.StatusOK, envelope)
}

func (c *GatewayController) postPayment(ctx echo.Context, withXML bool) error {
	req, err := types.NewPostPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeFailure(ctx, withXML, service.CodeMissingParameter, "Cuerpo de solicitud inválido")
	}
	if err := req.Validate(); err != nil {
		code, message := service.Classify(err)
		return c.writeFailure(ctx, withXML, code, message)
	}

	out := c.gateway.Pay(ctx.Request().Context(), req)
	factory.LoggerWithContext(c.logger, ctx).
		WithField("error_code", out.Code.String()).
		WithField("transaction", out.ExternalTransactionID).
		Info("Payment completed")

	envelope := mapper.PaymentEnvelope(out)
	if withXML {
		envelope.RawXML = string(c.renderer.Payment(out))
	}
	return ctx.JSON(http.StatusOK, envelope)
}

func (c *GatewayController) writeFailure(ctx echo.Context, withXML bool, code service.ErrorCode, message string) error {
	envelope := mapper.ErrorEnvelope(code, message)
	if withXML {
		envelope.RawXML = string(c.renderer.Error(code, message))
	}
	return ctx.JSON(http.StatusOK, envelope)
}
