package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/mapper"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
)

const (
	mimeTextPlain = "text/plain; charset=utf-8"
	mimeTextXML   = "text/xml; charset=utf-8"
)

// SOAPController serves the SOAP-compatible endpoints. Operation results are
// plain-text JSON bodies with snake_case Spanish keys.
type SOAPController struct {
	gateway      *service.Gateway
	connectivity *service.ConnectivityService
	publicURL    string
	logger       logrus.FieldLogger
}

func NewSOAPController(gateway *service.Gateway, connectivity *service.ConnectivityService, publicURL string) *SOAPController {
	return &SOAPController{
		gateway:      gateway,
		connectivity: connectivity,
		publicURL:    publicURL,
		logger:       factory.NewModuleLogger("soap-controller"),
	}
}

func (c *SOAPController) ConsultarCliente(ctx echo.Context) error {
	req, err := types.NewSOAPQueryRequestFromContext(ctx)
	if err != nil {
		return c.writeFailure(ctx, err)
	}
	if err := req.Validate(); err != nil {
		return c.writeFailure(ctx, err)
	}

	out := c.gateway.Query(ctx.Request().Context(), req)
	factory.LoggerWithContext(c.logger, ctx).
		WithField("error_code", out.Code.String()).
		Info("SOAP customer query completed")
	return c.writeText(ctx, mapper.SOAPQuery(out))
}

func (c *SOAPController) RegistrarPago(ctx echo.Context) error {
	req, err := types.NewSOAPPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeFailure(ctx, err)
	}
	if err := req.Validate(); err != nil {
		return c.writeFailure(ctx, err)
	}

	out := c.gateway.Pay(ctx.Request().Context(), req)
	factory.LoggerWithContext(c.logger, ctx).
		WithField("error_code", out.Code.String()).
		WithField("transaction", req.GetExternalTransactionId()).
		Info("SOAP payment completed")
	return c.writeText(ctx, mapper.SOAPPayment(out))
}

func (c *SOAPController) WSDL(ctx echo.Context) error {
	return ctx.Blob(http.StatusOK, mimeTextXML, legacy.WSDL(c.publicURL))
}

func (c *SOAPController) TestConnection(ctx echo.Context) error {
	report := c.connectivity.Check(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, mapper.ConnectivityToResponse(report))
}

func (c *SOAPController) PaymentMethods(ctx echo.Context) error {
	methods, err := c.connectivity.PaymentMethods(ctx.Request().Context())
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Listing payment methods failed")
		_, message := service.Classify(err)
		return ctx.JSON(http.StatusOK, &types.PaymentMethodsResponse{Error: message})
	}
	return ctx.JSON(http.StatusOK, mapper.PaymentMethodsToResponse(methods))
}

func (c *SOAPController) writeFailure(ctx echo.Context, err error) error {
	if errors.Is(err, types.ErrMalformedBody) {
		return c.writeText(ctx, mapper.SOAPFailure(service.CodeMissingParameter, "Solicitud SOAP no válida"))
	}
	code, message := service.Classify(err)
	return c.writeText(ctx, mapper.SOAPFailure(code, message))
}

func (c *SOAPController) writeText(ctx echo.Context, v interface{}) error {
	body, err := mapper.MarshalSOAP(v)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Encoding SOAP response failed")
		body, _ = mapper.MarshalSOAP(mapper.SOAPFailure(service.CodeInternal, "Error interno del servidor"))
	}
	return ctx.Blob(http.StatusOK, mimeTextPlain, body)
}
