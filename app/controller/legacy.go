package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/service"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
)

// LegacyController serves the single path of the retired PHP service.
type LegacyController struct {
	gateway   *service.Gateway
	renderer  *legacy.Renderer
	publicURL string
	logger    logrus.FieldLogger
}

func NewLegacyController(gateway *service.Gateway, renderer *legacy.Renderer, publicURL string) *LegacyController {
	return &LegacyController{
		gateway:   gateway,
		renderer:  renderer,
		publicURL: publicURL,
		logger:    factory.NewModuleLogger("legacy-controller"),
	}
}

func (c *LegacyController) Get(ctx echo.Context) error {
	if _, ok := ctx.QueryParams()["wsdl"]; ok || strings.Contains(strings.ToLower(ctx.Request().URL.RawQuery), "wsdl") {
		return ctx.Blob(http.StatusOK, mimeTextXML, legacy.WSDL(c.publicURL))
	}
	return ctx.JSON(http.StatusOK, &types.ServiceStatusResponse{Message: "BancoEstado SOAP Service", Status: "active"})
}

func (c *LegacyController) Post(ctx echo.Context) error {
	contentType := strings.ToLower(ctx.Request().Header.Get(echo.HeaderContentType))
	if !strings.Contains(contentType, "soap") && !strings.Contains(contentType, "xml") {
		return ctx.JSON(http.StatusOK, &types.ErrorResponse{Error: "Content-Type debe ser application/soap+xml o text/xml"})
	}

	l := factory.LoggerWithContext(c.logger, ctx)
	extractor, err := types.NewExtractor(ctx.Request())
	if err != nil {
		l.WithError(err).Warn("Rejected legacy SOAP request")
		return c.writeXML(ctx, c.renderer.Error(service.CodeMissingParameter, "Solicitud SOAP no válida"))
	}
	if !extractor.HasXML() {
		l.Warn("Legacy SOAP request has no XML envelope")
		return c.writeXML(ctx, c.renderer.Error(service.CodeMissingParameter, "Solicitud SOAP no válida"))
	}

	switch types.DetectSOAPOperation(extractor.Raw()) {
	case types.OperationQuery:
		req := types.NewSOAPQueryRequest(extractor)
		if err := req.Validate(); err != nil {
			code, message := service.Classify(err)
			return c.writeXML(ctx, c.renderer.Error(code, message))
		}
		out := c.gateway.Query(ctx.Request().Context(), req)
		l.WithField("error_code", out.Code.String()).Info("Legacy customer query completed")
		return c.writeXML(ctx, c.renderer.Query(out))
	case types.OperationPayment:
		req := types.NewSOAPPaymentRequest(extractor)
		if err := req.Validate(); err != nil {
			code, message := service.Classify(err)
			return c.writeXML(ctx, c.renderer.Error(code, message))
		}
		out := c.gateway.Pay(ctx.Request().Context(), req)
		l.WithField("error_code", out.Code.String()).Info("Legacy payment completed")
		return c.writeXML(ctx, c.renderer.Payment(out))
	default:
		l.Warn("Legacy SOAP request names no known operation")
		return c.writeXML(ctx, c.renderer.Error(service.CodeMissingParameter, "Solicitud SOAP no válida"))
	}
}

func (c *LegacyController) writeXML(ctx echo.Context, body []byte) error {
	return ctx.Blob(http.StatusOK, mimeTextXML, body)
}
