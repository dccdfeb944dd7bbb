package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/legacy"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/types"
)

type InfoController struct {
	version      string
	storeEnabled bool
}

func NewInfoController(version string, storeEnabled bool) *InfoController {
	return &InfoController{version: version, storeEnabled: storeEnabled}
}

func (c *InfoController) Root(ctx echo.Context) error {
	store := "not_configured"
	if c.storeEnabled {
		store = "configured"
	}
	return ctx.JSON(http.StatusOK, &types.InfoResponse{
		Service: "BancoEstado API - REST para Splynx",
		Version: c.version,
		Status:  "running",
		Store:   store,
		Endpoints: map[string]string{
			"consultar_cliente": "/banco-estado/consultar-cliente",
			"registrar_pago":    "/banco-estado/registrar-pago",
			"health_check":      "/banco-estado/health",
			"soap_consultar":    "/consultarCliente",
			"soap_registrar":    "/registrarPago",
			"php_endpoint":      legacy.LegacyPath,
			"wsdl":              legacy.LegacyPath + "?wsdl",
			"test_connection":   "/test-connection",
			"payment_methods":   "/payment-methods",
			"metrics":           "/metrics",
		},
	})
}
