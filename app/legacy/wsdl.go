package legacy

import "strings"

// LegacyPath is the single path of the retired PHP service.
const LegacyPath = "/bancoestado/web/index.php"

const wsdlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"
             xmlns:xsd="http://www.w3.org/2001/XMLSchema"
             xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
             xmlns:SOAP-ENC="http://schemas.xmlsoap.org/soap/encoding/"
             xmlns:tns="ws/"
             xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
             xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
             xmlns="http://schemas.xmlsoap.org/wsdl/"
             targetNamespace="ws/">
    <message name="consultarClienteRequest">
        <part name="rutCliente" type="xsd:string"/>
    </message>
    <message name="consultarClienteResponse">
        <part name="return" type="xsd:string"/>
    </message>
    <message name="registrarPagoRequest">
        <part name="rutCliente" type="xsd:string"/>
        <part name="factura" type="xsd:string"/>
        <part name="monto" type="xsd:float"/>
        <part name="descripcion" type="xsd:string"/>
        <part name="pasarela" type="xsd:string"/>
        <part name="transaccion" type="xsd:string"/>
    </message>
    <message name="registrarPagoResponse">
        <part name="return" type="xsd:string"/>
    </message>
    <portType name="BancoEstadoPortType">
        <operation name="consultarCliente">
            <input message="tns:consultarClienteRequest"/>
            <output message="tns:consultarClienteResponse"/>
        </operation>
        <operation name="registrarPago">
            <input message="tns:registrarPagoRequest"/>
            <output message="tns:registrarPagoResponse"/>
        </operation>
    </portType>
    <binding name="BancoEstadoBinding" type="tns:BancoEstadoPortType">
        <soap:binding style="rpc" transport="http://schemas.xmlsoap.org/soap/http"/>
        <operation name="consultarCliente">
            <soap:operation soapAction="consultarCliente"/>
            <input><soap:body use="literal"/></input>
            <output><soap:body use="literal"/></output>
        </operation>
        <operation name="registrarPago">
            <soap:operation soapAction="registrarPago"/>
            <input><soap:body use="literal"/></input>
            <output><soap:body use="literal"/></output>
        </operation>
    </binding>
    <service name="BancoEstadoService">
        <port name="BancoEstadoPort" binding="tns:BancoEstadoBinding">
            <soap:address location="{{LOCATION}}"/>
        </port>
    </service>
</definitions>`

// WSDL describes both operations with the service address under publicURL.
func WSDL(publicURL string) []byte {
	location := strings.TrimRight(publicURL, "/") + LegacyPath
	return []byte(strings.Replace(wsdlTemplate, "{{LOCATION}}", location, 1))
}
