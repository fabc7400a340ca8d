package soap

import (
	"errors"

	"github.com/beevik/etree"
)

// Namespaces used in generated WSDL documents.
const (
	WSDLNamespace     = "http://schemas.xmlsoap.org/wsdl/"
	WSDLSOAPNamespace = "http://schemas.xmlsoap.org/wsdl/soap/"
	XSDNamespace      = "http://www.w3.org/2001/XMLSchema"
	HTTPTransport     = "http://schemas.xmlsoap.org/soap/http"
)

// WSDLConfig describes a document/literal service.
type WSDLConfig struct {
	ServiceName string
	Namespace   string
	// Location is the absolute endpoint URL advertised in soap:address.
	Location   string
	Operations []string
}

// BuildWSDL renders a WSDL 1.1 document for cfg. Request and response
// elements of every operation are typed xs:anyType.
func BuildWSDL(cfg WSDLConfig) ([]byte, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("wsdl: service name is required")
	}
	if len(cfg.Operations) == 0 {
		return nil, errors.New("wsdl: at least one operation is required")
	}

	portType := cfg.ServiceName + "PortType"
	binding := cfg.ServiceName + "Binding"

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	defs := doc.CreateElement("wsdl:definitions")
	defs.CreateAttr("xmlns:wsdl", WSDLNamespace)
	defs.CreateAttr("xmlns:soap", WSDLSOAPNamespace)
	defs.CreateAttr("xmlns:xs", XSDNamespace)
	defs.CreateAttr("xmlns:tns", cfg.Namespace)
	defs.CreateAttr("name", cfg.ServiceName)
	defs.CreateAttr("targetNamespace", cfg.Namespace)

	schema := defs.CreateElement("wsdl:types").CreateElement("xs:schema")
	schema.CreateAttr("targetNamespace", cfg.Namespace)
	schema.CreateAttr("elementFormDefault", "qualified")
	for _, op := range cfg.Operations {
		for _, name := range []string{op, op + "Response"} {
			el := schema.CreateElement("xs:element")
			el.CreateAttr("name", name)
			el.CreateAttr("type", "xs:anyType")
		}
	}

	for _, op := range cfg.Operations {
		for _, name := range []string{op, op + "Response"} {
			msg := defs.CreateElement("wsdl:message")
			msg.CreateAttr("name", name)
			part := msg.CreateElement("wsdl:part")
			part.CreateAttr("name", "parameters")
			part.CreateAttr("element", "tns:"+name)
		}
	}

	pt := defs.CreateElement("wsdl:portType")
	pt.CreateAttr("name", portType)
	for _, op := range cfg.Operations {
		o := pt.CreateElement("wsdl:operation")
		o.CreateAttr("name", op)
		o.CreateElement("wsdl:input").CreateAttr("message", "tns:"+op)
		o.CreateElement("wsdl:output").CreateAttr("message", "tns:"+op+"Response")
	}

	b := defs.CreateElement("wsdl:binding")
	b.CreateAttr("name", binding)
	b.CreateAttr("type", "tns:"+portType)
	sb := b.CreateElement("soap:binding")
	sb.CreateAttr("style", "document")
	sb.CreateAttr("transport", HTTPTransport)
	for _, op := range cfg.Operations {
		o := b.CreateElement("wsdl:operation")
		o.CreateAttr("name", op)
		so := o.CreateElement("soap:operation")
		so.CreateAttr("soapAction", cfg.Namespace+":"+op)
		so.CreateAttr("style", "document")
		o.CreateElement("wsdl:input").CreateElement("soap:body").CreateAttr("use", "literal")
		o.CreateElement("wsdl:output").CreateElement("soap:body").CreateAttr("use", "literal")
	}

	svc := defs.CreateElement("wsdl:service")
	svc.CreateAttr("name", cfg.ServiceName)
	port := svc.CreateElement("wsdl:port")
	port.CreateAttr("name", cfg.ServiceName+"Port")
	port.CreateAttr("binding", "tns:"+binding)
	port.CreateElement("soap:address").CreateAttr("location", cfg.Location)

	doc.Indent(2)
	return doc.WriteToBytes()
}
