package soap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// parseEnvelope reads a SOAP envelope and returns its Header (possibly nil)
// and the operation element of its Body. Bodies declaring a non UTF-8
// encoding are transcoded.
func parseEnvelope(body []byte) (header, op *etree.Element, err error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, nil, fmt.Errorf("invalid XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil, errors.New("empty document")
	}
	if root.Tag != "Envelope" {
		return nil, nil, fmt.Errorf("root element must be Envelope, got %s", root.Tag)
	}
	if ns := root.NamespaceURI(); ns != "" && ns != Namespace {
		return nil, nil, fmt.Errorf("unsupported envelope namespace %s", ns)
	}

	header = Child(root, "Header")
	b := Child(root, "Body")
	if b == nil {
		return nil, nil, errors.New("SOAP Body not found")
	}
	children := b.ChildElements()
	if len(children) == 0 {
		return nil, nil, errors.New("no operation element found in Body")
	}
	return header, children[0], nil
}

// newEnvelope builds an envelope around payload with an optional header.
func newEnvelope(header, payload *etree.Element) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := doc.CreateElement("soap:Envelope")
	env.CreateAttr("xmlns:soap", Namespace)
	if header != nil {
		env.CreateElement("soap:Header").AddChild(header)
	}
	env.CreateElement("soap:Body").AddChild(payload)
	return doc
}

// faultElement renders f as a SOAP 1.1 Fault element.
func faultElement(f *Fault) *etree.Element {
	el := etree.NewElement("soap:Fault")
	el.CreateElement("faultcode").SetText(f.Code)
	el.CreateElement("faultstring").SetText(f.Message)
	if f.Detail != "" {
		el.CreateElement("detail").SetText(f.Detail)
	}
	return el
}

// Child returns the first child element of parent with the given local
// name, whatever its namespace prefix.
func Child(parent *etree.Element, localName string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, c := range parent.ChildElements() {
		if c.Tag == localName {
			return c
		}
	}
	return nil
}

// Find walks a path of local names from parent.
func Find(parent *etree.Element, path ...string) *etree.Element {
	el := parent
	for _, name := range path {
		el = Child(el, name)
		if el == nil {
			return nil
		}
	}
	return el
}

// Text returns the trimmed text at a path of local names below parent, or
// "" when the path doesn't exist.
func Text(parent *etree.Element, path ...string) string {
	el := Find(parent, path...)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
