package xmla

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/soap"
)

// DiscoverRequest is the decoded body of a Discover call.
type DiscoverRequest struct {
	RequestType  string
	Restrictions map[string]string
	Properties   map[string]string
}

// Catalog returns the Catalog property, or "".
func (r *DiscoverRequest) Catalog() string {
	return r.Properties["Catalog"]
}

// Restriction returns the named restriction, or "".
func (r *DiscoverRequest) Restriction(name string) string {
	return r.Restrictions[name]
}

// ExecuteRequest is the decoded body of an Execute call. Statement is kept
// verbatim.
type ExecuteRequest struct {
	Statement  string
	Catalog    string
	Properties map[string]string
}

// Empty reports whether the statement is missing or blank.
func (r *ExecuteRequest) Empty() bool {
	return strings.TrimSpace(r.Statement) == ""
}

// DecodeDiscover reads a Discover element.
func DecodeDiscover(el *etree.Element) (*DiscoverRequest, error) {
	rt := soap.Text(el, "RequestType")
	if rt == "" {
		return nil, fmt.Errorf("%w: Discover without RequestType", ErrMalformedRequest)
	}
	return &DiscoverRequest{
		RequestType:  rt,
		Restrictions: list(soap.Find(el, "Restrictions", "RestrictionList")),
		Properties:   list(soap.Find(el, "Properties", "PropertyList")),
	}, nil
}

// DecodeExecute reads an Execute element. A missing Command or Statement
// decodes as an empty statement.
func DecodeExecute(el *etree.Element) (*ExecuteRequest, error) {
	if el == nil {
		return nil, fmt.Errorf("%w: empty Execute", ErrMalformedRequest)
	}
	props := list(soap.Find(el, "Properties", "PropertyList"))
	var statement string
	if st := soap.Find(el, "Command", "Statement"); st != nil {
		statement = st.Text()
	}
	return &ExecuteRequest{
		Statement:  statement,
		Catalog:    props["Catalog"],
		Properties: props,
	}, nil
}

// list maps the child elements of a RestrictionList or PropertyList by
// local name. Repeated names keep the first value.
func list(el *etree.Element) map[string]string {
	out := make(map[string]string)
	if el == nil {
		return out
	}
	for _, c := range el.ChildElements() {
		if _, dup := out[c.Tag]; dup {
			continue
		}
		out[c.Tag] = strings.TrimSpace(c.Text())
	}
	return out
}
