package discover

import (
	"context"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/xmla"
)

// DBSchemaCatalogs lists the catalogs in scope.
func (t *Tools) DBSchemaCatalogs(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(str("CATALOG_NAME"), str("DESCRIPTION"), str("ROLES"), datetime("DATE_MODIFIED"))
	cats, err := t.scope(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, cat := range cats {
		rs.Add(cat.Name, caption(cat.Caption, cat.Name), "", t.updated(cat))
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// DBSchemaTables lists one table per cube and one per dimension, the
// latter prefixed with "$" like Analysis Services does.
func (t *Tools) DBSchemaTables(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("TABLE_CATALOG"),
		str("TABLE_SCHEMA"),
		str("TABLE_NAME"),
		str("TABLE_TYPE"),
		str("DESCRIPTION"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		rs.Add(cat.Name, cube.Name, cube.Name, "TABLE", "")
		for _, d := range cube.Dimensions {
			rs.Add(cat.Name, cube.Name, "$"+d.Name+"."+d.Name, "TABLE", "")
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}
