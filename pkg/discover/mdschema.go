package discover

import (
	"context"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/execute"
	"github.com/olapd/olapd/pkg/xmla"
)

// Dimension types.
const (
	dimensionTypeMeasure = "2"
	dimensionTypeOther   = "3"
)

// Member types.
const (
	memberTypeAll     = "2"
	memberTypeMeasure = "3"
)

// Level types.
const (
	levelTypeRegular = "0"
	levelTypeAll     = "1"
)

const (
	measuresLevel     = execute.MeasuresHierarchy + ".[MeasuresLevel]"
	measureAggregator = "1"
	doubleDataType    = "5"
	measureFormat     = "Standard"
)

// MDSchemaCubes lists the cubes in scope.
func (t *Tools) MDSchemaCubes(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("CUBE_TYPE"),
		datetime("LAST_SCHEMA_UPDATE"),
		datetime("LAST_DATA_UPDATE"),
		str("DESCRIPTION"),
		boolean("IS_DRILLTHROUGH_ENABLED"),
		boolean("IS_LINKABLE"),
		boolean("IS_WRITE_ENABLED"),
		boolean("IS_SQL_ENABLED"),
		str("CUBE_CAPTION"),
		ushort("CUBE_SOURCE"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		ts := t.updated(cat)
		rs.Add(cat.Name, cat.Name, cube.Name, "CUBE", ts, ts, "",
			"true", "false", "false", "true", caption(cube.Caption, cube.Name), "1")
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaDimensions lists the Measures dimension and the cube dimensions.
func (t *Tools) MDSchemaDimensions(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("DIMENSION_NAME"),
		str("DIMENSION_UNIQUE_NAME"),
		str("DIMENSION_CAPTION"),
		integer("DIMENSION_ORDINAL"),
		short("DIMENSION_TYPE"),
		uint32c("DIMENSION_CARDINALITY"),
		str("DEFAULT_HIERARCHY"),
		boolean("IS_VIRTUAL"),
		boolean("IS_READWRITE"),
		integer("DIMENSION_UNIQUE_SETTINGS"),
		boolean("DIMENSION_IS_VISIBLE"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		rs.Add(cat.Name, cat.Name, cube.Name, "Measures", execute.MeasuresHierarchy, "Measures", "0",
			dimensionTypeMeasure, itoa(len(cube.Measures)), execute.MeasuresHierarchy,
			"false", "false", "0", "true")
		for i, d := range cube.Dimensions {
			rs.Add(cat.Name, cat.Name, cube.Name, d.Name, dimensionName(d), caption(d.Caption, d.Name), itoa(i+1),
				dimensionTypeOther, itoa(len(d.Levels)+1), hierarchyName(d),
				"false", "false", "1", "true")
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaHierarchies lists one hierarchy per dimension.
func (t *Tools) MDSchemaHierarchies(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("DIMENSION_UNIQUE_NAME"),
		str("HIERARCHY_NAME"),
		str("HIERARCHY_UNIQUE_NAME"),
		str("HIERARCHY_CAPTION"),
		short("DIMENSION_TYPE"),
		uint32c("HIERARCHY_CARDINALITY"),
		str("DEFAULT_MEMBER"),
		str("ALL_MEMBER"),
		short("STRUCTURE"),
		boolean("IS_VIRTUAL"),
		boolean("IS_READWRITE"),
		integer("DIMENSION_UNIQUE_SETTINGS"),
		boolean("DIMENSION_IS_VISIBLE"),
		uint32c("HIERARCHY_ORDINAL"),
		boolean("DIMENSION_IS_SHARED"),
		boolean("HIERARCHY_IS_VISIBLE"),
		ushort("HIERARCHY_ORIGIN"),
		boolean("PARENT_CHILD"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		def := ""
		if len(cube.Measures) > 0 {
			def = execute.MeasureMember(cube.Measures[0]).UniqueName
		}
		rs.Add(cat.Name, cat.Name, cube.Name, execute.MeasuresHierarchy, "Measures", execute.MeasuresHierarchy,
			"Measures", dimensionTypeMeasure, itoa(len(cube.Measures)), def, "", "0",
			"false", "false", "0", "true", "0", "true", "true", "1", "false")
		for i, d := range cube.Dimensions {
			rs.Add(cat.Name, cat.Name, cube.Name, dimensionName(d), d.Name, hierarchyName(d),
				caption(d.Caption, d.Name), dimensionTypeOther, itoa(len(d.Levels)+1), allMember(d), allMember(d), "0",
				"false", "false", "1", "true", itoa(i+1), "true", "true", "1", "false")
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaLevels lists the MeasuresLevel and, per dimension, an (All)
// level followed by one level per column.
func (t *Tools) MDSchemaLevels(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("DIMENSION_UNIQUE_NAME"),
		str("HIERARCHY_UNIQUE_NAME"),
		str("LEVEL_NAME"),
		str("LEVEL_UNIQUE_NAME"),
		str("LEVEL_CAPTION"),
		uint32c("LEVEL_NUMBER"),
		uint32c("LEVEL_CARDINALITY"),
		integer("LEVEL_TYPE"),
		integer("CUSTOM_ROLLUP_SETTINGS"),
		integer("LEVEL_UNIQUE_SETTINGS"),
		boolean("LEVEL_IS_VISIBLE"),
		ushort("LEVEL_ORIGIN"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		rs.Add(cat.Name, cat.Name, cube.Name, execute.MeasuresHierarchy, execute.MeasuresHierarchy,
			"MeasuresLevel", measuresLevel, "MeasuresLevel", "0", itoa(len(cube.Measures)),
			levelTypeRegular, "0", "0", "true", "0")
		for _, d := range cube.Dimensions {
			rs.Add(cat.Name, cat.Name, cube.Name, dimensionName(d), hierarchyName(d),
				"(All)", levelName(d, "(All)"), "(All)", "0", "1",
				levelTypeAll, "0", "3", "true", "0")
			for i, l := range d.Levels {
				rs.Add(cat.Name, cat.Name, cube.Name, dimensionName(d), hierarchyName(d),
					l, levelName(d, l), l, itoa(i+1), "0",
					levelTypeRegular, "0", "0", "true", "1")
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaMeasures lists the measures of the cubes in scope. Every measure
// is summed.
func (t *Tools) MDSchemaMeasures(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("MEASURE_NAME"),
		str("MEASURE_UNIQUE_NAME"),
		str("MEASURE_CAPTION"),
		integer("MEASURE_AGGREGATOR"),
		ushort("DATA_TYPE"),
		ushort("NUMERIC_PRECISION"),
		short("NUMERIC_SCALE"),
		boolean("MEASURE_IS_VISIBLE"),
		str("MEASUREGROUP_NAME"),
		str("DEFAULT_FORMAT_STRING"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		for _, m := range cube.Measures {
			rs.Add(cat.Name, cat.Name, cube.Name, m, execute.MeasureMember(m).UniqueName, m,
				measureAggregator, doubleDataType, "16", "-1", "true", cube.Name, measureFormat)
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaMeasureGroups lists one measure group per cube.
func (t *Tools) MDSchemaMeasureGroups(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("MEASUREGROUP_NAME"),
		str("DESCRIPTION"),
		boolean("IS_WRITE_ENABLED"),
		str("MEASUREGROUP_CAPTION"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		rs.Add(cat.Name, cat.Name, cube.Name, cube.Name, "", "false", caption(cube.Caption, cube.Name))
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaMeasureGroupDimensions relates each cube's measure group to all
// of its dimensions.
func (t *Tools) MDSchemaMeasureGroupDimensions(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("MEASUREGROUP_NAME"),
		str("MEASUREGROUP_CARDINALITY"),
		str("DIMENSION_UNIQUE_NAME"),
		str("DIMENSION_CARDINALITY"),
		boolean("DIMENSION_IS_VISIBLE"),
		boolean("DIMENSION_IS_FACT_DIMENSION"),
		str("DIMENSION_GRANULARITY"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		for _, d := range cube.Dimensions {
			rs.Add(cat.Name, cat.Name, cube.Name, cube.Name, "MANY", dimensionName(d), "ONE",
				"true", "false", hierarchyName(d))
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaSets returns an empty rowset: named sets aren't supported.
func (t *Tools) MDSchemaSets(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("SET_NAME"),
		integer("SCOPE"),
		str("DESCRIPTION"),
		str("EXPRESSION"),
		str("DIMENSIONS"),
		str("SET_CAPTION"),
		str("SET_DISPLAY_FOLDER"),
	)
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaKPIs returns an empty rowset.
func (t *Tools) MDSchemaKPIs(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("MEASUREGROUP_NAME"),
		str("KPI_NAME"),
		str("KPI_CAPTION"),
		str("KPI_DESCRIPTION"),
		str("KPI_DISPLAY_FOLDER"),
		str("KPI_VALUE"),
		str("KPI_GOAL"),
		str("KPI_STATUS"),
		str("KPI_TREND"),
	)
	return rs.Filter(req.Restrictions).Element(), nil
}

var cellProperties = []struct {
	name, dataType string
}{
	{"BACK_COLOR", "19"},
	{"CELL_ORDINAL", "19"},
	{"FONT_FLAGS", "3"},
	{"FONT_NAME", "130"},
	{"FONT_SIZE", "18"},
	{"FORE_COLOR", "19"},
	{"FORMAT_STRING", "130"},
	{"FORMATTED_VALUE", "130"},
	{"VALUE", "12"},
}

// MDSchemaProperties lists the cell properties.
func (t *Tools) MDSchemaProperties(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("DIMENSION_UNIQUE_NAME"),
		str("HIERARCHY_UNIQUE_NAME"),
		str("LEVEL_UNIQUE_NAME"),
		str("MEMBER_UNIQUE_NAME"),
		str("PROPERTY_NAME"),
		str("PROPERTY_CAPTION"),
		short("PROPERTY_TYPE"),
		ushort("DATA_TYPE"),
		short("PROPERTY_CONTENT_TYPE"),
		str("DESCRIPTION"),
	)
	for _, p := range cellProperties {
		rs.Add("", "", "", "", "", "", "", p.name, p.name, "2", p.dataType, "", p.name)
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaMembers lists the measures and the All member of every
// dimension. Dimension members below All aren't enumerated.
func (t *Tools) MDSchemaMembers(ctx context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("DIMENSION_UNIQUE_NAME"),
		str("HIERARCHY_UNIQUE_NAME"),
		str("LEVEL_UNIQUE_NAME"),
		uint32c("LEVEL_NUMBER"),
		uint32c("MEMBER_ORDINAL"),
		str("MEMBER_NAME"),
		str("MEMBER_UNIQUE_NAME"),
		integer("MEMBER_TYPE"),
		str("MEMBER_CAPTION"),
		uint32c("CHILDREN_CARDINALITY"),
		uint32c("PARENT_LEVEL"),
		str("PARENT_UNIQUE_NAME"),
	)
	err := t.cubes(ctx, req, func(cat *catalog.Catalog, cube *catalog.Cube) {
		for i, m := range cube.Measures {
			rs.Add(cat.Name, cat.Name, cube.Name, execute.MeasuresHierarchy, execute.MeasuresHierarchy, measuresLevel,
				"0", itoa(i), m, execute.MeasureMember(m).UniqueName, memberTypeMeasure, m, "0", "0", "")
		}
		for _, d := range cube.Dimensions {
			rs.Add(cat.Name, cat.Name, cube.Name, dimensionName(d), hierarchyName(d), levelName(d, "(All)"),
				"0", "0", "All", allMember(d), memberTypeAll, "All", "0", "0", "")
		}
	})
	if err != nil {
		return nil, err
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaFunctions returns an empty rowset.
func (t *Tools) MDSchemaFunctions(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("FUNCTION_NAME"),
		str("DESCRIPTION"),
		str("PARAMETER_LIST"),
		integer("RETURN_TYPE"),
		integer("ORIGIN"),
		str("INTERFACE_NAME"),
		str("LIBRARY_NAME"),
		str("CAPTION"),
	)
	return rs.Filter(req.Restrictions).Element(), nil
}

// MDSchemaActions returns an empty rowset.
func (t *Tools) MDSchemaActions(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("CATALOG_NAME"),
		str("SCHEMA_NAME"),
		str("CUBE_NAME"),
		str("ACTION_NAME"),
		integer("ACTION_TYPE"),
		str("COORDINATE"),
		integer("COORDINATE_TYPE"),
		str("ACTION_CAPTION"),
		str("DESCRIPTION"),
		str("CONTENT"),
		str("APPLICATION"),
		integer("INVOCATION"),
	)
	return rs.Filter(req.Restrictions).Element(), nil
}
