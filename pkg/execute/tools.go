package execute

import (
	"strconv"
	"sync"

	"github.com/beevik/etree"
)

// SlicerAxis is the name of the axis holding the WHERE clause members.
const SlicerAxis = "SlicerAxis"

// Tools renders a Result as mddataset fragments. Every call returns fresh
// elements that the caller may attach anywhere.
type Tools struct{}

// NewTools returns the default fragment renderer.
func NewTools() *Tools {
	return &Tools{}
}

var (
	schemaOnce sync.Once
	schemaRoot *etree.Element
)

// Schema returns the inline XSD of the mddataset format.
func (t *Tools) Schema() *etree.Element {
	schemaOnce.Do(func() {
		doc := etree.NewDocument()
		if err := doc.ReadFromString(MDDatasetSchema); err != nil {
			panic("execute: invalid mddataset schema: " + err.Error())
		}
		schemaRoot = doc.Root()
	})
	return schemaRoot.Copy()
}

// CellInfo describes the properties sent for each cell.
func (t *Tools) CellInfo(qc *QueryContext, _ *Result) *etree.Element {
	info := etree.NewElement("CellInfo")
	info.CreateElement("Value").CreateAttr("name", "VALUE")
	if qc.ConvertToFormulas {
		return info
	}
	info.CreateElement("FmtValue").CreateAttr("name", "FORMATTED_VALUE")
	info.CreateElement("FormatString").CreateAttr("name", "FORMAT_STRING")
	return info
}

// AxesInfo describes the hierarchies of each query axis.
func (t *Tools) AxesInfo(_ *QueryContext, res *Result) []*etree.Element {
	out := make([]*etree.Element, 0, len(res.Axes))
	for _, axis := range res.Axes {
		info := etree.NewElement("AxisInfo")
		info.CreateAttr("name", axis.Name)
		for _, h := range axis.Hierarchies {
			info.AddChild(hierarchyInfo(h))
		}
		out = append(out, info)
	}
	return out
}

// SlicerAxisInfo describes the slicer axis. Statements never carry a
// WHERE clause the engine honors, so it has no hierarchies.
func (t *Tools) SlicerAxisInfo(_ *QueryContext, _ *Result) *etree.Element {
	info := etree.NewElement("AxisInfo")
	info.CreateAttr("name", SlicerAxis)
	return info
}

// Axes renders the tuples of each query axis.
func (t *Tools) Axes(_ *QueryContext, res *Result) []*etree.Element {
	out := make([]*etree.Element, 0, len(res.Axes))
	for _, axis := range res.Axes {
		el := etree.NewElement("Axis")
		el.CreateAttr("name", axis.Name)
		tuples := el.CreateElement("Tuples")
		for _, tuple := range axis.Tuples {
			tu := tuples.CreateElement("Tuple")
			for _, m := range tuple {
				tu.AddChild(member(m))
			}
		}
		out = append(out, el)
	}
	return out
}

// SlicerAxis renders the empty slicer axis.
func (t *Tools) SlicerAxis(_ *QueryContext, _ *Result) *etree.Element {
	el := etree.NewElement("Axis")
	el.CreateAttr("name", SlicerAxis)
	el.CreateElement("Tuples").CreateElement("Tuple")
	return el
}

// CellData renders one Cell element per result cell.
func (t *Tools) CellData(qc *QueryContext, res *Result) []*etree.Element {
	out := make([]*etree.Element, 0, len(res.Cells))
	for _, c := range res.Cells {
		cell := etree.NewElement("Cell")
		cell.CreateAttr("CellOrdinal", strconv.Itoa(c.Ordinal))
		value := formatValue(c.Value)

		v := cell.CreateElement("Value")
		v.CreateAttr("xsi:type", "xsd:double")
		v.SetText(value)
		if !qc.ConvertToFormulas {
			cell.CreateElement("FmtValue").SetText(value)
			cell.CreateElement("FormatString").SetText(c.FormatString)
		}
		out = append(out, cell)
	}
	return out
}

func hierarchyInfo(hierarchy string) *etree.Element {
	h := etree.NewElement("HierarchyInfo")
	h.CreateAttr("name", hierarchy)
	props := []struct{ tag, name, typ string }{
		{"UName", "MEMBER_UNIQUE_NAME", "xsd:string"},
		{"Caption", "MEMBER_CAPTION", "xsd:string"},
		{"LName", "LEVEL_UNIQUE_NAME", "xsd:string"},
		{"LNum", "LEVEL_NUMBER", "xsd:int"},
		{"DisplayInfo", "DISPLAY_INFO", "xsd:unsignedInt"},
	}
	for _, p := range props {
		el := h.CreateElement(p.tag)
		el.CreateAttr("name", hierarchy+".["+p.name+"]")
		el.CreateAttr("type", p.typ)
	}
	return h
}

func member(m Member) *etree.Element {
	el := etree.NewElement("Member")
	el.CreateAttr("Hierarchy", m.Hierarchy)
	el.CreateElement("UName").SetText(m.UniqueName)
	el.CreateElement("Caption").SetText(m.Caption)
	el.CreateElement("LName").SetText(m.LevelName)
	el.CreateElement("LNum").SetText(strconv.Itoa(m.LevelNumber))
	el.CreateElement("DisplayInfo").SetText("0")
	return el
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
