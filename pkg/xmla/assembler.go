package xmla

import (
	"time"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/execute"
)

// TimestampLayout is the format of LastDataUpdate and LastSchemaUpdate.
const TimestampLayout = "2006-01-02T15:04:05"

// Renderer produces the fragments of a multidimensional dataset.
// *execute.Tools implements it. Every call must return new elements.
type Renderer interface {
	Schema() *etree.Element
	CellInfo(qc *execute.QueryContext, res *execute.Result) *etree.Element
	AxesInfo(qc *execute.QueryContext, res *execute.Result) []*etree.Element
	SlicerAxisInfo(qc *execute.QueryContext, res *execute.Result) *etree.Element
	Axes(qc *execute.QueryContext, res *execute.Result) []*etree.Element
	SlicerAxis(qc *execute.QueryContext, res *execute.Result) *etree.Element
	CellData(qc *execute.QueryContext, res *execute.Result) []*etree.Element
}

// Assembler builds Execute response bodies.
type Assembler struct {
	renderer Renderer
	now      func() time.Time
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithClock sets the clock used for the cube update timestamps.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssembler creates an assembler rendering through r.
func NewAssembler(r Renderer, opts ...AssemblerOption) *Assembler {
	a := &Assembler{renderer: r, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EmptyExecuteResponse returns the body sent for an empty statement:
// <return><root xmlns="urn:schemas-microsoft-com:xml-analysis:empty"/></return>.
func (a *Assembler) EmptyExecuteResponse() *etree.Element {
	ret := etree.NewElement("return")
	ret.CreateElement("root").CreateAttr("xmlns", EmptyNamespace)
	return ret
}

// BuildExecuteResponse assembles the mddataset for one Execute call.
//
// The layout is fixed and clients depend on it:
//
//	return
//	  root (mddataset, xsd, xsi namespaces)
//	    xs:schema
//	    OlapInfo
//	      CubeInfo/Cube: CubeName, LastDataUpdate, LastSchemaUpdate
//	      AxesInfo: one AxisInfo per axis, then the slicer AxisInfo
//	      CellInfo
//	    Axes: one Axis per axis, then the slicer Axis
//	    CellData: Cell*
func (a *Assembler) BuildExecuteResponse(qc *execute.QueryContext, res *execute.Result) *etree.Element {
	ret := etree.NewElement("return")
	root := ret.CreateElement("root")
	root.CreateAttr("xmlns", MDDatasetNamespace)
	root.CreateAttr("xmlns:xsd", XSDNamespace)
	root.CreateAttr("xmlns:xsi", XSINamespace)

	root.AddChild(a.renderer.Schema())

	olapInfo := root.CreateElement("OlapInfo")
	olapInfo.AddChild(a.cubeInfo(qc))
	axesInfo := olapInfo.CreateElement("AxesInfo")
	for _, el := range a.renderer.AxesInfo(qc, res) {
		axesInfo.AddChild(el)
	}
	axesInfo.AddChild(a.renderer.SlicerAxisInfo(qc, res))
	olapInfo.AddChild(a.renderer.CellInfo(qc, res))

	axes := root.CreateElement("Axes")
	for _, el := range a.renderer.Axes(qc, res) {
		axes.AddChild(el)
	}
	axes.AddChild(a.renderer.SlicerAxis(qc, res))

	cellData := root.CreateElement("CellData")
	for _, el := range a.renderer.CellData(qc, res) {
		cellData.AddChild(el)
	}
	return ret
}

func (a *Assembler) cubeInfo(qc *execute.QueryContext) *etree.Element {
	stamp := a.now().Format(TimestampLayout)

	info := etree.NewElement("CubeInfo")
	cube := info.CreateElement("Cube")
	cube.CreateElement("CubeName").SetText(qc.Cube.Name)
	for _, tag := range []string{"LastDataUpdate", "LastSchemaUpdate"} {
		el := cube.CreateElement(tag)
		el.CreateAttr("xmlns", EngineNamespace)
		el.SetText(stamp)
	}
	return info
}
