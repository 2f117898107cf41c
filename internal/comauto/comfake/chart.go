package comfake

import (
	"fmt"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// fakeChart models a chart plus the worksheet grid PowerPoint grafts onto
// it. SetSourceData rebuilds categories and series from the grid, so a
// write-then-read round trip behaves like the real thing.
type fakeChart struct {
	chartType  int
	hasTitle   int
	title      string
	hasLegend  int
	legendPos  int
	chartStyle int

	categories []string
	series     []*fakeSeries

	sheet          map[[2]int]interface{}
	maxRow, maxCol int

	workbookOpens  int
	workbookCloses int
}

type fakeSeries struct {
	name          string
	values        []float64
	color         int
	hasDataLabels int
	lineWeight    float64
}

// newFakeChart seeds the Office sample data a fresh chart ships with.
func newFakeChart(chartType int) *fakeChart {
	return &fakeChart{
		chartType:  chartType,
		hasLegend:  triTrue,
		categories: []string{"Category 1", "Category 2", "Category 3", "Category 4"},
		series: []*fakeSeries{
			{name: "Series 1", values: []float64{4.3, 2.5, 3.5, 4.5}},
			{name: "Series 2", values: []float64{2.4, 4.4, 1.8, 2.8}},
			{name: "Series 3", values: []float64{2, 2, 3, 5}},
		},
		sheet: map[[2]int]interface{}{},
	}
}

func chartError(member, desc string) error {
	return &comerr.RawError{
		HResult:     0x80048240,
		Message:     "Invalid request.",
		Source:      "Microsoft PowerPoint",
		Description: fmt.Sprintf("Chart.%s : %s", member, desc),
	}
}

// chartObj is the Shape.Chart COM surface.
type chartObj struct {
	base
	shape *Shape
}

func (c *chartObj) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := c.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	ch := c.shape.chart
	switch name {
	case "ChartType":
		return comauto.NewVariant(ch.chartType), nil
	case "HasTitle":
		return comauto.NewVariant(ch.hasTitle), nil
	case "ChartTitle":
		if ch.hasTitle != triTrue {
			return comauto.Variant{}, chartError("ChartTitle", "There is no title.")
		}
		return comauto.NewVariant(&chartTitle{base{a, "ChartTitle"}, ch}), nil
	case "HasLegend":
		return comauto.NewVariant(ch.hasLegend), nil
	case "Legend":
		if ch.hasLegend != triTrue {
			return comauto.Variant{}, chartError("Legend", "There is no legend.")
		}
		return comauto.NewVariant(&chartLegend{base{a, "Legend"}, ch}), nil
	case "ChartStyle":
		return comauto.NewVariant(ch.chartStyle), nil
	case "ChartData":
		return comauto.NewVariant(&chartData{base{a, "ChartData"}, ch}), nil
	}
	return comauto.Variant{}, memberNotFound("Chart", name)
}

func (c *chartObj) Put(name string, value interface{}) error {
	a := c.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	ch := c.shape.chart
	switch name {
	case "ChartType":
		ch.chartType = asInt(value)
	case "HasTitle":
		ch.hasTitle = asTri(value)
	case "HasLegend":
		ch.hasLegend = asTri(value)
	case "ChartStyle":
		ch.chartStyle = asInt(value)
	default:
		return memberNotFound("Chart", name)
	}
	return nil
}

func (c *chartObj) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := c.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	ch := c.shape.chart
	switch name {
	case "SeriesCollection":
		if len(args) == 0 {
			return comauto.NewVariant(&seriesCol{base{a, "SeriesCollection"}, ch}), nil
		}
		idx := asInt(argAt(args, 0))
		if idx < 1 || idx > len(ch.series) {
			return comauto.Variant{}, chartError("SeriesCollection",
				fmt.Sprintf("Series index out of range: %d (1-%d).", idx, len(ch.series)))
		}
		return comauto.NewVariant(&seriesObj{base{a, "Series"}, ch, ch.series[idx-1]}), nil
	case "SetSourceData":
		ch.rebuildFromSheetLocked()
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Chart", name)
}

// rebuildFromSheetLocked derives categories and series from the worksheet
// grid: categories down column A from row 2, one series per column from B.
func (ch *fakeChart) rebuildFromSheetLocked() {
	ch.categories = nil
	ch.series = nil
	for r := 2; r <= ch.maxRow; r++ {
		ch.categories = append(ch.categories, asString(ch.sheet[[2]int{r, 1}]))
	}
	for c := 2; c <= ch.maxCol; c++ {
		s := &fakeSeries{name: asString(ch.sheet[[2]int{1, c}])}
		for r := 2; r <= ch.maxRow; r++ {
			s.values = append(s.values, asFloat(ch.sheet[[2]int{r, c}]))
		}
		ch.series = append(ch.series, s)
	}
}

type chartTitle struct {
	base
	chart *fakeChart
}

func (t *chartTitle) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Text" {
		t.app.mu.Lock()
		defer t.app.mu.Unlock()
		return comauto.NewVariant(t.chart.title), nil
	}
	return comauto.Variant{}, memberNotFound("ChartTitle", name)
}

func (t *chartTitle) Put(name string, value interface{}) error {
	if name == "Text" {
		t.app.mu.Lock()
		defer t.app.mu.Unlock()
		t.chart.title = asString(value)
		return nil
	}
	return memberNotFound("ChartTitle", name)
}

type chartLegend struct {
	base
	chart *fakeChart
}

func (l *chartLegend) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Position" {
		l.app.mu.Lock()
		defer l.app.mu.Unlock()
		return comauto.NewVariant(l.chart.legendPos), nil
	}
	return comauto.Variant{}, memberNotFound("Legend", name)
}

func (l *chartLegend) Put(name string, value interface{}) error {
	if name == "Position" {
		l.app.mu.Lock()
		defer l.app.mu.Unlock()
		l.chart.legendPos = asInt(value)
		return nil
	}
	return memberNotFound("Legend", name)
}

type seriesCol struct {
	base
	chart *fakeChart
}

func (s *seriesCol) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Count" {
		s.app.mu.Lock()
		defer s.app.mu.Unlock()
		return comauto.NewVariant(len(s.chart.series)), nil
	}
	return comauto.Variant{}, memberNotFound("SeriesCollection", name)
}

type seriesObj struct {
	base
	chart  *fakeChart
	series *fakeSeries
}

func (s *seriesObj) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := s.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Name":
		return comauto.NewVariant(s.series.name), nil
	case "Values":
		out := make([]interface{}, len(s.series.values))
		for i, v := range s.series.values {
			out[i] = v
		}
		return comauto.NewVariant(out), nil
	case "XValues":
		out := make([]interface{}, len(s.chart.categories))
		for i, v := range s.chart.categories {
			out[i] = v
		}
		return comauto.NewVariant(out), nil
	case "HasDataLabels":
		return comauto.NewVariant(s.series.hasDataLabels), nil
	case "Format":
		return comauto.NewVariant(&seriesFormat{base{a, "ChartFormat"}, s.series}), nil
	}
	return comauto.Variant{}, memberNotFound("Series", name)
}

func (s *seriesObj) Put(name string, value interface{}) error {
	if name == "HasDataLabels" {
		s.app.mu.Lock()
		defer s.app.mu.Unlock()
		s.series.hasDataLabels = asTri(value)
		return nil
	}
	return memberNotFound("Series", name)
}

type seriesFormat struct {
	base
	series *fakeSeries
}

func (f *seriesFormat) Get(name string, args ...interface{}) (comauto.Variant, error) {
	switch name {
	case "Fill":
		return comauto.NewVariant(&seriesFill{base{f.app, "FillFormat"}, f.series}), nil
	case "Line":
		return comauto.NewVariant(&seriesLine{base{f.app, "LineFormat"}, f.series}), nil
	}
	return comauto.Variant{}, memberNotFound("ChartFormat", name)
}

type seriesFill struct {
	base
	series *fakeSeries
}

func (f *seriesFill) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "ForeColor" {
		return comauto.NewVariant(&seriesColor{base{f.app, "ColorFormat"}, f.series}), nil
	}
	return comauto.Variant{}, memberNotFound("FillFormat", name)
}

type seriesColor struct {
	base
	series *fakeSeries
}

func (c *seriesColor) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		return comauto.NewVariant(c.series.color), nil
	}
	return comauto.Variant{}, memberNotFound("ColorFormat", name)
}

func (c *seriesColor) Put(name string, value interface{}) error {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		c.series.color = asInt(value)
		return nil
	}
	return memberNotFound("ColorFormat", name)
}

type seriesLine struct {
	base
	series *fakeSeries
}

func (l *seriesLine) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Weight" {
		l.app.mu.Lock()
		defer l.app.mu.Unlock()
		return comauto.NewVariant(l.series.lineWeight), nil
	}
	return comauto.Variant{}, memberNotFound("LineFormat", name)
}

func (l *seriesLine) Put(name string, value interface{}) error {
	if name == "Weight" {
		l.app.mu.Lock()
		defer l.app.mu.Unlock()
		l.series.lineWeight = asFloat(value)
		return nil
	}
	return memberNotFound("LineFormat", name)
}

// chartData / chartWorkbook / chartWorksheet model the grafted Excel
// surface just far enough for set-data round trips and leak assertions.
type chartData struct {
	base
	chart *fakeChart
}

func (d *chartData) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Workbook" {
		return comauto.NewVariant(&chartWorkbook{base{d.app, "Workbook"}, d.chart}), nil
	}
	return comauto.Variant{}, memberNotFound("ChartData", name)
}

func (d *chartData) Call(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Activate" {
		d.app.mu.Lock()
		defer d.app.mu.Unlock()
		d.chart.workbookOpens++
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("ChartData", name)
}

type chartWorkbook struct {
	base
	chart *fakeChart
}

func (w *chartWorkbook) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Worksheets" {
		return comauto.NewVariant(&chartWorksheet{base{w.app, "Worksheet"}, w.chart}), nil
	}
	return comauto.Variant{}, memberNotFound("Workbook", name)
}

func (w *chartWorkbook) Call(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Close" {
		w.app.mu.Lock()
		defer w.app.mu.Unlock()
		w.chart.workbookCloses++
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Workbook", name)
}

type chartWorksheet struct {
	base
	chart *fakeChart
}

func (ws *chartWorksheet) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := ws.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == "Cells" {
		if len(args) == 0 {
			return comauto.NewVariant(&sheetRange{base{a, "Range"}, ws.chart}), nil
		}
		row := asInt(argAt(args, 0))
		col := asInt(argAt(args, 1))
		return comauto.NewVariant(&sheetCell{base{a, "Range"}, ws.chart, row, col}), nil
	}
	return comauto.Variant{}, memberNotFound("Worksheet", name)
}

type sheetRange struct {
	base
	chart *fakeChart
}

func (r *sheetRange) Call(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Clear" {
		r.app.mu.Lock()
		defer r.app.mu.Unlock()
		r.chart.sheet = map[[2]int]interface{}{}
		r.chart.maxRow, r.chart.maxCol = 0, 0
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Range", name)
}

type sheetCell struct {
	base
	chart *fakeChart
	row   int
	col   int
}

func (c *sheetCell) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Value" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		return comauto.NewVariant(c.chart.sheet[[2]int{c.row, c.col}]), nil
	}
	return comauto.Variant{}, memberNotFound("Range", name)
}

func (c *sheetCell) Put(name string, value interface{}) error {
	if name == "Value" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		c.chart.sheet[[2]int{c.row, c.col}] = value
		if c.row > c.chart.maxRow {
			c.chart.maxRow = c.row
		}
		if c.col > c.chart.maxCol {
			c.chart.maxCol = c.col
		}
		return nil
	}
	return memberNotFound("Range", name)
}
