package comfake

import (
	"fmt"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// fakeTable keeps a grid of inner cell shapes; text and formatting on a
// cell route through the same Shape model the standalone shapes use.
type fakeTable struct {
	slide *Slide

	cells      [][]*Shape
	rowHeights []float64
	colWidths  []float64

	style        string
	firstRow     int
	lastRow      int
	firstCol     int
	lastCol      int
	horizBanding int
	vertBanding  int

	merges []string
}

func newFakeTableLocked(s *Slide, rows, cols int, width, height float64) *fakeTable {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &fakeTable{
		slide:      s,
		rowHeights: make([]float64, rows),
		colWidths:  make([]float64, cols),
	}
	for i := range t.rowHeights {
		t.rowHeights[i] = height / float64(rows)
	}
	for i := range t.colWidths {
		t.colWidths[i] = width / float64(cols)
	}
	t.cells = make([][]*Shape, rows)
	for r := range t.cells {
		t.cells[r] = make([]*Shape, cols)
		for c := range t.cells[r] {
			t.cells[r][c] = t.newCellLocked()
		}
	}
	return t
}

// newCellLocked builds the inner shape of one cell. Cell shapes live off
// the slide's shape list; only the table reaches them.
func (t *fakeTable) newCellLocked() *Shape {
	return &Shape{
		base:         base{t.slide.app, "Shape"},
		slide:        t.slide,
		shapeType:    1,
		name:         "Cell",
		hasTextFrame: true,
		fontSize:     18,
		fontName:     "Calibri",
	}
}

func tableRangeError(what string, idx, count int) error {
	return &comerr.RawError{
		HResult:     0x80020009,
		Message:     "Invalid request.",
		Source:      "Microsoft PowerPoint",
		Description: fmt.Sprintf("Table.%s : Index out of range: %d (1-%d).", what, idx, count),
	}
}

// tableObj is the Shape.Table COM surface.
type tableObj struct {
	base
	shape *Shape
}

func (t *tableObj) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := t.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	tbl := t.shape.table
	switch name {
	case "Rows":
		return comauto.NewVariant(&tableAxis{base{a, "Rows"}, tbl, true}), nil
	case "Columns":
		return comauto.NewVariant(&tableAxis{base{a, "Columns"}, tbl, false}), nil
	case "FirstRow":
		return comauto.NewVariant(tbl.firstRow), nil
	case "LastRow":
		return comauto.NewVariant(tbl.lastRow), nil
	case "FirstCol":
		return comauto.NewVariant(tbl.firstCol), nil
	case "LastCol":
		return comauto.NewVariant(tbl.lastCol), nil
	case "HorizBanding":
		return comauto.NewVariant(tbl.horizBanding), nil
	case "VertBanding":
		return comauto.NewVariant(tbl.vertBanding), nil
	}
	return comauto.Variant{}, memberNotFound("Table", name)
}

func (t *tableObj) Put(name string, value interface{}) error {
	a := t.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	tbl := t.shape.table
	switch name {
	case "FirstRow":
		tbl.firstRow = asTri(value)
	case "LastRow":
		tbl.lastRow = asTri(value)
	case "FirstCol":
		tbl.firstCol = asTri(value)
	case "LastCol":
		tbl.lastCol = asTri(value)
	case "HorizBanding":
		tbl.horizBanding = asTri(value)
	case "VertBanding":
		tbl.vertBanding = asTri(value)
	default:
		return memberNotFound("Table", name)
	}
	return nil
}

func (t *tableObj) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := t.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	tbl := t.shape.table
	switch name {
	case "Cell":
		row := asInt(argAt(args, 0))
		col := asInt(argAt(args, 1))
		if row < 1 || row > len(tbl.cells) {
			return comauto.Variant{}, tableRangeError("Cell", row, len(tbl.cells))
		}
		if col < 1 || col > len(tbl.colWidths) {
			return comauto.Variant{}, tableRangeError("Cell", col, len(tbl.colWidths))
		}
		return comauto.NewVariant(&tableCell{base{a, "Cell"}, tbl, row, col}), nil
	case "ApplyStyle":
		tbl.style = asString(argAt(args, 0))
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Table", name)
}

// tableAxis serves both Table.Rows and Table.Columns.
type tableAxis struct {
	base
	table *fakeTable
	rows  bool
}

func (x *tableAxis) countLocked() int {
	if x.rows {
		return len(x.table.rowHeights)
	}
	return len(x.table.colWidths)
}

func (x *tableAxis) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := x.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Count":
		return comauto.NewVariant(x.countLocked()), nil
	case "Item":
		return x.itemLocked(asInt(argAt(args, 0)))
	}
	return comauto.Variant{}, memberNotFound(x.obj, name)
}

func (x *tableAxis) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := x.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Item":
		return x.itemLocked(asInt(argAt(args, 0)))
	case "Add":
		before := 0
		if len(args) > 0 {
			before = asInt(argAt(args, 0))
		}
		return x.addLocked(before)
	}
	return comauto.Variant{}, memberNotFound(x.obj, name)
}

func (x *tableAxis) itemLocked(idx int) (comauto.Variant, error) {
	if idx < 1 || idx > x.countLocked() {
		return comauto.Variant{}, tableRangeError(x.obj, idx, x.countLocked())
	}
	return comauto.NewVariant(&tableLine{base{x.app, x.obj[:len(x.obj)-1]}, x.table, x.rows, idx}), nil
}

func (x *tableAxis) addLocked(before int) (comauto.Variant, error) {
	t := x.table
	count := x.countLocked()
	at := count // zero-based insert position
	if before >= 1 && before <= count {
		at = before - 1
	}
	if x.rows {
		row := make([]*Shape, len(t.colWidths))
		for c := range row {
			row[c] = t.newCellLocked()
		}
		t.cells = append(t.cells, nil)
		copy(t.cells[at+1:], t.cells[at:])
		t.cells[at] = row
		t.rowHeights = append(t.rowHeights, 0)
		copy(t.rowHeights[at+1:], t.rowHeights[at:])
		t.rowHeights[at] = 20
	} else {
		for r := range t.cells {
			t.cells[r] = append(t.cells[r], nil)
			copy(t.cells[r][at+1:], t.cells[r][at:])
			t.cells[r][at] = t.newCellLocked()
		}
		t.colWidths = append(t.colWidths, 0)
		copy(t.colWidths[at+1:], t.colWidths[at:])
		t.colWidths[at] = 100
	}
	return comauto.NewVariant(&tableLine{base{x.app, x.obj[:len(x.obj)-1]}, t, x.rows, at + 1}), nil
}

// tableLine is one Row or Column.
type tableLine struct {
	base
	table *fakeTable
	row   bool
	idx   int
}

func (l *tableLine) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := l.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if l.row && name == "Height" {
		return comauto.NewVariant(l.table.rowHeights[l.idx-1]), nil
	}
	if !l.row && name == "Width" {
		return comauto.NewVariant(l.table.colWidths[l.idx-1]), nil
	}
	return comauto.Variant{}, memberNotFound(l.obj, name)
}

func (l *tableLine) Put(name string, value interface{}) error {
	a := l.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if l.row && name == "Height" {
		l.table.rowHeights[l.idx-1] = asFloat(value)
		return nil
	}
	if !l.row && name == "Width" {
		l.table.colWidths[l.idx-1] = asFloat(value)
		return nil
	}
	return memberNotFound(l.obj, name)
}

func (l *tableLine) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := l.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if name != "Delete" {
		return comauto.Variant{}, memberNotFound(l.obj, name)
	}
	t := l.table
	at := l.idx - 1
	if l.row {
		t.cells = append(t.cells[:at], t.cells[at+1:]...)
		t.rowHeights = append(t.rowHeights[:at], t.rowHeights[at+1:]...)
	} else {
		for r := range t.cells {
			t.cells[r] = append(t.cells[r][:at], t.cells[r][at+1:]...)
		}
		t.colWidths = append(t.colWidths[:at], t.colWidths[at+1:]...)
	}
	return comauto.Variant{}, nil
}

// tableCell is Table.Cell(row, col).
type tableCell struct {
	base
	table *fakeTable
	row   int
	col   int
}

func (c *tableCell) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := c.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == "Shape" {
		return comauto.NewVariant(c.table.cells[c.row-1][c.col-1]), nil
	}
	return comauto.Variant{}, memberNotFound("Cell", name)
}

func (c *tableCell) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := c.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if name != "Merge" {
		return comauto.Variant{}, memberNotFound("Cell", name)
	}
	to, ok := argAt(args, 0).(*tableCell)
	if !ok {
		return comauto.Variant{}, &comerr.RawError{
			HResult:     0x80020005,
			Message:     "Type mismatch.",
			Source:      "Microsoft PowerPoint",
			Description: "Cell.Merge : MergeWith must be a table cell.",
		}
	}
	c.table.merges = append(c.table.merges,
		fmt.Sprintf("(%d,%d)-(%d,%d)", c.row, c.col, to.row, to.col))
	return comauto.Variant{}, nil
}
