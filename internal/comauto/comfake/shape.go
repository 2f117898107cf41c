package comfake

import (
	"fmt"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// shapesCol is a Slide.Shapes collection.
type shapesCol struct {
	base
	slide *Slide
}

func (sc *shapesCol) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := sc.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Count":
		return comauto.NewVariant(len(sc.slide.shapes)), nil
	case "Item":
		return sc.itemLocked(argAt(args, 0))
	}
	return comauto.Variant{}, memberNotFound("Shapes", name)
}

func (sc *shapesCol) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := sc.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Item":
		return sc.itemLocked(argAt(args, 0))
	case "AddShape":
		// AddShape(Type, Left, Top, Width, Height)
		sh := sc.slide.addShapeLocked(1, "Shape")
		sh.autoShapeType = asInt(argAt(args, 0))
		sh.left = asFloat(argAt(args, 1))
		sh.top = asFloat(argAt(args, 2))
		sh.width = asFloat(argAt(args, 3))
		sh.height = asFloat(argAt(args, 4))
		sh.hasTextFrame = true
		return comauto.NewVariant(sh), nil
	case "AddTextbox":
		// AddTextbox(Orientation, Left, Top, Width, Height)
		sh := sc.slide.addShapeLocked(17, "TextBox")
		sh.left = asFloat(argAt(args, 1))
		sh.top = asFloat(argAt(args, 2))
		sh.width = asFloat(argAt(args, 3))
		sh.height = asFloat(argAt(args, 4))
		sh.hasTextFrame = true
		return comauto.NewVariant(sh), nil
	case "AddPicture":
		// AddPicture(FileName, LinkToFile, SaveWithDocument, Left, Top, Width, Height)
		sh := sc.slide.addShapeLocked(13, "Picture")
		sh.pictureFile = asString(argAt(args, 0))
		sh.left = asFloat(argAt(args, 3))
		sh.top = asFloat(argAt(args, 4))
		sh.width = asFloat(argAt(args, 5))
		sh.height = asFloat(argAt(args, 6))
		if sh.width < 0 {
			sh.width = 320 // pretend native size
		}
		if sh.height < 0 {
			sh.height = 240
		}
		return comauto.NewVariant(sh), nil
	case "AddTable":
		// AddTable(NumRows, NumColumns, Left, Top, Width, Height)
		rows := asInt(argAt(args, 0))
		cols := asInt(argAt(args, 1))
		sh := sc.slide.addShapeLocked(19, "Table")
		sh.left = asFloat(argAt(args, 2))
		sh.top = asFloat(argAt(args, 3))
		sh.width = asFloat(argAt(args, 4))
		sh.height = asFloat(argAt(args, 5))
		sh.table = newFakeTableLocked(sc.slide, rows, cols, sh.width, sh.height)
		return comauto.NewVariant(sh), nil
	case "AddChart2":
		// AddChart2(Style, Type, Left, Top, Width, Height)
		sh := sc.slide.addShapeLocked(3, "Chart")
		sh.left = asFloat(argAt(args, 2))
		sh.top = asFloat(argAt(args, 3))
		sh.width = asFloat(argAt(args, 4))
		sh.height = asFloat(argAt(args, 5))
		sh.chart = newFakeChart(asInt(argAt(args, 1)))
		return comauto.NewVariant(sh), nil
	case "AddMediaObject2":
		// AddMediaObject2(FileName, LinkToFile, SaveWithDocument, Left, Top[, Width, Height])
		sh := sc.slide.addShapeLocked(16, "Media")
		sh.mediaFile = asString(argAt(args, 0))
		sh.left = asFloat(argAt(args, 3))
		sh.top = asFloat(argAt(args, 4))
		sh.width, sh.height = 320, 240
		if len(args) >= 7 {
			sh.width = asFloat(argAt(args, 5))
			sh.height = asFloat(argAt(args, 6))
		}
		sh.volume = 0.5
		return comauto.NewVariant(sh), nil
	case "AddLine":
		// AddLine(BeginX, BeginY, EndX, EndY)
		sh := sc.slide.addShapeLocked(9, "Straight Connector")
		sh.left = asFloat(argAt(args, 0))
		sh.top = asFloat(argAt(args, 1))
		sh.width = asFloat(argAt(args, 2)) - sh.left
		sh.height = asFloat(argAt(args, 3)) - sh.top
		return comauto.NewVariant(sh), nil
	}
	return comauto.Variant{}, memberNotFound("Shapes", name)
}

func (sc *shapesCol) itemLocked(arg interface{}) (comauto.Variant, error) {
	if name, ok := arg.(string); ok {
		for _, sh := range sc.slide.shapes {
			if sh.name == name {
				return comauto.NewVariant(sh), nil
			}
		}
		return comauto.Variant{}, &comerr.RawError{
			HResult:     0x80020009,
			Message:     "Invalid request.",
			Source:      "Microsoft PowerPoint",
			Description: fmt.Sprintf("Shapes.Item : The item with the specified name wasn't found: %q.", name),
		}
	}
	idx := asInt(arg)
	if idx < 1 || idx > len(sc.slide.shapes) {
		return comauto.Variant{}, &comerr.RawError{
			HResult:     0x80020009,
			Message:     "Invalid request.",
			Source:      "Microsoft PowerPoint",
			Description: fmt.Sprintf("Shapes.Item : Shape index out of range: %d.", idx),
		}
	}
	return comauto.NewVariant(sc.slide.shapes[idx-1]), nil
}

func (s *Slide) addShapeLocked(shapeType int, prefix string) *Shape {
	s.nextID++
	sh := &Shape{
		base:      base{s.app, "Shape"},
		slide:     s,
		id:        s.nextID,
		name:      fmt.Sprintf("%s %d", prefix, s.nextID),
		shapeType: shapeType,
		fontSize:  18,
		fontName:  "Calibri",
	}
	s.shapes = append(s.shapes, sh)
	return sh
}

// Shape models one shape with the text, fill and line state the handlers
// read back.
type Shape struct {
	base
	slide *Slide

	id            int
	name          string
	shapeType     int
	autoShapeType int
	pictureFile   string

	left, top, width, height float64

	hasTextFrame bool
	text         string
	alignment    int
	vertAnchor   int // MsoVerticalAnchor; zero means the msoAnchorTop default

	fontName   string
	fontSize   float64
	fontBold   int
	fontItalic int
	fontRGB    int

	fillVisible      int
	fillFore         int
	fillBack         int
	fillTransparency float64
	gradientStyle    int

	lineVisible int
	lineColor   int
	lineWeight  float64

	table *fakeTable
	chart *fakeChart

	mediaFile string
	volume    float64
	muted     int
	fadeIn    float64
	fadeOut   float64
	loop      int
	hideWhilePaused int
}

func (sh *Shape) zOrderLocked() int {
	for i, cur := range sh.slide.shapes {
		if cur == sh {
			return i + 1
		}
	}
	return 0
}

// Text returns the shape's text for assertions.
func (sh *Shape) Text() string {
	sh.app.mu.Lock()
	defer sh.app.mu.Unlock()
	return sh.text
}

// TableMerges lists the recorded cell merges for assertions.
func (sh *Shape) TableMerges() []string {
	sh.app.mu.Lock()
	defer sh.app.mu.Unlock()
	if sh.table == nil {
		return nil
	}
	out := make([]string, len(sh.table.merges))
	copy(out, sh.table.merges)
	return out
}

// TableStyle returns the applied style GUID for assertions.
func (sh *Shape) TableStyle() string {
	sh.app.mu.Lock()
	defer sh.app.mu.Unlock()
	if sh.table == nil {
		return ""
	}
	return sh.table.style
}

// ChartWorkbookBalance reports how often the chart's grafted workbook was
// opened and closed, for leak assertions.
func (sh *Shape) ChartWorkbookBalance() (opens, closes int) {
	sh.app.mu.Lock()
	defer sh.app.mu.Unlock()
	if sh.chart == nil {
		return 0, 0
	}
	return sh.chart.workbookOpens, sh.chart.workbookCloses
}

// MediaSnapshot reports the playback state of a media shape.
type MediaSnapshot struct {
	File    string
	Volume  float64
	Muted   bool
	FadeIn  float64
	FadeOut float64
	Loop    bool
	Hidden  bool
}

func (sh *Shape) Media() MediaSnapshot {
	sh.app.mu.Lock()
	defer sh.app.mu.Unlock()
	return MediaSnapshot{
		File:    sh.mediaFile,
		Volume:  sh.volume,
		Muted:   sh.muted == triTrue,
		FadeIn:  sh.fadeIn,
		FadeOut: sh.fadeOut,
		Loop:    sh.loop == triTrue,
		Hidden:  sh.hideWhilePaused == triTrue,
	}
}

func (sh *Shape) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := sh.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Name":
		return comauto.NewVariant(sh.name), nil
	case "Id":
		return comauto.NewVariant(sh.id), nil
	case "Type":
		return comauto.NewVariant(sh.shapeType), nil
	case "AutoShapeType":
		return comauto.NewVariant(sh.autoShapeType), nil
	case "ZOrderPosition":
		return comauto.NewVariant(sh.zOrderLocked()), nil
	case "Left":
		return comauto.NewVariant(sh.left), nil
	case "Top":
		return comauto.NewVariant(sh.top), nil
	case "Width":
		return comauto.NewVariant(sh.width), nil
	case "Height":
		return comauto.NewVariant(sh.height), nil
	case "HasTextFrame":
		if sh.hasTextFrame {
			return comauto.NewVariant(triTrue), nil
		}
		return comauto.NewVariant(triFalse), nil
	case "TextFrame":
		return comauto.NewVariant(&textFrame{base{a, "TextFrame"}, sh}), nil
	case "Fill":
		return comauto.NewVariant(&fillFormat{base{a, "FillFormat"}, sh}), nil
	case "Line":
		return comauto.NewVariant(&lineFormat{base{a, "LineFormat"}, sh}), nil
	case "HasTable":
		if sh.table != nil {
			return comauto.NewVariant(triTrue), nil
		}
		return comauto.NewVariant(triFalse), nil
	case "Table":
		if sh.table == nil {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80048240,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "Shape.Table : This member can only be accessed for a table.",
			}
		}
		return comauto.NewVariant(&tableObj{base{a, "Table"}, sh}), nil
	case "HasChart":
		if sh.chart != nil {
			return comauto.NewVariant(triTrue), nil
		}
		return comauto.NewVariant(triFalse), nil
	case "Chart":
		if sh.chart == nil {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80048240,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "Shape.Chart : This member can only be accessed for a chart.",
			}
		}
		return comauto.NewVariant(&chartObj{base{a, "Chart"}, sh}), nil
	case "MediaFormat":
		if sh.shapeType != 16 {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80048240,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "Shape.MediaFormat : This member can only be accessed for media objects.",
			}
		}
		return comauto.NewVariant(&mediaFormat{base{a, "MediaFormat"}, sh}), nil
	case "AnimationSettings":
		return comauto.NewVariant(&animationSettings{base{a, "AnimationSettings"}, sh}), nil
	}
	return comauto.Variant{}, memberNotFound("Shape", name)
}

func (sh *Shape) Put(name string, value interface{}) error {
	a := sh.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "Name":
		sh.name = asString(value)
	case "Left":
		sh.left = asFloat(value)
	case "Top":
		sh.top = asFloat(value)
	case "Width":
		sh.width = asFloat(value)
	case "Height":
		sh.height = asFloat(value)
	default:
		return memberNotFound("Shape", name)
	}
	return nil
}

func (sh *Shape) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := sh.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Delete":
		idx := sh.zOrderLocked()
		if idx > 0 {
			sh.slide.shapes = append(sh.slide.shapes[:idx-1], sh.slide.shapes[idx:]...)
		}
		return comauto.Variant{}, nil
	case "ZOrder":
		cmd := asInt(argAt(args, 0))
		idx := sh.zOrderLocked()
		shapes := sh.slide.shapes
		if idx > 0 {
			shapes = append(shapes[:idx-1], shapes[idx:]...)
			switch cmd {
			case 0: // msoBringToFront
				shapes = append(shapes, sh)
			case 1: // msoSendToBack
				shapes = append([]*Shape{sh}, shapes...)
			default:
				shapes = append(shapes, sh)
			}
			sh.slide.shapes = shapes
		}
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Shape", name)
}

type textFrame struct {
	base
	shape *Shape
}

func (tf *textFrame) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := tf.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "HasText":
		if tf.shape.text != "" {
			return comauto.NewVariant(triTrue), nil
		}
		return comauto.NewVariant(triFalse), nil
	case "TextRange":
		return comauto.NewVariant(&textRange{base{a, "TextRange"}, tf.shape}), nil
	case "VerticalAnchor":
		if tf.shape.vertAnchor == 0 {
			return comauto.NewVariant(1), nil // msoAnchorTop
		}
		return comauto.NewVariant(tf.shape.vertAnchor), nil
	}
	return comauto.Variant{}, memberNotFound("TextFrame", name)
}

func (tf *textFrame) Put(name string, value interface{}) error {
	a := tf.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	if name == "VerticalAnchor" {
		tf.shape.vertAnchor = asInt(value)
		return nil
	}
	return memberNotFound("TextFrame", name)
}

type textRange struct {
	base
	shape *Shape
}

func (tr *textRange) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := tr.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Text":
		return comauto.NewVariant(tr.shape.text), nil
	case "Font":
		return comauto.NewVariant(&font{base{a, "Font"}, tr.shape}), nil
	case "ParagraphFormat":
		return comauto.NewVariant(&paragraphFormat{base{a, "ParagraphFormat"}, tr.shape}), nil
	case "Length":
		return comauto.NewVariant(len(tr.shape.text)), nil
	}
	return comauto.Variant{}, memberNotFound("TextRange", name)
}

func (tr *textRange) Put(name string, value interface{}) error {
	a := tr.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	if name == "Text" {
		tr.shape.text = asString(value)
		return nil
	}
	return memberNotFound("TextRange", name)
}

type font struct {
	base
	shape *Shape
}

func (f *font) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := f.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Name":
		return comauto.NewVariant(f.shape.fontName), nil
	case "Size":
		return comauto.NewVariant(f.shape.fontSize), nil
	case "Bold":
		return comauto.NewVariant(f.shape.fontBold), nil
	case "Italic":
		return comauto.NewVariant(f.shape.fontItalic), nil
	case "Color":
		return comauto.NewVariant(&fontColor{base{a, "ColorFormat"}, f.shape}), nil
	}
	return comauto.Variant{}, memberNotFound("Font", name)
}

func (f *font) Put(name string, value interface{}) error {
	a := f.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Name", "NameFarEast":
		f.shape.fontName = asString(value)
	case "Size":
		f.shape.fontSize = asFloat(value)
	case "Bold":
		f.shape.fontBold = asTri(value)
	case "Italic":
		f.shape.fontItalic = asTri(value)
	default:
		return memberNotFound("Font", name)
	}
	return nil
}

type fontColor struct {
	base
	shape *Shape
}

func (c *fontColor) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		return comauto.NewVariant(c.shape.fontRGB), nil
	}
	return comauto.Variant{}, memberNotFound("ColorFormat", name)
}

func (c *fontColor) Put(name string, value interface{}) error {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		c.shape.fontRGB = asInt(value)
		return nil
	}
	return memberNotFound("ColorFormat", name)
}

type paragraphFormat struct {
	base
	shape *Shape
}

func (p *paragraphFormat) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Alignment" {
		p.app.mu.Lock()
		defer p.app.mu.Unlock()
		return comauto.NewVariant(p.shape.alignment), nil
	}
	return comauto.Variant{}, memberNotFound("ParagraphFormat", name)
}

func (p *paragraphFormat) Put(name string, value interface{}) error {
	if name == "Alignment" {
		p.app.mu.Lock()
		defer p.app.mu.Unlock()
		p.shape.alignment = asInt(value)
		return nil
	}
	return memberNotFound("ParagraphFormat", name)
}

type fillFormat struct {
	base
	shape *Shape
}

func (f *fillFormat) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := f.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Visible":
		return comauto.NewVariant(f.shape.fillVisible), nil
	case "Transparency":
		return comauto.NewVariant(f.shape.fillTransparency), nil
	case "ForeColor":
		return comauto.NewVariant(&fillColor{base{a, "ColorFormat"}, f.shape, false}), nil
	case "BackColor":
		return comauto.NewVariant(&fillColor{base{a, "ColorFormat"}, f.shape, true}), nil
	}
	return comauto.Variant{}, memberNotFound("FillFormat", name)
}

func (f *fillFormat) Put(name string, value interface{}) error {
	a := f.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Visible":
		f.shape.fillVisible = asTri(value)
	case "Transparency":
		f.shape.fillTransparency = asFloat(value)
	default:
		return memberNotFound("FillFormat", name)
	}
	return nil
}

func (f *fillFormat) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := f.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Solid":
		f.shape.fillVisible = triTrue
		f.shape.gradientStyle = 0
		return comauto.Variant{}, nil
	case "TwoColorGradient":
		f.shape.fillVisible = triTrue
		f.shape.gradientStyle = asInt(argAt(args, 0))
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("FillFormat", name)
}

type fillColor struct {
	base
	shape *Shape
	back  bool
}

func (c *fillColor) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		if c.back {
			return comauto.NewVariant(c.shape.fillBack), nil
		}
		return comauto.NewVariant(c.shape.fillFore), nil
	}
	return comauto.Variant{}, memberNotFound("ColorFormat", name)
}

func (c *fillColor) Put(name string, value interface{}) error {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		if c.back {
			c.shape.fillBack = asInt(value)
		} else {
			c.shape.fillFore = asInt(value)
		}
		return nil
	}
	return memberNotFound("ColorFormat", name)
}

type lineFormat struct {
	base
	shape *Shape
}

func (l *lineFormat) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := l.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Visible":
		return comauto.NewVariant(l.shape.lineVisible), nil
	case "Weight":
		return comauto.NewVariant(l.shape.lineWeight), nil
	case "ForeColor":
		return comauto.NewVariant(&lineColor{base{a, "ColorFormat"}, l.shape}), nil
	}
	return comauto.Variant{}, memberNotFound("LineFormat", name)
}

func (l *lineFormat) Put(name string, value interface{}) error {
	a := l.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Visible":
		l.shape.lineVisible = asTri(value)
	case "Weight":
		l.shape.lineWeight = asFloat(value)
	default:
		return memberNotFound("LineFormat", name)
	}
	return nil
}

type mediaFormat struct {
	base
	shape *Shape
}

func (m *mediaFormat) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := m.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Volume":
		return comauto.NewVariant(m.shape.volume), nil
	case "Muted":
		return comauto.NewVariant(m.shape.muted), nil
	case "FadeInDuration":
		return comauto.NewVariant(m.shape.fadeIn), nil
	case "FadeOutDuration":
		return comauto.NewVariant(m.shape.fadeOut), nil
	}
	return comauto.Variant{}, memberNotFound("MediaFormat", name)
}

func (m *mediaFormat) Put(name string, value interface{}) error {
	a := m.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "Volume":
		m.shape.volume = asFloat(value)
	case "Muted":
		m.shape.muted = asTri(value)
	case "FadeInDuration":
		m.shape.fadeIn = asFloat(value)
	case "FadeOutDuration":
		m.shape.fadeOut = asFloat(value)
	default:
		return memberNotFound("MediaFormat", name)
	}
	return nil
}

type animationSettings struct {
	base
	shape *Shape
}

func (s *animationSettings) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "PlaySettings" {
		return comauto.NewVariant(&playSettings{base{s.app, "PlaySettings"}, s.shape}), nil
	}
	return comauto.Variant{}, memberNotFound("AnimationSettings", name)
}

type playSettings struct {
	base
	shape *Shape
}

func (p *playSettings) Put(name string, value interface{}) error {
	a := p.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "LoopUntilStopped":
		p.shape.loop = asTri(value)
	case "HideWhileNotPlaying":
		p.shape.hideWhilePaused = asTri(value)
	default:
		return memberNotFound("PlaySettings", name)
	}
	return nil
}

type lineColor struct {
	base
	shape *Shape
}

func (c *lineColor) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		return comauto.NewVariant(c.shape.lineColor), nil
	}
	return comauto.Variant{}, memberNotFound("ColorFormat", name)
}

func (c *lineColor) Put(name string, value interface{}) error {
	if name == "RGB" {
		c.app.mu.Lock()
		defer c.app.mu.Unlock()
		c.shape.lineColor = asInt(value)
		return nil
	}
	return memberNotFound("ColorFormat", name)
}
