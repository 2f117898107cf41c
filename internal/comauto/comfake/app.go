package comfake

import (
	"fmt"
	"strings"
	"sync"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// splitDeckPath splits a presentation path at its last `\` or `/`. The
// handlers feed Windows-style paths through the fake, and on non-Windows
// hosts filepath.Base would not treat `\` as a separator.
func splitDeckPath(path string) (dir, name string) {
	idx := strings.LastIndexAny(path, `\/`)
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

const (
	triTrue  = -1
	triFalse = 0
)

func asInt(v interface{}) int     { return comauto.NewVariant(v).Int() }
func asFloat(v interface{}) float64 { return comauto.NewVariant(v).Float64() }
func asString(v interface{}) string { return comauto.NewVariant(v).String() }
func asBool(v interface{}) bool   { return comauto.NewVariant(v).Bool() }

func asTri(v interface{}) int {
	if asBool(v) {
		return triTrue
	}
	return triFalse
}

func argAt(args []interface{}, i int) interface{} {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// base supplies member-not-found defaults; model types override what the
// object hierarchy actually exposes.
type base struct {
	app *Application
	obj string
}

func (b base) Get(name string, args ...interface{}) (comauto.Variant, error) {
	return comauto.Variant{}, memberNotFound(b.obj, name)
}

func (b base) Put(name string, value interface{}) error {
	return memberNotFound(b.obj, name)
}

func (b base) Call(name string, args ...interface{}) (comauto.Variant, error) {
	return comauto.Variant{}, memberNotFound(b.obj, name)
}

func (b base) Release() {}

// Application is the root of the fake object model. One mutex guards the
// whole tree; sub-objects hold a pointer back here.
type Application struct {
	mu sync.Mutex

	visible     int
	windowState int
	next        int // presentation name counter
	pres        []*Presentation
	active      *Presentation
	shows       []*slideShowWindow

	lastGoto  int
	quitCalls int
	releases  int
	dead      error
}

func NewApplication() *Application {
	return &Application{visible: triFalse, windowState: 1, next: 1}
}

// Kill makes every subsequent member access on the application and all of
// its sub-objects fail as if the process died.
func (a *Application) Kill() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dead = &comerr.RawError{
		HResult: 0x800706BA,
		Message: "The RPC server is unavailable.",
	}
}

func (a *Application) check() error {
	return a.dead
}

func (a *Application) QuitCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quitCalls
}

func (a *Application) Releases() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.releases
}

// VisibleTri returns the raw tri-state Visible value.
func (a *Application) VisibleTri() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// LastGoto returns the slide index of the most recent GotoSlide navigation.
func (a *Application) LastGoto() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastGoto
}

// ActivePres returns the active fake presentation, or nil.
func (a *Application) ActivePres() *Presentation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *Application) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Name":
		return comauto.NewVariant("Microsoft PowerPoint"), nil
	case "Version":
		return comauto.NewVariant("16.0"), nil
	case "Visible":
		return comauto.NewVariant(a.visible), nil
	case "WindowState":
		return comauto.NewVariant(a.windowState), nil
	case "Presentations":
		return comauto.NewVariant(&presentations{base{a, "Presentations"}}), nil
	case "ActivePresentation":
		if a.active == nil {
			return comauto.Variant{}, noActivePresentation()
		}
		return comauto.NewVariant(a.active), nil
	case "ActiveWindow":
		if a.active == nil {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "Application.ActiveWindow : Invalid request.  There is no active window.",
			}
		}
		return comauto.NewVariant(&window{base{a, "DocumentWindow"}}), nil
	case "SlideShowWindows":
		return comauto.NewVariant(&slideShowWindows{base{a, "SlideShowWindows"}}), nil
	}
	return comauto.Variant{}, memberNotFound("Application", name)
}

func (a *Application) Put(name string, value interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "Visible":
		a.visible = asTri(value)
		return nil
	case "WindowState":
		a.windowState = asInt(value)
		return nil
	}
	return memberNotFound("Application", name)
}

func (a *Application) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Quit":
		a.quitCalls++
		a.pres = nil
		a.active = nil
		a.shows = nil
		return comauto.Variant{}, nil
	case "Activate":
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Application", name)
}

func (a *Application) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releases++
}

func noActivePresentation() error {
	return &comerr.RawError{
		HResult:     0x80020009,
		Message:     "Invalid request.",
		Source:      "Microsoft PowerPoint",
		Description: "Application.ActivePresentation : Invalid request.  There is no active presentation.",
	}
}

// presentations is the Application.Presentations collection.
type presentations struct {
	base
}

func (p *presentations) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := p.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Count":
		return comauto.NewVariant(len(a.pres)), nil
	case "Item":
		return a.presItemLocked(argAt(args, 0))
	}
	return comauto.Variant{}, memberNotFound("Presentations", name)
}

func (p *presentations) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := p.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Item":
		return a.presItemLocked(argAt(args, 0))
	case "Add":
		pres := a.newPresentationLocked("", false)
		return comauto.NewVariant(pres), nil
	case "Open":
		// Open(FileName, ReadOnly, Untitled, WithWindow)
		path := asString(argAt(args, 0))
		readOnly := asBool(argAt(args, 1))
		pres := a.newPresentationLocked(path, readOnly)
		return comauto.NewVariant(pres), nil
	}
	return comauto.Variant{}, memberNotFound("Presentations", name)
}

func (a *Application) presItemLocked(arg interface{}) (comauto.Variant, error) {
	switch key := arg.(type) {
	case string:
		for _, pres := range a.pres {
			if pres.name == key || pres.fullName == key {
				return comauto.NewVariant(pres), nil
			}
		}
	default:
		idx := asInt(arg)
		if idx >= 1 && idx <= len(a.pres) {
			return comauto.NewVariant(a.pres[idx-1]), nil
		}
	}
	return comauto.Variant{}, &comerr.RawError{
		HResult:     0x80020009,
		Message:     "Invalid request.",
		Source:      "Microsoft PowerPoint",
		Description: "Presentations.Item : Index out of range.",
	}
}

func (a *Application) newPresentationLocked(path string, readOnly bool) *Presentation {
	pres := &Presentation{
		base:     base{a, "Presentation"},
		saved:    triTrue,
		readOnly: readOnly,
		width:    960,
		height:   540,
		docProps: defaultDocProps(),
	}
	if path != "" {
		pres.fullName = path
		pres.path, pres.name = splitDeckPath(path)
		if src := a.deckByFullNameLocked(path, pres); src != nil {
			// reopening a deck that is already open yields a copy of it,
			// the way Open with Untitled behaves against a saved file
			for _, s := range src.slides {
				dup := pres.addSlideLocked(len(pres.slides)+1, s.layout)
				dup.notes = s.notes
				for _, sh := range s.shapes {
					cp := *sh
					cp.slide = dup
					dup.shapes = append(dup.shapes, &cp)
				}
			}
		} else {
			// opened decks come with one slide so navigation has a target
			pres.addSlideLocked(1, 12)
		}
	} else {
		pres.name = fmt.Sprintf("Presentation%d", a.next)
		a.next++
	}
	a.pres = append(a.pres, pres)
	a.active = pres
	return pres
}

func (a *Application) deckByFullNameLocked(fullName string, skip *Presentation) *Presentation {
	for _, pres := range a.pres {
		if pres != skip && !pres.closed && pres.fullName == fullName {
			return pres
		}
	}
	return nil
}

// Presentation models one open deck.
type Presentation struct {
	base

	name     string
	fullName string
	path     string
	saved    int
	readOnly bool
	width    float64
	height   float64
	slides   []*Slide
	nextID   int

	closed  bool
	saves   int
	exports []ExportRecord

	sections []*fakeSection
	docProps map[string]interface{}
}

// ExportRecord captures one Save/SaveAs/Export-style call for assertions.
type ExportRecord struct {
	Op     string
	Path   string
	Format int
	Filter string
	Width  int
	Height int
	Slide  int
}

func (p *Presentation) Exports() []ExportRecord {
	p.app.mu.Lock()
	defer p.app.mu.Unlock()
	out := make([]ExportRecord, len(p.exports))
	copy(out, p.exports)
	return out
}

func (p *Presentation) Closed() bool {
	p.app.mu.Lock()
	defer p.app.mu.Unlock()
	return p.closed
}

// ShapeAt returns the shape at the 1-based slide/shape indexes, or nil.
func (p *Presentation) ShapeAt(slideIdx, shapeIdx int) *Shape {
	p.app.mu.Lock()
	defer p.app.mu.Unlock()
	if slideIdx < 1 || slideIdx > len(p.slides) {
		return nil
	}
	shapes := p.slides[slideIdx-1].shapes
	if shapeIdx < 1 || shapeIdx > len(shapes) {
		return nil
	}
	return shapes[shapeIdx-1]
}

func (p *Presentation) SlideCount() int {
	p.app.mu.Lock()
	defer p.app.mu.Unlock()
	return len(p.slides)
}

func (p *Presentation) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := p.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Name":
		return comauto.NewVariant(p.name), nil
	case "FullName":
		if p.fullName != "" {
			return comauto.NewVariant(p.fullName), nil
		}
		return comauto.NewVariant(p.name), nil
	case "Path":
		return comauto.NewVariant(p.path), nil
	case "Saved":
		return comauto.NewVariant(p.saved), nil
	case "ReadOnly":
		if p.readOnly {
			return comauto.NewVariant(triTrue), nil
		}
		return comauto.NewVariant(triFalse), nil
	case "Slides":
		return comauto.NewVariant(&slidesCol{base{a, "Slides"}, p}), nil
	case "PageSetup":
		return comauto.NewVariant(&pageSetup{base{a, "PageSetup"}, p}), nil
	case "SlideShowSettings":
		return comauto.NewVariant(&slideShowSettings{bb: base{a, "SlideShowSettings"}, pres: p, showType: 1, start: 1, end: len(p.slides)}), nil
	case "SectionProperties":
		return comauto.NewVariant(&sectionProps{base{a, "SectionProperties"}, p}), nil
	case "BuiltInDocumentProperties":
		return comauto.NewVariant(&docPropsCol{base{a, "DocumentProperties"}, p}), nil
	}
	return comauto.Variant{}, memberNotFound("Presentation", name)
}

func (p *Presentation) Put(name string, value interface{}) error {
	a := p.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "Saved":
		p.saved = asTri(value)
		return nil
	}
	return memberNotFound("Presentation", name)
}

func (p *Presentation) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := p.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Save":
		if p.fullName == "" {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "Presentation.Save : This presentation has never been saved. Use SaveAs.",
			}
		}
		p.saves++
		p.saved = triTrue
		p.exports = append(p.exports, ExportRecord{Op: "Save", Path: p.fullName})
		return comauto.Variant{}, nil
	case "SaveAs":
		path := asString(argAt(args, 0))
		format := asInt(argAt(args, 1))
		p.fullName = path
		p.path, p.name = splitDeckPath(path)
		p.saved = triTrue
		p.saves++
		p.exports = append(p.exports, ExportRecord{Op: "SaveAs", Path: path, Format: format})
		return comauto.Variant{}, nil
	case "Close":
		p.closed = true
		for i, cur := range a.pres {
			if cur == p {
				a.pres = append(a.pres[:i], a.pres[i+1:]...)
				break
			}
		}
		if a.active == p {
			a.active = nil
			if len(a.pres) > 0 {
				a.active = a.pres[len(a.pres)-1]
			}
		}
		return comauto.Variant{}, nil
	case "ExportAsFixedFormat":
		p.exports = append(p.exports, ExportRecord{
			Op:     "ExportAsFixedFormat",
			Path:   asString(argAt(args, 0)),
			Format: asInt(argAt(args, 1)),
		})
		return comauto.Variant{}, nil
	case "Export":
		// Export(Path, FilterName) renders every slide into a directory.
		p.exports = append(p.exports, ExportRecord{
			Op:     "Export",
			Path:   asString(argAt(args, 0)),
			Filter: asString(argAt(args, 1)),
		})
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Presentation", name)
}

func (p *Presentation) addSlideLocked(index, layout int) *Slide {
	p.nextID++
	s := &Slide{
		base:   base{p.app, "Slide"},
		pres:   p,
		id:     255 + p.nextID,
		name:   fmt.Sprintf("Slide%d", p.nextID),
		layout: layout,
	}
	if index < 1 {
		index = 1
	}
	if index > len(p.slides)+1 {
		index = len(p.slides) + 1
	}
	p.slides = append(p.slides, nil)
	copy(p.slides[index:], p.slides[index-1:])
	p.slides[index-1] = s
	return s
}

// pageSetup exposes the deck dimensions in points.
type pageSetup struct {
	base
	pres *Presentation
}

func (ps *pageSetup) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := ps.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "SlideWidth":
		return comauto.NewVariant(ps.pres.width), nil
	case "SlideHeight":
		return comauto.NewVariant(ps.pres.height), nil
	}
	return comauto.Variant{}, memberNotFound("PageSetup", name)
}

func (ps *pageSetup) Put(name string, value interface{}) error {
	a := ps.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "SlideWidth":
		ps.pres.width = asFloat(value)
		return nil
	case "SlideHeight":
		ps.pres.height = asFloat(value)
		return nil
	}
	return memberNotFound("PageSetup", name)
}

// window is the active document window.
type window struct {
	base
}

func (w *window) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := w.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "View":
		return comauto.NewVariant(&docView{base{a, "View"}}), nil
	case "ViewType":
		return comauto.NewVariant(9), nil // ppViewNormal
	case "WindowState":
		return comauto.NewVariant(a.windowState), nil
	case "Selection":
		return comauto.NewVariant(&selection{base{a, "Selection"}}), nil
	}
	return comauto.Variant{}, memberNotFound("DocumentWindow", name)
}

type selection struct {
	base
}

func (s *selection) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Type" {
		s.app.mu.Lock()
		defer s.app.mu.Unlock()
		if s.app.active != nil && len(s.app.active.slides) > 0 {
			return comauto.NewVariant(1), nil // ppSelectionSlides
		}
		return comauto.NewVariant(0), nil
	}
	return comauto.Variant{}, memberNotFound("Selection", name)
}

func (w *window) Put(name string, value interface{}) error {
	a := w.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "WindowState":
		a.windowState = asInt(value)
		return nil
	}
	return memberNotFound("DocumentWindow", name)
}

// docView is the normal-view navigation surface.
type docView struct {
	base
}

func (v *docView) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := v.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Slide":
		if a.active == nil || a.lastGoto < 1 || a.lastGoto > len(a.active.slides) {
			return comauto.Variant{}, noActivePresentation()
		}
		return comauto.NewVariant(a.active.slides[a.lastGoto-1]), nil
	}
	return comauto.Variant{}, memberNotFound("View", name)
}

func (v *docView) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := v.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "GotoSlide":
		idx := asInt(argAt(args, 0))
		if a.active == nil || idx < 1 || idx > len(a.active.slides) {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: fmt.Sprintf("View.GotoSlide : Slide index out of range: %d.", idx),
			}
		}
		a.lastGoto = idx
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("View", name)
}
