package comfake

import (
	"fmt"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// slidesCol is a Presentation.Slides collection.
type slidesCol struct {
	base
	pres *Presentation
}

func (sc *slidesCol) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := sc.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Count":
		return comauto.NewVariant(len(sc.pres.slides)), nil
	case "Item":
		return sc.itemLocked(argAt(args, 0))
	}
	return comauto.Variant{}, memberNotFound("Slides", name)
}

func (sc *slidesCol) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := sc.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Item":
		return sc.itemLocked(argAt(args, 0))
	case "Add":
		index := asInt(argAt(args, 0))
		layout := asInt(argAt(args, 1))
		s := sc.pres.addSlideLocked(index, layout)
		return comauto.NewVariant(s), nil
	}
	return comauto.Variant{}, memberNotFound("Slides", name)
}

func (sc *slidesCol) itemLocked(arg interface{}) (comauto.Variant, error) {
	idx := asInt(arg)
	if idx < 1 || idx > len(sc.pres.slides) {
		return comauto.Variant{}, &comerr.RawError{
			HResult:     0x80020009,
			Message:     "Invalid request.",
			Source:      "Microsoft PowerPoint",
			Description: fmt.Sprintf("Slides.Item : Slide index out of range: %d.", idx),
		}
	}
	return comauto.NewVariant(sc.pres.slides[idx-1]), nil
}

// Slide models one slide and its notes text.
type Slide struct {
	base
	pres   *Presentation
	id     int
	name   string
	layout int
	notes  string
	shapes []*Shape
	nextID int
}

func (s *Slide) indexLocked() int {
	for i, cur := range s.pres.slides {
		if cur == s {
			return i + 1
		}
	}
	return 0
}

// Notes returns the slide's notes text.
func (s *Slide) Notes() string {
	s.app.mu.Lock()
	defer s.app.mu.Unlock()
	return s.notes
}

// SetNotes seeds notes text for tests.
func (s *Slide) SetNotes(text string) {
	s.app.mu.Lock()
	defer s.app.mu.Unlock()
	s.notes = text
}

func (s *Slide) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := s.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "SlideIndex", "SlideNumber":
		return comauto.NewVariant(s.indexLocked()), nil
	case "SlideID":
		return comauto.NewVariant(s.id), nil
	case "Name":
		return comauto.NewVariant(s.name), nil
	case "Layout":
		return comauto.NewVariant(s.layout), nil
	case "Shapes":
		return comauto.NewVariant(&shapesCol{base{a, "Shapes"}, s}), nil
	case "NotesPage":
		return comauto.NewVariant(&notesPage{base{a, "SlideRange"}, s}), nil
	}
	return comauto.Variant{}, memberNotFound("Slide", name)
}

func (s *Slide) Put(name string, value interface{}) error {
	a := s.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "Name":
		s.name = asString(value)
		return nil
	case "Layout":
		s.layout = asInt(value)
		return nil
	}
	return memberNotFound("Slide", name)
}

func (s *Slide) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := s.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Delete":
		idx := s.indexLocked()
		if idx > 0 {
			s.pres.slides = append(s.pres.slides[:idx-1], s.pres.slides[idx:]...)
		}
		return comauto.Variant{}, nil
	case "MoveTo":
		to := asInt(argAt(args, 0))
		from := s.indexLocked()
		if from == 0 || to < 1 || to > len(s.pres.slides) {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: fmt.Sprintf("Slide.MoveTo : Slide index out of range: %d.", to),
			}
		}
		s.pres.slides = append(s.pres.slides[:from-1], s.pres.slides[from:]...)
		s.pres.slides = append(s.pres.slides, nil)
		copy(s.pres.slides[to:], s.pres.slides[to-1:])
		s.pres.slides[to-1] = s
		return comauto.Variant{}, nil
	case "Duplicate":
		dup := s.pres.addSlideLocked(s.indexLocked()+1, s.layout)
		dup.notes = s.notes
		for _, sh := range s.shapes {
			cp := *sh
			cp.slide = dup
			dup.shapes = append(dup.shapes, &cp)
		}
		return comauto.NewVariant(&slideRange{base{a, "SlideRange"}, []*Slide{dup}}), nil
	case "Select":
		a.lastGoto = s.indexLocked()
		return comauto.Variant{}, nil
	case "Export":
		s.pres.exports = append(s.pres.exports, ExportRecord{
			Op:     "SlideExport",
			Path:   asString(argAt(args, 0)),
			Filter: asString(argAt(args, 1)),
			Width:  asInt(argAt(args, 2)),
			Height: asInt(argAt(args, 3)),
			Slide:  s.indexLocked(),
		})
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("Slide", name)
}

// slideRange is what Duplicate returns; Item(1) yields the new slide.
type slideRange struct {
	base
	slides []*Slide
}

func (r *slideRange) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := r.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Count":
		return comauto.NewVariant(len(r.slides)), nil
	case "Item":
		idx := asInt(argAt(args, 0))
		if idx < 1 || idx > len(r.slides) {
			return comauto.Variant{}, memberNotFound("SlideRange", name)
		}
		return comauto.NewVariant(r.slides[idx-1]), nil
	case "SlideIndex":
		if len(r.slides) == 1 {
			return comauto.NewVariant(r.slides[0].indexLocked()), nil
		}
	}
	return comauto.Variant{}, memberNotFound("SlideRange", name)
}

func (r *slideRange) Call(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Item" {
		return r.Get(name, args...)
	}
	return comauto.Variant{}, memberNotFound("SlideRange", name)
}

// Notes are reached through NotesPage.Shapes.Placeholders(2), the body
// placeholder of the notes layout.
type notesPage struct {
	base
	slide *Slide
}

func (n *notesPage) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Shapes" {
		return comauto.NewVariant(&notesShapes{base{n.app, "Shapes"}, n.slide}), nil
	}
	return comauto.Variant{}, memberNotFound("SlideRange", name)
}

type notesShapes struct {
	base
	slide *Slide
}

func (n *notesShapes) Get(name string, args ...interface{}) (comauto.Variant, error) {
	switch name {
	case "Placeholders":
		return comauto.NewVariant(&notesPlaceholders{base{n.app, "Placeholders"}, n.slide}), nil
	case "Count":
		return comauto.NewVariant(2), nil
	}
	return comauto.Variant{}, memberNotFound("Shapes", name)
}

type notesPlaceholders struct {
	base
	slide *Slide
}

func (n *notesPlaceholders) Get(name string, args ...interface{}) (comauto.Variant, error) {
	switch name {
	case "Count":
		return comauto.NewVariant(2), nil
	case "Item":
		if asInt(argAt(args, 0)) == 2 {
			return comauto.NewVariant(&notesShape{base{n.app, "Shape"}, n.slide}), nil
		}
		return comauto.NewVariant(NewStub("Shape")), nil
	}
	return comauto.Variant{}, memberNotFound("Placeholders", name)
}

func (n *notesPlaceholders) Call(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Item" {
		return n.Get(name, args...)
	}
	return comauto.Variant{}, memberNotFound("Placeholders", name)
}

type notesShape struct {
	base
	slide *Slide
}

func (n *notesShape) Get(name string, args ...interface{}) (comauto.Variant, error) {
	switch name {
	case "TextFrame":
		return comauto.NewVariant(&notesTextFrame{base{n.app, "TextFrame"}, n.slide}), nil
	case "HasTextFrame":
		return comauto.NewVariant(triTrue), nil
	}
	return comauto.Variant{}, memberNotFound("Shape", name)
}

type notesTextFrame struct {
	base
	slide *Slide
}

func (n *notesTextFrame) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := n.app
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case "HasText":
		if n.slide.notes != "" {
			return comauto.NewVariant(triTrue), nil
		}
		return comauto.NewVariant(triFalse), nil
	case "TextRange":
		return comauto.NewVariant(&notesTextRange{base{a, "TextRange"}, n.slide}), nil
	}
	return comauto.Variant{}, memberNotFound("TextFrame", name)
}

type notesTextRange struct {
	base
	slide *Slide
}

func (n *notesTextRange) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := n.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == "Text" {
		return comauto.NewVariant(n.slide.notes), nil
	}
	return comauto.Variant{}, memberNotFound("TextRange", name)
}

func (n *notesTextRange) Put(name string, value interface{}) error {
	a := n.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if name == "Text" {
		n.slide.notes = asString(value)
		return nil
	}
	return memberNotFound("TextRange", name)
}
