package comfake

import (
	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// slideShowSettings carries the run configuration for SlideShowSettings.Run.
type slideShowSettings struct {
	bb       base
	pres     *Presentation
	showType int
	rangeTyp int
	start    int
	end      int
	loop     int
}

func (s *slideShowSettings) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := s.bb.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "ShowType":
		return comauto.NewVariant(s.showType), nil
	case "RangeType":
		return comauto.NewVariant(s.rangeTyp), nil
	case "StartingSlide":
		return comauto.NewVariant(s.start), nil
	case "EndingSlide":
		return comauto.NewVariant(s.end), nil
	case "LoopUntilStopped":
		return comauto.NewVariant(s.loop), nil
	}
	return comauto.Variant{}, memberNotFound("SlideShowSettings", name)
}

func (s *slideShowSettings) Put(name string, value interface{}) error {
	a := s.bb.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return err
	}
	switch name {
	case "ShowType":
		s.showType = asInt(value)
	case "RangeType":
		s.rangeTyp = asInt(value)
	case "StartingSlide":
		s.start = asInt(value)
	case "EndingSlide":
		s.end = asInt(value)
	case "LoopUntilStopped":
		s.loop = asTri(value)
	default:
		return memberNotFound("SlideShowSettings", name)
	}
	return nil
}

func (s *slideShowSettings) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := s.bb.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	if name == "Run" {
		ssw := &slideShowWindow{
			base: base{a, "SlideShowWindow"},
			pres: s.pres,
			pos:  s.start,
			state: 1, // ppSlideShowRunning
		}
		a.shows = append(a.shows, ssw)
		return comauto.NewVariant(ssw), nil
	}
	return comauto.Variant{}, memberNotFound("SlideShowSettings", name)
}

func (s *slideShowSettings) Release() {}

// slideShowWindows is the Application.SlideShowWindows collection.
type slideShowWindows struct {
	base
}

func (w *slideShowWindows) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := w.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Count":
		return comauto.NewVariant(len(a.shows)), nil
	case "Item":
		idx := asInt(argAt(args, 0))
		if idx < 1 || idx > len(a.shows) {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "SlideShowWindows.Item : Index out of range.",
			}
		}
		return comauto.NewVariant(a.shows[idx-1]), nil
	}
	return comauto.Variant{}, memberNotFound("SlideShowWindows", name)
}

func (w *slideShowWindows) Call(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Item" {
		return w.Get(name, args...)
	}
	return comauto.Variant{}, memberNotFound("SlideShowWindows", name)
}

// slideShowWindow is one running show.
type slideShowWindow struct {
	base
	pres  *Presentation
	pos   int
	state int
}

func (w *slideShowWindow) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := w.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	if name == "View" {
		return comauto.NewVariant(&slideShowView{base{a, "SlideShowView"}, w}), nil
	}
	return comauto.Variant{}, memberNotFound("SlideShowWindow", name)
}

// slideShowView navigates a running show.
type slideShowView struct {
	base
	win *slideShowWindow
}

func (v *slideShowView) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := v.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "CurrentShowPosition":
		return comauto.NewVariant(v.win.pos), nil
	case "State":
		return comauto.NewVariant(v.win.state), nil
	case "PointerType":
		return comauto.NewVariant(1), nil
	}
	return comauto.Variant{}, memberNotFound("SlideShowView", name)
}

func (v *slideShowView) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := v.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	switch name {
	case "Next":
		if v.win.pos < len(v.win.pres.slides) {
			v.win.pos++
		} else {
			v.win.state = 5 // ppSlideShowDone
		}
		return comauto.Variant{}, nil
	case "Previous":
		if v.win.pos > 1 {
			v.win.pos--
		}
		return comauto.Variant{}, nil
	case "GotoSlide":
		idx := asInt(argAt(args, 0))
		if idx < 1 || idx > len(v.win.pres.slides) {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: "SlideShowView.GotoSlide : Slide index out of range.",
			}
		}
		v.win.pos = idx
		return comauto.Variant{}, nil
	case "Exit":
		for i, cur := range a.shows {
			if cur == v.win {
				a.shows = append(a.shows[:i], a.shows[i+1:]...)
				break
			}
		}
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("SlideShowView", name)
}
