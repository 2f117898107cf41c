package comfake

import (
	"fmt"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// fakeSection is one presentation section. The fake keeps sections as an
// ordered list; FirstSlide is whatever AddSection was given.
type fakeSection struct {
	name       string
	firstSlide int
}

func sectionRangeError(member string, idx, count int) error {
	return &comerr.RawError{
		HResult:     0x80020009,
		Message:     "Invalid request.",
		Source:      "Microsoft PowerPoint",
		Description: fmt.Sprintf("SectionProperties.%s : Section index out of range: %d (1-%d).", member, idx, count),
	}
}

// sectionProps is Presentation.SectionProperties.
type sectionProps struct {
	base
	pres *Presentation
}

func (sp *sectionProps) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := sp.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	sections := sp.pres.sections
	if name == "Count" {
		return comauto.NewVariant(len(sections)), nil
	}
	idx := asInt(argAt(args, 0))
	if idx < 1 || idx > len(sections) {
		return comauto.Variant{}, sectionRangeError(name, idx, len(sections))
	}
	switch name {
	case "Name":
		return comauto.NewVariant(sections[idx-1].name), nil
	case "FirstSlide":
		return comauto.NewVariant(sections[idx-1].firstSlide), nil
	case "SlidesCount":
		last := len(sp.pres.slides)
		if idx < len(sections) {
			last = sections[idx].firstSlide - 1
		}
		count := last - sections[idx-1].firstSlide + 1
		if count < 0 {
			count = 0
		}
		return comauto.NewVariant(count), nil
	}
	return comauto.Variant{}, memberNotFound("SectionProperties", name)
}

func (sp *sectionProps) Call(name string, args ...interface{}) (comauto.Variant, error) {
	a := sp.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	p := sp.pres
	switch name {
	case "AddSection":
		first := asInt(argAt(args, 0))
		section := &fakeSection{name: asString(argAt(args, 1)), firstSlide: first}
		// Sections stay ordered by their first slide.
		at := len(p.sections)
		for i, s := range p.sections {
			if s.firstSlide > first {
				at = i
				break
			}
		}
		p.sections = append(p.sections, nil)
		copy(p.sections[at+1:], p.sections[at:])
		p.sections[at] = section
		return comauto.NewVariant(at + 1), nil
	case "Rename":
		idx := asInt(argAt(args, 0))
		if idx < 1 || idx > len(p.sections) {
			return comauto.Variant{}, sectionRangeError(name, idx, len(p.sections))
		}
		p.sections[idx-1].name = asString(argAt(args, 1))
		return comauto.Variant{}, nil
	case "Move":
		idx := asInt(argAt(args, 0))
		to := asInt(argAt(args, 1))
		if idx < 1 || idx > len(p.sections) {
			return comauto.Variant{}, sectionRangeError(name, idx, len(p.sections))
		}
		if to < 1 || to > len(p.sections) {
			return comauto.Variant{}, sectionRangeError(name, to, len(p.sections))
		}
		moved := p.sections[idx-1]
		p.sections = append(p.sections[:idx-1], p.sections[idx:]...)
		p.sections = append(p.sections, nil)
		copy(p.sections[to:], p.sections[to-1:])
		p.sections[to-1] = moved
		return comauto.Variant{}, nil
	case "Delete":
		idx := asInt(argAt(args, 0))
		if idx < 1 || idx > len(p.sections) {
			return comauto.Variant{}, sectionRangeError(name, idx, len(p.sections))
		}
		p.sections = append(p.sections[:idx-1], p.sections[idx:]...)
		return comauto.Variant{}, nil
	}
	return comauto.Variant{}, memberNotFound("SectionProperties", name)
}

func defaultDocProps() map[string]interface{} {
	return map[string]interface{}{
		"Title":          "",
		"Author":         "",
		"Subject":        "",
		"Keywords":       "",
		"Comments":       "",
		"Category":       "",
		"Company":        "",
		"Last Author":    "",
		"Creation Date":  "2024-01-01 00:00:00",
		"Last Save Time": "2024-01-01 00:00:00",
	}
}

// docPropsCol is Presentation.BuiltInDocumentProperties.
type docPropsCol struct {
	base
	pres *Presentation
}

func (dp *docPropsCol) Get(name string, args ...interface{}) (comauto.Variant, error) {
	a := dp.app
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(); err != nil {
		return comauto.Variant{}, err
	}
	if name == "Item" {
		prop := asString(argAt(args, 0))
		if _, ok := dp.pres.docProps[prop]; !ok {
			return comauto.Variant{}, &comerr.RawError{
				HResult:     0x80020009,
				Message:     "Invalid request.",
				Source:      "Microsoft PowerPoint",
				Description: fmt.Sprintf("DocumentProperties.Item : Unknown property %q.", prop),
			}
		}
		return comauto.NewVariant(&docProp{base{a, "DocumentProperty"}, dp.pres, prop}), nil
	}
	return comauto.Variant{}, memberNotFound("DocumentProperties", name)
}

type docProp struct {
	base
	pres *Presentation
	prop string
}

func (p *docProp) Get(name string, args ...interface{}) (comauto.Variant, error) {
	if name == "Value" {
		p.app.mu.Lock()
		defer p.app.mu.Unlock()
		return comauto.NewVariant(p.pres.docProps[p.prop]), nil
	}
	return comauto.Variant{}, memberNotFound("DocumentProperty", name)
}

func (p *docProp) Put(name string, value interface{}) error {
	if name == "Value" {
		p.app.mu.Lock()
		defer p.app.mu.Unlock()
		p.pres.docProps[p.prop] = value
		return nil
	}
	return memberNotFound("DocumentProperty", name)
}
