package comfake

import (
	"fmt"
	"sync"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// PutRecord is one recorded property write.
type PutRecord struct {
	Name  string
	Value interface{}
}

// Stub is a scriptable comauto.Object. Lookups go to GetFn/CallFn first,
// then Props; anything unresolved fails with DISP_E_MEMBERNOTFOUND.
type Stub struct {
	mu sync.Mutex

	// ObjName appears in error payloads, e.g. "Application".
	ObjName string
	Props   map[string]interface{}
	GetFn   map[string]func(args ...interface{}) (interface{}, error)
	CallFn  map[string]func(args ...interface{}) (interface{}, error)
	PutErr  map[string]error

	puts     []PutRecord
	releases int
}

func NewStub(name string) *Stub {
	return &Stub{
		ObjName: name,
		Props:   map[string]interface{}{},
		GetFn:   map[string]func(args ...interface{}) (interface{}, error){},
		CallFn:  map[string]func(args ...interface{}) (interface{}, error){},
		PutErr:  map[string]error{},
	}
}

func (s *Stub) Get(name string, args ...interface{}) (comauto.Variant, error) {
	s.mu.Lock()
	fn := s.GetFn[name]
	val, ok := s.Props[name]
	s.mu.Unlock()
	if fn != nil {
		v, err := fn(args...)
		return comauto.NewVariant(v), err
	}
	if ok {
		return comauto.NewVariant(val), nil
	}
	return comauto.Variant{}, memberNotFound(s.ObjName, name)
}

func (s *Stub) Put(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.PutErr[name]; err != nil {
		return err
	}
	s.puts = append(s.puts, PutRecord{Name: name, Value: value})
	s.Props[name] = value
	return nil
}

func (s *Stub) Call(name string, args ...interface{}) (comauto.Variant, error) {
	s.mu.Lock()
	fn := s.CallFn[name]
	s.mu.Unlock()
	if fn != nil {
		v, err := fn(args...)
		return comauto.NewVariant(v), err
	}
	return comauto.Variant{}, memberNotFound(s.ObjName, name)
}

func (s *Stub) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
}

// Puts returns all recorded property writes in order.
func (s *Stub) Puts() []PutRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PutRecord, len(s.puts))
	copy(out, s.puts)
	return out
}

// Releases returns how many times Release has been called.
func (s *Stub) Releases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

func memberNotFound(obj, name string) error {
	return &comerr.RawError{
		HResult:     0x80020003,
		Message:     "Member not found.",
		Source:      obj,
		Description: fmt.Sprintf("%s.%s: member not found", obj, name),
	}
}
