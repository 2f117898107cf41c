//go:build windows

package comauto

import (
	"errors"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"pptmcp/internal/comerr"
)

// OLEConnector is the production Connector backed by go-ole. One instance
// serves the whole process; all calls happen on the dispatcher's worker
// thread, which is locked to an OS thread and initialized as a
// single-threaded apartment.
type OLEConnector struct{}

// NewConnector returns the platform Connector.
func NewConnector() (Connector, error) {
	return &OLEConnector{}, nil
}

// InitThread enters a single-threaded COM apartment on the calling thread.
func (c *OLEConnector) InitThread() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return fmt.Errorf("CoInitializeEx: %w", wrapOLE(err))
	}
	return nil
}

// UninitThread leaves the apartment.
func (c *OLEConnector) UninitThread() {
	ole.CoUninitialize()
}

// Attach binds to a running instance via GetActiveObject.
func (c *OLEConnector) Attach(progID string) (Object, error) {
	unknown, err := oleutil.GetActiveObject(progID)
	if err != nil {
		return nil, fmt.Errorf("GetActiveObject(%s): %w", progID, wrapOLE(err))
	}
	return dispatchFromUnknown(unknown)
}

// Launch creates a new instance via CreateObject. PowerPoint is a
// single-instance server, so this transparently yields the running
// instance when one exists.
func (c *OLEConnector) Launch(progID string) (Object, error) {
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, fmt.Errorf("CreateObject(%s): %w", progID, wrapOLE(err))
	}
	return dispatchFromUnknown(unknown)
}

func dispatchFromUnknown(unknown *ole.IUnknown) (Object, error) {
	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		return nil, fmt.Errorf("QueryInterface(IDispatch): %w", wrapOLE(err))
	}
	return &oleObject{disp: disp}, nil
}

// oleObject adapts *ole.IDispatch to the Object interface.
type oleObject struct {
	disp     *ole.IDispatch
	released bool
}

func (o *oleObject) Get(name string, args ...interface{}) (Variant, error) {
	v, err := oleutil.GetProperty(o.disp, name, unwrapArgs(args)...)
	if err != nil {
		return Variant{}, wrapOLE(err)
	}
	return fromOLEVariant(v), nil
}

func (o *oleObject) Put(name string, value interface{}) error {
	if _, err := oleutil.PutProperty(o.disp, name, unwrapArg(value)); err != nil {
		return wrapOLE(err)
	}
	return nil
}

func (o *oleObject) Call(name string, args ...interface{}) (Variant, error) {
	v, err := oleutil.CallMethod(o.disp, name, unwrapArgs(args)...)
	if err != nil {
		return Variant{}, wrapOLE(err)
	}
	return fromOLEVariant(v), nil
}

func (o *oleObject) Release() {
	if o.released || o.disp == nil {
		return
	}
	o.released = true
	o.disp.Release()
}

// unwrapArgs converts Object arguments back to their raw IDispatch so they
// can be passed into COM calls (e.g. Presentation as a method parameter).
func unwrapArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = unwrapArg(a)
	}
	return out
}

func unwrapArg(a interface{}) interface{} {
	if o, ok := a.(*oleObject); ok {
		return o.disp
	}
	return a
}

func fromOLEVariant(v *ole.VARIANT) Variant {
	if v == nil {
		return Variant{}
	}
	if v.VT&ole.VT_ARRAY != 0 {
		// Safearrays (chart Values, XValues) flatten to a plain slice.
		if sa := v.ToArray(); sa != nil {
			return NewVariant(sa.ToValueArray())
		}
		return Variant{}
	}
	val := v.Value()
	if disp, ok := val.(*ole.IDispatch); ok && disp != nil {
		return NewVariant(&oleObject{disp: disp})
	}
	return NewVariant(val)
}

// wrapOLE converts go-ole errors into comerr.RawError records, pulling the
// HRESULT from the OleError and source/description from the EXCEPINFO when
// the server supplied one.
func wrapOLE(err error) error {
	if err == nil {
		return nil
	}

	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		return &comerr.RawError{Message: err.Error()}
	}

	raw := &comerr.RawError{
		HResult: uint32(oleErr.Code()),
		Message: oleErr.Error(),
	}

	var excep *ole.EXCEPINFO
	if errors.As(oleErr.SubError(), &excep) && excep != nil {
		raw.Source = excep.Source()
		raw.Description = excep.Description()
		if code := uint32(excep.SCODE()); code != 0 {
			raw.HResult = code
		}
	}
	return raw
}
