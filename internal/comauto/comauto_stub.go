//go:build !windows

package comauto

import "errors"

// ErrUnsupportedPlatform is returned on platforms without COM. The server
// binary still builds everywhere; only Windows can drive PowerPoint.
var ErrUnsupportedPlatform = errors.New("comauto: COM automation requires Windows")

// NewConnector returns the platform Connector. On non-Windows builds there
// is none.
func NewConnector() (Connector, error) {
	return nil, ErrUnsupportedPlatform
}
