package license

import "errors"

var (
	ErrEmptyDeviceID   = errors.New("license: device id is required")
	ErrInvalidValidity = errors.New("license: validity days must be between 0 and 9998")
	ErrMalformedKey    = errors.New("license: malformed key")
	ErrDeviceMismatch  = errors.New("license: key was not issued for this device")
)
