package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false;
	// callers treat it as "run without request metrics".
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	ErrConnectionFailed = errors.New("influxdb: connection failed")
	ErrNotConnected     = errors.New("influxdb: client closed or never connected")
)
