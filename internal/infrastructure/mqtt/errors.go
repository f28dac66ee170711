package mqtt

import "errors"

// Errors returned by Client. Match them with errors.Is.
var (
	ErrNotConnected     = errors.New("mqtt: not connected to broker")
	ErrConnectionFailed = errors.New("mqtt: broker connection failed")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
	ErrInvalidQoS       = errors.New("mqtt: qos must be 0, 1 or 2")
	ErrInvalidTopic     = errors.New("mqtt: empty topic")
)
