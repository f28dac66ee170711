// Package mqtt publishes Glossary term change events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Event publishing with the configured QoS
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health reporting
//
// The client never subscribes. Consumers listen on glossary/terms/+/+
// and on the retained glossary/system/status topic.
//
// # Security Considerations
//
//   - TLS should be enabled outside local development (cfg.Broker.TLS=true)
//   - Payloads carry term content only; no credentials are published
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.TermEvent(7, "created")
//	err = client.PublishEvent(topic, []byte(`{"id":7,"word":"idempotent","meaning":"..."}`))
package mqtt
