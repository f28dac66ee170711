package mqtt

import (
	"fmt"
	"strconv"
)

// Topic prefixes for Glossary MQTT traffic.
const (
	// TopicPrefix is the root of every topic the service publishes.
	TopicPrefix = "glossary"

	// TopicPrefixTerms is the base for term change events.
	TopicPrefixTerms = TopicPrefix + "/terms"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for Glossary MQTT topics.
//
//	topic := mqtt.Topics{}.TermEvent(7, "updated")
//	// Returns: "glossary/terms/7/updated"
type Topics struct{}

// TermEvent returns the topic for a change to a single term.
//
// Example: glossary/terms/7/created
func (Topics) TermEvent(id int64, event string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixTerms, strconv.FormatInt(id, 10), event)
}

// AllTermEvents returns a pattern matching every term change event.
//
// Pattern: glossary/terms/+/+
func (Topics) AllTermEvents() string {
	return TopicPrefixTerms + "/+/+"
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: glossary/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
