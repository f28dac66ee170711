package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementHTTPRequests is the measurement written for every API request.
const MeasurementHTTPRequests = "http_requests"

// WriteRequestMetric records one handled HTTP request.
//
// route should be the matched route pattern (e.g. "/terms/{term_id}"), not
// the raw path, to keep tag cardinality bounded.
//
// Example:
//
//	client.WriteRequestMetric("/terms/{term_id}", "GET", 404, 3*time.Millisecond)
func (c *Client) WriteRequestMetric(route, method string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	c.writer.WritePoint(newRequestPoint(route, method, status, duration, time.Now()))
}

// newRequestPoint builds the point written by WriteRequestMetric.
func newRequestPoint(route, method string, status int, duration time.Duration, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementHTTPRequests,
		map[string]string{
			"route":  route,
			"method": method,
			"status": strconv.Itoa(status),
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"count":       1,
		},
		ts,
	)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Example:
//
//	client.WritePoint("glossary_stats",
//	    map[string]string{"host": "glossary-01"},
//	    map[string]interface{}{"terms_total": 42})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writer.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
