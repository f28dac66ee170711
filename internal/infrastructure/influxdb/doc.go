// Package influxdb records Glossary request metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each handled API
// request becomes one point in the http_requests measurement, tagged by
// route pattern, method, and status, with the latency in milliseconds.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, log)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without metrics
//	}
//	defer client.Close()
//
//	client.WriteRequestMetric("/terms/", "POST", 200, elapsed)
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Async write failures are logged through the Logger given
// to Connect; connection and health check errors are returned directly.
package influxdb
