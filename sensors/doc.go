// Package sensors provides the default simulated sensor reading producer.
//
// The producer generates one reading per configured descriptor with
// plausible bounded values per sensor type: mean speed and vehicle counts
// for speed sensors, temperature/humidity/pressure for weather sensors, and
// vehicle counts with a congestion index for camera sensors. Readings carry
// the edge identity of the sensor; the enclosing gateway payload does not.
//
// The producer is stateless and safe for concurrent use by many gateway
// workers. Substitute your own types.ReadingProducer to feed real data.
package sensors
