// Package journal implements a minimal segmented event log for accepted
// order events. It supports CRC-validated binary records, segment rotation,
// and replay iteration across segments in write order.
package journal
