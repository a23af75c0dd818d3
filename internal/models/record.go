// Package models contains domain types for the bus log visualizer backend.
package models

import "time"

// Bus identifies which vehicle bus a record was captured on.
type Bus string

const (
	BusCAN      Bus = "can"
	BusCANFD    Bus = "canfd"
	BusLIN      Bus = "lin"
	BusFlexRay  Bus = "flexray"
	BusEthernet Bus = "ethernet"
	BusSystem   Bus = "system"
)

// ChannelInfo summarizes one bus/channel pair seen in a capture.
type ChannelInfo struct {
	Bus         string `json:"bus"`
	Channel     uint16 `json:"channel"`
	Name        string `json:"name,omitempty"`
	RecordCount int    `json:"recordCount"`
}

// RecordView is the transport-facing projection of one decoded log
// object. It flattens the fields the viewer needs for tables and
// filtering; raw frame bytes travel hex-encoded.
type RecordView struct {
	Index       int       `json:"index" msgpack:"i"`
	Timestamp   time.Time `json:"timestamp" msgpack:"ts"`
	TimestampNs uint64    `json:"timestampNs" msgpack:"ns"`
	Bus         Bus       `json:"bus" msgpack:"b"`
	Channel     uint16    `json:"channel" msgpack:"ch"`
	ChannelName string    `json:"channelName,omitempty" msgpack:"cn,omitempty"`
	Type        string    `json:"type" msgpack:"t"`
	FrameID     uint32    `json:"frameId,omitempty" msgpack:"id,omitempty"`
	DLC         uint8     `json:"dlc,omitempty" msgpack:"dlc,omitempty"`
	Data        string    `json:"data,omitempty" msgpack:"d,omitempty"`
	Text        string    `json:"text,omitempty" msgpack:"x,omitempty"`
	SourceID    string    `json:"sourceId,omitempty" msgpack:"s,omitempty"` // file ID for merged sessions
}
