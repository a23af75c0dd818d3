package blf

import (
	"reflect"
	"testing"
)

// Every encoder recomputes size fields, so decode(encode(r)) must
// reproduce r exactly once prepare has run.
func TestRecordRoundTrip(t *testing.T) {
	v2 := func(ts uint64) (h ObjectHeader) {
		h.Version = 2
		h.Flags = FlagTimeOneNans
		h.TimestampStatus = 1
		h.Timestamp = ts
		h.OriginalTimestamp = ts + 5
		return h
	}
	v1 := func(ts uint64) (h ObjectHeader) {
		h.Flags = FlagTimeOneNans
		h.ClientIndex = 3
		h.Timestamp = ts
		return h
	}

	records := []Record{
		&CANMessage{ObjectHeader: v1(100), Channel: 1, Flags: 0, DLC: 8,
			ID: 0x1A0, Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}},
		&CANMessage2{ObjectHeader: v1(200), Channel: 2, DLC: 4, ID: 0x7DF,
			Data: [8]byte{0xAA, 0xBB}, FrameLength: 120, BitCount: 108},
		&CANErrorFrame{ObjectHeader: v1(300), Channel: 1, Length: 6},
		&CANErrorFrameExt{ObjectHeader: v1(310), Channel: 1, Length: 8,
			Flags: 1, ECC: 0x22, Position: 5, DLC: 8, ID: 0x55,
			Data: [8]byte{9, 9, 9}},
		&CANOverloadFrame{ObjectHeader: v1(320), Channel: 2},
		&CANDriverStatistic{ObjectHeader: v1(330), Channel: 1, BusLoad: 4200,
			StandardDataFrames: 1000, ErrorFrames: 3},
		&CANDriverError{ObjectHeader: v1(340), Channel: 1, TxErrors: 12,
			RxErrors: 1, ErrorCode: 2},
		&CANFDMessage{ObjectHeader: v2(400), Channel: 1, DLC: 9, ID: 0x100,
			FrameLength: 500, ValidDataBytes: 12,
			Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		&CANFDMessage64{ObjectHeader: v2(500), Channel: 4, DLC: 10,
			ValidDataBytes: 16, TxCount: 1, ID: 0x200, FrameLength: 800,
			BitCount: 300, Dir: 1, CRC: 0xCAFE,
			Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		&LINMessage{ObjectHeader: v1(600), Channel: 1, ID: 0x34, DLC: 8,
			Data: [8]byte{8, 7, 6, 5, 4, 3, 2, 1}, CRC: 0x99, Dir: 1},
		&LINMessage2{ObjectHeader: v1(610), Channel: 1, ID: 0x35, DLC: 4,
			Data: [8]byte{1, 1, 2, 2}, CRC: 0x1234, Dir: 0, Simulated: 1},
		&LINReceiveError{ObjectHeader: v1(620), Channel: 1, ID: 0x20,
			DLC: 2, StateReason: 4, OffendingByte: 0xFF},
		&LINSleepMode{ObjectHeader: v1(630), Channel: 1, Reason: 2, Flags: 1},
		&LINWakeup{ObjectHeader: v1(640), Channel: 1, Signal: 1},
		&LINStatistic{ObjectHeader: v1(650), Channel: 1, BusLoad: 33.25,
			FramesSent: 12, FramesReceived: 40},
		&FlexRayRcvMessage{ObjectHeader: v2(700), Channel: 1, ChannelMask: 1,
			FrameID: 45, ByteCount: 8, Cycle: 12, FrameFlags: 2,
			Payload: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		&FlexRayStartCycle{ObjectHeader: v1(710), Channel: 1, Cycle: 17,
			NMSize: 2, DataBytes: [12]byte{1, 2}},
		&FlexRayError{ObjectHeader: v1(720), Channel: 1, Cycle: 3, Data: 9},
		&FlexRayStatusEvent{ObjectHeader: v1(730), Channel: 1, WUS: 2,
			CCSyncState: 4},
		&EthernetFrame{ObjectHeader: v1(800),
			SourceAddress:      [6]byte{2, 0, 0, 0, 0, 1},
			DestinationAddress: [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			Channel:            1, EtherType: 0x0800,
			Payload: []byte{0x45, 0, 0, 0x14}},
		&EthernetStatus{ObjectHeader: v1(810), Channel: 1, LinkStatus: 1,
			Duplex: 2, Bitrate: 1000},
		&EthernetStatistic{ObjectHeader: v1(820), Channel: 1, RcvOK: 5000,
			XmitOK: 4000, RcvBytes: 123456, SQI: -3},
		&AppTrigger{ObjectHeader: v1(900), PreTriggerTime: 1, PostTriggerTime: 2,
			Channel: 1, AppSpecific: 7},
		&AppText{ObjectHeader: v1(910), Source: 1, Text: "measurement note"},
		&EventComment{ObjectHeader: v1(920), CommentedEventType: 86,
			Text: "suspicious frame"},
		&GlobalMarker{ObjectHeader: v1(930), CommentedEventType: 1,
			ForegroundColor: 0xFF0000, BackgroundColor: 0x00FF00,
			IsRelocatable: 1, GroupName: "markers", MarkerName: "m1",
			Description: "start of test drive"},
		&RealTimeClock{ObjectHeader: v1(940), Time: 1700000000, LoggingOffset: 5},
		&DriverOverrun{ObjectHeader: v1(950), BusType: 1, Channel: 2},
		&DataLostBegin{ObjectHeader: v1(960), QueueIdentifier: 1},
		&DataLostEnd{ObjectHeader: v1(970), QueueIdentifier: 1,
			FirstObjectLostTime: 123, NumberOfLostEvents: 17},
		&EnvironmentVariable{ObjectHeader: func() ObjectHeader {
			h := v1(980)
			h.Type = ObjectTypeEnvInteger
			return h
		}(), Name: "EngineSpeed", Data: []byte{0x10, 0x27, 0, 0}},
		&SystemVariable{ObjectHeader: v1(990), VarType: 1, Representation: 0,
			Name: "busload", Data: []byte{42}},
		&Unknown{ObjectHeader: func() ObjectHeader {
			h := v1(995)
			h.Type = ObjectType(777)
			return h
		}(), Tag: 777, Data: []byte{1, 2, 3}},
	}
	// Stamp the type tags the dispatch table expects.
	types := []ObjectType{
		ObjectTypeCANMessage, ObjectTypeCANMessage2, ObjectTypeCANError,
		ObjectTypeCANErrorExt, ObjectTypeCANOverload, ObjectTypeCANStatistic,
		ObjectTypeCANDriverError, ObjectTypeCANFDMessage,
		ObjectTypeCANFDMessage64, ObjectTypeLINMessage, ObjectTypeLINMessage2,
		ObjectTypeLINReceiveError, ObjectTypeLINSleep, ObjectTypeLINWakeup,
		ObjectTypeLINStatistic, ObjectTypeFlexRayRcvMessage,
		ObjectTypeFlexRayStartCycle, ObjectTypeFlexRayError,
		ObjectTypeFlexRayStatusEvent, ObjectTypeEthernetFrame,
		ObjectTypeEthernetStatus, ObjectTypeEthernetStatistic,
		ObjectTypeAppTrigger, ObjectTypeAppText, ObjectTypeEventComment,
		ObjectTypeGlobalMarker, ObjectTypeRealTimeClock,
		ObjectTypeOverrunError, ObjectTypeDataLostBegin, ObjectTypeDataLostEnd,
		ObjectTypeEnvInteger, ObjectTypeSysVariable, ObjectType(777),
	}
	if len(types) != len(records) {
		t.Fatalf("test setup: %d type tags for %d records", len(types), len(records))
	}

	for i, rec := range records {
		rec.Header().Type = types[i]
		encoded := EncodeRecord(rec)

		decoded, advance, err := decodeObject(encoded)
		if err != nil {
			t.Errorf("%s: decode failed: %v", types[i], err)
			continue
		}
		if advance != len(encoded) {
			t.Errorf("%s: advance %d, want %d", types[i], advance, len(encoded))
		}
		if !reflect.DeepEqual(decoded, rec) {
			t.Errorf("%s: round trip mismatch\n got: %+v\nwant: %+v",
				types[i], decoded, rec)
		}
	}
}
