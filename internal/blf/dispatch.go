package blf

// decodeFunc turns a decoded header plus its payload slice into a
// typed record. The payload length equals objectSize − headerSize.
type decodeFunc func(h ObjectHeader, payload []byte) (Record, error)

// decoders is the total, data-driven dispatch table from the numeric
// type tag to the family decoder. Tags absent from the table decode to
// Unknown; they never abort parsing.
var decoders = map[ObjectType]decodeFunc{
	ObjectTypeCANMessage:          decodeCANMessage,
	ObjectTypeCANMessage2:         decodeCANMessage2,
	ObjectTypeCANError:            decodeCANErrorFrame,
	ObjectTypeCANErrorExt:         decodeCANErrorFrameExt,
	ObjectTypeCANOverload:         decodeCANOverloadFrame,
	ObjectTypeCANStatistic:        decodeCANDriverStatistic,
	ObjectTypeCANDriverError:      decodeCANDriverError,
	ObjectTypeCANFDMessage:        decodeCANFDMessage,
	ObjectTypeCANFDMessage64:      decodeCANFDMessage64,
	ObjectTypeCANFDError64:        decodeCANFDErrorFrame64,
	ObjectTypeLINMessage:          decodeLINMessage,
	ObjectTypeLINMessage2:         decodeLINMessage2,
	ObjectTypeLINCRCError:         decodeLINCRCError,
	ObjectTypeLINReceiveError:     decodeLINReceiveError,
	ObjectTypeLINSendError:        decodeLINSendError,
	ObjectTypeLINSleep:            decodeLINSleepMode,
	ObjectTypeLINWakeup:           decodeLINWakeup,
	ObjectTypeLINStatistic:        decodeLINStatistic,
	ObjectTypeFlexRayRcvMessage:   decodeFlexRayRcvMessage,
	ObjectTypeFlexRayRcvMessageEx: decodeFlexRayRcvMessageEx,
	ObjectTypeFlexRayStartCycle:   decodeFlexRayStartCycle,
	ObjectTypeFlexRayError:        decodeFlexRayError,
	ObjectTypeFlexRayStatusEvent:  decodeFlexRayStatusEvent,
	ObjectTypeEthernetFrame:       decodeEthernetFrame,
	ObjectTypeEthernetRxError:     decodeEthernetRxError,
	ObjectTypeEthernetStatus:      decodeEthernetStatus,
	ObjectTypeEthernetStatistic:   decodeEthernetStatistic,
	ObjectTypeAppTrigger:          decodeAppTrigger,
	ObjectTypeAppText:             decodeAppText,
	ObjectTypeEventComment:        decodeEventComment,
	ObjectTypeGlobalMarker:        decodeGlobalMarker,
	ObjectTypeRealTimeClock:       decodeRealTimeClock,
	ObjectTypeOverrunError:        decodeDriverOverrun,
	ObjectTypeDataLostBegin:       decodeDataLostBegin,
	ObjectTypeDataLostEnd:         decodeDataLostEnd,
	ObjectTypeEnvInteger:          decodeEnvironmentVariable,
	ObjectTypeEnvDouble:           decodeEnvironmentVariable,
	ObjectTypeEnvString:           decodeEnvironmentVariable,
	ObjectTypeEnvData:             decodeEnvironmentVariable,
	ObjectTypeSysVariable:         decodeSystemVariable,
}

// dispatchDecode routes a header plus payload through the table. Tags
// without a decoder produce an Unknown record, never an error; a
// family decoder failing on a short payload is wrapped as a
// recoverable ObjectError.
func dispatchDecode(h ObjectHeader, payload []byte) (Record, error) {
	dec, ok := decoders[h.Type]
	if !ok {
		u := &Unknown{ObjectHeader: h, Tag: uint32(h.Type)}
		u.Data = append([]byte(nil), payload...)
		return u, nil
	}
	rec, err := dec(h, payload)
	if err != nil {
		return nil, &ObjectError{Type: h.Type, Err: err}
	}
	return rec, nil
}

// decodeObject decodes one object from the start of b. It returns the
// record and the total number of bytes the object occupied on the wire
// (which exceeds ObjectSize when the header-size compatibility shim
// fired). A nil record with a positive advance is a recoverable,
// object-local failure; the caller resumes at the advance offset the
// header implies.
func decodeObject(b []byte) (Record, int, error) {
	h, consumed, err := decodeHeader(b)
	if err != nil {
		return nil, 0, err
	}
	payloadLen := int(h.ObjectSize) - int(h.HeaderSize)
	total := consumed + payloadLen
	if total > len(b) {
		return nil, 0, ErrTruncatedData
	}
	rec, err := dispatchDecode(h, b[consumed:total])
	if err != nil {
		return nil, total, err
	}
	return rec, total, nil
}
