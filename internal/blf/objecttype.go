package blf

// ObjectType identifies the payload layout of a logged object.
// The numeric values are fixed by the BLF format and must not change.
type ObjectType uint32

const (
	ObjectTypeUnknown                ObjectType = 0
	ObjectTypeCANMessage             ObjectType = 1
	ObjectTypeCANError               ObjectType = 2
	ObjectTypeCANOverload            ObjectType = 3
	ObjectTypeCANStatistic           ObjectType = 4
	ObjectTypeAppTrigger             ObjectType = 5
	ObjectTypeEnvInteger             ObjectType = 6
	ObjectTypeEnvDouble              ObjectType = 7
	ObjectTypeEnvString              ObjectType = 8
	ObjectTypeEnvData                ObjectType = 9
	ObjectTypeLogContainer           ObjectType = 10
	ObjectTypeLINMessage             ObjectType = 11
	ObjectTypeLINCRCError            ObjectType = 12
	ObjectTypeLINDLCInfo             ObjectType = 13
	ObjectTypeLINReceiveError        ObjectType = 14
	ObjectTypeLINSendError           ObjectType = 15
	ObjectTypeLINSlaveTimeout        ObjectType = 16
	ObjectTypeLINSchedulerModeChange ObjectType = 17
	ObjectTypeLINSyncError           ObjectType = 18
	ObjectTypeLINBaudrate            ObjectType = 19
	ObjectTypeLINSleep               ObjectType = 20
	ObjectTypeLINWakeup              ObjectType = 21
	ObjectTypeMOSTSpy                ObjectType = 22
	ObjectTypeMOSTCtrl               ObjectType = 23
	ObjectTypeMOSTLightLock          ObjectType = 24
	ObjectTypeMOSTStatistic          ObjectType = 25
	ObjectTypeFlexRayData            ObjectType = 29
	ObjectTypeFlexRaySync            ObjectType = 30
	ObjectTypeCANDriverError         ObjectType = 31
	ObjectTypeMOSTPkt                ObjectType = 32
	ObjectTypeMOSTPkt2               ObjectType = 33
	ObjectTypeMOSTHWMode             ObjectType = 34
	ObjectTypeMOSTReg                ObjectType = 35
	ObjectTypeMOSTGenReg             ObjectType = 36
	ObjectTypeMOSTNetState           ObjectType = 37
	ObjectTypeMOSTDataLost           ObjectType = 38
	ObjectTypeMOSTTrigger            ObjectType = 39
	ObjectTypeFlexRayCycle           ObjectType = 40
	ObjectTypeFlexRayMessage         ObjectType = 41
	ObjectTypeLINChecksumInfo        ObjectType = 42
	ObjectTypeLINSpikeEvent          ObjectType = 43
	ObjectTypeCANDriverSync          ObjectType = 44
	ObjectTypeFlexRayStatus          ObjectType = 45
	ObjectTypeGPSEvent               ObjectType = 46
	ObjectTypeFlexRayError           ObjectType = 47
	ObjectTypeFlexRayStatusEvent     ObjectType = 48
	ObjectTypeFlexRayStartCycle      ObjectType = 49
	ObjectTypeFlexRayRcvMessage      ObjectType = 50
	ObjectTypeRealTimeClock          ObjectType = 51
	ObjectTypeLINStatistic           ObjectType = 54
	ObjectTypeJ1708Message           ObjectType = 55
	ObjectTypeJ1708VirtualMessage    ObjectType = 56
	ObjectTypeLINMessage2            ObjectType = 57
	ObjectTypeLINSendError2          ObjectType = 58
	ObjectTypeLINSyncError2          ObjectType = 59
	ObjectTypeLINCRCError2           ObjectType = 60
	ObjectTypeLINReceiveError2       ObjectType = 61
	ObjectTypeLINWakeup2             ObjectType = 62
	ObjectTypeLINSpikeEvent2         ObjectType = 63
	ObjectTypeLINLongDomSignal       ObjectType = 64
	ObjectTypeAppText                ObjectType = 65
	ObjectTypeFlexRayRcvMessageEx    ObjectType = 66
	ObjectTypeMOSTStatisticEx        ObjectType = 67
	ObjectTypeMOSTTxLight            ObjectType = 68
	ObjectTypeMOSTAllocTab           ObjectType = 69
	ObjectTypeMOSTStress             ObjectType = 70
	ObjectTypeEthernetFrame          ObjectType = 71
	ObjectTypeSysVariable            ObjectType = 72
	ObjectTypeCANErrorExt            ObjectType = 73
	ObjectTypeCANDriverErrorExt      ObjectType = 74
	ObjectTypeLINLongDomSignal2      ObjectType = 75
	ObjectTypeMOST150Message         ObjectType = 76
	ObjectTypeMOST150Pkt             ObjectType = 77
	ObjectTypeMOSTEthernetPkt        ObjectType = 78
	ObjectTypeMOST150MessageFragment ObjectType = 79
	ObjectTypeMOST150PktFragment     ObjectType = 80
	ObjectTypeMOSTEthernetPktFragment ObjectType = 81
	ObjectTypeMOSTSystemEvent        ObjectType = 82
	ObjectTypeMOST150AllocTab        ObjectType = 83
	ObjectTypeMOST50Message          ObjectType = 84
	ObjectTypeMOST50Pkt              ObjectType = 85
	ObjectTypeCANMessage2            ObjectType = 86
	ObjectTypeLINUnexpectedWakeup    ObjectType = 87
	ObjectTypeLINShortOrSlowResponse ObjectType = 88
	ObjectTypeLINDisturbanceEvent    ObjectType = 89
	ObjectTypeSerialEvent            ObjectType = 90
	ObjectTypeOverrunError           ObjectType = 91
	ObjectTypeEventComment           ObjectType = 92
	ObjectTypeWLANFrame              ObjectType = 93
	ObjectTypeWLANStatistic          ObjectType = 94
	ObjectTypeMOSTECL                ObjectType = 95
	ObjectTypeGlobalMarker           ObjectType = 96
	ObjectTypeAFDXFrame              ObjectType = 97
	ObjectTypeAFDXStatistic          ObjectType = 98
	ObjectTypeKLineStatusEvent       ObjectType = 99
	ObjectTypeCANFDMessage           ObjectType = 100
	ObjectTypeCANFDMessage64         ObjectType = 101
	ObjectTypeEthernetRxError        ObjectType = 102
	ObjectTypeEthernetStatus         ObjectType = 103
	ObjectTypeCANFDError64           ObjectType = 104
	ObjectTypeLINShortOrSlowResponse2 ObjectType = 105
	ObjectTypeAFDXStatus             ObjectType = 106
	ObjectTypeAFDXBusStatistic       ObjectType = 107
	ObjectTypeAFDXErrorEvent         ObjectType = 109
	ObjectTypeA429Error              ObjectType = 110
	ObjectTypeA429Status             ObjectType = 111
	ObjectTypeA429BusStatistic       ObjectType = 112
	ObjectTypeA429Message            ObjectType = 113
	ObjectTypeEthernetStatistic      ObjectType = 114
	ObjectTypeTestStructure          ObjectType = 118
	ObjectTypeDiagRequestInterpretation ObjectType = 119
	ObjectTypeEthernetFrameEx        ObjectType = 120
	ObjectTypeEthernetFrameForwarded ObjectType = 121
	ObjectTypeEthernetErrorEx        ObjectType = 122
	ObjectTypeEthernetErrorForwarded ObjectType = 123
	ObjectTypeFunctionBus            ObjectType = 124
	ObjectTypeDataLostBegin          ObjectType = 125
	ObjectTypeDataLostEnd            ObjectType = 126
	ObjectTypeWaterMarkEvent         ObjectType = 127
	ObjectTypeTriggerCondition       ObjectType = 128
	ObjectTypeCANSettingChanged      ObjectType = 129
	ObjectTypeDistributedObjectMember ObjectType = 130
	ObjectTypeAttributeEvent         ObjectType = 131
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeUnknown:                "Unknown",
	ObjectTypeCANMessage:             "CanMessage",
	ObjectTypeCANError:               "CanErrorFrame",
	ObjectTypeCANOverload:            "CanOverloadFrame",
	ObjectTypeCANStatistic:           "CanDriverStatistic",
	ObjectTypeAppTrigger:             "AppTrigger",
	ObjectTypeEnvInteger:             "EnvironmentInteger",
	ObjectTypeEnvDouble:              "EnvironmentDouble",
	ObjectTypeEnvString:              "EnvironmentString",
	ObjectTypeEnvData:                "EnvironmentData",
	ObjectTypeLogContainer:           "LogContainer",
	ObjectTypeLINMessage:             "LinMessage",
	ObjectTypeLINCRCError:            "LinCrcError",
	ObjectTypeLINDLCInfo:             "LinDlcInfo",
	ObjectTypeLINReceiveError:        "LinReceiveError",
	ObjectTypeLINSendError:           "LinSendError",
	ObjectTypeLINSlaveTimeout:        "LinSlaveTimeout",
	ObjectTypeLINSchedulerModeChange: "LinSchedulerModeChange",
	ObjectTypeLINSyncError:           "LinSyncError",
	ObjectTypeLINBaudrate:            "LinBaudrate",
	ObjectTypeLINSleep:               "LinSleepMode",
	ObjectTypeLINWakeup:              "LinWakeup",
	ObjectTypeFlexRayData:            "FlexRayData",
	ObjectTypeFlexRaySync:            "FlexRaySync",
	ObjectTypeCANDriverError:         "CanDriverError",
	ObjectTypeFlexRayCycle:           "FlexRayV6StartCycle",
	ObjectTypeFlexRayMessage:         "FlexRayV6Message",
	ObjectTypeLINChecksumInfo:        "LinChecksumInfo",
	ObjectTypeLINSpikeEvent:          "LinSpikeEvent",
	ObjectTypeCANDriverSync:          "CanDriverHwSync",
	ObjectTypeFlexRayStatus:          "FlexRayStatus",
	ObjectTypeGPSEvent:               "GpsEvent",
	ObjectTypeFlexRayError:           "FlexRayVFrError",
	ObjectTypeFlexRayStatusEvent:     "FlexRayVFrStatus",
	ObjectTypeFlexRayStartCycle:      "FlexRayVFrStartCycle",
	ObjectTypeFlexRayRcvMessage:      "FlexRayVFrReceiveMsg",
	ObjectTypeRealTimeClock:          "RealtimeClock",
	ObjectTypeLINStatistic:           "LinStatistic",
	ObjectTypeJ1708Message:           "J1708Message",
	ObjectTypeJ1708VirtualMessage:    "J1708VirtualMessage",
	ObjectTypeLINMessage2:            "LinMessage2",
	ObjectTypeLINSendError2:          "LinSendError2",
	ObjectTypeLINSyncError2:          "LinSyncError2",
	ObjectTypeLINCRCError2:           "LinCrcError2",
	ObjectTypeLINReceiveError2:       "LinReceiveError2",
	ObjectTypeLINWakeup2:             "LinWakeupEvent2",
	ObjectTypeLINSpikeEvent2:         "LinSpikeEvent2",
	ObjectTypeLINLongDomSignal:       "LinLongDomSignal",
	ObjectTypeAppText:                "AppText",
	ObjectTypeFlexRayRcvMessageEx:    "FlexRayVFrReceiveMsgEx",
	ObjectTypeEthernetFrame:          "EthernetFrame",
	ObjectTypeSysVariable:            "SystemVariable",
	ObjectTypeCANErrorExt:            "CanErrorFrameExt",
	ObjectTypeCANDriverErrorExt:      "CanDriverErrorExt",
	ObjectTypeLINLongDomSignal2:      "LinLongDomSignal2",
	ObjectTypeCANMessage2:            "CanMessage2",
	ObjectTypeLINUnexpectedWakeup:    "LinUnexpectedWakeup",
	ObjectTypeLINShortOrSlowResponse: "LinShortOrSlowResponse",
	ObjectTypeLINDisturbanceEvent:    "LinDisturbanceEvent",
	ObjectTypeSerialEvent:            "SerialEvent",
	ObjectTypeOverrunError:           "DriverOverrun",
	ObjectTypeEventComment:           "EventComment",
	ObjectTypeWLANFrame:              "WlanFrame",
	ObjectTypeWLANStatistic:          "WlanStatistic",
	ObjectTypeGlobalMarker:           "GlobalMarker",
	ObjectTypeAFDXFrame:              "AfdxFrame",
	ObjectTypeAFDXStatistic:          "AfdxStatistic",
	ObjectTypeKLineStatusEvent:       "KLineStatusEvent",
	ObjectTypeCANFDMessage:           "CanFdMessage",
	ObjectTypeCANFDMessage64:         "CanFdMessage64",
	ObjectTypeEthernetRxError:        "EthernetRxError",
	ObjectTypeEthernetStatus:         "EthernetStatus",
	ObjectTypeCANFDError64:           "CanFdErrorFrame64",
	ObjectTypeTestStructure:          "TestStructure",
	ObjectTypeDiagRequestInterpretation: "DiagRequestInterpretation",
	ObjectTypeEthernetFrameEx:        "EthernetFrameEx",
	ObjectTypeEthernetFrameForwarded: "EthernetFrameForwarded",
	ObjectTypeEthernetErrorEx:        "EthernetErrorEx",
	ObjectTypeEthernetErrorForwarded: "EthernetErrorForwarded",
	ObjectTypeFunctionBus:            "FunctionBus",
	ObjectTypeDataLostBegin:          "DataLostBegin",
	ObjectTypeDataLostEnd:            "DataLostEnd",
	ObjectTypeWaterMarkEvent:         "WaterMarkEvent",
	ObjectTypeTriggerCondition:       "TriggerCondition",
	ObjectTypeCANSettingChanged:      "CanSettingChanged",
	ObjectTypeDistributedObjectMember: "DistributedObjectMember",
	ObjectTypeAttributeEvent:         "AttributeEvent",
}

// String returns the canonical name of the object type, or a decimal
// fallback for tags outside the known set.
func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "ObjectType(" + uitoa(uint32(t)) + ")"
}

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
