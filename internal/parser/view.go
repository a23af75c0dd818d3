package parser

import (
	"time"

	"github.com/buslog-visualizer/backend/internal/blf"
	"github.com/buslog-visualizer/backend/internal/models"
)

// ViewRecord flattens one decoded object into its transport view.
// start anchors relative object timestamps to wall-clock time.
func ViewRecord(index int, start time.Time, rec blf.Record) models.RecordView {
	return recordView(index, start, rec)
}

// recordView flattens one decoded object into its transport view. The
// type switch covers the frame-bearing families explicitly; everything
// else falls through as a system event with no payload columns.
func recordView(index int, start time.Time, rec blf.Record) models.RecordView {
	h := rec.Header()
	rv := models.RecordView{
		Index:       index,
		Timestamp:   viewTimestamp(start, h.TimestampNanos()),
		TimestampNs: h.TimestampNanos(),
		Type:        h.Type.String(),
		Bus:         models.BusSystem,
	}

	switch r := rec.(type) {
	case *blf.CANMessage:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
		rv.FrameID = r.ID
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data[:])
	case *blf.CANMessage2:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
		rv.FrameID = r.ID
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data[:])
	case *blf.CANErrorFrame:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
	case *blf.CANErrorFrameExt:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
		rv.FrameID = r.ID
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data[:])
	case *blf.CANOverloadFrame:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
	case *blf.CANDriverStatistic:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
	case *blf.CANDriverError:
		rv.Bus = models.BusCAN
		rv.Channel = r.Channel
	case *blf.CANFDMessage:
		rv.Bus = models.BusCANFD
		rv.Channel = r.Channel
		rv.FrameID = r.ID
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data)
	case *blf.CANFDMessage64:
		rv.Bus = models.BusCANFD
		rv.Channel = uint16(r.Channel)
		rv.FrameID = r.ID
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data)
	case *blf.CANFDErrorFrame64:
		rv.Bus = models.BusCANFD
		rv.Channel = uint16(r.Channel)
		rv.FrameID = r.ID
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data)
	case *blf.LINMessage:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.ID)
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data[:])
	case *blf.LINMessage2:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.ID)
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data[:])
	case *blf.LINCRCError:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.ID)
		rv.DLC = r.DLC
		rv.Data = hexBytes(r.Data[:])
	case *blf.LINReceiveError:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.ID)
	case *blf.LINSendError:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.ID)
	case *blf.LINSleepMode:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
	case *blf.LINWakeup:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
	case *blf.LINStatistic:
		rv.Bus = models.BusLIN
		rv.Channel = r.Channel
	case *blf.FlexRayRcvMessage:
		rv.Bus = models.BusFlexRay
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.FrameID)
		rv.Data = hexBytes(r.Payload)
	case *blf.FlexRayRcvMessageEx:
		rv.Bus = models.BusFlexRay
		rv.Channel = r.Channel
		rv.FrameID = uint32(r.FrameID)
		rv.Data = hexBytes(r.Payload)
	case *blf.FlexRayStartCycle:
		rv.Bus = models.BusFlexRay
		rv.Channel = r.Channel
	case *blf.FlexRayError:
		rv.Bus = models.BusFlexRay
		rv.Channel = r.Channel
	case *blf.FlexRayStatusEvent:
		rv.Bus = models.BusFlexRay
		rv.Channel = r.Channel
	case *blf.EthernetFrame:
		rv.Bus = models.BusEthernet
		rv.Channel = r.Channel
		rv.Data = hexBytes(r.Payload)
	case *blf.EthernetRxError:
		rv.Bus = models.BusEthernet
		rv.Channel = r.Channel
		rv.Data = hexBytes(r.FrameData)
	case *blf.EthernetStatus:
		rv.Bus = models.BusEthernet
		rv.Channel = r.Channel
	case *blf.EthernetStatistic:
		rv.Bus = models.BusEthernet
		rv.Channel = r.Channel
	case *blf.AppText:
		rv.Text = r.Text
	case *blf.EventComment:
		rv.Text = r.Text
	case *blf.GlobalMarker:
		rv.Text = r.MarkerName
		if r.Description != "" {
			rv.Text = r.MarkerName + ": " + r.Description
		}
	case *blf.EnvironmentVariable:
		rv.Text = r.Name
		rv.Data = hexBytes(r.Data)
	case *blf.SystemVariable:
		rv.Text = r.Name
		rv.Data = hexBytes(r.Data)
	case *blf.Unknown:
		rv.Data = hexBytes(r.Data)
	}
	return rv
}
