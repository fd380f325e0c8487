package gripper

// ActivationStatus corresponds to gACT (manual section 4.4).
type ActivationStatus uint8

const (
	NotActivated ActivationStatus = iota
	Activated
)

func (s ActivationStatus) String() string {
	switch s {
	case NotActivated:
		return "NotActivated"
	case Activated:
		return "Activated"
	default:
		return "Unknown"
	}
}

// ActionStatus corresponds to gGTO.
type ActionStatus uint8

const (
	Stopped ActionStatus = iota
	GotoPosition
)

func (s ActionStatus) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case GotoPosition:
		return "GotoPosition"
	default:
		return "Unknown"
	}
}

// FingerStatus corresponds to gSTA.
type FingerStatus uint8

const (
	InReset FingerStatus = iota
	ActivationInProgress
	ActivationComplete
)

func (s FingerStatus) String() string {
	switch s {
	case InReset:
		return "InReset"
	case ActivationInProgress:
		return "ActivationInProgress"
	case ActivationComplete:
		return "ActivationComplete"
	default:
		return "Unknown"
	}
}

// ObjectStatus corresponds to gOBJ.
type ObjectStatus uint8

const (
	InMotion ObjectStatus = iota
	// StoppedWhileOpening means the fingers met an obstacle while opening.
	StoppedWhileOpening
	// StoppedWhileClosing means the fingers met an obstacle while closing,
	// usually an object being grasped.
	StoppedWhileClosing
	// AtRequestedPosition means the fingers reached the requested position;
	// an object may not be grasped.
	AtRequestedPosition
)

func (s ObjectStatus) String() string {
	switch s {
	case InMotion:
		return "InMotion"
	case StoppedWhileOpening:
		return "StoppedWhileOpening"
	case StoppedWhileClosing:
		return "StoppedWhileClosing"
	case AtRequestedPosition:
		return "AtRequestedPosition"
	default:
		return "Unknown"
	}
}

// FaultStatus corresponds to gFLT.
type FaultStatus uint8

const (
	FaultNone FaultStatus = iota
	FaultActionDelayed
	FaultActivationNeeded
	FaultMaxTempExceeded
	FaultCommTimeout
	FaultUnderVoltage
	FaultAutomaticReleaseInProgress
	FaultInternal
	FaultActivation
	FaultOvercurrent
	FaultAutomaticReleaseCompleted
	FaultUnknown
)

var faultNames = [...]string{
	FaultNone:                       "None",
	FaultActionDelayed:              "ActionDelayed",
	FaultActivationNeeded:           "ActivationNeeded",
	FaultMaxTempExceeded:            "MaxTempExceeded",
	FaultCommTimeout:                "CommTimeout",
	FaultUnderVoltage:               "UnderVoltage",
	FaultAutomaticReleaseInProgress: "AutomaticReleaseInProgress",
	FaultInternal:                   "InternalFault",
	FaultActivation:                 "ActivationFault",
	FaultOvercurrent:                "Overcurrent",
	FaultAutomaticReleaseCompleted:  "AutomaticReleaseCompleted",
	FaultUnknown:                    "Unknown",
}

func (s FaultStatus) String() string {
	if int(s) < len(faultNames) {
		return faultNames[s]
	}

	return "Unknown"
}

// faultCodes maps the low nibble of the fault register to a FaultStatus.
// Codes missing from the table are reserved and decode as FaultUnknown.
var faultCodes = map[byte]FaultStatus{
	0x0: FaultNone,
	0x5: FaultActionDelayed,
	0x7: FaultActivationNeeded,
	0x8: FaultMaxTempExceeded,
	0x9: FaultCommTimeout,
	0xA: FaultUnderVoltage,
	0xB: FaultAutomaticReleaseInProgress,
	0xC: FaultInternal,
	0xD: FaultActivation,
	0xE: FaultOvercurrent,
	0xF: FaultAutomaticReleaseCompleted,
}

// BasicStatus summarizes the detailed status into what a caller usually
// needs to decide the next command.
type BasicStatus uint8

const (
	NotConnected BasicStatus = iota
	// Reset means activation needs to be run.
	Reset
	Activating
	// Ready means the gripper accepts position commands.
	Ready
	Moving
	// UnknownStatus means the gripper is connected but its state could not
	// be read.
	UnknownStatus
)

func (s BasicStatus) String() string {
	switch s {
	case NotConnected:
		return "NotConnected"
	case Reset:
		return "Reset"
	case Activating:
		return "Activating"
	case Ready:
		return "Ready"
	case Moving:
		return "Moving"
	case UnknownStatus:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// DetailedStatus holds the gACT, gGTO, gSTA, gOBJ and gFLT fields.
type DetailedStatus struct {
	Activation ActivationStatus
	Action     ActionStatus
	Finger     FingerStatus
	Object     ObjectStatus
	Fault      FaultStatus
}

// DecodeStatus decodes the gripper status register byte and the fault
// register byte.
func DecodeStatus(status, fault byte) DetailedStatus {
	finger := FingerStatus((status & 0x30) >> 4) // bits 5-4
	if finger > ActivationComplete {
		// 0b11 is "activation completed" in the manual.
		finger = ActivationComplete
	}

	flt, ok := faultCodes[fault&0x0F] // bits 3-0
	if !ok {
		flt = FaultUnknown
	}

	return DetailedStatus{
		Object:     ObjectStatus((status & 0xC0) >> 6), // bits 7-6
		Finger:     finger,
		Action:     ActionStatus((status & 0x08) >> 3), // bit 3
		Activation: ActivationStatus(status & 0x01),    // bit 0
		Fault:      flt,
	}
}

// Basic derives the BasicStatus of a connected gripper.
func (s DetailedStatus) Basic() BasicStatus {
	switch {
	case s.Activation == NotActivated:
		return Reset
	case s.Finger == ActivationInProgress:
		return Activating
	case s.Action == GotoPosition && s.Object == InMotion:
		return Moving
	default:
		return Ready
	}
}
