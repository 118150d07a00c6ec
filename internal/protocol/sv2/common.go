package sv2

// SetupConnection opens a connection and selects the sub-protocol spoken on
// it for the rest of its life. It is the only message carrying the protocol
// discriminant explicitly.
type SetupConnection struct {
	Protocol        Protocol
	MinVersion      uint16
	MaxVersion      uint16
	Flags           uint32
	EndpointHost    string
	EndpointPort    uint16
	Vendor          string
	HardwareVersion string
	Firmware        string
	DeviceID        string
}

func (*SetupConnection) MessageType() uint8 { return TypeSetupConnection }

func (m *SetupConnection) marshalPayload(w *writer) {
	w.u8(uint8(m.Protocol))
	w.u16(m.MinVersion)
	w.u16(m.MaxVersion)
	w.u32(m.Flags)
	w.str255(m.EndpointHost)
	w.u16(m.EndpointPort)
	w.str255(m.Vendor)
	w.str255(m.HardwareVersion)
	w.str255(m.Firmware)
	w.str255(m.DeviceID)
}

func (m *SetupConnection) unmarshalPayload(r *reader) error {
	m.Protocol = Protocol(r.u8())
	m.MinVersion = r.u16()
	m.MaxVersion = r.u16()
	m.Flags = r.u32()
	m.EndpointHost = r.str255()
	m.EndpointPort = r.u16()
	m.Vendor = r.str255()
	m.HardwareVersion = r.str255()
	m.Firmware = r.str255()
	m.DeviceID = r.str255()
	return r.done()
}

// SetupConnectionSuccess acknowledges SetupConnection with the negotiated
// version and the server's feature flags.
type SetupConnectionSuccess struct {
	UsedVersion uint16
	Flags       uint32
}

func (*SetupConnectionSuccess) MessageType() uint8 { return TypeSetupConnectionSuccess }

func (m *SetupConnectionSuccess) marshalPayload(w *writer) {
	w.u16(m.UsedVersion)
	w.u32(m.Flags)
}

func (m *SetupConnectionSuccess) unmarshalPayload(r *reader) error {
	m.UsedVersion = r.u16()
	m.Flags = r.u32()
	return r.done()
}

// SetupConnectionError rejects SetupConnection.
type SetupConnectionError struct {
	Flags     uint32
	ErrorCode string
}

func (*SetupConnectionError) MessageType() uint8 { return TypeSetupConnectionError }

func (m *SetupConnectionError) marshalPayload(w *writer) {
	w.u32(m.Flags)
	w.str255(m.ErrorCode)
}

func (m *SetupConnectionError) unmarshalPayload(r *reader) error {
	m.Flags = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

// ChannelEndpointChanged tells a channel that its upstream or downstream
// endpoint moved and any extension state must be renegotiated.
type ChannelEndpointChanged struct {
	ChannelID uint32
}

func (*ChannelEndpointChanged) MessageType() uint8 { return TypeChannelEndpointChanged }

func (m *ChannelEndpointChanged) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
}

func (m *ChannelEndpointChanged) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	return r.done()
}
