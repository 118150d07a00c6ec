package sv2

// OpenStandardMiningChannel requests a standard (header-only) channel.
type OpenStandardMiningChannel struct {
	RequestID       uint32
	UserIdentity    string
	NominalHashRate float32
	MaxTarget       U256
}

func (*OpenStandardMiningChannel) MessageType() uint8 { return TypeOpenStandardMiningChannel }

func (m *OpenStandardMiningChannel) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.str255(m.UserIdentity)
	w.f32(m.NominalHashRate)
	w.u256(m.MaxTarget)
}

func (m *OpenStandardMiningChannel) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.UserIdentity = r.str255()
	m.NominalHashRate = r.f32()
	m.MaxTarget = r.u256()
	return r.done()
}

type OpenStandardMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           U256
	ExtranoncePrefix []byte
	GroupChannelID   uint32
}

func (*OpenStandardMiningChannelSuccess) MessageType() uint8 {
	return TypeOpenStandardMiningChannelSuccess
}

func (m *OpenStandardMiningChannelSuccess) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.u32(m.ChannelID)
	w.u256(m.Target)
	w.b255(m.ExtranoncePrefix)
	w.u32(m.GroupChannelID)
}

func (m *OpenStandardMiningChannelSuccess) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.ChannelID = r.u32()
	m.Target = r.u256()
	m.ExtranoncePrefix = r.b255()
	m.GroupChannelID = r.u32()
	return r.done()
}

type OpenMiningChannelError struct {
	RequestID uint32
	ErrorCode string
}

func (*OpenMiningChannelError) MessageType() uint8 { return TypeOpenMiningChannelError }

func (m *OpenMiningChannelError) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.str255(m.ErrorCode)
}

func (m *OpenMiningChannelError) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

// OpenExtendedMiningChannel requests a channel with full extranonce rolling.
type OpenExtendedMiningChannel struct {
	RequestID         uint32
	UserIdentity      string
	NominalHashRate   float32
	MaxTarget         U256
	MinExtranonceSize uint16
}

func (*OpenExtendedMiningChannel) MessageType() uint8 { return TypeOpenExtendedMiningChannel }

func (m *OpenExtendedMiningChannel) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.str255(m.UserIdentity)
	w.f32(m.NominalHashRate)
	w.u256(m.MaxTarget)
	w.u16(m.MinExtranonceSize)
}

func (m *OpenExtendedMiningChannel) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.UserIdentity = r.str255()
	m.NominalHashRate = r.f32()
	m.MaxTarget = r.u256()
	m.MinExtranonceSize = r.u16()
	return r.done()
}

type OpenExtendedMiningChannelSuccess struct {
	RequestID        uint32
	ChannelID        uint32
	Target           U256
	ExtranonceSize   uint16
	ExtranoncePrefix []byte
}

func (*OpenExtendedMiningChannelSuccess) MessageType() uint8 {
	return TypeOpenExtendedMiningChannelSuccess
}

func (m *OpenExtendedMiningChannelSuccess) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.u32(m.ChannelID)
	w.u256(m.Target)
	w.u16(m.ExtranonceSize)
	w.b255(m.ExtranoncePrefix)
}

func (m *OpenExtendedMiningChannelSuccess) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.ChannelID = r.u32()
	m.Target = r.u256()
	m.ExtranonceSize = r.u16()
	m.ExtranoncePrefix = r.b255()
	return r.done()
}

type UpdateChannel struct {
	ChannelID       uint32
	NominalHashRate float32
	MaximumTarget   U256
}

func (*UpdateChannel) MessageType() uint8 { return TypeUpdateChannel }

func (m *UpdateChannel) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.f32(m.NominalHashRate)
	w.u256(m.MaximumTarget)
}

func (m *UpdateChannel) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.NominalHashRate = r.f32()
	m.MaximumTarget = r.u256()
	return r.done()
}

type UpdateChannelError struct {
	ChannelID uint32
	ErrorCode string
}

func (*UpdateChannelError) MessageType() uint8 { return TypeUpdateChannelError }

func (m *UpdateChannelError) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.str255(m.ErrorCode)
}

func (m *UpdateChannelError) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type CloseChannel struct {
	ChannelID  uint32
	ReasonCode string
}

func (*CloseChannel) MessageType() uint8 { return TypeCloseChannel }

func (m *CloseChannel) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.str255(m.ReasonCode)
}

func (m *CloseChannel) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.ReasonCode = r.str255()
	return r.done()
}

type SetExtranoncePrefix struct {
	ChannelID        uint32
	ExtranoncePrefix []byte
}

func (*SetExtranoncePrefix) MessageType() uint8 { return TypeSetExtranoncePrefix }

func (m *SetExtranoncePrefix) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.b255(m.ExtranoncePrefix)
}

func (m *SetExtranoncePrefix) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.ExtranoncePrefix = r.b255()
	return r.done()
}

// SubmitSharesStandard submits one share found on a standard channel.
type SubmitSharesStandard struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
}

func (*SubmitSharesStandard) MessageType() uint8 { return TypeSubmitSharesStandard }

func (m *SubmitSharesStandard) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.SequenceNumber)
	w.u32(m.JobID)
	w.u32(m.Nonce)
	w.u32(m.NTime)
	w.u32(m.Version)
}

func (m *SubmitSharesStandard) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.SequenceNumber = r.u32()
	m.JobID = r.u32()
	m.Nonce = r.u32()
	m.NTime = r.u32()
	m.Version = r.u32()
	return r.done()
}

type SubmitSharesExtended struct {
	ChannelID      uint32
	SequenceNumber uint32
	JobID          uint32
	Nonce          uint32
	NTime          uint32
	Version        uint32
	Extranonce     []byte
}

func (*SubmitSharesExtended) MessageType() uint8 { return TypeSubmitSharesExtended }

func (m *SubmitSharesExtended) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.SequenceNumber)
	w.u32(m.JobID)
	w.u32(m.Nonce)
	w.u32(m.NTime)
	w.u32(m.Version)
	w.b255(m.Extranonce)
}

func (m *SubmitSharesExtended) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.SequenceNumber = r.u32()
	m.JobID = r.u32()
	m.Nonce = r.u32()
	m.NTime = r.u32()
	m.Version = r.u32()
	m.Extranonce = r.b255()
	return r.done()
}

type SubmitSharesSuccess struct {
	ChannelID               uint32
	LastSequenceNumber      uint32
	NewSubmitsAcceptedCount uint32
	NewSharesSum            uint64
}

func (*SubmitSharesSuccess) MessageType() uint8 { return TypeSubmitSharesSuccess }

func (m *SubmitSharesSuccess) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.LastSequenceNumber)
	w.u32(m.NewSubmitsAcceptedCount)
	w.u64(m.NewSharesSum)
}

func (m *SubmitSharesSuccess) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.LastSequenceNumber = r.u32()
	m.NewSubmitsAcceptedCount = r.u32()
	m.NewSharesSum = r.u64()
	return r.done()
}

type SubmitSharesError struct {
	ChannelID      uint32
	SequenceNumber uint32
	ErrorCode      string
}

func (*SubmitSharesError) MessageType() uint8 { return TypeSubmitSharesError }

func (m *SubmitSharesError) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.SequenceNumber)
	w.str255(m.ErrorCode)
}

func (m *SubmitSharesError) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.SequenceNumber = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

// NewMiningJob pushes a job to a standard channel. FutureJob marks a job
// that activates only once the matching SetNewPrevHash arrives.
type NewMiningJob struct {
	ChannelID  uint32
	JobID      uint32
	FutureJob  bool
	Version    uint32
	MerkleRoot U256
}

func (*NewMiningJob) MessageType() uint8 { return TypeNewMiningJob }

func (m *NewMiningJob) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.JobID)
	w.boolean(m.FutureJob)
	w.u32(m.Version)
	w.u256(m.MerkleRoot)
}

func (m *NewMiningJob) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.JobID = r.u32()
	m.FutureJob = r.boolean()
	m.Version = r.u32()
	m.MerkleRoot = r.u256()
	return r.done()
}

type NewExtendedMiningJob struct {
	ChannelID             uint32
	JobID                 uint32
	FutureJob             bool
	Version               uint32
	VersionRollingAllowed bool
	MerklePath            []U256
	CoinbaseTxPrefix      []byte
	CoinbaseTxSuffix      []byte
}

func (*NewExtendedMiningJob) MessageType() uint8 { return TypeNewExtendedMiningJob }

func (m *NewExtendedMiningJob) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.JobID)
	w.boolean(m.FutureJob)
	w.u32(m.Version)
	w.boolean(m.VersionRollingAllowed)
	w.u256Seq255(m.MerklePath)
	w.b64k(m.CoinbaseTxPrefix)
	w.b64k(m.CoinbaseTxSuffix)
}

func (m *NewExtendedMiningJob) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.JobID = r.u32()
	m.FutureJob = r.boolean()
	m.Version = r.u32()
	m.VersionRollingAllowed = r.boolean()
	m.MerklePath = r.u256Seq255()
	m.CoinbaseTxPrefix = r.b64k()
	m.CoinbaseTxSuffix = r.b64k()
	return r.done()
}

// SetNewPrevHashMining activates future jobs on a mining channel after a
// chain tip change. Distinct schema from the template-distribution message
// of the same name.
type SetNewPrevHashMining struct {
	ChannelID uint32
	JobID     uint32
	PrevHash  U256
	MinNTime  uint32
	NBits     uint32
}

func (*SetNewPrevHashMining) MessageType() uint8 { return TypeSetNewPrevHashMining }

func (m *SetNewPrevHashMining) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.JobID)
	w.u256(m.PrevHash)
	w.u32(m.MinNTime)
	w.u32(m.NBits)
}

func (m *SetNewPrevHashMining) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.JobID = r.u32()
	m.PrevHash = r.u256()
	m.MinNTime = r.u32()
	m.NBits = r.u32()
	return r.done()
}

type SetTarget struct {
	ChannelID     uint32
	MaximumTarget U256
}

func (*SetTarget) MessageType() uint8 { return TypeSetTarget }

func (m *SetTarget) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u256(m.MaximumTarget)
}

func (m *SetTarget) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.MaximumTarget = r.u256()
	return r.done()
}

// SetCustomMiningJob submits a self-negotiated job to the pool, referencing
// a previously allocated mining job token.
type SetCustomMiningJob struct {
	ChannelID              uint32
	RequestID              uint32
	Token                  []byte
	Version                uint32
	PrevHash               U256
	MinNTime               uint32
	NBits                  uint32
	CoinbaseTxVersion      uint32
	CoinbasePrefix         []byte
	CoinbaseTxInputNSeq    uint32
	CoinbaseTxValueRemain  uint64
	CoinbaseTxOutputs      []byte
	CoinbaseTxLocktime     uint32
	MerklePath             []U256
	ExtranonceSize         uint16
}

func (*SetCustomMiningJob) MessageType() uint8 { return TypeSetCustomMiningJob }

func (m *SetCustomMiningJob) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.RequestID)
	w.b255(m.Token)
	w.u32(m.Version)
	w.u256(m.PrevHash)
	w.u32(m.MinNTime)
	w.u32(m.NBits)
	w.u32(m.CoinbaseTxVersion)
	w.b255(m.CoinbasePrefix)
	w.u32(m.CoinbaseTxInputNSeq)
	w.u64(m.CoinbaseTxValueRemain)
	w.b64k(m.CoinbaseTxOutputs)
	w.u32(m.CoinbaseTxLocktime)
	w.u256Seq255(m.MerklePath)
	w.u16(m.ExtranonceSize)
}

func (m *SetCustomMiningJob) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.RequestID = r.u32()
	m.Token = r.b255()
	m.Version = r.u32()
	m.PrevHash = r.u256()
	m.MinNTime = r.u32()
	m.NBits = r.u32()
	m.CoinbaseTxVersion = r.u32()
	m.CoinbasePrefix = r.b255()
	m.CoinbaseTxInputNSeq = r.u32()
	m.CoinbaseTxValueRemain = r.u64()
	m.CoinbaseTxOutputs = r.b64k()
	m.CoinbaseTxLocktime = r.u32()
	m.MerklePath = r.u256Seq255()
	m.ExtranonceSize = r.u16()
	return r.done()
}

type SetCustomMiningJobSuccess struct {
	ChannelID uint32
	RequestID uint32
	JobID     uint32
}

func (*SetCustomMiningJobSuccess) MessageType() uint8 { return TypeSetCustomMiningJobSuccess }

func (m *SetCustomMiningJobSuccess) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.RequestID)
	w.u32(m.JobID)
}

func (m *SetCustomMiningJobSuccess) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.RequestID = r.u32()
	m.JobID = r.u32()
	return r.done()
}

type SetCustomMiningJobError struct {
	ChannelID uint32
	RequestID uint32
	ErrorCode string
}

func (*SetCustomMiningJobError) MessageType() uint8 { return TypeSetCustomMiningJobError }

func (m *SetCustomMiningJobError) marshalPayload(w *writer) {
	w.u32(m.ChannelID)
	w.u32(m.RequestID)
	w.str255(m.ErrorCode)
}

func (m *SetCustomMiningJobError) unmarshalPayload(r *reader) error {
	m.ChannelID = r.u32()
	m.RequestID = r.u32()
	m.ErrorCode = r.str255()
	return r.done()
}

type Reconnect struct {
	NewHost string
	NewPort uint16
}

func (*Reconnect) MessageType() uint8 { return TypeReconnect }

func (m *Reconnect) marshalPayload(w *writer) {
	w.str255(m.NewHost)
	w.u16(m.NewPort)
}

func (m *Reconnect) unmarshalPayload(r *reader) error {
	m.NewHost = r.str255()
	m.NewPort = r.u16()
	return r.done()
}

type SetGroupChannel struct {
	GroupChannelID uint32
	ChannelIDs     []uint32
}

func (*SetGroupChannel) MessageType() uint8 { return TypeSetGroupChannel }

func (m *SetGroupChannel) marshalPayload(w *writer) {
	w.u32(m.GroupChannelID)
	w.u32Seq64k(m.ChannelIDs)
}

func (m *SetGroupChannel) unmarshalPayload(r *reader) error {
	m.GroupChannelID = r.u32()
	m.ChannelIDs = r.u32Seq64k()
	return r.done()
}
