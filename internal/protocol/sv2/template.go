package sv2

// CoinbaseOutputDataSize tells the template provider how many additional
// serialized bytes the pool will append as coinbase outputs, so templates
// never overflow the block size once those outputs are added.
type CoinbaseOutputDataSize struct {
	CoinbaseOutputMaxAdditionalSize uint32
}

func (*CoinbaseOutputDataSize) MessageType() uint8 { return TypeCoinbaseOutputDataSize }

func (m *CoinbaseOutputDataSize) marshalPayload(w *writer) {
	w.u32(m.CoinbaseOutputMaxAdditionalSize)
}

func (m *CoinbaseOutputDataSize) unmarshalPayload(r *reader) error {
	m.CoinbaseOutputMaxAdditionalSize = r.u32()
	return r.done()
}

// NewTemplate distributes a block template. A future template waits for the
// matching SetNewPrevHash before becoming minable.
type NewTemplate struct {
	TemplateID              uint64
	FutureTemplate          bool
	Version                 uint32
	CoinbaseTxVersion       uint32
	CoinbasePrefix          []byte
	CoinbaseTxInputSequence uint32
	CoinbaseTxValueRemain   uint64
	CoinbaseTxOutputsCount  uint32
	CoinbaseTxOutputs       []byte
	CoinbaseTxLocktime      uint32
	MerklePath              []U256
}

func (*NewTemplate) MessageType() uint8 { return TypeNewTemplate }

func (m *NewTemplate) marshalPayload(w *writer) {
	w.u64(m.TemplateID)
	w.boolean(m.FutureTemplate)
	w.u32(m.Version)
	w.u32(m.CoinbaseTxVersion)
	w.b255(m.CoinbasePrefix)
	w.u32(m.CoinbaseTxInputSequence)
	w.u64(m.CoinbaseTxValueRemain)
	w.u32(m.CoinbaseTxOutputsCount)
	w.b64k(m.CoinbaseTxOutputs)
	w.u32(m.CoinbaseTxLocktime)
	w.u256Seq255(m.MerklePath)
}

func (m *NewTemplate) unmarshalPayload(r *reader) error {
	m.TemplateID = r.u64()
	m.FutureTemplate = r.boolean()
	m.Version = r.u32()
	m.CoinbaseTxVersion = r.u32()
	m.CoinbasePrefix = r.b255()
	m.CoinbaseTxInputSequence = r.u32()
	m.CoinbaseTxValueRemain = r.u64()
	m.CoinbaseTxOutputsCount = r.u32()
	m.CoinbaseTxOutputs = r.b64k()
	m.CoinbaseTxLocktime = r.u32()
	m.MerklePath = r.u256Seq255()
	return r.done()
}

// SetNewPrevHash announces a new chain tip and activates the referenced
// future template.
type SetNewPrevHash struct {
	TemplateID      uint64
	PrevHash        U256
	HeaderTimestamp uint32
	NBits           uint32
	Target          U256
}

func (*SetNewPrevHash) MessageType() uint8 { return TypeSetNewPrevHash }

func (m *SetNewPrevHash) marshalPayload(w *writer) {
	w.u64(m.TemplateID)
	w.u256(m.PrevHash)
	w.u32(m.HeaderTimestamp)
	w.u32(m.NBits)
	w.u256(m.Target)
}

func (m *SetNewPrevHash) unmarshalPayload(r *reader) error {
	m.TemplateID = r.u64()
	m.PrevHash = r.u256()
	m.HeaderTimestamp = r.u32()
	m.NBits = r.u32()
	m.Target = r.u256()
	return r.done()
}

type RequestTransactionData struct {
	TemplateID uint64
}

func (*RequestTransactionData) MessageType() uint8 { return TypeRequestTransactionData }

func (m *RequestTransactionData) marshalPayload(w *writer) {
	w.u64(m.TemplateID)
}

func (m *RequestTransactionData) unmarshalPayload(r *reader) error {
	m.TemplateID = r.u64()
	return r.done()
}

type RequestTransactionDataSuccess struct {
	TemplateID      uint64
	ExcessData      []byte
	TransactionList [][]byte
}

func (*RequestTransactionDataSuccess) MessageType() uint8 {
	return TypeRequestTransactionDataSuccess
}

func (m *RequestTransactionDataSuccess) marshalPayload(w *writer) {
	w.u64(m.TemplateID)
	w.b64k(m.ExcessData)
	w.b16mSeq64k(m.TransactionList)
}

func (m *RequestTransactionDataSuccess) unmarshalPayload(r *reader) error {
	m.TemplateID = r.u64()
	m.ExcessData = r.b64k()
	m.TransactionList = r.b16mSeq64k()
	return r.done()
}

type RequestTransactionDataError struct {
	TemplateID uint64
	ErrorCode  string
}

func (*RequestTransactionDataError) MessageType() uint8 { return TypeRequestTransactionDataError }

func (m *RequestTransactionDataError) marshalPayload(w *writer) {
	w.u64(m.TemplateID)
	w.str255(m.ErrorCode)
}

func (m *RequestTransactionDataError) unmarshalPayload(r *reader) error {
	m.TemplateID = r.u64()
	m.ErrorCode = r.str255()
	return r.done()
}

// SubmitSolution hands the template provider a block solution for immediate
// propagation.
type SubmitSolution struct {
	TemplateID      uint64
	Version         uint32
	HeaderTimestamp uint32
	HeaderNonce     uint32
	CoinbaseTx      []byte
}

func (*SubmitSolution) MessageType() uint8 { return TypeSubmitSolution }

func (m *SubmitSolution) marshalPayload(w *writer) {
	w.u64(m.TemplateID)
	w.u32(m.Version)
	w.u32(m.HeaderTimestamp)
	w.u32(m.HeaderNonce)
	w.b64k(m.CoinbaseTx)
}

func (m *SubmitSolution) unmarshalPayload(r *reader) error {
	m.TemplateID = r.u64()
	m.Version = r.u32()
	m.HeaderTimestamp = r.u32()
	m.HeaderNonce = r.u32()
	m.CoinbaseTx = r.b64k()
	return r.done()
}
