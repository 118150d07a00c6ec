package sv2

// AllocateMiningJobToken asks the pool for a token authorizing a custom job.
type AllocateMiningJobToken struct {
	UserIdentifier string
	RequestID      uint32
}

func (*AllocateMiningJobToken) MessageType() uint8 { return TypeAllocateMiningJobToken }

func (m *AllocateMiningJobToken) marshalPayload(w *writer) {
	w.str255(m.UserIdentifier)
	w.u32(m.RequestID)
}

func (m *AllocateMiningJobToken) unmarshalPayload(r *reader) error {
	m.UserIdentifier = r.str255()
	m.RequestID = r.u32()
	return r.done()
}

type AllocateMiningJobTokenSuccess struct {
	RequestID                       uint32
	MiningJobToken                  []byte
	CoinbaseOutputMaxAdditionalSize uint32
	AsyncMiningAllowed              bool
}

func (*AllocateMiningJobTokenSuccess) MessageType() uint8 {
	return TypeAllocateMiningJobTokenSuccess
}

func (m *AllocateMiningJobTokenSuccess) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.b255(m.MiningJobToken)
	w.u32(m.CoinbaseOutputMaxAdditionalSize)
	w.boolean(m.AsyncMiningAllowed)
}

func (m *AllocateMiningJobTokenSuccess) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.MiningJobToken = r.b255()
	m.CoinbaseOutputMaxAdditionalSize = r.u32()
	m.AsyncMiningAllowed = r.boolean()
	return r.done()
}

type IdentifyTransactions struct {
	RequestID uint32
}

func (*IdentifyTransactions) MessageType() uint8 { return TypeIdentifyTransactions }

func (m *IdentifyTransactions) marshalPayload(w *writer) {
	w.u32(m.RequestID)
}

func (m *IdentifyTransactions) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	return r.done()
}

type IdentifyTransactionsSuccess struct {
	RequestID    uint32
	TxDataHashes []U256
}

func (*IdentifyTransactionsSuccess) MessageType() uint8 { return TypeIdentifyTransactionsSuccess }

func (m *IdentifyTransactionsSuccess) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.u256Seq64k(m.TxDataHashes)
}

func (m *IdentifyTransactionsSuccess) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.TxDataHashes = r.u256Seq64k()
	return r.done()
}

type ProvideMissingTransactions struct {
	RequestID       uint32
	TransactionList [][]byte
}

func (*ProvideMissingTransactions) MessageType() uint8 { return TypeProvideMissingTransactions }

func (m *ProvideMissingTransactions) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.b16mSeq64k(m.TransactionList)
}

func (m *ProvideMissingTransactions) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.TransactionList = r.b16mSeq64k()
	return r.done()
}

type ProvideMissingTransactionsSuccess struct {
	RequestID uint32
}

func (*ProvideMissingTransactionsSuccess) MessageType() uint8 {
	return TypeProvideMissingTransactionsOK
}

func (m *ProvideMissingTransactionsSuccess) marshalPayload(w *writer) {
	w.u32(m.RequestID)
}

func (m *ProvideMissingTransactionsSuccess) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	return r.done()
}

// CommitMiningJob proposes a negotiated job to the pool, carrying the full
// coinbase skeleton and the short ids of the selected transactions.
type CommitMiningJob struct {
	RequestID             uint32
	MiningJobToken        []byte
	Version               uint32
	CoinbaseTxVersion     uint32
	CoinbasePrefix        []byte
	CoinbaseTxInputNSeq   uint32
	CoinbaseTxValueRemain uint64
	CoinbaseTxOutputs     []byte
	CoinbaseTxLocktime    uint32
	MinExtranonceSize     uint16
	TxShortHashNonce      uint64
	TxShortHashList       []ShortTxID
	TxHashListHash        U256
	ExcessData            []byte
}

func (*CommitMiningJob) MessageType() uint8 { return TypeCommitMiningJob }

func (m *CommitMiningJob) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.b255(m.MiningJobToken)
	w.u32(m.Version)
	w.u32(m.CoinbaseTxVersion)
	w.b255(m.CoinbasePrefix)
	w.u32(m.CoinbaseTxInputNSeq)
	w.u64(m.CoinbaseTxValueRemain)
	w.b64k(m.CoinbaseTxOutputs)
	w.u32(m.CoinbaseTxLocktime)
	w.u16(m.MinExtranonceSize)
	w.u64(m.TxShortHashNonce)
	w.shortTxIDSeq64k(m.TxShortHashList)
	w.u256(m.TxHashListHash)
	w.b64k(m.ExcessData)
}

func (m *CommitMiningJob) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.MiningJobToken = r.b255()
	m.Version = r.u32()
	m.CoinbaseTxVersion = r.u32()
	m.CoinbasePrefix = r.b255()
	m.CoinbaseTxInputNSeq = r.u32()
	m.CoinbaseTxValueRemain = r.u64()
	m.CoinbaseTxOutputs = r.b64k()
	m.CoinbaseTxLocktime = r.u32()
	m.MinExtranonceSize = r.u16()
	m.TxShortHashNonce = r.u64()
	m.TxShortHashList = r.shortTxIDSeq64k()
	m.TxHashListHash = r.u256()
	m.ExcessData = r.b64k()
	return r.done()
}

type CommitMiningJobSuccess struct {
	RequestID         uint32
	NewMiningJobToken []byte
}

func (*CommitMiningJobSuccess) MessageType() uint8 { return TypeCommitMiningJobSuccess }

func (m *CommitMiningJobSuccess) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.b255(m.NewMiningJobToken)
}

func (m *CommitMiningJobSuccess) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.NewMiningJobToken = r.b255()
	return r.done()
}

type CommitMiningJobError struct {
	RequestID    uint32
	ErrorCode    string
	ErrorDetails []byte
}

func (*CommitMiningJobError) MessageType() uint8 { return TypeCommitMiningJobError }

func (m *CommitMiningJobError) marshalPayload(w *writer) {
	w.u32(m.RequestID)
	w.str255(m.ErrorCode)
	w.b64k(m.ErrorDetails)
}

func (m *CommitMiningJobError) unmarshalPayload(r *reader) error {
	m.RequestID = r.u32()
	m.ErrorCode = r.str255()
	m.ErrorDetails = r.b64k()
	return r.done()
}
