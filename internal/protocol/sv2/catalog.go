package sv2

import (
	"errors"
	"fmt"
)

// Protocol identifies one of the four SV2 sub-protocols. It is carried
// explicitly only inside SetupConnection; every other message implies it
// through the catalog.
type Protocol uint8

const (
	ProtocolMining               Protocol = 0
	ProtocolJobNegotiation       Protocol = 1
	ProtocolTemplateDistribution Protocol = 2
	ProtocolJobDistribution      Protocol = 3
)

func (p Protocol) String() string {
	switch p {
	case ProtocolMining:
		return "mining"
	case ProtocolJobNegotiation:
		return "job-negotiation"
	case ProtocolTemplateDistribution:
		return "template-distribution"
	case ProtocolJobDistribution:
		return "job-distribution"
	default:
		return fmt.Sprintf("protocol(%d)", uint8(p))
	}
}

// Message type codes. Connection setup shares the 0x00 range across all
// sub-protocols; the remaining ranges are sub-protocol specific.
const (
	TypeSetupConnection        uint8 = 0x00
	TypeSetupConnectionSuccess uint8 = 0x01
	TypeSetupConnectionError   uint8 = 0x02
	TypeChannelEndpointChanged uint8 = 0x03

	TypeOpenStandardMiningChannel        uint8 = 0x10
	TypeOpenStandardMiningChannelSuccess uint8 = 0x11
	TypeOpenMiningChannelError           uint8 = 0x12
	TypeOpenExtendedMiningChannel        uint8 = 0x13
	TypeOpenExtendedMiningChannelSuccess uint8 = 0x14
	TypeUpdateChannel                    uint8 = 0x16
	TypeUpdateChannelError               uint8 = 0x17
	TypeCloseChannel                     uint8 = 0x18
	TypeSetExtranoncePrefix              uint8 = 0x19
	TypeSubmitSharesStandard             uint8 = 0x1a
	TypeSubmitSharesExtended             uint8 = 0x1b
	TypeSubmitSharesSuccess              uint8 = 0x1c
	TypeSubmitSharesError                uint8 = 0x1d
	TypeNewMiningJob                     uint8 = 0x1e
	TypeNewExtendedMiningJob             uint8 = 0x1f
	TypeSetNewPrevHashMining             uint8 = 0x20
	TypeSetTarget                        uint8 = 0x21
	TypeSetCustomMiningJob               uint8 = 0x22
	TypeSetCustomMiningJobSuccess        uint8 = 0x23
	TypeSetCustomMiningJobError          uint8 = 0x24
	TypeReconnect                        uint8 = 0x25
	TypeSetGroupChannel                  uint8 = 0x26

	TypeAllocateMiningJobToken          uint8 = 0x50
	TypeAllocateMiningJobTokenSuccess   uint8 = 0x51
	TypeIdentifyTransactions            uint8 = 0x53
	TypeIdentifyTransactionsSuccess     uint8 = 0x54
	TypeProvideMissingTransactions      uint8 = 0x55
	TypeProvideMissingTransactionsOK    uint8 = 0x56
	TypeCommitMiningJob                 uint8 = 0x57
	TypeCommitMiningJobSuccess          uint8 = 0x58
	TypeCommitMiningJobError            uint8 = 0x59

	TypeCoinbaseOutputDataSize        uint8 = 0x70
	TypeNewTemplate                   uint8 = 0x71
	TypeSetNewPrevHash                uint8 = 0x72
	TypeRequestTransactionData        uint8 = 0x73
	TypeRequestTransactionDataSuccess uint8 = 0x74
	TypeRequestTransactionDataError   uint8 = 0x75
	TypeSubmitSolution                uint8 = 0x76
)

var (
	ErrUnknownMessageType       = errors.New("sv2: unknown message type")
	ErrUnimplementedMessageType = errors.New("sv2: message type has no payload codec")
)

func unknownTypeError(msgType uint8) error {
	return fmt.Errorf("%w: 0x%02x", ErrUnknownMessageType, msgType)
}

func unimplementedTypeError(msgType uint8) error {
	return fmt.Errorf("%w: 0x%02x", ErrUnimplementedMessageType, msgType)
}

type catalogEntry struct {
	name       string
	protocol   Protocol
	channelBit bool
	newMessage func() Message
}

// catalog reproduces the published SV2 message table: one entry per code,
// each with its fixed channel bit and payload schema. Connection-setup
// entries are reachable from every sub-protocol; their protocol field names
// the table they are published under.
var catalog = map[uint8]catalogEntry{
	TypeSetupConnection:        {"SetupConnection", ProtocolMining, false, func() Message { return &SetupConnection{} }},
	TypeSetupConnectionSuccess: {"SetupConnection.Success", ProtocolMining, false, func() Message { return &SetupConnectionSuccess{} }},
	TypeSetupConnectionError:   {"SetupConnection.Error", ProtocolMining, false, func() Message { return &SetupConnectionError{} }},
	TypeChannelEndpointChanged: {"ChannelEndpointChanged", ProtocolMining, true, func() Message { return &ChannelEndpointChanged{} }},

	TypeOpenStandardMiningChannel:        {"OpenStandardMiningChannel", ProtocolMining, false, func() Message { return &OpenStandardMiningChannel{} }},
	TypeOpenStandardMiningChannelSuccess: {"OpenStandardMiningChannel.Success", ProtocolMining, false, func() Message { return &OpenStandardMiningChannelSuccess{} }},
	TypeOpenMiningChannelError:           {"OpenMiningChannel.Error", ProtocolMining, false, func() Message { return &OpenMiningChannelError{} }},
	TypeOpenExtendedMiningChannel:        {"OpenExtendedMiningChannel", ProtocolMining, false, func() Message { return &OpenExtendedMiningChannel{} }},
	TypeOpenExtendedMiningChannelSuccess: {"OpenExtendedMiningChannel.Success", ProtocolMining, false, func() Message { return &OpenExtendedMiningChannelSuccess{} }},
	TypeUpdateChannel:                    {"UpdateChannel", ProtocolMining, true, func() Message { return &UpdateChannel{} }},
	TypeUpdateChannelError:               {"UpdateChannel.Error", ProtocolMining, true, func() Message { return &UpdateChannelError{} }},
	TypeCloseChannel:                     {"CloseChannel", ProtocolMining, true, func() Message { return &CloseChannel{} }},
	TypeSetExtranoncePrefix:              {"SetExtranoncePrefix", ProtocolMining, true, func() Message { return &SetExtranoncePrefix{} }},
	TypeSubmitSharesStandard:             {"SubmitSharesStandard", ProtocolMining, true, func() Message { return &SubmitSharesStandard{} }},
	TypeSubmitSharesExtended:             {"SubmitSharesExtended", ProtocolMining, true, func() Message { return &SubmitSharesExtended{} }},
	TypeSubmitSharesSuccess:              {"SubmitShares.Success", ProtocolMining, true, func() Message { return &SubmitSharesSuccess{} }},
	TypeSubmitSharesError:                {"SubmitShares.Error", ProtocolMining, true, func() Message { return &SubmitSharesError{} }},
	TypeNewMiningJob:                     {"NewMiningJob", ProtocolMining, true, func() Message { return &NewMiningJob{} }},
	TypeNewExtendedMiningJob:             {"NewExtendedMiningJob", ProtocolMining, true, func() Message { return &NewExtendedMiningJob{} }},
	TypeSetNewPrevHashMining:             {"SetNewPrevHash (mining)", ProtocolMining, true, func() Message { return &SetNewPrevHashMining{} }},
	TypeSetTarget:                        {"SetTarget", ProtocolMining, true, func() Message { return &SetTarget{} }},
	TypeSetCustomMiningJob:               {"SetCustomMiningJob", ProtocolMining, false, func() Message { return &SetCustomMiningJob{} }},
	TypeSetCustomMiningJobSuccess:        {"SetCustomMiningJob.Success", ProtocolMining, false, func() Message { return &SetCustomMiningJobSuccess{} }},
	TypeSetCustomMiningJobError:          {"SetCustomMiningJob.Error", ProtocolMining, false, func() Message { return &SetCustomMiningJobError{} }},
	TypeReconnect:                        {"Reconnect", ProtocolMining, false, func() Message { return &Reconnect{} }},
	TypeSetGroupChannel:                  {"SetGroupChannel", ProtocolMining, false, func() Message { return &SetGroupChannel{} }},

	TypeAllocateMiningJobToken:        {"AllocateMiningJobToken", ProtocolJobNegotiation, false, func() Message { return &AllocateMiningJobToken{} }},
	TypeAllocateMiningJobTokenSuccess: {"AllocateMiningJobToken.Success", ProtocolJobNegotiation, false, func() Message { return &AllocateMiningJobTokenSuccess{} }},
	TypeIdentifyTransactions:          {"IdentifyTransactions", ProtocolJobNegotiation, false, func() Message { return &IdentifyTransactions{} }},
	TypeIdentifyTransactionsSuccess:   {"IdentifyTransactions.Success", ProtocolJobNegotiation, false, func() Message { return &IdentifyTransactionsSuccess{} }},
	TypeProvideMissingTransactions:    {"ProvideMissingTransactions", ProtocolJobNegotiation, false, func() Message { return &ProvideMissingTransactions{} }},
	TypeProvideMissingTransactionsOK:  {"ProvideMissingTransactions.Success", ProtocolJobNegotiation, false, func() Message { return &ProvideMissingTransactionsSuccess{} }},
	TypeCommitMiningJob:               {"CommitMiningJob", ProtocolJobNegotiation, false, func() Message { return &CommitMiningJob{} }},
	TypeCommitMiningJobSuccess:        {"CommitMiningJob.Success", ProtocolJobNegotiation, false, func() Message { return &CommitMiningJobSuccess{} }},
	TypeCommitMiningJobError:          {"CommitMiningJob.Error", ProtocolJobNegotiation, false, func() Message { return &CommitMiningJobError{} }},

	TypeCoinbaseOutputDataSize:        {"CoinbaseOutputDataSize", ProtocolTemplateDistribution, false, func() Message { return &CoinbaseOutputDataSize{} }},
	TypeNewTemplate:                   {"NewTemplate", ProtocolTemplateDistribution, false, func() Message { return &NewTemplate{} }},
	TypeSetNewPrevHash:                {"SetNewPrevHash", ProtocolTemplateDistribution, false, func() Message { return &SetNewPrevHash{} }},
	TypeRequestTransactionData:        {"RequestTransactionData", ProtocolTemplateDistribution, false, func() Message { return &RequestTransactionData{} }},
	TypeRequestTransactionDataSuccess: {"RequestTransactionData.Success", ProtocolTemplateDistribution, false, func() Message { return &RequestTransactionDataSuccess{} }},
	TypeRequestTransactionDataError:   {"RequestTransactionData.Error", ProtocolTemplateDistribution, false, func() Message { return &RequestTransactionDataError{} }},
	TypeSubmitSolution:                {"SubmitSolution", ProtocolTemplateDistribution, false, func() Message { return &SubmitSolution{} }},
}

// Known reports whether msgType has a catalog entry.
func Known(msgType uint8) bool {
	_, ok := catalog[msgType]
	return ok
}

// ChannelBit returns the fixed channel-scoping flag for msgType.
func ChannelBit(msgType uint8) (bool, error) {
	ent, ok := catalog[msgType]
	if !ok {
		return false, unknownTypeError(msgType)
	}
	return ent.channelBit, nil
}

// ProtocolOf returns the sub-protocol msgType is published under.
func ProtocolOf(msgType uint8) (Protocol, error) {
	ent, ok := catalog[msgType]
	if !ok {
		return 0, unknownTypeError(msgType)
	}
	return ent.protocol, nil
}

// Name returns the human-readable message name for logging and diagnostics.
func Name(msgType uint8) string {
	if ent, ok := catalog[msgType]; ok {
		return ent.name
	}
	return fmt.Sprintf("unknown(0x%02x)", msgType)
}
