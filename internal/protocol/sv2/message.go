package sv2

// Message is one typed SV2 protocol message. The set of implementations is
// closed over the catalog: the unexported codec methods keep foreign types
// out.
type Message interface {
	// MessageType returns the wire code identifying the payload schema.
	MessageType() uint8

	marshalPayload(w *writer)
	unmarshalPayload(r *reader) error
}

// EncodePayload serializes the payload of m: fixed-width fields in schema
// order, then length-prefixed byte runs, then count-prefixed sequences.
func EncodePayload(m Message) ([]byte, error) {
	var w writer
	m.marshalPayload(&w)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// DecodePayload deserializes payload into a fresh message of the given type.
// The payload must be consumed exactly; trailing bytes are an error.
func DecodePayload(msgType uint8, payload []byte) (Message, error) {
	ent, ok := catalog[msgType]
	if !ok {
		return nil, unknownTypeError(msgType)
	}
	if ent.newMessage == nil {
		return nil, unimplementedTypeError(msgType)
	}
	m := ent.newMessage()
	r := newReader(payload)
	if err := m.unmarshalPayload(r); err != nil {
		return nil, err
	}
	return m, nil
}
