package ble

// attHeaderBytes is the ATT opcode + handle overhead in a write PDU.
const attHeaderBytes = 3

// DefaultMTU is the minimum ATT MTU every LE link supports.
const DefaultMTU = 23

// Chunk splits data into consecutive pieces of at most maxBytes. The pieces
// alias data; concatenating them yields data again. Returns nil for empty
// data and a single chunk when maxBytes is not positive.
func Chunk(data []byte, maxBytes int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	if maxBytes <= 0 || len(data) <= maxBytes {
		return [][]byte{data}
	}

	chunks := make([][]byte, 0, (len(data)+maxBytes-1)/maxBytes)
	for len(data) > 0 {
		n := maxBytes
		if n > len(data) {
			n = len(data)
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// payloadSize returns the usable write payload for an ATT MTU.
func payloadSize(mtu int) int {
	if mtu < DefaultMTU {
		mtu = DefaultMTU
	}
	return mtu - attHeaderBytes
}
