// Package codec implements the EigenDA field element padding applied to blob data.
//
// Every 32-byte field element of a padded blob starts with a zero byte so the element stays
// below the bn254 modulus; the remaining 31 bytes carry payload. The final element may be short.
package codec

const (
	// BytesPerFieldElement is the size of one padded field element.
	BytesPerFieldElement = 32
	// BytesPerChunk is the payload carried by one field element.
	BytesPerChunk = BytesPerFieldElement - 1
)

// ConvertByPaddingEmptyByte prefixes every 31-byte chunk of data with a zero byte.
func ConvertByPaddingEmptyByte(data []byte) []byte {
	numChunks := (len(data) + BytesPerChunk - 1) / BytesPerChunk
	padded := make([]byte, 0, numChunks*BytesPerFieldElement)
	for start := 0; start < len(data); start += BytesPerChunk {
		end := min(start+BytesPerChunk, len(data))
		padded = append(padded, 0x00)
		padded = append(padded, data[start:end]...)
	}
	return padded
}

// RemoveEmptyByteFromPaddedBytes drops the leading byte of every field element. It is the
// inverse of ConvertByPaddingEmptyByte and must be applied exactly once to a payload.
func RemoveEmptyByteFromPaddedBytes(data []byte) []byte {
	numElements := (len(data) + BytesPerFieldElement - 1) / BytesPerFieldElement
	unpadded := make([]byte, 0, numElements*BytesPerChunk)
	for start := 0; start < len(data); start += BytesPerFieldElement {
		end := min(start+BytesPerFieldElement, len(data))
		unpadded = append(unpadded, data[start+1:end]...)
	}
	return unpadded
}
