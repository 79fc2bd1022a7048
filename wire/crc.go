// Package wire implements the OpenIGTLink frame format: the 58-byte header,
// the version-3 extended-header/metadata region, fixed-width string fields,
// and the CRC-64 that ties a header to its body. It has no notion of typed
// message content — that lives in package message.
package wire

// crc64Poly is the CRC-64/ECMA-182 polynomial used by the OpenIGTLink
// header, in its normal (non-reflected) form: x^64 + x^62 + ... + 1.
const crc64Poly uint64 = 0x42F0E1EBA9EA3693

// crc64Table is a standard byte-at-a-time MSB-first CRC table built from
// crc64Poly. Unlike the variant in the standard library's hash/crc64
// package (which only implements the reflected, LSB-first form used by ISO
// and the reflected ECMA-182 alias), OpenIGTLink's CRC runs MSB-first with
// no input/output reflection and no final XOR, so the table is built here
// rather than reused from hash/crc64.
var crc64Table = buildCrc64Table()

func buildCrc64Table() [256]uint64 {
	var table [256]uint64
	for i := 0; i < 256; i++ {
		crc := uint64(i) << 56
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000000000000000 != 0 {
				crc = (crc << 1) ^ crc64Poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRC64 computes the CRC-64/ECMA-182 checksum (MSB-first, initial value 0,
// no reflection, no final XOR) of data. CRC64(nil) == 0.
func CRC64(data []byte) uint64 {
	var crc uint64
	for _, b := range data {
		crc = (crc << 8) ^ crc64Table[byte(crc>>56)^b]
	}
	return crc
}
