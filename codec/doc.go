// Package codec implements the compact binary encoding used for every value
// that crosses the guest boundary.
//
// Layout:
//
//	u32     4 bytes little-endian
//	compact 1, 2 or 4 bytes with the mode in the low two bits, or a length
//	        byte followed by 4 to 8 little-endian bytes
//	string  compact byte length, then raw UTF-8
//	union   1-byte tag in declaration order, then the variant payload
//
// Decoding is strict. Truncated input, unknown tags, invalid UTF-8,
// non-minimal compact integers and trailing bytes are all decode-phase
// errors matching errors.ErrDecode.
package codec
