// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

// Package rtf implements the two RTF codecs that are needed to get a message body out
// of the PR_RTF_COMPRESSED property of an Outlook message: LZFu decompression as
// described in MS-OXRTFCP and de-encapsulation of HTML or plain text bodies from RTF
// as described in MS-OXRTFEX.
package rtf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// Compressed RTF header signatures.
const (
	compressedRTF   = 0x75465A4C // "LZFu"
	uncompressedRTF = 0x414C454D // "MELA"
)

// lzfuInitDict is the pre-initialized dictionary that occupies the first bytes of the
// circular buffer before decompression begins.
var lzfuInitDict = []byte(
	"{\\rtf1\\ansi\\mac\\deff0\\deftab720{\\fonttbl;}" +
		"{\\f0\\fnil \\froman \\fswiss \\fmodern \\fscript " +
		"\\fdecor MS Sans SerifSymbolArialTimes New Roman" +
		"Courier{\\colortbl\\red0\\green0\\blue0\r\n\\par " +
		"\\pard\\plain\\f0\\fs20\\b\\i\\u\\tab\\tx",
)

const (
	dictSize   = 4096
	headerSize = 16
	maxRawSize = 64 << 20
)

var (
	// ErrInvalidRTF is returned when compressed RTF data is malformed.
	ErrInvalidRTF = errors.New("invalid compressed RTF data")

	// ErrCRCMismatch is returned when the CRC of a compressed RTF stream does not
	// match its payload.
	ErrCRCMismatch = errors.New("compressed RTF CRC mismatch")
)

// Decompress decompresses a PR_RTF_COMPRESSED byte stream into raw RTF. Both the
// LZFu-compressed and the uncompressed (MELA) format are supported.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: stream is shorter than its header", ErrInvalidRTF)
	}
	compSize := binary.LittleEndian.Uint32(data[0:4])
	rawSize := binary.LittleEndian.Uint32(data[4:8])
	compType := binary.LittleEndian.Uint32(data[8:12])
	crcValue := binary.LittleEndian.Uint32(data[12:16])

	// compSize counts from byte 4, the payload ends at compSize + 4
	end := int(compSize) + 4
	if end < headerSize || end > len(data) {
		end = len(data)
	}

	switch compType {
	case uncompressedRTF:
		rawEnd := headerSize + int(rawSize)
		if rawEnd > end {
			rawEnd = end
		}
		return append([]byte(nil), data[headerSize:rawEnd]...), nil
	case compressedRTF:
		payload := data[headerSize:end]
		if crc := checksum(payload); crc != crcValue {
			return nil, fmt.Errorf("%w: expected %08x, got %08x", ErrCRCMismatch, crcValue, crc)
		}
		return decompressLZFu(payload, int(rawSize)), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression type %08x", ErrInvalidRTF, compType)
	}
}

// checksum computes the CRC of MS-OXRTFCP, which is the IEEE CRC-32 without the
// initial and final bit inversion.
func checksum(p []byte) uint32 {
	return ^crc32.Update(0xFFFFFFFF, crc32.IEEETable, p)
}

// decompressLZFu implements the LZFu decompression loop.
func decompressLZFu(input []byte, rawSize int) []byte {
	dict := make([]byte, dictSize)
	copy(dict, lzfuInitDict)
	writePos := len(lzfuInitDict)

	capSize := rawSize
	if capSize > maxRawSize {
		capSize = maxRawSize
	}
	out := make([]byte, 0, capSize)
	inPos := 0

	for inPos < len(input) && len(out) < capSize {
		// Each control bit, LSB first, flags a dictionary reference (1) or a literal (0)
		control := input[inPos]
		inPos++

		for bit := 0; bit < 8 && inPos < len(input) && len(out) < capSize; bit++ {
			if control&(1<<uint(bit)) == 0 {
				b := input[inPos]
				inPos++
				out = append(out, b)
				dict[writePos] = b
				writePos = (writePos + 1) % dictSize
				continue
			}

			// Dictionary reference: 12 bit offset and 4 bit length, big-endian
			if inPos+1 >= len(input) {
				return out
			}
			ref := int(input[inPos])<<8 | int(input[inPos+1])
			inPos += 2
			offset := ref >> 4
			length := ref&0x0F + 2

			// A reference to the current write position marks the end of the data
			if offset == writePos {
				return out
			}
			for i := 0; i < length && len(out) < capSize; i++ {
				b := dict[(offset+i)%dictSize]
				out = append(out, b)
				dict[writePos] = b
				writePos = (writePos + 1) % dictSize
			}
		}
	}
	return out
}
