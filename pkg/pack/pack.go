// Package pack compresses byte streams with a trained byte tokenizer.
//
// The container is a small self-describing format:
//
//	offset 0  magic "BPK1" (4 bytes)
//	offset 4  method (1 byte)
//	offset 5  CRC-32 of the raw payload (IEEE, little-endian, 4 bytes)
//	offset 9  raw payload length (little-endian, 4 bytes)
//	offset 13 method-specific payload
//
// Methods:
//   - Store: raw bytes, no compression.
//   - Tokens: token ids from the tokenizer, varint-encoded.
//   - TokensDeflate: the varint stream further compressed with DEFLATE.
//
// Pack tries every applicable method and keeps the smallest result;
// Unpack dispatches on the method byte and verifies the checksum.
package pack

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/bpekit/bpekit/pkg/bpe"
)

// Method identifies how a container's payload is encoded.
type Method byte

const (
	MethodStore         Method = 0
	MethodTokens        Method = 1
	MethodTokensDeflate Method = 2
)

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "Store"
	case MethodTokens:
		return "Tokens"
	case MethodTokensDeflate:
		return "TokensDeflate"
	default:
		return "Unknown"
	}
}

var magic = [4]byte{'B', 'P', 'K', '1'}

const headerSize = 13

var (
	ErrTooShort    = errors.New("pack: data too short")
	ErrBadMagic    = errors.New("pack: not a pack container")
	ErrChecksum    = errors.New("pack: checksum mismatch")
	ErrCorrupted   = errors.New("pack: corrupted data")
	ErrUnsupported = errors.New("pack: unsupported method")
	ErrTooLarge    = errors.New("pack: payload exceeds 4GB limit")
)

// Packer compresses and restores byte streams using a byte-element
// tokenizer, typically trained on data similar to what will be packed.
type Packer struct {
	tok *bpe.Tokenizer[byte]
}

// New creates a Packer around a trained tokenizer.
func New(tok *bpe.Tokenizer[byte]) *Packer {
	return &Packer{tok: tok}
}

// Pack compresses data, trying each applicable method and keeping the
// smallest result. Data the tokenizer cannot encode (bytes outside its
// alphabet) falls back to Store.
func (p *Packer) Pack(data []byte) ([]byte, error) {
	if len(data) > 0xFFFFFFFF {
		return nil, ErrTooLarge
	}

	best := data
	method := MethodStore

	if tokens, err := p.tok.Encode(data); err == nil {
		varints := encodeVarints(tokens)
		if len(varints) < len(best) {
			best = varints
			method = MethodTokens
		}

		deflated, err := deflate(varints)
		if err == nil && len(deflated) < len(best) {
			best = deflated
			method = MethodTokensDeflate
		}
	}

	return p.seal(data, best, method), nil
}

// PackAs compresses data with a specific method. Unlike Pack it does
// not fall back: an unencodable input fails.
func (p *Packer) PackAs(data []byte, m Method) ([]byte, error) {
	if len(data) > 0xFFFFFFFF {
		return nil, ErrTooLarge
	}

	switch m {
	case MethodStore:
		return p.seal(data, data, MethodStore), nil
	case MethodTokens, MethodTokensDeflate:
		tokens, err := p.tok.Encode(data)
		if err != nil {
			return nil, err
		}
		payload := encodeVarints(tokens)
		if m == MethodTokensDeflate {
			if payload, err = deflate(payload); err != nil {
				return nil, err
			}
		}
		return p.seal(data, payload, m), nil
	default:
		return nil, ErrUnsupported
	}
}

// Unpack restores the raw bytes from a container produced by Pack.
func (p *Packer) Unpack(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, ErrTooShort
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, ErrBadMagic
	}

	method := Method(data[4])
	wantCRC := binary.LittleEndian.Uint32(data[5:9])
	rawLen := binary.LittleEndian.Uint32(data[9:13])
	payload := data[headerSize:]

	var raw []byte
	switch method {
	case MethodStore:
		raw = payload
	case MethodTokens:
		decoded, err := p.decodeTokens(payload)
		if err != nil {
			return nil, err
		}
		raw = decoded
	case MethodTokensDeflate:
		varints, err := inflate(payload)
		if err != nil {
			return nil, err
		}
		decoded, err := p.decodeTokens(varints)
		if err != nil {
			return nil, err
		}
		raw = decoded
	default:
		return nil, ErrUnsupported
	}

	if uint32(len(raw)) != rawLen || crc32.ChecksumIEEE(raw) != wantCRC {
		return nil, ErrChecksum
	}
	return raw, nil
}

// Inspect returns the method and raw length recorded in a container
// header without decompressing the payload.
func Inspect(data []byte) (Method, int, error) {
	if len(data) < headerSize {
		return 0, 0, ErrTooShort
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return 0, 0, ErrBadMagic
	}
	return Method(data[4]), int(binary.LittleEndian.Uint32(data[9:13])), nil
}

// seal prepends the container header to a payload.
func (p *Packer) seal(raw, payload []byte, m Method) []byte {
	out := make([]byte, headerSize, headerSize+len(payload))
	copy(out[:4], magic[:])
	out[4] = byte(m)
	binary.LittleEndian.PutUint32(out[5:9], crc32.ChecksumIEEE(raw))
	binary.LittleEndian.PutUint32(out[9:13], uint32(len(raw)))
	return append(out, payload...)
}

// decodeTokens turns a varint stream back into raw bytes through the
// tokenizer.
func (p *Packer) decodeTokens(varints []byte) ([]byte, error) {
	tokens, err := decodeVarints(varints)
	if err != nil {
		return nil, err
	}
	raw, err := p.tok.Decode(tokens)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	return raw, nil
}

// encodeVarints encodes token ids as unsigned varints.
func encodeVarints(tokens []int) []byte {
	buf := make([]byte, 0, len(tokens)*2)
	for _, t := range tokens {
		buf = binary.AppendUvarint(buf, uint64(t))
	}
	return buf
}

// decodeVarints decodes an unsigned varint stream into token ids.
func decodeVarints(data []byte) ([]int, error) {
	tokens := make([]int, 0, len(data))
	for len(data) > 0 {
		v, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, ErrCorrupted
		}
		tokens = append(tokens, int(v))
		data = data[n:]
	}
	return tokens, nil
}

// deflate compresses data with DEFLATE at best compression.
func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// inflate decompresses a DEFLATE stream.
func inflate(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	return out, nil
}
