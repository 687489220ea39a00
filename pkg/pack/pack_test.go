package pack

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bpekit/bpekit/pkg/bpe"
)

// trainByteTokenizer trains on the corpus plus a full byte alphabet so
// any input is encodable.
func trainByteTokenizer(corpus []byte, merges int) *bpe.Tokenizer[byte] {
	alphabet := make([]byte, 256)
	for i := range alphabet {
		alphabet[i] = byte(i)
	}
	return bpe.TrainWithAlphabet(corpus, alphabet, merges)
}

func TestPackRoundtrip(t *testing.T) {
	corpus := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 50))
	p := New(trainByteTokenizer(corpus, 200))

	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte("x")},
		{"corpus-like", []byte("the quick brown fox the quick brown fox")},
		{"binary", []byte("\x00\x01\x02\xfe\xff\x00\x01")},
		{"long", corpus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			packed, err := p.Pack(tc.data)
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			got, err := p.Unpack(packed)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Errorf("roundtrip: got %q, want %q", got, tc.data)
			}
		})
	}
}

func TestPackShrinksRepetitiveInput(t *testing.T) {
	corpus := []byte(strings.Repeat("abcdefgh ", 200))
	p := New(trainByteTokenizer(corpus, 100))

	packed, err := p.Pack(corpus)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(packed) >= len(corpus) {
		t.Errorf("packed %d bytes, input %d", len(packed), len(corpus))
	}
}

func TestPackFallsBackToStore(t *testing.T) {
	// Tokenizer trained without a seeded alphabet cannot encode
	// unseen bytes; Pack must fall back to Store.
	p := New(bpe.Train([]byte("aaaa"), 2))

	data := []byte("zzzz")
	packed, err := p.Pack(data)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	m, rawLen, err := Inspect(packed)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if m != MethodStore {
		t.Errorf("method: got %v, want %v", m, MethodStore)
	}
	if rawLen != len(data) {
		t.Errorf("raw length: got %d, want %d", rawLen, len(data))
	}

	got, err := p.Unpack(packed)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("roundtrip: got %q, want %q", got, data)
	}
}

func TestPackAs(t *testing.T) {
	corpus := []byte(strings.Repeat("hello world ", 100))
	p := New(trainByteTokenizer(corpus, 50))

	for _, m := range []Method{MethodStore, MethodTokens, MethodTokensDeflate} {
		t.Run(m.String(), func(t *testing.T) {
			packed, err := p.PackAs(corpus, m)
			if err != nil {
				t.Fatalf("PackAs(%v): %v", m, err)
			}
			gotMethod, _, err := Inspect(packed)
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if gotMethod != m {
				t.Errorf("method: got %v, want %v", gotMethod, m)
			}
			got, err := p.Unpack(packed)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if !bytes.Equal(got, corpus) {
				t.Error("roundtrip mismatch")
			}
		})
	}
}

func TestPackAsUnknownByteFails(t *testing.T) {
	p := New(bpe.Train([]byte("aaaa"), 1))

	if _, err := p.PackAs([]byte("b"), MethodTokens); err == nil {
		t.Error("PackAs with unencodable input should fail")
	}
	if _, err := p.PackAs(nil, Method(99)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("PackAs(99): got %v, want ErrUnsupported", err)
	}
}

func TestUnpackRejectsBadInput(t *testing.T) {
	corpus := []byte(strings.Repeat("data ", 100))
	p := New(trainByteTokenizer(corpus, 20))

	packed, err := p.Pack(corpus)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	t.Run("too short", func(t *testing.T) {
		if _, err := p.Unpack(packed[:5]); !errors.Is(err, ErrTooShort) {
			t.Errorf("got %v, want ErrTooShort", err)
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[0] = 'X'
		if _, err := p.Unpack(bad); !errors.Is(err, ErrBadMagic) {
			t.Errorf("got %v, want ErrBadMagic", err)
		}
	})

	t.Run("bad method", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[4] = 99
		if _, err := p.Unpack(bad); !errors.Is(err, ErrUnsupported) {
			t.Errorf("got %v, want ErrUnsupported", err)
		}
	})

	t.Run("corrupt checksum", func(t *testing.T) {
		bad := append([]byte(nil), packed...)
		bad[5] ^= 0xFF
		if _, err := p.Unpack(bad); !errors.Is(err, ErrChecksum) {
			t.Errorf("got %v, want ErrChecksum", err)
		}
	})
}

func BenchmarkPack(b *testing.B) {
	corpus := []byte(strings.Repeat("the quick brown fox ", 500))
	p := New(trainByteTokenizer(corpus, 200))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Pack(corpus); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnpack(b *testing.B) {
	corpus := []byte(strings.Repeat("the quick brown fox ", 500))
	p := New(trainByteTokenizer(corpus, 200))
	packed, _ := p.Pack(corpus)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Unpack(packed); err != nil {
			b.Fatal(err)
		}
	}
}
