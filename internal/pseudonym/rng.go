package pseudonym

import (
	"encoding/binary"
	"io"

	"github.com/zeebo/blake3"
)

// stream is a deterministic byte source keyed by a mention key: the
// same key always yields the same sequence of pseudo-random bytes, so
// every generator decision (which fixture to pick, which digit to
// substitute) is reproducible. It wraps blake3's extendable-output
// digest the same way the pack's luxfi-precompiles dex/transmuter.go
// derives a deterministic key from a Hasher's Digest().
type stream struct {
	r io.Reader
}

func newStream(key []byte) *stream {
	h := blake3.New()
	h.Write(key)
	return &stream{r: h.Digest()}
}

func (s *stream) uint32() uint32 {
	var buf [4]byte
	io.ReadFull(s.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

// intn returns a deterministic value in [0, n) for n > 0.
func (s *stream) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.uint32() % uint32(n))
}

// digit returns a deterministic decimal digit 0-9.
func (s *stream) digit() byte {
	return byte('0' + s.intn(10))
}

// digitExcluding returns a deterministic decimal digit different from avoid.
func (s *stream) digitExcluding(avoid byte) byte {
	d := s.digit()
	for d == avoid {
		d = s.digit()
	}
	return d
}

// pick returns a deterministic element of options.
func (s *stream) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[s.intn(len(options))]
}

// signedOffset returns a deterministic value in [-mag, mag].
func (s *stream) signedOffset(mag int) int {
	if mag <= 0 {
		return 0
	}
	v := s.intn(2*mag + 1)
	return v - mag
}
