package crypto

import "encoding/hex"

// ivSize is the layer-1 initialization vector length in bytes.
const ivSize = 16

// Envelope is the sole artifact encryption produces and the sole input
// decryption consumes. All three fields are opaque strings; storage layers
// must preserve them verbatim, since any truncation, case folding or
// re-encoding makes the envelope undecryptable.
type Envelope struct {
	// Data is the layer-3 ciphertext, base64 raw-URL encoded.
	Data string `json:"data"`
	// Noise concatenates the three hex-encoded noise blocks in creation
	// order (layer 1, layer 2, layer 3).
	Noise string `json:"noise"`
	// IV is the layer-1 initialization vector, 16 bytes hex-encoded.
	IV string `json:"iv"`
}

// complete reports whether all three fields are present.
func (e Envelope) complete() bool {
	return e.Data != "" && e.Noise != "" && e.IV != ""
}

// splitNoise returns the three equal-length noise blocks in creation order.
func (e Envelope) splitNoise() (n1, n2, n3 string, ok bool) {
	if len(e.Noise) == 0 || len(e.Noise)%3 != 0 {
		return "", "", "", false
	}
	third := len(e.Noise) / 3
	return e.Noise[:third], e.Noise[third : 2*third], e.Noise[2*third:], true
}

// iv decodes the initialization vector, rejecting anything that is not
// exactly 16 bytes of hex.
func (e Envelope) iv() ([]byte, bool) {
	iv, err := hex.DecodeString(e.IV)
	if err != nil || len(iv) != ivSize {
		return nil, false
	}
	return iv, true
}
