package testutil

// djb2 mirrors internal/node.DJB2 without importing it, so this
// fixture finder has no dependency on the engine it is used to test.
func djb2(key []byte) uint32 {
	h := uint32(5381)
	for _, b := range key {
		h = h*33 + uint32(b)
	}
	return h
}

const alphanum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// FindDJB2Collision exhaustively searches 2-byte keys drawn from
// [A-Za-z0-9]^2 for a pair with equal DJB2 hashes but distinct bytes,
// for driving the hash-collision probe scenario. It panics if none is
// found, which would indicate a change to djb2 itself rather than a
// legitimate test failure.
func FindDJB2Collision() (k1, k2 string) {
	type candidate struct {
		key  string
		hash uint32
	}
	seen := make(map[uint32]string)
	for _, a := range alphanum {
		for _, b := range alphanum {
			key := string([]byte{byte(a), byte(b)})
			h := djb2([]byte(key))
			if prior, ok := seen[h]; ok && prior != key {
				return prior, key
			}
			seen[h] = key
		}
	}
	panic("testutil: no DJB2 collision found among 2-byte alphanumeric keys")
}
