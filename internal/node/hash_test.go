package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDJB2KnownValues(t *testing.T) {
	// h=5381; h = h*33 + b, verified by hand for the empty and
	// single-byte cases.
	require.EqualValues(t, 5381, DJB2(nil))
	require.EqualValues(t, 5381*33+'a', DJB2([]byte("a")))
}

func TestDJB2IsDeterministic(t *testing.T) {
	require.Equal(t, DJB2([]byte("density_kg_per_m3")), DJB2([]byte("density_kg_per_m3")))
}

func TestDJB2DistinguishesMostKeys(t *testing.T) {
	require.NotEqual(t, DJB2([]byte("alpha")), DJB2([]byte("beta")))
}

func TestProbeHashIsQuadraticInAttempt(t *testing.T) {
	require.EqualValues(t, 100, ProbeHash(100, 0))
	require.EqualValues(t, 101, ProbeHash(100, 1))
	require.EqualValues(t, 104, ProbeHash(100, 2))
	require.EqualValues(t, 109, ProbeHash(100, 3))
}

func TestProbeHashWrapsOnOverflow(t *testing.T) {
	// base chosen so base + attempt^2 overflows uint32; the result must
	// wrap rather than panic or saturate.
	got := ProbeHash(^uint32(0), 2)
	require.EqualValues(t, uint32(3), got) // (2^32-1) + 4 mod 2^32 == 3
}
