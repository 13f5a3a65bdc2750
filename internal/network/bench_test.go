package network

import "testing"

func BenchmarkStep50(b *testing.B) {
	n := DefaultNeuron()
	angles, _ := PreferredAngles(50)
	h := StimulusInput(angles, 0, 1.2, 0.9)
	m := make(Vector, 50)
	scratch := make(Vector, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = n.StepTo(m, m, h, scratch)
	}
}

func BenchmarkMulVec50(b *testing.B) {
	w, _ := DefaultKernel().Weights(50)
	v := make(Vector, 50)
	for i := range v {
		v[i] = float64(i) * 0.01
	}
	dst := make(Vector, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.MulVecTo(dst, v)
	}
}

func BenchmarkConnectivityMatrix200(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ConnectivityMatrix(200, 86, 112)
	}
}
