package network

import "math"

// Kernel parameterises the cosine coupling between neurons.
type Kernel struct {
	J0 float64 // uniform inhibition
	J2 float64 // tuning-dependent excitation
}

func DefaultKernel() Kernel {
	return Kernel{J0: 86, J2: 112}
}

// Weights builds the n×n coupling matrix for k.
func (k Kernel) Weights(n int) (*Matrix, error) {
	return ConnectivityMatrix(n, k.J0, k.J2)
}

// ConnectivityMatrix returns W with W[r][c] = -j0 + j2·cos(2(θ_r - θ_c))
// over the preferred angles of an n-neuron population. W is symmetric.
func ConnectivityMatrix(n int, j0, j2 float64) (*Matrix, error) {
	angles, err := PreferredAngles(n)
	if err != nil {
		return nil, err
	}
	w, err := NewMatrix(n, n)
	if err != nil {
		return nil, err
	}
	for r := 0; r < n; r++ {
		w.Set(r, r, -j0+j2)
		for c := r + 1; c < n; c++ {
			v := -j0 + j2*math.Cos(2*(angles[r]-angles[c]))
			w.Set(r, c, v)
			w.Set(c, r, v)
		}
	}
	return w, nil
}
