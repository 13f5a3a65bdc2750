package sim

import (
	"sync"

	"github.com/san-kum/ringsim/internal/network"
)

// VectorPool recycles fixed-size scratch vectors.
type VectorPool struct {
	pool sync.Pool
	size int
}

func NewVectorPool(size int) *VectorPool {
	return &VectorPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make(network.Vector, size)
			},
		},
	}
}

func (p *VectorPool) Size() int { return p.size }

func (p *VectorPool) Get() network.Vector {
	return p.pool.Get().(network.Vector)
}

func (p *VectorPool) Put(v network.Vector) {
	if len(v) == p.size {
		for i := range v {
			v[i] = 0
		}
		p.pool.Put(v)
	}
}

func (p *VectorPool) GetAndCopy(src network.Vector) network.Vector {
	dst := p.Get()
	copy(dst, src)
	return dst
}
