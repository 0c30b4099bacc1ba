package hex

const (
	fnvBasis = 14695981039346656037
	fnvPrime = 1099511628211
)

func hash64(basis uint64, w uint64) uint64 {
	h := basis
	h = (h ^ (w & 0xffffffff)) * fnvPrime
	h = (h ^ (w >> 32)) * fnvPrime
	return h
}

// Hash folds the two color planes into a position key. Used by the
// opening book; positions with the same stones hash equal regardless
// of move order.
func (p *Position) Hash() uint64 {
	h := uint64(fnvBasis)
	h = hash64(h, uint64(p.size))
	for _, w := range p.black {
		h = hash64(h, w)
	}
	for _, w := range p.white {
		h = hash64(h, w)
	}
	return h
}
