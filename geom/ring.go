package geom

// ring is a fixed-capacity deque of polygon positions. It never grows past
// the capacity it was created with.
type ring struct {
	buf  []int
	head int
	n    int
}

// newRing returns a ring holding 0..size-1, or size-1..0 if reverse is set.
func newRing(size int, reverse bool) *ring {
	r := &ring{buf: make([]int, size), n: size}
	for i := range r.buf {
		if reverse {
			r.buf[i] = size - 1 - i
		} else {
			r.buf[i] = i
		}
	}
	return r
}

func (r *ring) len() int {
	return r.n
}

func (r *ring) at(i int) int {
	return r.buf[(r.head+i)%len(r.buf)]
}

func (r *ring) popFront() int {
	v := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.n--
	return v
}

func (r *ring) pushFront(v int) {
	r.head = (r.head + len(r.buf) - 1) % len(r.buf)
	r.buf[r.head] = v
	r.n++
}

func (r *ring) pushBack(v int) {
	r.buf[(r.head+r.n)%len(r.buf)] = v
	r.n++
}
