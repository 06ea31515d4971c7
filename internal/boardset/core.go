package boardset

import "math"

// valueStore abstracts the per-slot payload array so core's probing and
// resize logic is shared between Set (no payload) and Map (one int32
// per slot) without duplicating either.
type valueStore interface {
	getVal(i int) int32
	setVal(i int, v int32)
	resizeVals(n int)
}

type noValues struct{}

func (noValues) getVal(int) int32  { return 0 }
func (noValues) setVal(int, int32) {}
func (noValues) resizeVals(int)    {}

type int32Values struct{ vals []int32 }

func (v *int32Values) getVal(i int) int32 { return v.vals[i] }
func (v *int32Values) setVal(i int, x int32) { v.vals[i] = x }
func (v *int32Values) resizeVals(n int) {
	if n > len(v.vals) {
		grown := make([]int32, n)
		copy(grown, v.vals)
		v.vals = grown
		return
	}
	v.vals = v.vals[:n]
}

// core holds the slots shared by Set and Map: the key array, the
// 2-bit-per-slot flag array, and the bookkeeping khash uses to decide
// when a resize is due.
type core struct {
	size       int
	nOccupied  int
	upperBound int
	flags      []uint64
	keys       []uint64
}

func (c *core) isEmpty(i int) bool   { return isEmptyFlag(c.flags, i) }
func (c *core) isDeleted(i int) bool { return isDeletedFlag(c.flags, i) }
func (c *core) isInvalid(i int) bool { return isInvalidFlag(c.flags, i) }
func (c *core) setDeleted(i int)     { setDeletedFlag(c.flags, i) }
func (c *core) resetBoth(i int)      { resetBothFlags(c.flags, i) }

// Len reports the number of live (non-deleted) entries.
func (c *core) Len() int { return c.size }

// Clear empties the table and drops its key and flag arrays; the next
// insert allocates a fresh minimum-size table.
func (c *core) Clear(vs valueStore) {
	c.size = 0
	c.nOccupied = 0
	c.upperBound = 0
	c.flags = nil
	c.keys = nil
	vs.resizeVals(0)
}

// get returns the slot index holding key, or len(c.keys) if key is
// absent. This is the "opaque slot index" contract the sentinel-return
// probing functions in this package share.
func (c *core) get(key uint64) int {
	n := len(c.keys)
	if n == 0 {
		return 0
	}
	mask := n - 1
	k := hashKey(key)
	i := int(k) & mask
	last := i
	step := 0
	for !c.isEmpty(i) && (c.isDeleted(i) || c.keys[i] != key) {
		step++
		i = (i + step) & mask
		if i == last {
			return n
		}
	}
	if c.isInvalid(i) {
		return n
	}
	return i
}

// contains reports whether key is present.
func (c *core) contains(key uint64) bool {
	return c.get(key) != len(c.keys)
}

// delete removes key if present; it is a no-op otherwise.
func (c *core) delete(key uint64) {
	n := len(c.keys)
	x := c.get(key)
	if x != n && !c.isInvalid(x) {
		c.setDeleted(x)
		c.size--
	}
}

// insert finds or creates the slot for key, growing the table first if
// the load factor (0.77) would be exceeded, and returns the slot index
// so the caller (Map) can write a payload into it.
func (c *core) insert(key uint64, vs valueStore) int {
	if c.nOccupied >= c.upperBound {
		var m int
		if len(c.keys) > c.size<<1 {
			m = len(c.keys) - 1
		} else {
			m = len(c.keys) + 1
		}
		c.resize(m, vs)
	}
	mask := len(c.keys) - 1
	x := len(c.keys)
	i := int(hashKey(key)) & mask
	if c.isEmpty(i) {
		x = i
	} else {
		step := 0
		site := len(c.keys)
		last := i
		for !c.isEmpty(i) && (c.isDeleted(i) || c.keys[i] != key) {
			if c.isDeleted(i) {
				site = i
			}
			step++
			i = (i + step) & mask
			if i == last {
				x = site
				break
			}
		}
		if x == len(c.keys) {
			if c.isEmpty(i) && site != len(c.keys) {
				x = site
			} else {
				x = i
			}
		}
	}
	if c.isEmpty(x) {
		c.keys[x] = key
		c.resetBoth(x)
		c.size++
		c.nOccupied++
	} else if c.isDeleted(x) {
		c.keys[x] = key
		c.resetBoth(x)
		c.size++
	}
	return x
}

// kickOut relocates the (key, val) pair that used to live at some slot
// in the old layout into its slot under the new mask, chasing whatever
// entry already occupies that destination (if the destination is still
// an unprocessed old-layout slot) so the whole rehash happens in place
// within the shared keys/vals arrays.
func (c *core) kickOut(newFlags []uint64, oldNBuckets int, key uint64, val int32, newMask int, vs valueStore) {
	i := int(hashKey(key)) & newMask
	step := 0
	for !isEmptyFlag(newFlags, i) {
		step++
		i = (i + step) & newMask
	}
	resetEmptyFlag(newFlags, i)
	if i < oldNBuckets && !c.isInvalid(i) {
		tmpKey := c.keys[i]
		tmpVal := vs.getVal(i)
		c.keys[i] = key
		vs.setVal(i, val)
		c.setDeleted(i)
		c.kickOut(newFlags, oldNBuckets, tmpKey, tmpVal, newMask, vs)
		return
	}
	c.keys[i] = key
	vs.setVal(i, val)
}

// resize grows or compacts the table to house newNBuckets slots
// (rounded up to a power of two, floored at 4). A request that would
// not bring the table back under the 0.77 load factor is a no-op, the
// same guard the original bucket-count arithmetic in insert relies on
// to avoid pointlessly re-hashing a table that's about to grow anyway.
func (c *core) resize(newNBuckets int, vs valueStore) {
	oldNBuckets := len(c.keys)
	newNBuckets = nextPow2(newNBuckets)
	if newNBuckets < 4 {
		newNBuckets = 4
	}
	if c.size >= int(float64(newNBuckets)*0.77+0.5) {
		return
	}

	newFlags := make([]uint64, (newNBuckets+31)/32)
	for i := range newFlags {
		newFlags[i] = 0x5555555555555555
	}

	if oldNBuckets < newNBuckets {
		grown := make([]uint64, newNBuckets)
		copy(grown, c.keys)
		c.keys = grown
		vs.resizeVals(newNBuckets)
	}

	newMask := newNBuckets - 1
	for i := 0; i < oldNBuckets; i++ {
		if c.isInvalid(i) {
			continue
		}
		key := c.keys[i]
		val := vs.getVal(i)
		c.setDeleted(i)
		c.kickOut(newFlags, oldNBuckets, key, val, newMask, vs)
	}

	if oldNBuckets > newNBuckets {
		c.keys = c.keys[:newNBuckets]
		vs.resizeVals(newNBuckets)
	}

	c.flags = newFlags
	c.nOccupied = c.size
	c.upperBound = int(math.Round(float64(newNBuckets) * 0.77))
}

// each calls f once for every live key, in slot order.
func (c *core) each(f func(key uint64, slot int)) {
	for i := range c.keys {
		if c.isInvalid(i) {
			continue
		}
		f(c.keys[i], i)
	}
}
