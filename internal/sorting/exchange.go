package sorting

type bubbleSort struct{}

// Sort stops after the first pass without a swap.
func (bubbleSort) Sort(a *Array) {
	n := a.Len()
	for i := 0; i < n; i++ {
		swapped := false
		for j := 0; j < n-i-1; j++ {
			a.Touch(func() {
				if a.Less(j+1, j) {
					a.Swap(j, j+1)
					swapped = true
				}
			}, j, j+1)
		}
		if !swapped {
			return
		}
	}
}

type gnomeSort struct{}

// Sort walks a cursor forward while the pair behind it is ordered and steps
// back after each swap.
func (gnomeSort) Sort(a *Array) {
	n := a.Len()
	for i := 0; i < n; {
		pos := i
		if pos == 0 {
			a.Touch(nil, pos)
			i++
			continue
		}
		a.Touch(func() {
			if a.Less(pos, pos-1) {
				a.Swap(pos, pos-1)
				i--
				return
			}
			i++
		}, pos, pos-1)
	}
}

type cocktailSort struct{}

// Sort alternates forward and backward bubble passes over the comparison
// window [lo, hi], where index k compares k and k+1. Each pass shrinks the
// window to its last swap; a pass with no swap ends the sort.
func (cocktailSort) Sort(a *Array) {
	lo, hi := 0, a.Len()-2
	for lo <= hi {
		last := -1
		for k := lo; k <= hi; k++ {
			a.Touch(func() {
				if a.Less(k+1, k) {
					a.Swap(k, k+1)
					last = k
				}
			}, k, k+1)
		}
		if last < 0 {
			return
		}
		hi = last - 1

		last = -1
		for k := hi; k >= lo; k-- {
			a.Touch(func() {
				if a.Less(k+1, k) {
					a.Swap(k, k+1)
					last = k
				}
			}, k, k+1)
		}
		if last < 0 {
			return
		}
		lo = last + 1
	}
}

type pancakeSort struct{}

// Sort moves the largest value of the unsorted prefix to its final slot with
// a single reversal, then shrinks the prefix.
func (pancakeSort) Sort(a *Array) {
	for size := a.Len(); size > 1; size-- {
		biggest := 0
		for i := 1; i < size; i++ {
			if a.Less(biggest, i) {
				biggest = i
			}
		}
		if biggest != size-1 {
			flip(a, biggest, size-1)
		}
	}
}

// flip reverses [lo, hi].
func flip(a *Array, lo, hi int) {
	for ; lo < hi; lo, hi = lo+1, hi-1 {
		a.Touch(func() { a.Swap(lo, hi) }, lo, hi)
	}
}
