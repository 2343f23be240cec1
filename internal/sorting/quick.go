package sorting

type quickSort struct{}

func (quickSort) Sort(a *Array) {
	quick(a, 0, a.Len()-1)
}

func quick(a *Array, lo, hi int) {
	if lo >= hi {
		return
	}
	p := partition(a, lo, hi)
	quick(a, lo, p)
	quick(a, p+1, hi)
}

// partition orders lo, mid and hi so the median sits at mid, then runs a
// Hoare partition around that value. The returned index p satisfies
// lo <= p < hi, and every value in [lo, p] is not greater than every value in
// [p+1, hi].
func partition(a *Array, lo, hi int) int {
	mid := lo + (hi-lo)/2
	orderPair(a, lo, mid)
	orderPair(a, lo, hi)
	orderPair(a, mid, hi)

	pivot := a.Get(mid)
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if !a.less(a.Get(i), pivot) {
				break
			}
		}
		for {
			j--
			if !a.less(pivot, a.Get(j)) {
				break
			}
		}
		if i >= j {
			return j
		}
		a.Touch(func() { a.Swap(i, j) }, i, j)
	}
}

// orderPair swaps i and j when the value at j is smaller.
func orderPair(a *Array, i, j int) {
	if a.Less(j, i) {
		a.Touch(func() { a.Swap(i, j) }, i, j)
	}
}
