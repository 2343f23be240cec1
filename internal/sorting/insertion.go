package sorting

type insertionSort struct{}

func (insertionSort) Sort(a *Array) { insertion(a) }

// insertion keeps [0, i) sorted, shifting larger values right until the held
// value fits. Bucket sort reuses it for its final pass.
func insertion(a *Array) {
	n := a.Len()
	for i := 1; i < n; i++ {
		held := a.Get(i)
		j := i - 1
		for j >= 0 && a.less(held, a.Get(j)) {
			a.Touch(func() { a.Set(j+1, a.Get(j)) }, i, j)
			j--
		}
		if j+1 != i {
			a.Touch(func() { a.Set(j+1, held) }, j+1)
		}
	}
}

type selectionSort struct{}

// Sort scans the remaining suffix for its minimum, shown unlit while it is
// the running candidate, and swaps it into place.
func (selectionSort) Sort(a *Array) {
	n := a.Len()
	for i := 0; i < n-1; i++ {
		lowest := i
		for j := i + 1; j < n; j++ {
			a.scan(Highlight{Active: []int{j}, Unlit: []int{lowest}}, func() []int {
				if a.Less(j, lowest) {
					lowest = j
				}
				return []int{lowest}
			})
		}
		if lowest != i {
			a.Touch(func() { a.Swap(i, lowest) }, i, lowest)
		}
	}
}
