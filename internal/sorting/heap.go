package sorting

type heapSort struct{}

// Sort builds a max-heap, then repeatedly swaps the root with the last
// unsorted slot and restores the heap over the shrunk prefix.
func (heapSort) Sort(a *Array) {
	heapify(a)
	for end := a.Len() - 1; end > 0; end-- {
		a.Touch(func() { a.Swap(0, end) }, 0, end)
		siftDown(a, 0, end)
	}
}

// heapify turns the whole array into a max-heap.
func heapify(a *Array) {
	n := a.Len()
	for start := n/2 - 1; start >= 0; start-- {
		siftDown(a, start, n)
	}
}

// siftDown moves the value at root down within [0, end) until both children
// are not larger.
func siftDown(a *Array, root, end int) {
	for 2*root+1 < end {
		child := 2*root + 1
		if child+1 < end && a.Less(child, child+1) {
			child++
		}
		if !a.Less(root, child) {
			return
		}
		parent := root
		a.Touch(func() { a.Swap(parent, child) }, parent, child)
		root = child
	}
}
