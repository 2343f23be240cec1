package sorting

type bogoSort struct{}

// Sort reshuffles until a linear scan finds no inversion. An already sorted
// array is never shuffled. Cancellation is checked between shuffles since
// nothing else bounds the run.
func (bogoSort) Sort(a *Array) {
	for !a.Sorted() {
		if a.Stopped() {
			return
		}
		a.Shuffle()
	}
}
