package sorting

const (
	bucketCount = 12
	bucketWidth = 30
	// pourPause stretches the wait after each bucket is poured back.
	pourPause = 5
)

type bucketSort struct{}

// Sort distributes values into 12 buckets of width 30, pours them back in
// bucket order and finishes with insertion sort.
func (bucketSort) Sort(a *Array) {
	n := a.Len()
	buckets := make([][]int, bucketCount)
	for i := 0; i < n; i++ {
		v := a.Get(i)
		b := bucketIndex(v)
		buckets[b] = append(buckets[b], v)
	}

	a.Render(Highlight{Unlit: span(0, n)})
	a.Wait()

	pos := 0
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		for _, v := range bucket {
			a.Set(pos, v)
			pos++
		}
		a.Render(Highlight{Unlit: span(pos, n)})
		a.Pause(pourPause)
	}

	insertion(a)
}

// bucketIndex clamps so that a hue of exactly 360 lands in the last bucket.
func bucketIndex(v int) int {
	b := v / bucketWidth
	if b < 0 {
		return 0
	}
	if b >= bucketCount {
		return bucketCount - 1
	}
	return b
}

type beadSort struct{}

// Sort loads each value as a row of beads in an N x max grid, lets every
// column fall to the bottom rows, and reads the row sums back.
func (beadSort) Sort(a *Array) {
	n := a.Len()
	maxVal := 0
	for i := 0; i < n; i++ {
		if v := a.Get(i); v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return
	}

	grid := make([][]bool, n)
	for i := 0; i < n; i++ {
		row := make([]bool, maxVal)
		a.Step(Highlight{Active: []int{i}, Unlit: span(0, i)}, func() {
			for j := 0; j < a.Get(i); j++ {
				row[j] = true
			}
		})
		grid[i] = row
	}
	a.Render(Highlight{Unlit: span(0, n)})

	for j := 0; j < maxVal; j++ {
		beads := 0
		for i := 0; i < n; i++ {
			if grid[i][j] {
				beads++
				grid[i][j] = false
			}
		}
		for i := n - beads; i < n; i++ {
			grid[i][j] = true
		}
	}

	for i := 0; i < n; i++ {
		sum := 0
		for _, bead := range grid[i] {
			if bead {
				sum++
			}
		}
		a.Step(Highlight{Active: []int{i}, Unlit: span(i+1, n)}, func() {
			a.Set(i, sum)
		})
	}
}

// treeNode lives in an arena; child links are arena indices, -1 when absent.
type treeNode struct {
	value       int
	left, right int
}

type treeSort struct{}

// Sort inserts every value into a binary search tree (ties go right) and
// rebuilds the array with an in-order traversal.
func (treeSort) Sort(a *Array) {
	n := a.Len()
	if n == 0 {
		return
	}
	nodes := make([]treeNode, 0, n)
	for i := 0; i < n; i++ {
		a.Step(Highlight{Active: []int{i}, Unlit: span(0, i)}, func() {
			nodes = insertNode(a, nodes, a.Get(i))
		})
	}

	pos := 0
	stack := make([]int, 0, n)
	cur := 0
	for cur != -1 || len(stack) > 0 {
		for cur != -1 {
			stack = append(stack, cur)
			cur = nodes[cur].left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v := nodes[cur].value
		a.Step(Highlight{Active: []int{pos}, Unlit: span(pos+1, n)}, func() {
			a.Set(pos, v)
		})
		pos++
		cur = nodes[cur].right
	}
}

// insertNode appends v to the arena rooted at index 0.
func insertNode(a *Array, nodes []treeNode, v int) []treeNode {
	nodes = append(nodes, treeNode{value: v, left: -1, right: -1})
	idx := len(nodes) - 1
	if idx == 0 {
		return nodes
	}
	cur := 0
	for {
		if a.less(v, nodes[cur].value) {
			if nodes[cur].left == -1 {
				nodes[cur].left = idx
				return nodes
			}
			cur = nodes[cur].left
			continue
		}
		if nodes[cur].right == -1 {
			nodes[cur].right = idx
			return nodes
		}
		cur = nodes[cur].right
	}
}
