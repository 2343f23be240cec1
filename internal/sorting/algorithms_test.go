package sorting

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shuffled(n int, seed int64) []int {
	values := Hues(n)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	return values
}

func reversed(n int) []int {
	values := Hues(n)
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}

func inversions(values []int) int {
	count := 0
	for i := range values {
		for j := i + 1; j < len(values); j++ {
			if values[i] > values[j] {
				count++
			}
		}
	}
	return count
}

func sortedCopy(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	return out
}

func TestAlgorithmsSortAndPreserveValues(t *testing.T) {
	inputs := map[string][]int{
		"empty":      {},
		"single":     {120},
		"pair":       {200, 100},
		"scenario":   {40, 10, 30, 20, 0},
		"sorted":     Hues(20),
		"reversed":   reversed(20),
		"duplicates": {30, 0, 30, 359, 0, 30, 180, 180, 359, 1},
		"shuffled":   shuffled(50, 3),
		"wide":       shuffled(900, 5),
	}

	for _, kind := range Kinds() {
		for name, in := range inputs {
			if kind == Bogo && len(in) > 6 {
				continue
			}
			if len(in) > 100 && (kind == Bubble || kind == Gnome || kind == Cocktail || kind == Selection || kind == Insertion || kind == Pancake) {
				in = in[:100]
			}
			t.Run(kind.String()+"/"+name, func(t *testing.T) {
				a, _ := newTestArray(t, in, 11)
				require.NoError(t, Run(kind, a))

				got := a.Values()
				require.Len(t, got, len(in))
				assert.Equal(t, sortedCopy(in), got)
			})
		}
	}
}

func TestBogoSmallInputs(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		in := shuffled(5, seed)
		a, _ := newTestArray(t, in, seed)
		require.NoError(t, Run(Bogo, a))
		assert.Equal(t, sortedCopy(in), a.Values())
	}
}

func TestRunDegenerateIsNoOp(t *testing.T) {
	for _, kind := range Kinds() {
		for _, in := range [][]int{nil, {7}} {
			a, rec := newTestArray(t, in, 1)
			require.NoError(t, Run(kind, a))
			assert.Equal(t, Counters{}, a.Counters(), kind.String())
			assert.Empty(t, rec.frames, kind.String())
		}
	}
}

func TestRunRejectsInvalidKind(t *testing.T) {
	a, _ := newTestArray(t, []int{2, 1}, 1)
	assert.Error(t, Run(Kind(-1), a))
	assert.Error(t, Run(kindCount, a))
}

func TestBubbleSwapsEqualInversions(t *testing.T) {
	in := []int{40, 10, 30, 20, 0}
	a, _ := newTestArray(t, in, 1)
	require.NoError(t, Run(Bubble, a))

	assert.Equal(t, []int{0, 10, 20, 30, 40}, a.Values())
	assert.Equal(t, uint64(inversions(in)), a.Counters().Swaps)

	for seed := int64(0); seed < 5; seed++ {
		in := shuffled(30, seed)
		a, _ := newTestArray(t, in, seed)
		require.NoError(t, Run(Bubble, a))
		assert.Equal(t, uint64(inversions(in)), a.Counters().Swaps)
	}
}

func TestBubbleStopsAfterCleanPass(t *testing.T) {
	a, _ := newTestArray(t, Hues(10), 1)
	require.NoError(t, Run(Bubble, a))
	assert.Equal(t, uint64(9), a.Counters().Steps)
	assert.Zero(t, a.Counters().Swaps)
}

func TestCocktailSortedInputSinglePass(t *testing.T) {
	a, _ := newTestArray(t, Hues(10), 1)
	require.NoError(t, Run(Cocktail, a))
	assert.Equal(t, uint64(9), a.Counters().Steps)
	assert.Zero(t, a.Counters().Swaps)
}

func TestBogoSortedPerformsNoShuffle(t *testing.T) {
	a, rec := newTestArray(t, Hues(12), 1)
	require.NoError(t, Run(Bogo, a))

	c := a.Counters()
	assert.Zero(t, c.Shuffles)
	assert.Zero(t, c.Swaps)
	assert.Zero(t, c.Steps)
	assert.Len(t, rec.frames, 1)
}

func TestBogoStopsWhenCancelled(t *testing.T) {
	done := make(chan struct{})
	close(done)
	a := NewArray(reversed(40), Config{Done: done, Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, Run(Bogo, a))
	assert.Zero(t, a.Counters().Shuffles)
}

func TestHeapifyBuildsMaxHeap(t *testing.T) {
	a, _ := newTestArray(t, []int{5, 3, 8, 1, 9, 2}, 1)
	heapify(a)

	values := a.Values()
	assert.ElementsMatch(t, []int{5, 3, 8, 1, 9, 2}, values)
	for i := range values {
		for _, child := range []int{2*i + 1, 2*i + 2} {
			if child < len(values) {
				assert.GreaterOrEqual(t, values[i], values[child], "parent %d child %d", i, child)
			}
		}
	}

	require.NoError(t, Run(Heap, a))
	assert.Equal(t, []int{1, 2, 3, 5, 8, 9}, a.Values())
}

func TestPartitionSplitsAroundPivot(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		in := shuffled(15, seed)
		a, _ := newTestArray(t, in, seed)
		p := partition(a, 0, len(in)-1)
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, len(in)-1)

		values := a.Values()
		left := values[:p+1]
		right := values[p+1:]
		maxLeft := left[0]
		for _, v := range left {
			maxLeft = max(maxLeft, v)
		}
		for _, v := range right {
			assert.GreaterOrEqual(t, v, maxLeft)
		}
	}
}

func TestTreeSortKeepsTiesStable(t *testing.T) {
	a, _ := newTestArray(t, []int{5, 5, 5, 1}, 1)
	nodes := make([]treeNode, 0, 4)
	for _, v := range []int{5, 5, 5, 1} {
		nodes = insertNode(a, nodes, v)
	}
	assert.Equal(t, 1, nodes[0].right)
	assert.Equal(t, 2, nodes[1].right)
	assert.Equal(t, 3, nodes[0].left)
	assert.Equal(t, -1, nodes[3].left)
}

func TestBucketIndexClamps(t *testing.T) {
	assert.Equal(t, 0, bucketIndex(0))
	assert.Equal(t, 0, bucketIndex(29))
	assert.Equal(t, 1, bucketIndex(30))
	assert.Equal(t, 11, bucketIndex(359))
	assert.Equal(t, 11, bucketIndex(360))
}

func TestEveryStepRendersTwice(t *testing.T) {
	for _, kind := range []Kind{Bubble, Gnome, Cocktail, Pancake, Selection, Heap, Quick} {
		a, rec := newTestArray(t, shuffled(16, 9), 1)
		require.NoError(t, Run(kind, a))
		// one settled frame from Run on top of two frames per step
		assert.Equal(t, 2*int(a.Counters().Steps)+1, len(rec.frames), kind.String())
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	cases := map[string]Kind{
		"HeapSort":    Heap,
		"quicksort":   Quick,
		"bubble_sort": Bubble,
		" bogo-sort ": Bogo,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("merge")
	assert.Error(t, err)
}

func TestKindDayAndCount(t *testing.T) {
	assert.Equal(t, 12, Count)
	assert.Len(t, Kinds(), Count)
	assert.Equal(t, 1, Bubble.Day())
	assert.Equal(t, 12, Bogo.Day())
	assert.Equal(t, "Kind(42)", Kind(42).String())
	assert.False(t, Kind(42).Valid())
}

func TestSelectionUnlitFollowsNewMinimum(t *testing.T) {
	a, rec := newTestArray(t, []int{30, 10, 20}, 1)
	require.NoError(t, Run(Selection, a))

	require.GreaterOrEqual(t, len(rec.frames), 4)
	assert.Equal(t, []int{1}, rec.frames[0].h.Active)
	assert.Equal(t, []int{0}, rec.frames[0].h.Unlit)
	assert.Empty(t, rec.frames[1].h.Active)
	assert.Equal(t, []int{1}, rec.frames[1].h.Unlit)
	assert.Equal(t, []int{2}, rec.frames[2].h.Active)
	assert.Equal(t, []int{1}, rec.frames[2].h.Unlit)
	assert.Equal(t, []int{1}, rec.frames[3].h.Unlit)
	assert.Equal(t, []int{10, 20, 30}, a.Values())
}
