package sorting

import (
	"fmt"
	"strings"
)

// Algorithm sorts an Array in place through the step protocol.
type Algorithm interface {
	Sort(a *Array)
}

// Kind enumerates the algorithm library. The order is the playback order.
type Kind int

const (
	Bubble Kind = iota
	Gnome
	Insertion
	Bead
	Pancake
	Tree
	Cocktail
	Selection
	Bucket
	Heap
	Quick
	Bogo

	kindCount
)

var kindNames = [kindCount]string{
	Bubble:    "bubble",
	Gnome:     "gnome",
	Insertion: "insertion",
	Bead:      "bead",
	Pancake:   "pancake",
	Tree:      "tree",
	Cocktail:  "cocktail",
	Selection: "selection",
	Bucket:    "bucket",
	Heap:      "heap",
	Quick:     "quick",
	Bogo:      "bogo",
}

// Count is the number of algorithms, K.
const Count = int(kindCount)

// Kinds returns every Kind in playback order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Bubble; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a name such as "heap" or "heapsort".
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimRight(strings.TrimSuffix(key, "sort"), "_- ")
	for k, n := range kindNames {
		if n == key {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm %q", name)
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Day is the 1-based display number.
func (k Kind) Day() int { return int(k) + 1 }

// Valid reports whether k names an algorithm.
func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

// Algorithm returns the implementation for k, or nil for an invalid Kind.
func (k Kind) Algorithm() Algorithm {
	switch k {
	case Bubble:
		return bubbleSort{}
	case Gnome:
		return gnomeSort{}
	case Insertion:
		return insertionSort{}
	case Bead:
		return beadSort{}
	case Pancake:
		return pancakeSort{}
	case Tree:
		return treeSort{}
	case Cocktail:
		return cocktailSort{}
	case Selection:
		return selectionSort{}
	case Bucket:
		return bucketSort{}
	case Heap:
		return heapSort{}
	case Quick:
		return quickSort{}
	case Bogo:
		return bogoSort{}
	default:
		return nil
	}
}

// Run sorts a with k. Arrays of length 0 or 1 are left untouched.
func Run(k Kind, a *Array) error {
	if !k.Valid() {
		return fmt.Errorf("run %v: unknown algorithm", k)
	}
	if a.Len() <= 1 {
		return nil
	}
	k.Algorithm().Sort(a)
	a.Settle()
	return nil
}
