package collections

import "testing"

func TestFilterKeepsOnlyMatching(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int, _ int) bool { return n%2 == 0 })
	want := []int{2, 4}
	if len(got) != len(want) {
		t.Fatalf("Filter: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Filter[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMapTransformsInOrder(t *testing.T) {
	got := Map([]string{"a", "bb", "ccc"}, func(s string, _ int) int { return len(s) })
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Map[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFindReturnsFirstMatch(t *testing.T) {
	got, ok := Find([]int{1, 3, 4, 5}, func(n int) bool { return n%2 == 0 })
	if !ok || got != 4 {
		t.Errorf("Find = %d, %v; want 4, true", got, ok)
	}
}

func TestFindReportsNoMatch(t *testing.T) {
	_, ok := Find([]int{1, 3, 5}, func(n int) bool { return n%2 == 0 })
	if ok {
		t.Error("Find: expected no match")
	}
}
