// deq_test.go -- DEQ push/pop/splice tests
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package deq

import "testing"

type item struct {
	val int
	nd  Node[item]
}

func newAsserter(t *testing.T) func(cond bool, format string, args ...interface{}) {
	t.Helper()
	return func(cond bool, format string, args ...interface{}) {
		if !cond {
			t.Fatalf(format, args...)
		}
	}
}

func linker(t *item) *Node[item] { return &t.nd }

func drain(d *DEQ[item]) []int {
	var out []int
	for {
		it := d.PopFront()
		if it == nil {
			break
		}
		out = append(out, it.val)
	}
	return out
}

func TestPushPopOrdering(t *testing.T) {
	assert := newAsserter(t)

	d := New(linker)
	assert(d.Len() == 0, "new DEQ should be empty")
	assert(d.PopFront() == nil, "pop on empty should return nil")

	d.PushBack(&item{val: 1})
	d.PushBack(&item{val: 2})
	d.PushFront(&item{val: 0})
	assert(d.Len() == 3, "expected len 3, got %d", d.Len())

	got := drain(d)
	want := []int{0, 1, 2}
	assert(len(got) == len(want), "len mismatch: %v", got)
	for i := range want {
		assert(got[i] == want[i], "order mismatch at %d: got %v want %v", i, got, want)
	}
	assert(d.Len() == 0, "drained DEQ should be empty")
}

func TestSpliceFrontAndBack(t *testing.T) {
	assert := newAsserter(t)

	a := New(linker)
	a.PushBack(&item{val: 1})
	a.PushBack(&item{val: 2})

	b := New(linker)
	b.PushBack(&item{val: 10})
	b.PushBack(&item{val: 20})
	b.SetSpeed(3.5)

	a.SpliceBack(b)
	assert(b.Len() == 0, "spliced-from pool should be empty")
	assert(b.Speed() == 0, "spliced-from pool speed should reset to 0, got %v", b.Speed())
	assert(a.Len() == 4, "expected len 4 after splice, got %d", a.Len())

	got := drain(a)
	want := []int{1, 2, 10, 20}
	for i := range want {
		assert(got[i] == want[i], "splice-back order mismatch at %d: got %v want %v", i, got, want)
	}

	c := New(linker)
	c.PushBack(&item{val: 100})
	d := New(linker)
	d.PushBack(&item{val: 1})
	d.PushBack(&item{val: 2})

	c.SpliceFront(d)
	got = drain(c)
	want = []int{1, 2, 100}
	for i := range want {
		assert(got[i] == want[i], "splice-front order mismatch at %d: got %v want %v", i, got, want)
	}
}

func TestSpliceEmptyIsNoop(t *testing.T) {
	assert := newAsserter(t)

	a := New(linker)
	a.PushBack(&item{val: 1})
	empty := New(linker)

	a.SpliceBack(empty)
	assert(a.Len() == 1, "splicing empty pool should be a no-op, got len %d", a.Len())
}
