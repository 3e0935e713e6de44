package ring

import "testing"

func TestFIFOOrder(t *testing.T) {
	b := New(4)
	if got := b.Capacity(); got != 3 {
		t.Fatalf("capacity = %d, want 3", got)
	}

	if !b.TryPush(1) || !b.TryPush(2) || !b.TryPush(3) {
		t.Fatal("expected first three pushes to succeed")
	}
	if got := b.Size(); got != 3 {
		t.Fatalf("size = %d, want 3", got)
	}
	if b.TryPush(4) {
		t.Fatal("push into full ring should fail")
	}

	var v float32
	pop := func(want float32) {
		t.Helper()
		if !b.TryPop(&v) {
			t.Fatal("expected pop to succeed")
		}
		if v != want {
			t.Fatalf("popped %v, want %v", v, want)
		}
	}
	pop(1)
	pop(2)

	if !b.TryPush(4) || !b.TryPush(5) {
		t.Fatal("expected pushes after freeing space to succeed")
	}
	if got := b.Size(); got != 3 {
		t.Fatalf("size = %d, want 3", got)
	}

	pop(3)
	pop(4)
	pop(5)

	if got := b.Size(); got != 0 {
		t.Fatalf("size = %d, want 0", got)
	}
	if b.TryPop(&v) {
		t.Fatal("pop from empty ring should fail")
	}
}

func TestPushNPopNPartial(t *testing.T) {
	b := New(8)
	src := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	n := b.PushN(src)
	if n != 7 {
		t.Fatalf("pushed %d, want 7", n)
	}

	dst := make([]float32, 10)
	n = b.PopN(dst)
	if n != 7 {
		t.Fatalf("popped %d, want 7", n)
	}
	for i := 0; i < 7; i++ {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}
