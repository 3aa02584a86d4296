package module

import "testing"

func TestCacheStoreKeepsFirstHandle(t *testing.T) {
	cache := NewCache()
	first := NewHandle("plugins.extra", SourceFile, "a.go")
	second := NewHandle("plugins.extra", SourceFile, "b.go")
	if got := cache.Store(first); got != first {
		t.Fatalf("first store returned a different handle")
	}
	if got := cache.Store(second); got != first {
		t.Fatalf("second store should return the existing handle")
	}
	if cache.Len() != 1 {
		t.Fatalf("len = %d, want 1", cache.Len())
	}
}

func TestCacheDiscardOnlyRemovesSameHandle(t *testing.T) {
	cache := NewCache()
	stored := NewHandle("a.b", SourceFile, "")
	stranger := NewHandle("a.b", SourceFile, "")
	cache.Store(stored)
	if cache.Discard(stranger) {
		t.Fatalf("discard removed a handle it does not own")
	}
	if _, ok := cache.Get("a.b"); !ok {
		t.Fatalf("handle should still be cached")
	}
	if !cache.Discard(stored) {
		t.Fatalf("discard of stored handle failed")
	}
	if _, ok := cache.Get("a.b"); ok {
		t.Fatalf("handle should be gone")
	}
	if names := cache.Names(); len(names) != 0 {
		t.Fatalf("unexpected names: %v", names)
	}
}
