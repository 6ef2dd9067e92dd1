package labels

import "testing"

func TestSetGetResolve(t *testing.T) {
	c := NewCache()
	if c.Has("stu-1") {
		t.Fatalf("fresh cache should be empty")
	}
	c.Set("stu-1", "Maya")
	if got, ok := c.Get("stu-1"); !ok || got != "Maya" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if got := c.Resolve("stu-2", "Student"); got != "Student" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := c.Resolve("stu-1", "Student"); got != "Maya" {
		t.Fatalf("expected cached label, got %q", got)
	}
}

func TestEmptyLabelDoesNotShadow(t *testing.T) {
	c := NewCache()
	c.Set("stu-1", "Maya")
	c.Set("stu-1", "  ")
	if got, _ := c.Get("stu-1"); got != "Maya" {
		t.Fatalf("blank set should be ignored, got %q", got)
	}
	c.Set("", "Nobody")
	if c.Len() != 1 {
		t.Fatalf("empty id should be ignored, len=%d", c.Len())
	}
}
