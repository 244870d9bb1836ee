package pagination

import (
	"reflect"
	"testing"
)

func TestTotalPages(t *testing.T) {
	cases := []struct{ items, size, want int }{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{7, 5, 2},
		{10, 5, 2},
		{11, 5, 3},
	}
	for _, c := range cases {
		if got := TotalPages(c.items, c.size); got != c.want {
			t.Errorf("TotalPages(%d,%d) = %d, want %d", c.items, c.size, got, c.want)
		}
	}
}

func TestClampAfterShrink(t *testing.T) {
	// 7 records page size 5: deleting one from page 1 keeps two pages, page stays 1
	if got := Clamp(1, 6, 5); got != 1 {
		t.Fatalf("page = %d, want 1", got)
	}
	// 6 records page size 5 on page 2: deleting the 6th clamps back to page 1
	if got := Clamp(2, 5, 5); got != 1 {
		t.Fatalf("page = %d, want 1", got)
	}
}

func TestClampBounds(t *testing.T) {
	for items := 0; items <= 23; items++ {
		for page := -1; page <= 10; page++ {
			got := Clamp(page, items, 5)
			tp := TotalPages(items, 5)
			if got < 1 || got > tp {
				t.Fatalf("Clamp(%d,%d,5) = %d outside [1,%d]", page, items, got, tp)
			}
		}
	}
}

func pages(items []Item) []int {
	var out []int
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, -1)
		} else {
			out = append(out, it.Page)
		}
	}
	return out
}

func TestWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int // -1 marks an ellipsis
	}{
		{1, 1, []int{1}},
		{1, 2, []int{1, 2}},
		{1, 5, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{1, 2, 3, 4, 5, 6, 7, -1, 10}},
		{6, 10, []int{1, -1, 4, 5, 6, 7, 8, 9, 10}},
		{1, 10, []int{1, 2, 3, -1, 10}},
		{10, 10, []int{1, -1, 8, 9, 10}},
		{2, 10, []int{1, 2, 3, 4, -1, 10}},
	}
	for _, c := range cases {
		got := pages(Window(c.current, c.total, 2))
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Window(%d,%d,2) = %v, want %v", c.current, c.total, got, c.want)
		}
	}
}

func TestWindowEdgesAlwaysPresent(t *testing.T) {
	for total := 1; total <= 15; total++ {
		for cur := 1; cur <= total; cur++ {
			w := Window(cur, total, 2)
			if w[0].Page != 1 {
				t.Fatalf("Window(%d,%d) missing first page", cur, total)
			}
			if last := w[len(w)-1]; last.Page != total {
				t.Fatalf("Window(%d,%d) missing last page", cur, total)
			}
		}
	}
}

func TestSlice(t *testing.T) {
	records := []int{1, 2, 3, 4, 5, 6, 7}
	if got := Slice(records, 1, 5); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("page 1 = %v", got)
	}
	if got := Slice(records, 2, 5); !reflect.DeepEqual(got, []int{6, 7}) {
		t.Fatalf("page 2 = %v", got)
	}
	if got := Slice(records, 3, 5); len(got) != 0 {
		t.Fatalf("page 3 = %v, want empty", got)
	}
}
