package feedcache

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/ppiankov/feedcache/internal/feed"
)

func loaded(posts []feed.Post) *FeedCache {
	c := New(Config{})
	c.posts = posts
	return c
}

func TestGet_Ordering(t *testing.T) {
	posts := samplePosts(5)
	reversed := slices.Clone(posts)
	slices.Reverse(reversed)
	c := loaded(posts)

	for n := 0; n <= len(posts); n++ {
		asc, err := c.Get(n, OrderAsc)
		if err != nil {
			t.Fatalf("Get(%d, asc): %v", n, err)
		}
		if !reflect.DeepEqual(asc, posts[:n]) {
			t.Errorf("Get(%d, asc) = %+v, want %+v", n, asc, posts[:n])
		}

		desc, err := c.Get(n, OrderDesc)
		if err != nil {
			t.Fatalf("Get(%d, desc): %v", n, err)
		}
		if !reflect.DeepEqual(desc, reversed[:n]) {
			t.Errorf("Get(%d, desc) = %+v, want %+v", n, desc, reversed[:n])
		}
	}
}

func TestGet_CountBeyondAvailable(t *testing.T) {
	posts := samplePosts(3)
	c := loaded(posts)

	got, err := c.Get(100, OrderAsc)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, posts) {
		t.Errorf("got %+v, want all posts", got)
	}

	got, _ = c.Get(4, OrderDesc)
	if len(got) != 3 || got[0] != posts[2] {
		t.Errorf("desc overflow = %+v", got)
	}
}

func TestGet_UnknownOrderIsAscending(t *testing.T) {
	posts := samplePosts(3)
	c := loaded(posts)

	got, err := c.Get(2, Order("sideways"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, posts[:2]) {
		t.Errorf("got %+v, want ascending", got)
	}
}

func TestGet_Errors(t *testing.T) {
	if _, err := New(Config{}).Get(3, OrderAsc); !errors.Is(err, ErrNoData) {
		t.Errorf("empty: err = %v, want ErrNoData", err)
	}
	if _, err := loaded(samplePosts(2)).Get(-1, OrderAsc); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative: err = %v, want ErrInvalidArgument", err)
	}
}

func TestGet_ResultIsIndependent(t *testing.T) {
	c := loaded(samplePosts(3))

	got, _ := c.Get(2, OrderDesc)
	got[0].Content = "changed"

	all, _ := c.GetAll()
	for _, p := range all {
		if p.Content == "changed" {
			t.Fatalf("held posts mutated through Get result: %+v", all)
		}
	}
	if all[0].Content != "post 1" {
		t.Errorf("held order changed: %+v", all)
	}
}

func TestGetAll(t *testing.T) {
	if _, err := New(Config{}).GetAll(); !errors.Is(err, ErrNoData) {
		t.Errorf("empty: err = %v, want ErrNoData", err)
	}

	posts := samplePosts(4)
	c := loaded(posts)
	all, err := c.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if !reflect.DeepEqual(all, posts) {
		t.Errorf("got %+v, want %+v", all, posts)
	}

	all[0].Content = "changed"
	again, _ := c.GetAll()
	if again[0].Content != "post 1" {
		t.Error("GetAll result aliases held posts")
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 10 ", 10, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"three", 0, true},
		{"", 0, true},
		{"2.5", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCount(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ParseCount(%q): err = %v, want ErrInvalidArgument", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCount(%q): unexpected error %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseOrder(t *testing.T) {
	tests := map[string]Order{
		"desc":   OrderDesc,
		"DESC":   OrderAsc,
		"Desc":   OrderAsc,
		" desc ": OrderAsc,
		"asc":    OrderAsc,
		"":       OrderAsc,
		"random": OrderAsc,
	}
	for input, want := range tests {
		if got := ParseOrder(input); got != want {
			t.Errorf("ParseOrder(%q) = %q, want %q", input, got, want)
		}
	}
}
