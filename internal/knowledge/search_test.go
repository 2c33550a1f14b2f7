package knowledge

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func TestYearScoreOrdering(t *testing.T) {
	exact := YearScore(2000, 2000)
	one := YearScore(2000, 2001)
	two := YearScore(2000, 1998)
	far := YearScore(2000, 1990)
	if !(exact > one && one > two && two > far) {
		t.Fatalf("expected strict ordering, got %d %d %d %d", exact, one, two, far)
	}
	if YearScore(0, 2000) != 5 || YearScore(2000, 0) != 5 {
		t.Fatal("missing years should score neutrally")
	}
}

func TestSearchRanksByYearProximity(t *testing.T) {
	c := New("", nil)
	for _, e := range []Entry{
		{Title: "Dune", Year: 1984, ID: "tt0087182", Kind: KindMovie},
		{Title: "Dune", Year: 2021, ID: "tt1160419", Kind: KindMovie},
		{Title: "Dune", Year: 2000, ID: "tt0142032", Kind: KindTVMiniSeries},
		{Title: "DUNE!", Year: 2020, ID: "tt9999999", Kind: KindMovie},
	} {
		if _, err := c.Learn(e); err != nil {
			t.Fatal(err)
		}
	}
	got := c.Search("dune", 2021, FilterNone)
	if len(got) != 3 {
		t.Fatalf("expected top 3, got %d", len(got))
	}
	if got[0].ID != "tt1160419" || got[1].ID != "tt9999999" {
		t.Fatalf("unexpected ranking: %+v", got)
	}

	movies := c.Search("Dune", 2000, FilterMovie)
	for _, e := range movies {
		if e.Kind != KindMovie {
			t.Fatalf("movie filter leaked %+v", e)
		}
	}
	episodes := c.Search("Dune", 2000, FilterEpisode)
	if len(episodes) == 0 || episodes[0].ID != "tt0142032" {
		t.Fatalf("episode filter should be permissive, got %+v", episodes)
	}
	if c.Search("Arrival", 2016, FilterNone) != nil {
		t.Fatal("absent key should return nil")
	}
}

func TestSearchIsInsertionOrderIndependent(t *testing.T) {
	entries := make([]Entry, 0, 8)
	for i := range 8 {
		entries = append(entries, Entry{
			Title: "The Thing",
			Year:  Year(1975 + i*3),
			ID:    fmt.Sprintf("tt%07d", i+1),
			Kind:  KindMovie,
		})
	}
	build := func(order []Entry) []Entry {
		c := New("", nil)
		for _, e := range order {
			if _, err := c.Learn(e); err != nil {
				t.Fatal(err)
			}
		}
		return c.Search("the thing", 1982, FilterNone)
	}

	want := build(entries)
	rng := rand.New(rand.NewSource(7))
	for range 20 {
		shuffled := append([]Entry(nil), entries...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := build(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("order-dependent result: got %+v want %+v", got, want)
		}
	}
}
