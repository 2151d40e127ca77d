package view

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/favorites"
)

func contact(id int64, first, last string) contacts.Contact {
	return contacts.Contact{ID: id, Fields: contacts.Fields{FirstName: first, LastName: last}}
}

func ids(items []contacts.Contact) []int64 {
	out := make([]int64, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func numbered(n int) []contacts.Contact {
	out := make([]contacts.Contact, n)
	for i := range out {
		out[i] = contact(int64(i+1), fmt.Sprintf("Name%02d", i+1), "X")
	}
	return out
}

func TestFilter(t *testing.T) {
	items := []contacts.Contact{
		{ID: 1, Fields: contacts.Fields{FirstName: "Ana", LastName: "Lopez", Phone: "555-0101"}},
		{ID: 2, Fields: contacts.Fields{FirstName: "Bob", Email: "bob@EXAMPLE.com"}},
		{ID: 3, Fields: contacts.Fields{FirstName: "Carla", Company: "Acme Corp", Street: "Ana Street"}},
		{ID: 4, Fields: contacts.Fields{FirstName: "Dan", Phone: "+1 (555) 9999x"}},
	}

	tests := []struct {
		term string
		want []int64
	}{
		{"", []int64{1, 2, 3, 4}},
		{"an", []int64{1, 4}},
		{"AN", []int64{1, 4}},
		{"example", []int64{2}},
		{"acme", []int64{3}},
		{"0101", []int64{1}},
		{"9999x", []int64{4}},
		{"9999X", nil},
		{"street", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := ids(Filter(items, tt.term))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Filter(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestSortAscendingDescendingCaseInsensitive(t *testing.T) {
	items := []contacts.Contact{
		contact(1, "carla", ""),
		contact(2, "Ana", ""),
		contact(3, "bob", ""),
	}
	if got := ids(Sort(items, SortFirstName, Ascending)); !reflect.DeepEqual(got, []int64{2, 3, 1}) {
		t.Fatalf("asc = %v, want [2 3 1]", got)
	}
	if got := ids(Sort(items, SortFirstName, Descending)); !reflect.DeepEqual(got, []int64{1, 3, 2}) {
		t.Fatalf("desc = %v, want [1 3 2]", got)
	}
	if got := ids(items); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("Sort mutated input: %v", got)
	}
}

func TestSortIsStableInBothDirections(t *testing.T) {
	items := []contacts.Contact{
		contact(1, "Ana", "Zeta"),
		contact(2, "bob", "lopez"),
		contact(3, "Cid", "Lopez"),
		contact(4, "Dee", "LOPEZ"),
		contact(5, "Eve", "Alba"),
	}
	if got := ids(Sort(items, SortLastName, Ascending)); !reflect.DeepEqual(got, []int64{5, 2, 3, 4, 1}) {
		t.Fatalf("asc = %v, want [5 2 3 4 1]", got)
	}
	if got := ids(Sort(items, SortLastName, Descending)); !reflect.DeepEqual(got, []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("desc = %v, want [1 2 3 4 5]", got)
	}
}

func TestSortByCompanyAndPhone(t *testing.T) {
	items := []contacts.Contact{
		{ID: 1, Fields: contacts.Fields{Company: "Zeta", Phone: "3"}},
		{ID: 2, Fields: contacts.Fields{Company: "acme", Phone: "1"}},
		{ID: 3, Fields: contacts.Fields{Company: "Mid", Phone: "2"}},
	}
	if got := ids(Sort(items, SortCompany, Ascending)); !reflect.DeepEqual(got, []int64{2, 3, 1}) {
		t.Fatalf("company asc = %v", got)
	}
	if got := ids(Sort(items, SortPhone, Descending)); !reflect.DeepEqual(got, []int64{1, 3, 2}) {
		t.Fatalf("phone desc = %v", got)
	}
}

func TestPagination(t *testing.T) {
	items := numbered(20)

	tests := []struct {
		page int
		want []int64
	}{
		{1, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{2, []int64{10, 11, 12, 13, 14, 15, 16, 17, 18}},
		{3, []int64{19, 20}},
		{4, []int64{}},
		{0, []int64{}},
		{1024819115206086202, []int64{}},
	}
	for _, tt := range tests {
		got := Paginate(items, tt.page)
		if got == nil {
			t.Fatalf("Paginate(%d) returned nil, want empty slice", tt.page)
		}
		if !reflect.DeepEqual(ids(got), tt.want) {
			t.Fatalf("Paginate(%d) = %v, want %v", tt.page, ids(got), tt.want)
		}
	}

	for n, want := range map[int]int{0: 0, 1: 1, 9: 1, 10: 2, 18: 2, 19: 3} {
		if got := TotalPages(n); got != want {
			t.Fatalf("TotalPages(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestNeedsClamp(t *testing.T) {
	tests := []struct {
		count, page int
		want        bool
	}{
		{0, 3, false},
		{5, 1, false},
		{9, 2, true},
		{10, 2, false},
		{18, 3, true},
		{19, 3, false},
		{1, 1024819115206086202, true},
		{0, 1024819115206086202, false},
	}
	for _, tt := range tests {
		if got := NeedsClamp(tt.count, tt.page); got != tt.want {
			t.Fatalf("NeedsClamp(%d, %d) = %v, want %v", tt.count, tt.page, got, tt.want)
		}
	}
}

func TestDerive(t *testing.T) {
	items := numbered(12)
	p := DefaultParams()
	p.Page = 2
	r := Derive(items, p)
	if r.Filtered != 12 || r.TotalPages != 2 || len(r.Items) != 3 || r.ClampToFirst {
		t.Fatalf("Derive = %+v", r)
	}

	p.Search = "Name01"
	r = Derive(items, p)
	if r.Filtered != 1 || len(r.Items) != 0 || !r.ClampToFirst {
		t.Fatalf("Derive after narrowing = %+v, want clamp", r)
	}
}

func TestDeriveHugePageClamps(t *testing.T) {
	p := DefaultParams()
	p.Page = 1024819115206086202
	r := Derive(numbered(1), p)
	if len(r.Items) != 0 || !r.ClampToFirst || r.TotalPages != 1 {
		t.Fatalf("Derive = %+v, want empty page and clamp", r)
	}
}

func TestFavoritesKeepsCollectionOrder(t *testing.T) {
	items := numbered(5)
	got := ids(Favorites(items, favorites.NewSet(4, 2, 99)))
	if !reflect.DeepEqual(got, []int64{2, 4}) {
		t.Fatalf("Favorites = %v, want [2 4]", got)
	}
}

func TestEngineMemoizes(t *testing.T) {
	var e Engine
	items := numbered(3)
	p := DefaultParams()

	first := e.Derive(items, p)
	second := e.Derive(numbered(3), p)
	if e.Hits() != 1 {
		t.Fatalf("Hits = %d, want 1", e.Hits())
	}
	if !reflect.DeepEqual(ids(first.Items), ids(second.Items)) {
		t.Fatalf("memoized result differs")
	}

	items[0].FirstName = "Zed"
	third := e.Derive(items, p)
	if e.Hits() != 1 {
		t.Fatalf("changed input reused cache")
	}
	if got := ids(third.Items); !reflect.DeepEqual(got, []int64{2, 3, 1}) {
		t.Fatalf("recomputed = %v, want [2 3 1]", got)
	}

	p.SortOrder = Descending
	e.Derive(items, p)
	if e.Hits() != 1 {
		t.Fatalf("changed params reused cache")
	}
}

func TestParamsHelpers(t *testing.T) {
	p := DefaultParams()
	if !p.IsDefault() || p.FiltersActive() {
		t.Fatalf("default params misreported: %+v", p)
	}
	p.Page = 3
	if p.IsDefault() || p.FiltersActive() {
		t.Fatalf("page alone should not count as filter: %+v", p)
	}
	p.SortOrder = p.SortOrder.Toggle()
	if !p.FiltersActive() || p.SortOrder != Descending {
		t.Fatalf("toggle order: %+v", p)
	}
	if SortPhone.Next() != SortFirstName || SortFirstName.Next() != SortLastName {
		t.Fatalf("Next does not cycle")
	}
	if SortKey("bogus").Valid() || !SortCompany.Valid() {
		t.Fatalf("Valid misreports")
	}
}
