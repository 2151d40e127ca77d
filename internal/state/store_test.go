package state

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/favorites"
	"github.com/five82/rolo/internal/view"
)

func c(id int64, first string) contacts.Contact {
	return contacts.Contact{ID: id, Fields: contacts.Fields{FirstName: first, LastName: "X"}}
}

func ids(items []contacts.Contact) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestStore_ParamTransitions(t *testing.T) {
	s := NewStore(nil, favorites.Set{})

	s.SetCurrentPage(4)
	s.SetSortBy(view.SortCompany)
	s.SetSortOrder(view.Descending)
	if p := s.Params(); p.Page != 4 || p.SortBy != view.SortCompany || p.SortOrder != view.Descending {
		t.Fatalf("sort transitions should keep page: %+v", p)
	}
	s.SetSearchTerm("ana")
	if p := s.Params(); p.Search != "ana" || p.Page != 1 {
		t.Fatalf("SetSearchTerm should reset page: %+v", p)
	}
	s.SetCurrentPage(99)
	if p := s.Params(); p.Page != 99 {
		t.Fatalf("SetCurrentPage should store verbatim: %+v", p)
	}
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := NewStore(nil, favorites.Set{})
	_, tk := s.Begin(context.Background(), OpList)
	if err := s.CompleteList(tk, []contacts.Contact{c(1, "Ana")}, nil); err != nil {
		t.Fatalf("CompleteList: %v", err)
	}
	sel := c(1, "Ana")
	s.SetSelectedContact(&sel)
	sel.FirstName = "mutated"

	snap := s.Snapshot()
	snap.Contacts[0].FirstName = "mutated"
	snap.Selected.FirstName = "mutated"

	again := s.Snapshot()
	if again.Contacts[0].FirstName != "Ana" || again.Selected.FirstName != "Ana" {
		t.Fatalf("snapshot shares memory with store: %+v", again)
	}
}

func TestStore_PhasesAndLoadingCounter(t *testing.T) {
	s := NewStore(nil, favorites.Set{})
	s.state.Error = "old"

	_, list := s.Begin(context.Background(), OpList)
	_, create := s.Begin(context.Background(), OpCreate)
	snap := s.Snapshot()
	if !snap.Loading || snap.Error != "" {
		t.Fatalf("pending should set loading and clear error: %+v", snap)
	}

	if err := s.CompleteList(list, []contacts.Contact{c(1, "Ana")}, nil); err != nil {
		t.Fatalf("CompleteList: %v", err)
	}
	if !s.Snapshot().Loading {
		t.Fatalf("loading cleared while create still in flight")
	}
	boom := errors.New("api POST /api/contacts returned status 500")
	if err := s.CompleteCreate(create, contacts.Contact{}, boom); !errors.Is(err, boom) {
		t.Fatalf("CompleteCreate error = %v", err)
	}
	snap = s.Snapshot()
	if snap.Loading || snap.Error != boom.Error() {
		t.Fatalf("rejected phase: %+v", snap)
	}
	if !reflect.DeepEqual(ids(snap.Contacts), []int64{1}) {
		t.Fatalf("rejected create touched collection: %v", ids(snap.Contacts))
	}
	s.ClearError()
	if s.Snapshot().Error != "" {
		t.Fatalf("ClearError did not clear")
	}
}

func TestStore_StaleReadIsDiscardedAndCancelled(t *testing.T) {
	s := NewStore(nil, favorites.Set{})

	firstCtx, first := s.Begin(context.Background(), OpList)
	_, second := s.Begin(context.Background(), OpList)

	if firstCtx.Err() == nil {
		t.Fatalf("older read context not cancelled")
	}
	if err := s.CompleteList(second, []contacts.Contact{c(2, "New")}, nil); err != nil {
		t.Fatalf("CompleteList(second): %v", err)
	}
	err := s.CompleteList(first, []contacts.Contact{c(1, "Old")}, nil)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale completion error = %v, want ErrSuperseded", err)
	}
	snap := s.Snapshot()
	if !reflect.DeepEqual(ids(snap.Contacts), []int64{2}) {
		t.Fatalf("stale response applied: %v", ids(snap.Contacts))
	}
	if snap.Loading {
		t.Fatalf("loading stuck after both completions")
	}

	_, get1 := s.Begin(context.Background(), OpGet)
	_, get2 := s.Begin(context.Background(), OpGet)
	if err := s.CompleteGet(get1, contacts.Contact{}, context.Canceled); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale get error = %v", err)
	}
	if s.Snapshot().Error != "" {
		t.Fatalf("stale failure recorded an error")
	}
	if err := s.CompleteGet(get2, c(7, "Sel"), nil); err != nil {
		t.Fatalf("CompleteGet: %v", err)
	}
	if sel := s.Snapshot().Selected; sel == nil || sel.ID != 7 {
		t.Fatalf("selection = %+v, want id 7", sel)
	}
}

func TestStore_MutationsAreNeverDiscarded(t *testing.T) {
	s := NewStore(nil, favorites.Set{})
	_, a := s.Begin(context.Background(), OpCreate)
	_, b := s.Begin(context.Background(), OpCreate)
	_ = s.CompleteCreate(b, c(2, "B"), nil)
	_ = s.CompleteCreate(a, c(1, "A"), nil)
	if got := ids(s.Snapshot().Contacts); !reflect.DeepEqual(got, []int64{2, 1}) {
		t.Fatalf("contacts = %v, want [2 1]", got)
	}
}

func TestStore_UpdateReplacesEntryAndSelection(t *testing.T) {
	s := NewStore(nil, favorites.Set{})
	_, tk := s.Begin(context.Background(), OpList)
	_ = s.CompleteList(tk, []contacts.Contact{c(1, "Ana"), c(2, "Bob")}, nil)
	sel := c(2, "Bob")
	s.SetSelectedContact(&sel)

	_, up := s.Begin(context.Background(), OpUpdate)
	if err := s.CompleteUpdate(up, c(2, "Roberto"), nil); err != nil {
		t.Fatalf("CompleteUpdate: %v", err)
	}
	snap := s.Snapshot()
	if snap.Contacts[1].FirstName != "Roberto" || snap.Selected.FirstName != "Roberto" {
		t.Fatalf("update not applied: %+v", snap)
	}

	_, up = s.Begin(context.Background(), OpUpdate)
	_ = s.CompleteUpdate(up, c(42, "Ghost"), nil)
	if got := ids(s.Snapshot().Contacts); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("unknown id changed collection: %v", got)
	}
}

func TestStore_ToggleFavoritePersists(t *testing.T) {
	mem := &favorites.Memory{}
	s := NewStore(mem, favorites.Set{})

	if err := s.ToggleFavorite(3); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	persisted, _ := mem.Load()
	if !persisted.Has(3) || !s.Snapshot().Favorites.Has(3) {
		t.Fatalf("toggle not persisted")
	}
	if err := s.ToggleFavorite(3); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	persisted, _ = mem.Load()
	if persisted.Has(3) || s.Snapshot().Favorites.Has(3) {
		t.Fatalf("double toggle should return to original membership")
	}
	if mem.Saves() != 2 {
		t.Fatalf("saves = %d, want 2", mem.Saves())
	}
}

func TestStore_ToggleFavoriteWriteFailureChangesNothing(t *testing.T) {
	mem := &favorites.Memory{Err: errors.New("read-only")}
	s := NewStore(mem, favorites.NewSet(1))

	if err := s.ToggleFavorite(2); err == nil {
		t.Fatalf("ToggleFavorite should fail")
	}
	snap := s.Snapshot()
	if snap.Favorites.Has(2) || !snap.Favorites.Has(1) {
		t.Fatalf("memory changed after failed write: %v", snap.Favorites.IDs())
	}
	if snap.Error == "" {
		t.Fatalf("failure not recorded")
	}
}

func TestStore_DeleteCascadesFavorite(t *testing.T) {
	mem := &favorites.Memory{}
	s := NewStore(mem, favorites.NewSet(1, 2))
	_, tk := s.Begin(context.Background(), OpList)
	_ = s.CompleteList(tk, []contacts.Contact{c(1, "Ana"), c(2, "Bob"), c(3, "Cid")}, nil)
	sel := c(1, "Ana")
	s.SetSelectedContact(&sel)

	_, del := s.Begin(context.Background(), OpDelete)
	if err := s.CompleteDelete(del, 1, nil); err != nil {
		t.Fatalf("CompleteDelete: %v", err)
	}
	snap := s.Snapshot()
	if got := ids(snap.Contacts); !reflect.DeepEqual(got, []int64{2, 3}) {
		t.Fatalf("contacts = %v", got)
	}
	if snap.Favorites.Has(1) || snap.Selected != nil {
		t.Fatalf("cascade incomplete: favorites=%v selected=%v", snap.Favorites.IDs(), snap.Selected)
	}
	persisted, _ := mem.Load()
	if !reflect.DeepEqual(persisted.IDs(), []int64{2}) {
		t.Fatalf("persisted = %v, want [2]", persisted.IDs())
	}

	saves := mem.Saves()
	_, del = s.Begin(context.Background(), OpDelete)
	_ = s.CompleteDelete(del, 3, nil)
	if mem.Saves() != saves {
		t.Fatalf("deleting a non-favorite rewrote favorites")
	}
	if !reflect.DeepEqual(s.Snapshot().Favorites.IDs(), []int64{2}) {
		t.Fatalf("non-favorite delete changed favorites")
	}
}

func TestStore_DeleteFailureLeavesEverything(t *testing.T) {
	s := NewStore(&favorites.Memory{}, favorites.NewSet(1))
	_, tk := s.Begin(context.Background(), OpList)
	_ = s.CompleteList(tk, []contacts.Contact{c(1, "Ana")}, nil)

	_, del := s.Begin(context.Background(), OpDelete)
	_ = s.CompleteDelete(del, 1, errors.New("api DELETE /api/contacts/1 returned status 404"))
	snap := s.Snapshot()
	if len(snap.Contacts) != 1 || !snap.Favorites.Has(1) || snap.Error == "" {
		t.Fatalf("failed delete mutated state: %+v", snap)
	}
}

func TestStore_DeleteWithFavoriteWriteFailure(t *testing.T) {
	mem := &favorites.Memory{}
	s := NewStore(mem, favorites.NewSet(1))
	_, tk := s.Begin(context.Background(), OpList)
	_ = s.CompleteList(tk, []contacts.Contact{c(1, "Ana")}, nil)
	mem.Err = errors.New("disk full")

	_, del := s.Begin(context.Background(), OpDelete)
	if err := s.CompleteDelete(del, 1, nil); err == nil {
		t.Fatalf("expected favorite write error")
	}
	snap := s.Snapshot()
	if len(snap.Contacts) != 0 {
		t.Fatalf("contact should be removed after a successful remote delete")
	}
	if !snap.Favorites.Has(1) || snap.Error == "" {
		t.Fatalf("favorites changed or error missing: %+v", snap)
	}
}
