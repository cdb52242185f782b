package engine_test

import (
	"errors"
	"testing"

	"github.com/musetera/comunidade/client/internal/engine"
)

func TestJoinAndLeaveCommunity(t *testing.T) {
	eng, _ := newTestEngine(t)

	if err := eng.JoinCommunity("insight"); err != nil {
		t.Fatalf("JoinCommunity: %v", err)
	}
	if !eng.IsMember("insight") {
		t.Fatal("IsMember = false after join")
	}
	if got, want := eng.Actions().State("join_community:insight"), engine.StateCommitted; got != want {
		t.Fatalf("action state = %v, want %v", got, want)
	}

	if err := eng.LeaveCommunity("insight"); err != nil {
		t.Fatalf("LeaveCommunity: %v", err)
	}
	if eng.IsMember("insight") {
		t.Fatal("IsMember = true after leave")
	}
}

func TestJoinCommunityRejectsEmptyID(t *testing.T) {
	eng, _ := newTestEngine(t)

	if err := eng.JoinCommunity(""); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestJoinedCommunitiesSorted(t *testing.T) {
	eng, _ := newTestEngine(t)

	for _, id := range []string{"zen", "acolhimento", "insight"} {
		if err := eng.JoinCommunity(id); err != nil {
			t.Fatalf("JoinCommunity(%s): %v", id, err)
		}
	}

	got := eng.JoinedCommunities()
	want := []string{"acolhimento", "insight", "zen"}
	if len(got) != len(want) {
		t.Fatalf("JoinedCommunities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("JoinedCommunities = %v, want %v", got, want)
		}
	}
}
