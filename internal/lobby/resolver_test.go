package lobby

import (
	"context"
	"errors"
	"testing"

	"github.com/itsmrpeck/sglobbylink-go/internal/steam"
)

type fakeProfiles struct {
	summary     *steam.PlayerSummary
	summaryErr  error
	owned       *steam.OwnedGames
	ownedErr    error
	summaryReqs int
	ownedReqs   int
}

func (f *fakeProfiles) PlayerSummary(ctx context.Context, steamID string) (*steam.PlayerSummary, error) {
	f.summaryReqs++
	return f.summary, f.summaryErr
}

func (f *fakeProfiles) OwnedGames(ctx context.Context, steamID string) (*steam.OwnedGames, error) {
	f.ownedReqs++
	return f.owned, f.ownedErr
}

func intp(n int) *int { return &n }

func publicSummary() *steam.PlayerSummary {
	return &steam.PlayerSummary{
		SteamID:                  "76561197960435530",
		CommunityVisibilityState: steam.VisibilityPublic,
		PersonaState:             intp(1),
	}
}

func TestResolveFoundComposesURIInOrder(t *testing.T) {
	s := publicSummary()
	s.GameID = "440"
	s.LobbySteamID = "109775240975659"
	s.GameExtraInfo = "Team Fortress 2"
	f := &fakeProfiles{summary: s}

	st := NewResolver(f).Resolve(context.Background(), "76561197960435530")
	if st.Reason != ReasonFound {
		t.Fatalf("reason=%v, want found", st.Reason)
	}
	want := "steam://joinlobby/440/109775240975659/76561197960435530"
	if st.LobbyURI != want {
		t.Fatalf("uri=%q, want %q", st.LobbyURI, want)
	}
	if st.GameName != "Team Fortress 2" {
		t.Fatalf("game name=%q", st.GameName)
	}
	if f.ownedReqs != 0 {
		t.Fatalf("owned-games probed on the found path")
	}
}

func TestResolveSummaryUnavailable(t *testing.T) {
	f := &fakeProfiles{summaryErr: errors.New("status=503")}
	st := NewResolver(f).Resolve(context.Background(), "1")
	if st.Reason != ReasonSummaryUnavailable {
		t.Fatalf("reason=%v", st.Reason)
	}
}

func TestResolveLibraryUnavailable(t *testing.T) {
	f := &fakeProfiles{summary: publicSummary(), ownedErr: steam.ErrEmptyResponse}
	st := NewResolver(f).Resolve(context.Background(), "1")
	if st.Reason != ReasonLibraryUnavailable {
		t.Fatalf("reason=%v", st.Reason)
	}
}

func TestResolveDecisionTreeOrdering(t *testing.T) {
	cases := []struct {
		name    string
		summary *steam.PlayerSummary
		owned   *steam.OwnedGames
		want    Reason
	}{
		{
			name:    "library section absent",
			summary: publicSummary(),
			owned:   &steam.OwnedGames{},
			want:    ReasonLibraryNotPublic,
		},
		{
			name:    "library empty",
			summary: publicSummary(),
			owned:   &steam.OwnedGames{GameCount: intp(0)},
			want:    ReasonLibraryNotPublic,
		},
		{
			name: "profile hidden outranks offline",
			summary: &steam.PlayerSummary{
				CommunityVisibilityState: 1,
				PersonaState:             intp(0),
			},
			owned: &steam.OwnedGames{GameCount: intp(12)},
			want:  ReasonProfileNotPublic,
		},
		{
			name: "offline",
			summary: &steam.PlayerSummary{
				CommunityVisibilityState: steam.VisibilityPublic,
				PersonaState:             intp(0),
			},
			owned: &steam.OwnedGames{GameCount: intp(12)},
			want:  ReasonAppearsOffline,
		},
		{
			name: "persona state missing treated as offline",
			summary: &steam.PlayerSummary{
				CommunityVisibilityState: steam.VisibilityPublic,
			},
			owned: &steam.OwnedGames{GameCount: intp(12)},
			want:  ReasonAppearsOffline,
		},
		{
			name:    "online but idle",
			summary: publicSummary(),
			owned:   &steam.OwnedGames{GameCount: intp(12)},
			want:    ReasonOnlineNotInGame,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeProfiles{summary: tc.summary, owned: tc.owned}
			st := NewResolver(f).Resolve(context.Background(), "1")
			if st.Reason != tc.want {
				t.Fatalf("reason=%v, want %v", st.Reason, tc.want)
			}
		})
	}
}

func TestResolveInGameNoLobbyDefaultsGameName(t *testing.T) {
	s := publicSummary()
	s.GameID = "440"
	f := &fakeProfiles{summary: s, owned: &steam.OwnedGames{GameCount: intp(3)}}
	st := NewResolver(f).Resolve(context.Background(), "1")
	if st.Reason != ReasonInGameNotInLobby {
		t.Fatalf("reason=%v", st.Reason)
	}
	if st.GameName != "a game" {
		t.Fatalf("game name=%q, want default", st.GameName)
	}
}

func TestReasonImageCue(t *testing.T) {
	for r := ReasonFound; r <= ReasonInGameNotInLobby; r++ {
		want := r == ReasonProfileNotPublic || r == ReasonLibraryNotPublic
		if got := r.NeedsImageCue(); got != want {
			t.Fatalf("NeedsImageCue(%v)=%v, want %v", r, got, want)
		}
	}
}
