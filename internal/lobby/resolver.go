package lobby

import (
	"context"

	"github.com/itsmrpeck/sglobbylink-go/internal/obslog"
	"github.com/itsmrpeck/sglobbylink-go/internal/steam"
	"go.uber.org/zap"
)

// Reason is the terminal outcome of one lobby resolution.
type Reason int

const (
	ReasonFound Reason = iota
	ReasonSummaryUnavailable
	ReasonLibraryUnavailable
	ReasonLibraryNotPublic
	ReasonProfileNotPublic
	ReasonAppearsOffline
	ReasonOnlineNotInGame
	ReasonInGameNotInLobby
)

func (r Reason) String() string {
	switch r {
	case ReasonFound:
		return "found"
	case ReasonSummaryUnavailable:
		return "summary_unavailable"
	case ReasonLibraryUnavailable:
		return "library_unavailable"
	case ReasonLibraryNotPublic:
		return "library_not_public"
	case ReasonProfileNotPublic:
		return "profile_not_public"
	case ReasonAppearsOffline:
		return "appears_offline"
	case ReasonOnlineNotInGame:
		return "online_not_in_game"
	case ReasonInGameNotInLobby:
		return "in_game_not_in_lobby"
	default:
		return "unknown"
	}
}

// NeedsImageCue reports whether the outcome warrants the privacy
// instructions image.
func (r Reason) NeedsImageCue() bool {
	return r == ReasonProfileNotPublic || r == ReasonLibraryNotPublic
}

// Status is the result of one resolution attempt. LobbyURI is set only for
// ReasonFound; GameName may accompany Found and InGameNotInLobby.
type Status struct {
	Reason   Reason
	LobbyURI string
	GameName string
}

// ProfileService is the external player-data collaborator.
type ProfileService interface {
	PlayerSummary(ctx context.Context, steamID string) (*steam.PlayerSummary, error)
	OwnedGames(ctx context.Context, steamID string) (*steam.OwnedGames, error)
}

// Resolver walks the lobby decision tree: one guard per step, each
// terminal, so a profile state can never fall through to the wrong answer.
type Resolver struct {
	svc ProfileService
}

func NewResolver(svc ProfileService) *Resolver {
	return &Resolver{svc: svc}
}

func (r *Resolver) Resolve(ctx context.Context, identity string) Status {
	summary, err := r.svc.PlayerSummary(ctx, identity)
	if err != nil {
		obslog.L().Warn("player_summary_failed", zap.String("steam_id", identity), zap.Error(err))
		return Status{Reason: ReasonSummaryUnavailable}
	}

	if summary.LobbySteamID != "" {
		return Status{
			Reason:   ReasonFound,
			LobbyURI: ComposeLobbyURI(summary.GameID, summary.LobbySteamID, identity),
			GameName: summary.GameExtraInfo,
		}
	}

	// No lobby reference. Probe the game library to tell privacy apart
	// from presence.
	owned, err := r.svc.OwnedGames(ctx, identity)
	if err != nil {
		obslog.L().Warn("owned_games_failed", zap.String("steam_id", identity), zap.Error(err))
		return Status{Reason: ReasonLibraryUnavailable}
	}
	if owned.GameCount == nil || *owned.GameCount == 0 {
		return Status{Reason: ReasonLibraryNotPublic}
	}

	if summary.CommunityVisibilityState != steam.VisibilityPublic {
		return Status{Reason: ReasonProfileNotPublic}
	}
	if summary.PersonaState == nil || *summary.PersonaState == 0 {
		return Status{Reason: ReasonAppearsOffline}
	}
	if summary.GameID == "" {
		return Status{Reason: ReasonOnlineNotInGame}
	}

	gameName := summary.GameExtraInfo
	if gameName == "" {
		gameName = "a game"
	}
	return Status{Reason: ReasonInGameNotInLobby, GameName: gameName}
}

// ComposeLobbyURI builds the joinable link: scheme, game, lobby, identity,
// in that order.
func ComposeLobbyURI(gameID, lobbyID, identity string) string {
	return "steam://joinlobby/" + gameID + "/" + lobbyID + "/" + identity
}
