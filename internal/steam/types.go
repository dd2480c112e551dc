package steam

// Wire types mirror the Steam Web API JSON envelopes. Optional sections use
// pointers so that absence is distinguishable from a zero value.

type vanityEnvelope struct {
	Response *VanityResult `json:"response"`
}

// VanityResult is the ResolveVanityURL answer. SteamID is empty when the
// vanity name did not match an account.
type VanityResult struct {
	SteamID string `json:"steamid"`
	Success int    `json:"success"`
}

type summariesEnvelope struct {
	Response *summariesResult `json:"response"`
}

type summariesResult struct {
	Players []PlayerSummary `json:"players"`
}

// PlayerSummary carries the presence and lobby fields this bot cares about.
// VisibilityPublic for CommunityVisibilityState means the profile is visible
// to the bot; PersonaState 0 is offline.
type PlayerSummary struct {
	SteamID                  string `json:"steamid"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	PersonaState             *int   `json:"personastate"`
	GameID                   string `json:"gameid"`
	LobbySteamID             string `json:"lobbysteamid"`
	GameExtraInfo            string `json:"gameextrainfo"`
}

const VisibilityPublic = 3

type ownedGamesEnvelope struct {
	Response *OwnedGames `json:"response"`
}

// OwnedGames is the GetOwnedGames answer. GameCount is nil when the library
// section is withheld (private game details).
type OwnedGames struct {
	GameCount *int `json:"game_count"`
}
