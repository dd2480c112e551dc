package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/itsmrpeck/sglobbylink-go/internal/gateway"
	"github.com/itsmrpeck/sglobbylink-go/internal/steam"
)

// Connectivity probe: checks the bridge reply endpoint and runs one Steam
// lookup for the identity or vanity name given as the first argument.
func main() {
	apiKey := os.Getenv("STEAM_API_KEY")
	baseURL := os.Getenv("BRIDGE_BASE_URL")

	if apiKey == "" {
		log.Fatal("STEAM_API_KEY is required")
	}
	if len(os.Args) < 2 {
		log.Fatal("usage: steamcheck <steamid64-or-vanity-name>")
	}
	target := strings.TrimSpace(os.Args[1])

	if baseURL != "" {
		client := gateway.NewClient(baseURL, gateway.WithTimeout(8*time.Second))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		h, err := client.Health(ctx)
		cancel()
		if err != nil {
			log.Printf("/health error: %v", err)
		} else {
			log.Printf("/health ok: status=%s gateway=%s uptime=%ds", h.Status, h.Gateway, h.UptimeSec)
		}
	} else {
		log.Println("BRIDGE_BASE_URL not set; skipping bridge check")
	}

	sc := steam.NewClient(apiKey, steam.WithTimeout(8*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	steamID := target
	if !isDigits(target) {
		res, err := sc.ResolveVanity(ctx, target)
		if err != nil {
			log.Fatalf("ResolveVanityURL error: %v", err)
		}
		if res.SteamID == "" {
			log.Fatalf("no account found for vanity name %q", target)
		}
		log.Printf("vanity %q -> %s", target, res.SteamID)
		steamID = res.SteamID
	}

	summary, err := sc.PlayerSummary(ctx, steamID)
	if err != nil {
		log.Fatalf("GetPlayerSummaries error: %v", err)
	}
	persona := -1
	if summary.PersonaState != nil {
		persona = *summary.PersonaState
	}
	log.Printf("summary: visibility=%d persona=%d game=%q lobby=%q",
		summary.CommunityVisibilityState, persona, summary.GameID, summary.LobbySteamID)

	owned, err := sc.OwnedGames(ctx, steamID)
	if err != nil {
		log.Printf("GetOwnedGames error: %v", err)
		return
	}
	if owned.GameCount == nil {
		log.Println("owned games: library not visible")
		return
	}
	log.Printf("owned games: %d", *owned.GameCount)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
