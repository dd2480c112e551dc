package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/itsmrpeck/sglobbylink-go/internal/config"
	"github.com/itsmrpeck/sglobbylink-go/internal/gateway"
	"github.com/itsmrpeck/sglobbylink-go/internal/identity"
	"github.com/itsmrpeck/sglobbylink-go/internal/lobby"
	"github.com/itsmrpeck/sglobbylink-go/internal/msgcat"
	"github.com/itsmrpeck/sglobbylink-go/internal/obslog"
	"github.com/itsmrpeck/sglobbylink-go/internal/quota"
	"go.uber.org/zap"
)

// CommandKind is the parsed inbound command.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandHelp
	CommandSteamID
	CommandLobby
)

// commandOrder fixes prefix-match priority: the first hit wins.
var commandOrder = []struct {
	word string
	kind CommandKind
}{
	{"help", CommandHelp},
	{"steamid", CommandSteamID},
	{"lobby", CommandLobby},
}

// Deps are the collaborators a Dispatcher drives.
type Deps struct {
	Quota    *quota.Tracker
	Parser   *identity.Parser
	Store    *identity.Store
	Resolver *lobby.Resolver
	Cooldown *lobby.Cooldown
	Egress   gateway.Egress
	Catalog  *msgcat.Catalog
}

// Dispatcher turns one inbound message into at most one response. Policy
// violations and unrecognized input drop silently; everything else answers.
type Dispatcher struct {
	prefix         string
	allowlist      []string
	allowDM        bool
	requireFullURL bool

	deps Deps

	imageBase64 string
}

func NewDispatcher(cfg *config.AppConfig, deps Deps) *Dispatcher {
	return &Dispatcher{
		prefix:         cfg.CommandPrefix,
		allowlist:      cfg.ChannelAllowlist,
		allowDM:        cfg.AllowDirectMessages,
		requireFullURL: cfg.RequireFullProfileURL,
		deps:           deps,
	}
}

// SetImage registers the base64-encoded privacy instructions image. An empty
// value disables image cues regardless of cooldown state.
func (d *Dispatcher) SetImage(imageBase64 string) {
	d.imageBase64 = imageBase64
}

// Classify maps message content to a command by literal prefix match.
func (d *Dispatcher) Classify(content string) CommandKind {
	if !strings.HasPrefix(content, d.prefix) {
		return CommandNone
	}
	rest := content[len(d.prefix):]
	for _, c := range commandOrder {
		if strings.HasPrefix(rest, c.word) {
			return c.kind
		}
	}
	return CommandNone
}

// Handle processes one inbound message to completion.
func (d *Dispatcher) Handle(ctx context.Context, msg *gateway.Message) {
	if msg == nil || !strings.HasPrefix(msg.Content, d.prefix) {
		return
	}
	if msg.IsDM && !d.allowDM {
		return
	}
	if !msg.IsDM && len(d.allowlist) > 0 && !channelAllowed(d.allowlist, msg.ChannelID) {
		return
	}

	cmd := d.Classify(msg.Content)
	if cmd == CommandNone {
		return
	}

	log := obslog.L().With(
		zap.String("request_id", uuid.NewString()),
		zap.String("channel", msg.ChannelID),
		zap.String("author", msg.AuthorID),
	)

	switch d.deps.Quota.Increment(msg.AuthorID) {
	case quota.AlreadyOverLimit:
		// No response: answering every over-limit request would spam the
		// channel with limit notices.
		log.Debug("quota_drop")
		return
	case quota.GlobalJustExceeded:
		log.Info("quota_global_exhausted")
		d.reply(ctx, log, msg, "quota.global_exhausted", nil)
		return
	case quota.UserJustExceeded:
		log.Info("quota_user_exhausted")
		d.reply(ctx, log, msg, "quota.user_exhausted", map[string]string{"Name": msg.AuthorName})
		return
	}

	switch cmd {
	case CommandHelp:
		d.reply(ctx, log, msg, "help.text", map[string]string{
			"Prefix":       d.prefix,
			"Instructions": d.instructions(log),
		})
	case CommandSteamID:
		d.handleSteamID(ctx, log, msg)
	case CommandLobby:
		d.handleLobby(ctx, log, msg)
	}
}

func (d *Dispatcher) handleSteamID(ctx context.Context, log *zap.Logger, msg *gateway.Message) {
	words := strings.Fields(msg.Content)
	if len(words) < 2 {
		d.replyUsage(ctx, log, msg)
		return
	}

	steamID, err := d.deps.Parser.Parse(ctx, words[1])
	if err != nil {
		log.Info("steamid_parse_rejected", zap.Error(err))
		var notFound *identity.NotFoundError
		switch {
		case errors.Is(err, identity.ErrTooLong):
			d.reply(ctx, log, msg, "steamid.too_long", nil)
		case errors.Is(err, identity.ErrResolutionFailed):
			d.reply(ctx, log, msg, "steamid.resolve_failed", map[string]string{"Name": msg.AuthorName})
		case errors.As(err, &notFound):
			d.reply(ctx, log, msg, "steamid.not_found", map[string]string{
				"Token":        notFound.Token,
				"Instructions": d.instructions(log),
			})
		default:
			// malformed URL or bare name under the full-URL policy
			d.replyUsage(ctx, log, msg)
		}
		return
	}

	d.deps.Store.Put(ctx, msg.AuthorID, steamID)
	log.Info("steamid_saved", zap.String("steam_id", steamID))
	d.reply(ctx, log, msg, "steamid.saved", map[string]string{"Name": msg.AuthorName})
}

func (d *Dispatcher) handleLobby(ctx context.Context, log *zap.Logger, msg *gateway.Message) {
	steamID, ok := d.deps.Store.Get(msg.AuthorID)
	if !ok {
		d.reply(ctx, log, msg, "lobby.not_registered", map[string]string{
			"Name":         msg.AuthorName,
			"Prefix":       d.prefix,
			"Instructions": d.instructions(log),
		})
		return
	}

	status := d.deps.Resolver.Resolve(ctx, steamID)
	log.Info("lobby_resolved", zap.String("reason", status.Reason.String()))

	data := map[string]string{
		"Name":     msg.AuthorName,
		"GameName": status.GameName,
		"URI":      status.LobbyURI,
	}
	d.reply(ctx, log, msg, reasonMessageKey(status.Reason), data)

	if status.Reason.NeedsImageCue() && d.imageBase64 != "" && d.deps.Cooldown.TryFire() {
		if err := d.deps.Egress.SendImage(ctx, msg.ChannelID, d.imageBase64); err != nil {
			log.Warn("image_send_failed", zap.Error(err))
		}
	}
}

func reasonMessageKey(r lobby.Reason) string {
	switch r {
	case lobby.ReasonFound:
		return "lobby.found"
	case lobby.ReasonSummaryUnavailable:
		return "lobby.summary_unavailable"
	case lobby.ReasonLibraryUnavailable:
		return "lobby.library_unavailable"
	case lobby.ReasonLibraryNotPublic:
		return "lobby.library_not_public"
	case lobby.ReasonProfileNotPublic:
		return "lobby.profile_not_public"
	case lobby.ReasonAppearsOffline:
		return "lobby.appears_offline"
	case lobby.ReasonOnlineNotInGame:
		return "lobby.online_not_in_game"
	default:
		return "lobby.in_game_not_in_lobby"
	}
}

func (d *Dispatcher) replyUsage(ctx context.Context, log *zap.Logger, msg *gateway.Message) {
	d.reply(ctx, log, msg, "steamid.usage", map[string]string{
		"Prefix":       d.prefix,
		"Instructions": d.instructions(log),
	})
}

func (d *Dispatcher) instructions(log *zap.Logger) string {
	key := "steamid.instructions_partial"
	if d.requireFullURL {
		key = "steamid.instructions_full_url"
	}
	text, err := d.deps.Catalog.Render(key, map[string]string{"Prefix": d.prefix})
	if err != nil {
		log.Error("message_render_failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return text
}

func (d *Dispatcher) reply(ctx context.Context, log *zap.Logger, msg *gateway.Message, key string, data map[string]string) {
	text, err := d.deps.Catalog.Render(key, data)
	if err != nil {
		log.Error("message_render_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := d.deps.Egress.SendText(ctx, msg.ChannelID, text); err != nil {
		log.Warn("reply_send_failed", zap.String("key", key), zap.Error(err))
	}
}

func channelAllowed(allowlist []string, channel string) bool {
	for _, c := range allowlist {
		if c == channel {
			return true
		}
	}
	return false
}
