package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itsmrpeck/sglobbylink-go/internal/steam"
)

const (
	namedProfileMarker   = "steamcommunity.com/id"
	numericProfileMarker = "steamcommunity.com/profiles"

	maxTokenLen = 200
)

var (
	ErrMalformedURL     = errors.New("profile url has no path segment after the marker")
	ErrFullURLRequired  = errors.New("bare vanity names are not accepted")
	ErrTooLong          = errors.New("identity token too long")
	ErrResolutionFailed = errors.New("vanity resolution failed")
)

// NotFoundError reports a vanity name the resolution service answered for
// but could not match to an account.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no account found for vanity name %q", e.Token)
}

// VanityResolver is the external profile-resolution collaborator.
type VanityResolver interface {
	ResolveVanity(ctx context.Context, vanity string) (*steam.VanityResult, error)
}

// Parser normalizes free-text input into a canonical numeric identity.
type Parser struct {
	resolver       VanityResolver
	requireFullURL bool
}

func NewParser(resolver VanityResolver, requireFullURL bool) *Parser {
	return &Parser{resolver: resolver, requireFullURL: requireFullURL}
}

// Parse accepts a numeric identity, a vanity name, or either community
// profile URL shape, and returns the canonical identity. Vanity names go
// through the resolver; all-digit tokens never do.
func (p *Parser) Parse(ctx context.Context, raw string) (string, error) {
	token := strings.TrimSuffix(raw, "/")

	if idx := strings.Index(token, namedProfileMarker); idx >= 0 {
		tail, err := pathTail(token, idx+len(namedProfileMarker))
		if err != nil {
			return "", err
		}
		token = tail
	} else if idx := strings.Index(token, numericProfileMarker); idx >= 0 {
		tail, err := pathTail(token, idx+len(numericProfileMarker))
		if err != nil {
			return "", err
		}
		token = tail
	} else if p.requireFullURL {
		return "", ErrFullURLRequired
	}

	if len(token) > maxTokenLen {
		return "", ErrTooLong
	}
	if isDigits(token) {
		return token, nil
	}

	res, err := p.resolver.ResolveVanity(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrResolutionFailed, err)
	}
	if strings.TrimSpace(res.SteamID) == "" {
		return "", &NotFoundError{Token: token}
	}
	return res.SteamID, nil
}

// pathTail returns everything after the last '/' that occurs at or past
// markerEnd. A URL whose marker is not followed by a segment is malformed.
func pathTail(token string, markerEnd int) (string, error) {
	lastSlash := strings.LastIndex(token, "/")
	if lastSlash < markerEnd {
		return "", ErrMalformedURL
	}
	return token[lastSlash+1:], nil
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
