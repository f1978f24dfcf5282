package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// Vivox token actions the service can sign for.
const (
	VivoxTokenActionLogin = "login"
	VivoxTokenActionJoin  = "join"
)

const vivoxTokenTTL = time.Hour

// VivoxService signs Vivox access tokens for voice chat. Tokens follow the
// Vivox access token format: HS256 JWTs whose claims carry the action and
// the SIP URIs involved.
type VivoxService struct {
	secret string
	issuer string
	domain string
}

// NewVivoxService builds a token signer for the given Vivox credentials.
func NewVivoxService(secret, issuer, domain string) *VivoxService {
	return &VivoxService{secret: secret, issuer: issuer, domain: domain}
}

// GenerateToken signs a token allowing user to perform action. channelName
// is required for join tokens and ignored for login tokens.
func (s *VivoxService) GenerateToken(user, action, channelName string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("vivox service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("vivox config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, channelName, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(vivoxTokenTTL).Unix(),
		"vxa": action,
		// vxi must be unique per token or Vivox rejects replays.
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VivoxService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VivoxService) channelURI(channelName string) string {
	return "sip:confctl-g-" + channelName + "@" + s.domain
}

func (s *VivoxService) targetURI(action, channelName, userURI string) (string, error) {
	switch action {
	case VivoxTokenActionLogin:
		return userURI, nil
	case VivoxTokenActionJoin:
		if channelName == "" {
			return "", fmt.Errorf("channel name is required for join tokens")
		}
		return s.channelURI(channelName), nil
	default:
		return "", fmt.Errorf("unsupported vivox action: %s", action)
	}
}
