package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// CSRFHeader carries the token on cookie-authenticated writes
const CSRFHeader = "X-CSRF-Token"

const csrfPeriod = 24 * time.Hour

// CSRFGenerator derives CSRF tokens from the player ID, a secret and the
// current day. A token stays valid for the rest of its day and the next one.
type CSRFGenerator struct {
	secret []byte
	now    func() time.Time
}

// NewCSRFGenerator creates a stateless HMAC-based CSRF generator
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret), now: time.Now}
}

func (g *CSRFGenerator) tokenFor(playerID string, period int64) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(playerID))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(period, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *CSRFGenerator) period() int64 {
	return g.now().Unix() / int64(csrfPeriod/time.Second)
}

// Token returns the current token for playerID
func (g *CSRFGenerator) Token(playerID string) string {
	if playerID == "" {
		return ""
	}
	return g.tokenFor(playerID, g.period())
}

// Valid reports whether token belongs to playerID for this period or the previous one
func (g *CSRFGenerator) Valid(playerID, token string) bool {
	if playerID == "" || token == "" {
		return false
	}
	p := g.period()
	for _, candidate := range []int64{p, p - 1} {
		if hmac.Equal([]byte(g.tokenFor(playerID, candidate)), []byte(token)) {
			return true
		}
	}
	return false
}
