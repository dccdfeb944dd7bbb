package splynx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const authScheme = "Splynx-EA"

// Sign returns the upper-case hex HMAC-SHA256 of nonce+apiKey keyed by apiSecret.
func Sign(nonce int64, apiKey, apiSecret string) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	_, _ = mac.Write([]byte(strconv.FormatInt(nonce, 10) + apiKey))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// AuthorizationHeader builds the value of the Authorization header for one request.
func AuthorizationHeader(nonce int64, apiKey, apiSecret string) string {
	return authScheme + " (key=" + url.QueryEscape(apiKey) +
		"&signature=" + Sign(nonce, apiKey, apiSecret) +
		"&nonce=" + strconv.FormatInt(nonce, 10) + ")"
}

// NonceGenerator hands out wall-clock centisecond nonces. Values are strictly
// increasing within a process: when the clock has not advanced since the last
// call the previous value plus one is returned.
type NonceGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

func NewNonceGenerator() *NonceGenerator {
	return &NonceGenerator{now: time.Now}
}

func (g *NonceGenerator) Next() int64 {
	candidate := g.now().UnixNano() / int64(10*time.Millisecond)
	for {
		last := g.last.Load()
		next := candidate
		if next <= last {
			next = last + 1
		}
		if g.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
