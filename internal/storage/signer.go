package storage

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/loansiya/internal/common"
)

// FilesRoute is the HTTP path prefix that serves locally signed objects.
const FilesRoute = "/files"

// URLSigner issues and verifies expiring HMAC references to local objects.
type URLSigner struct {
	now     func() time.Time
	baseURL string
	secret  []byte
}

// NewURLSigner creates a signer whose URLs are rooted at baseURL. An empty
// secret generates a random one, which invalidates references on restart.
func NewURLSigner(secret, baseURL string) (*URLSigner, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}
	return &URLSigner{
		secret:  key,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Sign returns a URL granting read access to bucket/key until now+ttl.
func (s *URLSigner) Sign(bucket, key string, ttl time.Duration) string {
	expires := strconv.FormatInt(s.now().Add(ttl).Unix(), 10)

	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("signature", s.mac(bucket, key, expires))

	return fmt.Sprintf("%s%s/%s/%s?%s", s.baseURL, FilesRoute, url.PathEscape(bucket), strings.Join(segments, "/"), q.Encode())
}

// Verify checks a reference produced by Sign.
func (s *URLSigner) Verify(bucket, key, expires, signature string) error {
	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed expiry", common.ErrUnauthorized)
	}
	if s.now().Unix() > unix {
		return fmt.Errorf("%w: link expired", common.ErrUnauthorized)
	}

	given, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: malformed signature", common.ErrUnauthorized)
	}
	want, _ := hex.DecodeString(s.mac(bucket, key, expires))
	if !hmac.Equal(given, want) {
		return fmt.Errorf("%w: signature mismatch", common.ErrUnauthorized)
	}
	return nil
}

func (s *URLSigner) mac(bucket, key, expires string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(bucket))
	h.Write([]byte{'\n'})
	h.Write([]byte(key))
	h.Write([]byte{'\n'})
	h.Write([]byte(expires))
	return hex.EncodeToString(h.Sum(nil))
}
