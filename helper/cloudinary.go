package helper

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"sort"
	"strings"

	"venue_manager/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

func InitCloudinary() (*cloudinary.Cloudinary, error) {
	s := config.Get()
	if s.CloudinaryCloudName == "" || s.CloudinaryAPIKey == "" || s.CloudinaryAPISecret == "" {
		return nil, ErrNotConfigured
	}
	return cloudinary.NewFromParams(s.CloudinaryCloudName, s.CloudinaryAPIKey, s.CloudinaryAPISecret)
}

// SignUploadParams signs raw parameter values sorted by key, the scheme
// Cloudinary expects from browser-side signed uploads.
func SignUploadParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}
	b.WriteString(secret)

	h := sha1.New()
	h.Write([]byte(b.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// ExtractPublicID turns https://res.cloudinary.com/<cloud>/raw/upload/v1/<folder>/<id>.<ext>
// into "<folder>/<id>".
func ExtractPublicID(url string) string {
	parts := strings.Split(url, "/")
	n := len(parts)
	if n < 4 {
		return ""
	}
	publicID := strings.Join(parts[n-2:n], "/")
	return strings.TrimSuffix(publicID, filepath.Ext(publicID))
}
