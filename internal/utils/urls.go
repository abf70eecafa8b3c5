package utils

import (
	"net/url"
	"strings"
)

// SanitizeURL возвращает нормализованный URL, если это абсолютный http/https адрес
// с хостом и без учетных данных. Иначе пустую строку.
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	if u.Host == "" || u.User != nil {
		return ""
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
