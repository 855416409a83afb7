package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
)

// clientIPHeaders are consulted in order; the first valid address wins.
var clientIPHeaders = []string{
	"X-Client-IP",
	"X-Forwarded-For",
	"CF-Connecting-IP",
	"Fly-Client-IP",
	"True-Client-Ip",
	"X-Real-IP",
	"X-Cluster-Client-IP",
	"Forwarded",
}

// ClientIP resolves the visitor's address behind proxies and stores it in
// the context.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithClientIP(r.Context(), getClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		for _, candidate := range headerIPs(header, value) {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func headerIPs(header, value string) []string {
	switch header {
	case "X-Forwarded-For":
		return strings.Split(value, ",")
	case "Forwarded":
		// Forwarded: for=192.0.2.60;proto=http;by=203.0.113.43, for="[2001:db8::1]:4711"
		var ips []string
		for _, element := range strings.Split(value, ",") {
			for _, pair := range strings.Split(element, ";") {
				name, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
				if ok && strings.EqualFold(name, "for") {
					ips = append(ips, v)
				}
			}
		}
		return ips
	default:
		return []string{value}
	}
}

func parseIP(candidate string) string {
	candidate = strings.Trim(strings.TrimSpace(candidate), `"`)
	if host, _, err := net.SplitHostPort(candidate); err == nil {
		candidate = host
	}
	candidate = strings.TrimSuffix(strings.TrimPrefix(candidate, "["), "]")

	ip := net.ParseIP(candidate)
	if ip == nil {
		return ""
	}
	return ip.String()
}
