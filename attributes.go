package otelclient

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
)

// requestAttrs derives the descriptive span attributes from a pending
// request. It is a pure read of the request's state before injection
// mutates the headers.
//
// net.peer.ip is only included when the peer is actually known at this
// point, which for a client request means the URL host is an IP
// literal.
func requestAttrs(req *http.Request) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPMethodKey.String(strings.ToUpper(req.Method)),
		semconv.HTTPURLKey.String(req.URL.String()),
		semconv.HTTPFlavorKey.String(strings.TrimPrefix(req.Proto, "HTTP/")),
	}
	if ip := peerIP(req.URL); ip != "" {
		attrs = append(attrs, semconv.NetPeerIPKey.String(ip))
	}
	return attrs
}

func peerIP(u *url.URL) string {
	host := u.Hostname()
	if host == "" {
		return ""
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return ""
}

// spanName builds the span's operation name as
// "{METHOD} {scheme}://{host}{path}". The scheme fragment, including
// its "://" separator, is omitted when the URL has no scheme; host and
// path contribute nothing when absent.
func spanName(method string, u *url.URL) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(u.Host)
	b.WriteString(u.Path)
	return b.String()
}
