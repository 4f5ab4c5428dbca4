package vcon

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URL is an absolute https locator in normalized form.
type URL struct {
	s string
}

// ParseURL accepts https URLs only. The scheme and host are lower-cased,
// the default port is dropped and an empty path becomes "/", so
// ParseURL("https://Example.com:443") renders as "https://example.com/".
func ParseURL(text string) (URL, error) {
	u, err := url.Parse(text)
	if err != nil {
		return URL{}, wrapError(KindParse, CodeFormat, "VCON-URL-002", fmt.Sprintf("invalid url %q", text), err)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return URL{}, newError(KindParse, CodeScheme, "VCON-URL-001", fmt.Sprintf("url %q: scheme must be https", text))
	}
	if u.Opaque != "" || u.Host == "" {
		return URL{}, newError(KindParse, CodeFormat, "VCON-URL-002", fmt.Sprintf("url %q has no host", text))
	}
	u.Scheme = "https"
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return URL{}, newError(KindParse, CodeFormat, "VCON-URL-002", fmt.Sprintf("url %q has no host", text))
	}
	if port := u.Port(); port != "" && port != "443" {
		u.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return URL{s: u.String()}, nil
}

// URL returns a parsed copy.
func (u URL) URL() *url.URL {
	out, _ := url.Parse(u.s)
	return out
}

func (u URL) IsZero() bool   { return u.s == "" }
func (u URL) String() string { return u.s }
