package util

import (
	"net/http"
	"net/url"
	"testing"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), rawURL string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	u, err := fn(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil {
		return ""
	}
	return u.String()
}

func clearProxyEnv(t *testing.T) {
	for _, k := range []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy", "NO_PROXY", "no_proxy", "REQUEST_METHOD"} {
		t.Setenv(k, "")
	}
}

func TestNewProxyFunc_ExplicitSettings(t *testing.T) {
	clearProxyEnv(t)
	fn := NewProxyFunc("http://plain:3128", "http://secure:3128", "internal.example")

	if got := proxyFor(t, fn, "http://api.example.com/v1"); got != "http://plain:3128" {
		t.Errorf("http proxy = %q", got)
	}
	if got := proxyFor(t, fn, "https://api.example.com/v1"); got != "http://secure:3128" {
		t.Errorf("https proxy = %q", got)
	}
	if got := proxyFor(t, fn, "https://internal.example/v1"); got != "" {
		t.Errorf("no_proxy host was proxied via %q", got)
	}
}

func TestNewProxyFunc_LoopbackNeverProxied(t *testing.T) {
	clearProxyEnv(t)
	fn := NewProxyFunc("http://plain:3128", "", "")

	if got := proxyFor(t, fn, "http://localhost:11434/api/generate"); got != "" {
		t.Errorf("localhost proxied via %q", got)
	}
	if got := proxyFor(t, fn, "http://127.0.0.1:11434/api/tags"); got != "" {
		t.Errorf("loopback proxied via %q", got)
	}
}

func TestNewProxyFunc_FallsBackToEnvironment(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("HTTPS_PROXY", "http://from-env:8080")
	fn := NewProxyFunc("", "", "")

	if got := proxyFor(t, fn, "https://api.example.com"); got != "http://from-env:8080" {
		t.Errorf("https proxy = %q", got)
	}
	if got := proxyFor(t, fn, "http://api.example.com"); got != "" {
		t.Errorf("http request proxied via %q", got)
	}
}

func TestNewTransport(t *testing.T) {
	clearProxyEnv(t)
	tr := NewTransport("http://plain:3128", "", "")
	if tr.Proxy == nil {
		t.Fatal("transport has no proxy func")
	}
	if tr == http.DefaultTransport {
		t.Fatal("default transport must not be modified")
	}
	if got := proxyFor(t, tr.Proxy, "http://api.example.com"); got != "http://plain:3128" {
		t.Errorf("proxy = %q", got)
	}
}
