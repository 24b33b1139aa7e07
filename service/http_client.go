package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

var (
	proxyClientLock sync.Mutex
	proxyClients    = make(map[string]*http.Client)
)

func clientKey(proxyURL string, timeout time.Duration) string {
	return fmt.Sprintf("%s|%s", proxyURL, timeout)
}

// ResetProxyClientCache drops cached clients and their idle connections.
func ResetProxyClientCache() {
	proxyClientLock.Lock()
	defer proxyClientLock.Unlock()
	for _, client := range proxyClients {
		if transport, ok := client.Transport.(*http.Transport); ok && transport != nil {
			transport.CloseIdleConnections()
		}
	}
	proxyClients = make(map[string]*http.Client)
}

// NewProxyHttpClient returns a client routed through proxyURL (http, https,
// socks5 or socks5h), or a direct one when proxyURL is empty. A zero timeout
// means no client-side timeout.
func NewProxyHttpClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	key := clientKey(proxyURL, timeout)
	proxyClientLock.Lock()
	defer proxyClientLock.Unlock()
	if client, ok := proxyClients[key]; ok {
		return client, nil
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		ForceAttemptHTTP2:   true,
		Proxy:               http.ProxyFromEnvironment,
	}

	if proxyURL != "" {
		parsedURL, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		switch parsedURL.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(parsedURL)
		case "socks5", "socks5h":
			var auth *proxy.Auth
			if parsedURL.User != nil {
				auth = &proxy.Auth{User: parsedURL.User.Username()}
				if password, ok := parsedURL.User.Password(); ok {
					auth.Password = password
				}
			}
			// DNS resolution happens on the proxy side for both schemes
			dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
			if err != nil {
				return nil, err
			}
			transport.Proxy = nil
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s, must be http, https, socks5 or socks5h", parsedURL.Scheme)
		}
	}

	client := &http.Client{Transport: transport, Timeout: timeout}
	proxyClients[key] = client
	return client, nil
}
