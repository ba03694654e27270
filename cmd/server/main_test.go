package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurlHostForListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		listenAddr string
		want       string
	}{
		{name: "port only", listenAddr: ":8080", want: "localhost:8080"},
		{name: "explicit host", listenAddr: "127.0.0.1:8080", want: "127.0.0.1:8080"},
		{name: "wildcard ipv4", listenAddr: "0.0.0.0:9090", want: "localhost:9090"},
		{name: "wildcard ipv6", listenAddr: "[::]:8080", want: "localhost:8080"},
		{name: "ipv6 loopback kept", listenAddr: "[::1]:8080", want: "[::1]:8080"},
		{name: "surrounding whitespace", listenAddr: "  :7070  ", want: "localhost:7070"},
		{name: "empty falls back to default", listenAddr: "", want: "localhost:8080"},
		{name: "blank falls back to default", listenAddr: "   ", want: "localhost:8080"},
		{name: "missing port passes through", listenAddr: "localhost", want: "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, curlHostForListenAddr(tt.listenAddr))
		})
	}
}
