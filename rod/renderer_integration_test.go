//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_WaitsForReadySelector(t *testing.T) {
	t.Parallel()

	// Price is injected after a delay, like client-rendered stores do.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><head><title>Skirt</title></head>
<body><h1>Skirt</h1><div id="root"></div>
<script>
setTimeout(function () {
	document.getElementById('root').innerHTML = '<span class="money-amount__main">49,95 EUR</span>';
}, 300);
</script></body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	html, err := rod.NewRenderer().Render(ctx, srv.URL, pricetrack.RenderOptions{
		ReadySelector: ".money-amount__main",
		Timeout:       10 * time.Second,
		SettleDelay:   100 * time.Millisecond,
	})

	require.NoError(t, err)
	assert.Contains(t, html, "49,95 EUR")
}

func TestRenderer_Render_TimesOutWithoutReadySelector(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>No price here</h1></body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err := rod.NewRenderer().Render(ctx, srv.URL, pricetrack.RenderOptions{
		ReadySelector: ".money-amount__main",
		Timeout:       2 * time.Second,
	})

	assert.Equal(t, pricetrack.ETIMEOUT, pricetrack.ErrorCode(err))
}
