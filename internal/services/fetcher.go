package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/net/html/charset"
)

// ErrEmptyBody indica que a página veio sem conteúdo
var ErrEmptyBody = errors.New("resposta sem conteúdo")

// Fetcher baixa o HTML renderizado de uma URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StatusError é uma resposta HTTP fora da faixa 2xx
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status HTTP %d em %s", e.Status, e.URL)
}

// HTTPFetcher baixa só o começo da página (header Range) sem verificar TLS
type HTTPFetcher struct {
	Client       *http.Client
	UserAgent    string
	RangeBytes   int
	MaxBodyBytes int64
}

func NewHTTPFetcher(timeout time.Duration, userAgent string, rangeBytes int, maxBody int64) *HTTPFetcher {
	// aceita certificado inválido e TLS antigo: ambientes de homologação costumam ter os dois
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS10,
		},
	}
	if maxBody <= 0 {
		maxBody = 2 << 20
	}
	return &HTTPFetcher{
		Client:       &http.Client{Transport: tr, Timeout: timeout},
		UserAgent:    userAgent,
		RangeBytes:   rangeBytes,
		MaxBodyBytes: maxBody,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, urlAlvo string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlAlvo, nil)
	if err != nil {
		return "", fmt.Errorf("URL inválida: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if f.RangeBytes > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", f.RangeBytes))
	}

	res, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &StatusError{URL: urlAlvo, Status: res.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, f.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("erro lendo resposta: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", ErrEmptyBody
	}

	body, err := charset.NewReader(bytes.NewReader(raw), res.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("charset desconhecido: %w", err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("erro decodificando resposta: %w", err)
	}
	return string(data), nil
}

// BrowserFetcher renderiza a página num Chrome headless, para sites montados via JavaScript.
// O navegador sobe no primeiro Fetch e é reaproveitado; cada página abre uma aba nova.
type BrowserFetcher struct {
	Timeout   time.Duration
	UserAgent string

	mu      sync.Mutex
	browser context.Context
	cancel  context.CancelFunc
	closed  bool
}

func NewBrowserFetcher(timeout time.Duration, userAgent string) *BrowserFetcher {
	return NewBrowserFetcher(timeout, userAgent)
}

// navegador devolve o contexto do Chrome compartilhado, iniciando o processo se preciso
func (f *BrowserFetcher) navegador() (context.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, errors.New("navegador já foi encerrado")
	}
	if f.browser != nil {
		return f.browser, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if f.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.UserAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	// Run sem ações só sobe o processo
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("falha ao iniciar o navegador: %w", err)
	}
	f.browser = browserCtx
	f.cancel = func() {
		cancelBrowser()
		cancelAlloc()
	}
	return f.browser, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, urlAlvo string) (string, error) {
	browserCtx, err := f.navegador()
	if err != nil {
		return "", err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()
	// a aba herda do navegador, então o cancelamento do chamador é repassado à mão
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(urlAlvo),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("falha ao renderizar no navegador: %w", err)
	}
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyBody
	}
	return html, nil
}

// Close encerra o Chrome, se chegou a ser iniciado. Pode ser chamado mais de uma vez.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
		f.browser = nil
	}
	return nil
}

// NewFetcher escolhe o renderizador configurado
func NewFetcher(renderer string, timeout time.Duration, userAgent string, rangeBytes int, maxBody int64) Fetcher {
	if renderer == "browser" {
		return NewBrowserFetcher(timeout, userAgent)
	}
	return NewHTTPFetcher(timeout, userAgent, rangeBytes, maxBody)
}
