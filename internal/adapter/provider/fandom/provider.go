// Package fandom reads English/Japanese name pairs from a Fandom wiki.
//
// Page listing walks Special:AllPages with a colly collector; each article's
// "Other Languages" table is read with goquery.
package fandom

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/termbridge/internal/domain"
	"github.com/heartmarshall/termbridge/internal/throttle"
)

const (
	defaultUserAgent = "termbridge/1.0 (glossary builder)"
	allPagesPath     = "/wiki/Special:AllPages"
)

// Options tune the provider's HTTP behaviour.
type Options struct {
	RequestInterval time.Duration
	Timeout         time.Duration
	UserAgent       string
	TitleFallback   bool
}

// Provider fetches pages from one Fandom wiki.
type Provider struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       Options
	log        *slog.Logger
}

// NewProvider creates a Provider for the wiki at baseURL
// (e.g. https://zenless-zone-zero.fandom.com).
func NewProvider(baseURL string, opts Options, logger *slog.Logger) (*Provider, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("fandom: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fandom: base url %q must be absolute", baseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Provider{
		baseURL:    u,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    throttle.Every(opts.RequestInterval),
		opts:       opts,
		log:        logger.With("adapter", "fandom"),
	}, nil
}

// ListPages returns the absolute URLs of all articles listed on
// Special:AllPages, following "Next page" links until the last page.
// URLs are returned in listing order without duplicates.
func (p *Provider) ListPages(ctx context.Context) ([]string, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(p.opts.UserAgent),
	)
	c.SetRequestTimeout(p.opts.Timeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       p.opts.RequestInterval,
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("fandom: set crawl limit: %w", err)
	}

	var (
		pages    []string
		seen     = make(map[string]bool)
		listings int
		crawlErr error
	)

	c.OnRequest(func(r *colly.Request) {
		listings++
		p.log.DebugContext(ctx, "fetching page listing", slog.String("url", r.URL.String()))
	})

	c.OnHTML("ul.mw-allpages-chunk a[href]", func(e *colly.HTMLElement) {
		abs := e.Request.AbsoluteURL(e.Attr("href"))
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		pages = append(pages, abs)
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if !strings.Contains(e.Text, "Next page") {
			return
		}
		next := e.Request.AbsoluteURL(e.Attr("href"))
		if !p.sameHost(next) {
			return
		}
		// Already-visited listings are refused by the collector.
		_ = e.Request.Visit(next)
	})

	c.OnError(func(r *colly.Response, err error) {
		crawlErr = domain.CollaboratorFailed("page listing "+r.Request.URL.String(), err)
	})

	if err := c.Visit(p.baseURL.String() + allPagesPath); err != nil {
		return nil, fmt.Errorf("fandom: list pages: %w", err)
	}
	c.Wait()

	if crawlErr != nil {
		if len(pages) == 0 {
			return nil, fmt.Errorf("fandom: list pages: %w", crawlErr)
		}
		// Keep what was listed before the failing listing page.
		p.log.WarnContext(ctx, "page listing incomplete", slog.String("error", crawlErr.Error()))
	}
	if len(pages) == 0 {
		// Usually a changed listing layout or a non-HTML response.
		return nil, domain.Absent("page listing "+p.baseURL.String(),
			fmt.Errorf("no articles found in %d listing pages", listings))
	}

	p.log.InfoContext(ctx, "page listing done",
		slog.Int("listing_pages", listings),
		slog.Int("articles", len(pages)),
	)
	return pages, nil
}

func (p *Provider) sameHost(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Host == p.baseURL.Host
}

// FetchNames fetches one article and reads its names.
// A missing page (HTTP 404) or a page without usable names is reported as a
// domain.ErrAbsent failure.
func (p *Provider) FetchNames(ctx context.Context, pageURL string) (Names, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Names{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Names{}, fmt.Errorf("fandom: create request: %w", err)
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	resp, err := p.doWithRetry(ctx, req, pageURL)
	if err != nil {
		return Names{}, domain.CollaboratorFailed("page "+pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Names{}, domain.Absent("page "+pageURL, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return Names{}, domain.CollaboratorFailed("page "+pageURL,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	names, err := ParseNames(resp.Body, p.opts.TitleFallback)
	if err != nil {
		return Names{}, fmt.Errorf("page %s: %w", pageURL, err)
	}

	p.log.DebugContext(ctx, "names found",
		slog.String("url", pageURL),
		slog.String("english", names.English),
		slog.String("japanese", names.Japanese),
	)
	return names, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, pageURL string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "fandom retry", slog.String("url", pageURL), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	return p.httpClient.Do(req)
}
