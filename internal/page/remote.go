package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/suarindonesia/website/internal/router"
)

// PartialHeader asks the server for the container content only, without the
// page shell.
const PartialHeader = "X-Partial"

// Remote is a Page whose content is rendered by the server. The wasm client
// binds every pattern of the route table to a Remote page.
type Remote struct {
	Client  *http.Client
	BaseURL string
	Pattern string
}

// Render fetches the partial HTML for the pattern with params filled in. A
// 404 response still carries a renderable not-found body and is not an
// error.
func (p Remote) Render(ctx context.Context, params router.Params) (templ.Component, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimSuffix(p.BaseURL, "/") + Expand(p.Pattern, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(PartialHeader, "true")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return templ.Raw(string(body)), nil
}

// Expand fills the parameter segments of pattern from params.
func Expand(pattern string, params router.Params) string {
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, router.ParamMarker) {
			segs[i] = params.Get(strings.TrimPrefix(s, router.ParamMarker))
		}
	}
	return strings.Join(segs, "/")
}
