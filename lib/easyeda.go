package lib

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const DefaultEasyEDAURL = "https://easyeda.com"

var csrfPattern = regexp.MustCompile(`'X-CSRF-TOKEN':\s*'(.*)'`)

/*
	Session carries the CSRF token and cookies obtained from the EasyEDA
	landing page. It is passed explicitly to every remote call and never
	refreshed.
*/
type Session struct {
	Token   string
	Cookies []*http.Cookie
}

/*
	ComponentSource is the part of the EasyEDA API the fetcher depends on
*/
type ComponentSource interface {
	Authenticate() (*Session, error)
	Search(text string, session *Session) ([]*ComponentSummary, error)
	FindByCode(code string, session *Session) (*ComponentSummary, error)
	FetchDetail(uuid string, session *Session) (*ComponentDetail, error)
	FetchMesh(uuid string, session *Session) ([]byte, error)
}

type EasyEDA struct {
	baseURL    string
	httpClient *http.Client
}

func NewEasyEDA(baseURL string) *EasyEDA {
	if baseURL == "" {
		baseURL = DefaultEasyEDAURL
	}

	return &EasyEDA{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
}

/*
	ExtractCSRFToken finds the token in the inline script of the landing page
*/
func ExtractCSRFToken(page string) (string, error) {
	m := csrfPattern.FindStringSubmatch(page)
	if m == nil {
		return "", ErrAuthExtraction
	}

	return m[1], nil
}

func (e *EasyEDA) headers(req *http.Request, session *Session) {
	req.Header.Set("pragma", "no-cache")
	req.Header.Set("cache-control", "no-cache")
	req.Header.Set("accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("x-csrf-token", session.Token)
	req.Header.Set("x-requested-with", "XMLHttpRequest")
	req.Header.Set("user-agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/83.0.4103.116 Safari/537.36")
	req.Header.Set("isajax", "true")
	req.Header.Set("content-type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("origin", e.baseURL)
	req.Header.Set("sec-fetch-site", "same-origin")
	req.Header.Set("sec-fetch-mode", "cors")
	req.Header.Set("sec-fetch-dest", "empty")
	req.Header.Set("referer", e.baseURL)
	req.Header.Set("accept-language", "cs,en;q=0.9,sk;q=0.8,en-GB;q=0.7")

	for _, cookie := range session.Cookies {
		req.AddCookie(cookie)
	}
}

func (e *EasyEDA) do(req *http.Request) ([]byte, error) {
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s failed with status %d: %s", req.URL.Path, resp.StatusCode, string(body))
	}

	return body, nil
}

func (e *EasyEDA) Authenticate() (*Session, error) {
	req, err := http.NewRequest("GET", e.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session page: %w", err)
	}
	defer resp.Body.Close()

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read session page: %w", err)
	}

	token, err := ExtractCSRFToken(string(page))
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, Cookies: resp.Cookies()}, nil
}

/*
	Search performs a fulltext search and returns every hit
*/
func (e *EasyEDA) Search(text string, session *Session) ([]*ComponentSummary, error) {
	form := url.Values{"wd": {text}}
	req, err := http.NewRequest("POST", e.baseURL+"/api/components/search", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	e.headers(req, session)

	body, err := e.do(req)
	if err != nil {
		return nil, err
	}

	response := searchResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	components, err := flattenLists(response.Result.Lists)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search lists: %w", err)
	}

	return components, nil
}

/*
	FindByCode returns the first search hit listed under exactly the given
	supplier part code. The upstream search is fuzzy.
*/
func (e *EasyEDA) FindByCode(code string, session *Session) (*ComponentSummary, error) {
	components, err := e.Search(code, session)
	if err != nil {
		return nil, err
	}

	return matchCode(components, code)
}

func matchCode(components []*ComponentSummary, code string) (*ComponentSummary, error) {
	for _, component := range components {
		if component.DataStr.Head.Param("BOM_Supplier Part") == code {
			return component, nil
		}
	}

	return nil, fmt.Errorf("%w: no component for the code %s", ErrNotFound, code)
}

func (e *EasyEDA) FetchDetail(uuid string, session *Session) (*ComponentDetail, error) {
	req, err := http.NewRequest("GET", e.baseURL+"/api/components/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	e.headers(req, session)

	body, err := e.do(req)
	if err != nil {
		return nil, err
	}

	response := detailResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse component detail: %w", err)
	}

	if response.Result == nil {
		return nil, fmt.Errorf("%w: no detail for component %s", ErrNotFound, uuid)
	}

	return response.Result, nil
}

func (e *EasyEDA) FetchMesh(uuid string, session *Session) ([]byte, error) {
	req, err := http.NewRequest("GET", e.baseURL+"/analyzer/api/3dmodel/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	e.headers(req, session)

	return e.do(req)
}
