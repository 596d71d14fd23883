package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/resume-sentinel/internal/cache"
	"github.com/daniel/resume-sentinel/internal/fetch"
)

func testClient(t *testing.T) *fetch.Client {
	t.Helper()
	mem := cache.NewMemory()
	t.Cleanup(mem.Close)
	return fetch.NewClient(mem, zerolog.Nop(), nil)
}

func TestGLEIFSearchByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("filter[entity.legalName]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"LEI-1","attributes":{"entity":{"legalName":{"name":"Acme Robotics Inc"},"legalAddress":{"country":"US"}},"registration":{"status":"ISSUED"}}},
			{"id":"LEI-2","attributes":{"entity":{"legalName":{"name":"Acme Robotics GmbH"},"legalAddress":{"country":"DE"}},"registration":{"status":"LAPSED"}}}
		]}`))
	}))
	defer server.Close()

	g := NewGLEIF(testClient(t), zerolog.Nop())
	g.baseURL = server.URL

	records := g.SearchByName(context.Background(), "Acme Robotics", 3)
	require.Len(t, records, 2)
	assert.Equal(t, "LEI-1", records[0].LEI)
	assert.Equal(t, "Acme Robotics Inc", records[0].LegalName)
	assert.Equal(t, "ISSUED", records[0].Status)
	assert.Equal(t, "US", records[0].Country)
}

func TestGLEIFSearchByNameAliasExpansionDedupes(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Every alias variant returns the same record; the merged result
		// must contain it once.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"LEI-AMZN","attributes":{"entity":{"legalName":{"name":"AMAZON.COM, INC."},"legalAddress":{"country":"US"}},"registration":{"status":"ISSUED"}}}]}`))
	}))
	defer server.Close()

	g := NewGLEIF(testClient(t), zerolog.Nop())
	g.baseURL = server.URL

	records := g.SearchByName(context.Background(), "Amazon Web Services", 5)
	require.Len(t, records, 1)
	assert.Equal(t, "LEI-AMZN", records[0].LEI)
	assert.Equal(t, int32(3), calls.Load(), "name plus two alias variants should each be queried")
}

func TestGLEIFSearchByNameFailureReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewGLEIF(testClient(t), zerolog.Nop())
	g.baseURL = server.URL

	assert.Empty(t, g.SearchByName(context.Background(), "Acme Robotics", 3))
}

func TestSECFindCompanyLike(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."},
			"1":{"cik_str":1018724,"ticker":"AMZN","title":"AMAZON COM INC"},
			"2":{"cik_str":789019,"ticker":"MSFT","title":"MICROSOFT CORP"}
		}`))
	}))
	defer server.Close()

	s := NewSEC(testClient(t), zerolog.Nop(), "test@example.com")
	s.baseURL = server.URL

	rec := s.FindCompanyLike(context.Background(), "Microsoft Corporation")
	require.NotNil(t, rec)
	assert.Equal(t, "MSFT", rec.Ticker)
	assert.Equal(t, 789019, rec.CIK)
}

func TestSECFindCompanyLikeAliasAndBrandBoost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."},
			"1":{"cik_str":1018724,"ticker":"AMZN","title":"AMAZON COM INC"}
		}`))
	}))
	defer server.Close()

	s := NewSEC(testClient(t), zerolog.Nop(), "test@example.com")
	s.baseURL = server.URL

	// "Amazon Web Services" canonicalizes to "amazon.com" and shares the
	// amazon brand token with the filer title.
	rec := s.FindCompanyLike(context.Background(), "Amazon Web Services")
	require.NotNil(t, rec)
	assert.Equal(t, "AMZN", rec.Ticker)
}

func TestSECFindCompanyLikeNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."}}`))
	}))
	defer server.Close()

	s := NewSEC(testClient(t), zerolog.Nop(), "test@example.com")
	s.baseURL = server.URL

	assert.Nil(t, s.FindCompanyLike(context.Background(), "Totally Unknown Widgets LLC"))
}

func TestSECTickersFetchedOncePerProcess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"0":{"cik_str":789019,"ticker":"MSFT","title":"MICROSOFT CORP"}}`))
	}))
	defer server.Close()

	s := NewSEC(testClient(t), zerolog.Nop(), "test@example.com")
	s.baseURL = server.URL

	s.FindCompanyLike(context.Background(), "Microsoft")
	s.FindCompanyLike(context.Background(), "Microsoft Corporation")
	s.FindCompanyLike(context.Background(), "Apple")
	assert.Equal(t, int32(1), calls.Load())
}

func TestScorecardSearchInstitution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "Stanford University", r.URL.Query().Get("school.name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"school.name":"Stanford University","school.city":"Stanford","school.state":"CA","school.operating":1}]}`))
	}))
	defer server.Close()

	s := NewScorecard(testClient(t), zerolog.Nop(), "test-key")
	s.baseURL = server.URL

	records := s.SearchInstitution(context.Background(), "Stanford University", 3)
	require.Len(t, records, 1)
	assert.Equal(t, "Stanford University", records[0].Name)
	assert.True(t, records[0].Operating)
}

func TestScorecardDisabledWithoutKey(t *testing.T) {
	s := NewScorecard(testClient(t), zerolog.Nop(), "")
	assert.Nil(t, s.SearchInstitution(context.Background(), "Stanford University", 3))
}

func TestOpenAlexSearchInstitutions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Stanford University", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"https://openalex.org/I97018004","display_name":"Stanford University","country_code":"US","type":"education","works_count":400000,"cited_by_count":30000000}]}`))
	}))
	defer server.Close()

	o := NewOpenAlex(testClient(t), zerolog.Nop(), "test@example.com")
	o.baseURL = server.URL

	records := o.SearchInstitutions(context.Background(), "Stanford University", 3)
	require.Len(t, records, 1)
	assert.Equal(t, "Stanford University", records[0].DisplayName)
	assert.Equal(t, "US", records[0].CountryCode)
}

func TestGitHubUserOverview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"login":"octocat","name":"The Octocat","public_repos":8,"followers":4000,"created_at":"2011-01-25T18:44:36Z"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	g := NewGitHub(testClient(t), zerolog.Nop(), "")
	g.baseURL = server.URL

	profile := g.UserOverview(context.Background(), "octocat")
	require.NotNil(t, profile)
	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, 8, profile.PublicRepos)

	assert.Nil(t, g.UserOverview(context.Background(), "no-such-user"))
	assert.Nil(t, g.UserOverview(context.Background(), ""))
}

func TestGitHubRepos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"hello-world","pushed_at":"2024-06-01T00:00:00Z","language":"Go"},
			{"name":"spoon-knife","pushed_at":"2024-05-01T00:00:00Z","language":"HTML"}
		]`))
	}))
	defer server.Close()

	g := NewGitHub(testClient(t), zerolog.Nop(), "")
	g.baseURL = server.URL

	repos := g.Repos(context.Background(), "octocat", 10)
	require.Len(t, repos, 2)
	assert.Equal(t, "hello-world", repos[0].Name)
	assert.Equal(t, "Go", repos[0].Language)
}

func TestGitHubTokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat","public_repos":1}`))
	}))
	defer server.Close()

	g := NewGitHub(testClient(t), zerolog.Nop(), "tok-123")
	g.baseURL = server.URL

	require.NotNil(t, g.UserOverview(context.Background(), "octocat"))
}

func TestWaybackFirstLastCapture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme-robotics.com", r.URL.Query().Get("url"))
		assert.Equal(t, "domain", r.URL.Query().Get("matchType"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			["timestamp","original","statuscode"],
			["20150321000000","http://acme-robotics.com/","200"],
			["20180510000000","http://acme-robotics.com/","200"],
			["20240101000000","http://acme-robotics.com/","200"]
		]`))
	}))
	defer server.Close()

	w := NewWayback(testClient(t), zerolog.Nop())
	w.baseURL = server.URL

	summary := w.FirstLastCapture(context.Background(), "acme-robotics.com")
	require.NotNil(t, summary)
	assert.Equal(t, "20150321000000", summary.First)
	assert.Equal(t, "20240101000000", summary.Last)
	assert.Equal(t, 3, summary.Captures)
}

func TestWaybackNoCaptures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[["timestamp","original","statuscode"]]`))
	}))
	defer server.Close()

	w := NewWayback(testClient(t), zerolog.Nop())
	w.baseURL = server.URL

	assert.Nil(t, w.FirstLastCapture(context.Background(), "never-archived.example"))
	assert.Nil(t, w.FirstLastCapture(context.Background(), ""))
}

func TestWaybackTruncatedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			["timestamp","original","statuscode"],
			[],
			["20190601000000","http://acme-robotics.com/","200"],
			[]
		]`))
	}))
	defer server.Close()

	w := NewWayback(testClient(t), zerolog.Nop())
	w.baseURL = server.URL

	summary := w.FirstLastCapture(context.Background(), "acme-robotics.com")
	require.NotNil(t, summary)
	assert.Equal(t, "20190601000000", summary.First)
	assert.Equal(t, "20190601000000", summary.Last)
	assert.Equal(t, 1, summary.Captures)
}

func TestWaybackOnlyTruncatedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[["timestamp","original","statuscode"],[]]`))
	}))
	defer server.Close()

	w := NewWayback(testClient(t), zerolog.Nop())
	w.baseURL = server.URL

	assert.Nil(t, w.FirstLastCapture(context.Background(), "acme-robotics.com"))
}

func TestORCIDFetchRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0000-0002-1825-0097/record", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"person":{"name":{"given-names":{"value":"Josiah"},"family-name":{"value":"Carberry"}}}}`))
	}))
	defer server.Close()

	o := NewORCID(testClient(t), zerolog.Nop())
	o.baseURL = server.URL

	rec := o.FetchRecord(context.Background(), "0000-0002-1825-0097")
	require.NotNil(t, rec)
	assert.True(t, rec.Found)
	assert.Equal(t, "Josiah Carberry", rec.Name)
}

func TestORCIDFetchRecordFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	o := NewORCID(testClient(t), zerolog.Nop())
	o.baseURL = server.URL

	rec := o.FetchRecord(context.Background(), "0000-0000-0000-0000")
	require.NotNil(t, rec)
	assert.False(t, rec.Found)
}

func TestQueryTerms(t *testing.T) {
	assert.Equal(t, []string{"Acme Robotics"}, QueryTerms("Acme Robotics"))
	assert.Equal(t, []string{"AWS", "amazon.com", "amazon"}, QueryTerms("AWS"))
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "amazon.com", CanonicalName("Amazon Web Services"))
	assert.Equal(t, "google", CanonicalName("Alphabet"))
	assert.Equal(t, "Acme Robotics", CanonicalName("Acme Robotics"))
}
