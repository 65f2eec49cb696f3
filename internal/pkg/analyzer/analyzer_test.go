package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/extractor"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/fetcher"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/finder"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/retrier"
	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

func testAnalyzer(maxAttempts int) *Analyzer {
	client := fetcher.New(5*time.Second, "")
	ex := extractor.New(2*time.Second, time.Second)
	fi := finder.New(client, nil, false)
	return New(client, ex, fi, Options{
		MaxAttempts:  maxAttempts,
		Backoff:      retrier.BackoffFixed,
		InitialDelay: time.Millisecond,
	})
}

func TestAnalyzeURL(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/launch-EN1.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `window._satellite.container={rules:[{id:"r1",name:"Test",events:[],conditions:[],actions:[]}],dataElements:{},extensions:{}}`)
	})

	a := testAnalyzer(1)

	result, err := a.AnalyzeURL(context.Background(), server.URL+"/launch-EN1.js")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, server.URL+"/launch-EN1.js", result.URL)
	require.Len(t, result.Container.Rules, 1)
	assert.Equal(t, "r1", result.Container.Rules[0].ID)
}

func TestAnalyzeURLInvalid(t *testing.T) {
	a := testAnalyzer(1)

	_, err := a.AnalyzeURL(context.Background(), "::not-a-url")
	var invalid *finder.InvalidURLError
	assert.ErrorAs(t, err, &invalid)
}

func TestAnalyzeURLNotFoundIsNotRetried(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	var fetches atomic.Int64
	mux.HandleFunc("/launch-EN1.js", func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		fmt.Fprint(w, `var noContainerHere = true;`)
	})

	a := testAnalyzer(3)

	_, err := a.AnalyzeURL(context.Background(), server.URL+"/launch-EN1.js")
	var notFound *extractor.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, server.URL+"/launch-EN1.js", notFound.URL)
	// a missing container is terminal, not transient
	assert.Equal(t, int64(1), fetches.Load())
}

func TestAnalyzeURLRetriesTransientFailures(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	var fetches atomic.Int64
	mux.HandleFunc("/launch-EN1.js", func(w http.ResponseWriter, r *http.Request) {
		if fetches.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `window._satellite.container={rules:[]};`)
	})

	a := testAnalyzer(3)

	result, err := a.AnalyzeURL(context.Background(), server.URL+"/launch-EN1.js")
	require.NoError(t, err)
	assert.NotNil(t, result.Container)
	assert.Equal(t, int64(3), fetches.Load())
}

func TestAnalyzeRecursiveMerges(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>
			<script src="/launch-EN1.js"></script>
			<script src="/launch-EN2.js"></script>
		</html>`)
	})
	mux.HandleFunc("/launch-EN1.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `window._satellite.container={
			rules:[{id:"first-a"},{id:"first-b"}],
			dataElements:{foo:{value:"from first"},only1:{value:1}},
			extensions:{core:{displayName:"Core v1"}}
		};`)
	})
	mux.HandleFunc("/launch-EN2.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `window._satellite.container={
			rules:[{id:"second-a"}],
			dataElements:{foo:{value:"from second"}},
			extensions:{analytics:{displayName:"Analytics"}}
		};`)
	})

	a := testAnalyzer(1)

	result, err := a.AnalyzeRecursive(context.Background(), server.URL+"/", 2)
	require.NoError(t, err)

	// rules concatenated in discovery order
	ids := make([]string, 0, len(result.Container.Rules))
	for _, rule := range result.Container.Rules {
		ids = append(ids, rule.ID)
	}
	assert.Equal(t, []string{"first-a", "first-b", "second-a"}, ids)

	// later scripts win dataElement collisions
	foo := result.Container.DataElements["foo"]
	value, _ := foo.Get("value")
	assert.Equal(t, "from second", value.Str)
	assert.Contains(t, result.Container.DataElements, "only1")

	// extensions from both scripts survive
	assert.Len(t, result.Container.Extensions, 2)

	require.Len(t, result.Scripts, 2)
	assert.True(t, result.Scripts[0].Success)
	assert.Equal(t, 2, result.Scripts[0].RuleCount)
	assert.True(t, result.Scripts[1].Success)
	assert.Equal(t, []string{server.URL + "/launch-EN1.js", server.URL + "/launch-EN2.js"}, result.Sources)
}

func TestAnalyzeRecursivePartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>
			<script src="/launch-EN1.js"></script>
			<script src="/launch-EN2.js"></script>
		</html>`)
	})
	mux.HandleFunc("/launch-EN1.js", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/launch-EN2.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `window._satellite.container={rules:[{id:"ok"}]};`)
	})

	a := testAnalyzer(1)

	result, err := a.AnalyzeRecursive(context.Background(), server.URL+"/", 2)
	require.NoError(t, err)

	require.Len(t, result.Scripts, 2)
	assert.False(t, result.Scripts[0].Success)
	assert.NotEmpty(t, result.Scripts[0].Error)
	assert.True(t, result.Scripts[1].Success)

	require.Len(t, result.Container.Rules, 1)
	assert.Equal(t, "ok", result.Container.Rules[0].ID)
}

func TestMergeInto(t *testing.T) {
	dst := models.NewContainer()
	dst.Rules = append(dst.Rules, models.Rule{ID: "r1"})
	dst.DataElements["shared"] = models.StringValue("old")

	src := models.NewContainer()
	src.Rules = append(src.Rules, models.Rule{ID: "r2"})
	src.DataElements["shared"] = models.StringValue("new")
	src.BuildInfo = models.StringValue("build")

	mergeInto(dst, src)

	require.Len(t, dst.Rules, 2)
	assert.Equal(t, "r1", dst.Rules[0].ID)
	assert.Equal(t, "r2", dst.Rules[1].ID)
	assert.Equal(t, models.StringValue("new"), dst.DataElements["shared"])
	assert.Equal(t, models.StringValue("build"), dst.BuildInfo)
}
