package portfolio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/github"
	"github.com/teranos/folio/internal/httpclient"
	"github.com/teranos/folio/project"
	"github.com/teranos/folio/schema"
	"github.com/teranos/folio/source"
)

const sampleFixture = "../../src/_portfolio/projects.sample.json"

// fakeFetcher serves canned documents keyed by owner/repo and records calls.
type fakeFetcher struct {
	docs  map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, d source.Descriptor) (string, error) {
	f.calls = append(f.calls, d.Label())
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.errs[d.Label()]; ok {
		return "", err
	}
	if doc, ok := f.docs[d.Label()]; ok {
		return doc, nil
	}
	return "", &github.FetchError{StatusCode: http.StatusNotFound, Class: github.ClassNotFound, Message: "Not Found"}
}

func presentation(id, title string) string {
	return "---\nid: " + id + "\ntitle: " + title + "\ntagline: About " + title +
		"\nstatus: live\nvisibility: public\ntags: [go]\nstack: [Go]\n---\n# " + title + "\n"
}

func descriptors(labels ...string) []source.Descriptor {
	out := make([]source.Descriptor, len(labels))
	for i, l := range labels {
		owner, repo, _ := strings.Cut(l, "/")
		out[i] = source.Descriptor{Owner: owner, Repo: repo, Path: source.DefaultPath}
	}
	return out
}

func defaultSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)
	return s
}

func observed() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name      string
		forceMock bool
		token     string
		tokenSet  bool
		want      Mode
		wantErr   error
	}{
		{name: "absent credential selects mock", want: ModeMock},
		{name: "flag forces mock", forceMock: true, token: "ghp_x", tokenSet: true, want: ModeMock},
		{name: "flag wins over empty credential", forceMock: true, token: "", tokenSet: true, want: ModeMock},
		{name: "credential selects live", token: "ghp_x", tokenSet: true, want: ModeLive},
		{name: "empty credential", token: "", tokenSet: true, wantErr: errors.ErrEmptyCredential},
		{name: "blank credential", token: "  \n", tokenSet: true, wantErr: errors.ErrEmptyCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ResolveMode(tt.forceMock, tt.token, tt.tokenSet)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, errors.IsFatal(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestLookupCredential(t *testing.T) {
	t.Setenv("FOLIO_TEST_TOKEN", "")
	token, set := LookupCredential("FOLIO_TEST_TOKEN")
	assert.True(t, set)
	assert.Equal(t, "", token)

	_, set = LookupCredential("FOLIO_TEST_TOKEN_THAT_IS_NOT_SET")
	assert.False(t, set)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "live", ModeLive.String())
	assert.Equal(t, "mock", ModeMock.String())
	assert.Equal(t, "unknown", Mode(7).String())
}

func TestRun_LivePreservesOrderAndSkips(t *testing.T) {
	fetcher := &fakeFetcher{
		docs: map[string]string{
			"octo/c": presentation("c", "Charlie"),
			"octo/a": presentation("a", "Alpha"),
			"octo/b": presentation("b", "Bravo"),
		},
		errs: map[string]error{
			"octo/net": errors.New("dial tcp: connection refused"),
		},
	}
	log, logs := observed()
	output := filepath.Join(t.TempDir(), "out", "projects.json")

	var seen []OutcomeKind
	result, err := Run(context.Background(), RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/c", "octo/missing", "octo/a", "octo/net", "octo/b"),
		Fetcher:   fetcher,
		Validator: defaultSchema(t),
		Output:    output,
		Logger:    log,
		OnOutcome: func(o Outcome) { seen = append(seen, o.Kind) },
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.Written)
	assert.Equal(t, Summary{Total: 5, Validated: 3, Skipped: 2}, result.Summary)
	assert.Equal(t, "Fetched 5 presentations (3 valid, 2 skipped)", result.Message)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"octo/c", "octo/missing", "octo/a", "octo/net", "octo/b"}, fetcher.calls)
	assert.Equal(t, []OutcomeKind{OutcomeSuccess, OutcomeSkipped, OutcomeSuccess, OutcomeSkipped, OutcomeSuccess}, seen)

	written, err := project.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, written, 3)
	assert.Equal(t, "c", written[0].ID)
	assert.Equal(t, "a", written[1].ID)
	assert.Equal(t, "b", written[2].ID)
	assert.Equal(t, "# Alpha\n", written[1].Markdown)

	missing := result.Items[1]
	assert.Equal(t, "not-found", missing.Class)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.True(t, errors.Is(missing.Err, errors.ErrNotFound))

	skips := logs.FilterMessage("Skipped presentation").All()
	require.Len(t, skips, 2)
	assert.Equal(t, "octo/missing", skips[0].ContextMap()["source"])
	assert.Equal(t, result.RunID, skips[0].ContextMap()["run_id"])
	assert.Contains(t, skips[1].ContextMap()["reason"], "connection refused")
}

func TestRun_SchemaViolationAborts(t *testing.T) {
	fetcher := &fakeFetcher{
		docs: map[string]string{
			"octo/a":   presentation("a", "Alpha"),
			"octo/bad": "---\nid: Bad ID\ntitle: Bad\nstatus: deleted\n---\nbody",
			"octo/c":   presentation("c", "Charlie"),
		},
	}
	log, logs := observed()
	output := filepath.Join(t.TempDir(), "projects.json")

	result, err := Run(context.Background(), RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/a", "octo/bad", "octo/c"),
		Fetcher:   fetcher,
		Validator: defaultSchema(t),
		Output:    output,
		Logger:    log,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSchemaViolation))
	assert.True(t, errors.IsFatal(err))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "octo/bad", ve.Source.Label())
	assert.GreaterOrEqual(t, len(ve.Violations), 4) // id pattern, status enum, missing tagline/visibility/tags/stack

	// Later sources are never fetched and nothing is written.
	assert.Equal(t, []string{"octo/a", "octo/bad"}, fetcher.calls)
	assert.False(t, result.Written)
	assert.False(t, result.Success)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))

	// Every violation is logged.
	assert.Equal(t, len(ve.Violations), logs.FilterMessage("Schema violation").Len())
}

func TestRun_SchemaViolationLeavesExistingArtifact(t *testing.T) {
	output := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(output, []byte(`[{"id":"previous"}]`), 0644))

	_, err := Run(context.Background(), RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/bad"),
		Fetcher:   &fakeFetcher{docs: map[string]string{"octo/bad": "---\nunknownField: 1\n---\n"}},
		Validator: defaultSchema(t),
		Output:    output,
	})
	require.Error(t, err)

	data, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Equal(t, `[{"id":"previous"}]`, string(data))
}

func TestRun_ZeroSuccessWritesEmptyArtifactAndFails(t *testing.T) {
	output := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(output, []byte(`[{"id":"stale"}]`), 0644))

	result, err := Run(context.Background(), RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/x", "octo/y"),
		Fetcher:   &fakeFetcher{},
		Validator: defaultSchema(t),
		Output:    output,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoProjects))
	assert.NotEmpty(t, errors.GetAllHints(err))

	assert.True(t, result.Written)
	assert.False(t, result.Success)
	assert.Equal(t, Summary{Total: 2, Validated: 0, Skipped: 2}, result.Summary)

	data, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Equal(t, "[]", string(data))
}

func TestRun_EmptySourceListFails(t *testing.T) {
	output := filepath.Join(t.TempDir(), "projects.json")

	_, err := Run(context.Background(), RunOptions{
		Mode:      ModeLive,
		Fetcher:   &fakeFetcher{},
		Validator: defaultSchema(t),
		Output:    output,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoProjects))
}

func TestRun_ParseErrorSkips(t *testing.T) {
	output := filepath.Join(t.TempDir(), "projects.json")

	result, err := Run(context.Background(), RunOptions{
		Mode:    ModeLive,
		Sources: descriptors("octo/broken", "octo/ok"),
		Fetcher: &fakeFetcher{docs: map[string]string{
			"octo/broken": "---\nid: never closed\n",
			"octo/ok":     presentation("ok", "Okay"),
		}},
		Validator: defaultSchema(t),
		Output:    output,
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Validated: 1, Skipped: 1}, result.Summary)
	assert.Contains(t, result.Items[0].Reason, "unterminated")
}

// validatorFunc adapts a function to Validator.
type validatorFunc func(map[string]interface{}) ([]schema.Violation, error)

func (f validatorFunc) Validate(m map[string]interface{}) ([]schema.Violation, error) { return f(m) }

func TestRun_ValidatorErrorSkips(t *testing.T) {
	output := filepath.Join(t.TempDir(), "projects.json")
	calls := 0
	validator := validatorFunc(func(map[string]interface{}) ([]schema.Violation, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("validator exploded")
		}
		return nil, nil
	})

	result, err := Run(context.Background(), RunOptions{
		Mode:    ModeLive,
		Sources: descriptors("octo/a", "octo/b"),
		Fetcher: &fakeFetcher{docs: map[string]string{
			"octo/a": presentation("a", "A"),
			"octo/b": presentation("b", "B"),
		}},
		Validator: validator,
		Output:    output,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Items[0].Kind)
	assert.Equal(t, "validator exploded", result.Items[0].Reason)
	assert.Equal(t, OutcomeSuccess, result.Items[1].Kind)
}

func TestRun_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &fakeFetcher{docs: map[string]string{"octo/a": presentation("a", "A")}}
	output := filepath.Join(t.TempDir(), "projects.json")

	result, err := Run(ctx, RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/a", "octo/b"),
		Fetcher:   fetcher,
		Validator: defaultSchema(t),
		Output:    output,
		OnOutcome: func(Outcome) { cancel() },
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"octo/a"}, fetcher.calls)
	assert.False(t, result.Written)
}

type fetcherFunc func(context.Context, source.Descriptor) (string, error)

func (f fetcherFunc) Fetch(ctx context.Context, d source.Descriptor) (string, error) { return f(ctx, d) }

func TestRun_CancelledDuringLastFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	output := filepath.Join(t.TempDir(), "projects.json")

	fetcher := fetcherFunc(func(ctx context.Context, d source.Descriptor) (string, error) {
		if d.Label() == "octo/b" {
			cancel()
			return "", ctx.Err()
		}
		return presentation("a", "A"), nil
	})

	result, err := Run(ctx, RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/a", "octo/b"),
		Fetcher:   fetcher,
		Validator: defaultSchema(t),
		Output:    output,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, result.Written)
	assert.False(t, result.Success)
	assert.NoFileExists(t, output)
}

func TestRun_LiveRequiresCollaborators(t *testing.T) {
	_, err := Run(context.Background(), RunOptions{Mode: ModeLive, Output: filepath.Join(t.TempDir(), "p.json")})
	require.Error(t, err)
}

func TestRun_MockCopiesFixture(t *testing.T) {
	fetcher := &fakeFetcher{}
	output := filepath.Join(t.TempDir(), "gen", "projects.json")

	result, err := Run(context.Background(), RunOptions{
		Mode:    ModeMock,
		Sources: descriptors("octo/a"),
		Fetcher: fetcher,
		Fixture: sampleFixture,
		Output:  output,
	})
	require.NoError(t, err)

	want, err := os.ReadFile(sampleFixture)
	require.NoError(t, err)
	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	n, err := project.Count(want)
	require.NoError(t, err)
	assert.Equal(t, n, result.Records)
	assert.True(t, result.Success)
	assert.Equal(t, "mock", result.Mode)
	assert.Empty(t, fetcher.calls)
	assert.Contains(t, result.Message, "sample projects")
}

func TestRun_MockMissingFixture(t *testing.T) {
	_, err := Run(context.Background(), RunOptions{
		Mode:    ModeMock,
		Fixture: filepath.Join(t.TempDir(), "missing.json"),
		Output:  filepath.Join(t.TempDir(), "projects.json"),
	})
	require.Error(t, err)
	assert.False(t, errors.IsFatal(err))
}

func TestCopyFixture_NotAnArray(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(fixture, []byte(`{"not":"array"}`), 0644))

	_, err := CopyFixture(fixture, filepath.Join(dir, "out.json"))
	require.Error(t, err)
}

func TestRun_ThroughGitHubClient(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Bearer ghp_live", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/repos/octo/site/contents/PORTFOLIO_PRESENTATION.md":
			w.Write([]byte(presentation("site", "Site")))
		case "/repos/octo/private/contents/PORTFOLIO_PRESENTATION.md":
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"API rate limit exceeded"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	defer server.Close()

	client := github.New("ghp_live",
		github.WithBaseURL(server.URL),
		github.WithHTTPClient(httpclient.WrapClient(server.Client())))
	output := filepath.Join(t.TempDir(), "projects.json")

	result, err := Run(context.Background(), RunOptions{
		Mode:      ModeLive,
		Sources:   descriptors("octo/private", "octo/site", "octo/gone"),
		Fetcher:   client,
		Validator: defaultSchema(t),
		Output:    output,
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Validated: 1, Skipped: 2}, result.Summary)
	assert.Len(t, paths, 3)

	assert.Equal(t, "rate-limited", result.Items[0].Class)
	assert.Contains(t, result.Items[0].Reason, "API rate limit exceeded")
	assert.Equal(t, "site", result.Items[1].ProjectID)
	assert.Equal(t, "not-found", result.Items[2].Class)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Source:     source.Descriptor{Owner: "octo", Repo: "site", Path: source.DefaultPath},
		Violations: []schema.Violation{{Path: "/id"}, {Path: "/status"}},
	}
	assert.Equal(t, "octo/site: schema validation failed with 2 violation(s)", err.Error())
	assert.True(t, errors.Is(err, errors.ErrSchemaViolation))
}
