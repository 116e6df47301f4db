// Package github fetches portfolio presentation documents through the
// GitHub repository contents API.
//
// Each document is requested in raw form:
//
//	GET {api_url}/repos/{owner}/{repo}/contents/{path}
//	Accept: application/vnd.github.v3.raw
//	Authorization: Bearer <token>
//
// Usage:
//
//	client := github.New(token, github.WithRateLimit(30))
//	raw, err := client.Fetch(ctx, source.Descriptor{Owner: "octo", Repo: "site", Path: source.DefaultPath})
//	var fe *github.FetchError
//	if errors.As(err, &fe) {
//		// fe.Class is unauthorized, forbidden, rate-limited, not-found or http
//	}
//
// The client never retries. A non-2xx response becomes a *FetchError that
// unwraps to one of the transport sentinels in package errors.
//
// GitHub Enterprise hosts are reached by pointing WithBaseURL at
// https://ghe.example.com/api/v3.
package github
