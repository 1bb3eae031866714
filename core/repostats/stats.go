// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package repostats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// Overview fetches the repository's headline numbers.
func (c *Client) Overview(ctx context.Context) (Overview, error) {
	body, err := c.fetch(ctx, c.repoPath(""))
	if err != nil {
		return Overview{}, fmt.Errorf("fetching repository overview: %w", err)
	}

	result := gjson.ParseBytes(body)

	overview := Overview{
		Stars:       int(result.Get("stargazers_count").Int()),
		Forks:       int(result.Get("forks_count").Int()),
		OpenIssues:  int(result.Get("open_issues_count").Int()),
		Watchers:    int(result.Get("subscribers_count").Int()),
		Description: result.Get("description").String(),
		Language:    result.Get("language").String(),
		License:     result.Get("license.spdx_id").String(),
	}

	if pushedAt, err := time.Parse(time.RFC3339, result.Get("pushed_at").String()); err == nil {
		overview.PushedAt = pushedAt
	}

	return overview, nil
}

// LatestRelease fetches the most recent published release.
//
// Returns (nil, nil) when the repository has no releases yet.
func (c *Client) LatestRelease(ctx context.Context) (*Release, error) {
	body, err := c.fetch(ctx, c.repoPath("/releases/latest"))
	if err != nil {
		// A repository without releases answers 404; that is not a failure.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}

		return nil, fmt.Errorf("fetching latest release: %w", err)
	}

	result := gjson.ParseBytes(body)

	release := &Release{
		Tag:  result.Get("tag_name").String(),
		Name: result.Get("name").String(),
	}

	if publishedAt, err := time.Parse(time.RFC3339, result.Get("published_at").String()); err == nil {
		release.PublishedAt = publishedAt
	}

	result.Get("assets").ForEach(func(_, asset gjson.Result) bool {
		release.Downloads += int(asset.Get("download_count").Int())

		return true
	})

	return release, nil
}

// Contributors fetches the top contributors, most contributions first.
//
// Bot accounts are skipped; at most maxContributors entries are returned.
func (c *Client) Contributors(ctx context.Context) ([]Contributor, error) {
	body, err := c.fetch(ctx, c.repoPath("/contributors?per_page="+strconv.Itoa(maxContributors)))
	if err != nil {
		return nil, fmt.Errorf("fetching contributors: %w", err)
	}

	var contributors []Contributor

	gjson.ParseBytes(body).ForEach(func(_, entry gjson.Result) bool {
		if entry.Get("type").String() == "Bot" {
			return true
		}

		contributors = append(contributors, Contributor{
			Login:         entry.Get("login").String(),
			Contributions: int(entry.Get("contributions").Int()),
			AvatarURL:     entry.Get("avatar_url").String(),
			ProfileURL:    entry.Get("html_url").String(),
		})

		return len(contributors) < maxContributors
	})

	return contributors, nil
}

// Stats fetches the overview, latest release and contributor list
// concurrently and returns them as one snapshot.
//
// The first fetch error cancels the remaining fetches.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		overview, err := c.Overview(ctx)
		if err != nil {
			return err
		}

		stats.Overview = overview

		return nil
	})

	group.Go(func() error {
		release, err := c.LatestRelease(ctx)
		if err != nil {
			return err
		}

		stats.LatestRelease = release

		return nil
	})

	group.Go(func() error {
		contributors, err := c.Contributors(ctx)
		if err != nil {
			return err
		}

		stats.Contributors = contributors

		return nil
	})

	if err := group.Wait(); err != nil {
		return Stats{}, err
	}

	stats.FetchedAt = time.Now().UTC()

	return stats, nil
}

func (c *Client) repoPath(suffix string) string {
	return "/repos/" + c.RepoOwner + "/" + c.RepoName + suffix
}
