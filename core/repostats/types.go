// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package repostats

import "time"

// Overview holds the headline numbers for the project repository.
type Overview struct {
	Stars       int
	Forks       int
	OpenIssues  int
	Watchers    int
	Description string
	Language    string
	License     string
	PushedAt    time.Time
}

// Release describes the latest published release of the project.
type Release struct {
	Tag         string
	Name        string
	PublishedAt time.Time
	Downloads   int
}

// Contributor is one entry of the repository's contributor list.
type Contributor struct {
	Login         string
	Contributions int
	AvatarURL     string
	ProfileURL    string
}

// Stats bundles everything the stats fragment renders.
//
// LatestRelease is nil when the repository has not published a release yet.
type Stats struct {
	Overview      Overview
	LatestRelease *Release
	Contributors  []Contributor
	FetchedAt     time.Time
}
