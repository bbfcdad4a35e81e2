// Package opendata provides a minimal client for the StatsBomb open-data
// repository published on GitHub.
package opendata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// baseURL is the raw-content root of the statsbomb/open-data repository.
const baseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

// Client fetches open-data documents over HTTP.
type Client struct {
	http *http.Client
}

// NewClient returns an open-data client with a default timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Competition is one row of the competitions index.
type Competition struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
	CountryName     string `json:"country_name"`
}

// MatchInfo holds the fields we need from a matches index document.
type MatchInfo struct {
	MatchID   int64  `json:"match_id"`
	MatchDate string `json:"match_date"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	Competition struct {
		Name string `json:"competition_name"`
	} `json:"competition"`
	Season struct {
		Name string `json:"season_name"`
	} `json:"season"`
}

// get performs a GET request and returns the response body.
func (c *Client) get(path string) (io.ReadCloser, error) {
	resp, err := c.http.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

// getJSON fetches a path and JSON-decodes the body into out.
func (c *Client) getJSON(path string, out interface{}) error {
	body, err := c.get(path)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(out)
}

// ListCompetitions returns the competitions index.
func (c *Client) ListCompetitions() ([]Competition, error) {
	var out []Competition
	if err := c.getJSON("/competitions.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMatches returns the matches index for one competition season.
func (c *Client) ListMatches(competitionID, seasonID int) ([]MatchInfo, error) {
	var out []MatchInfo
	path := fmt.Sprintf("/matches/%d/%d.json", competitionID, seasonID)
	if err := c.getJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvents returns the raw event feed for a match. The caller owns the
// returned reader.
func (c *Client) GetEvents(matchID int64) (io.ReadCloser, error) {
	return c.get(fmt.Sprintf("/events/%d.json", matchID))
}

// GetLineups returns the raw lineups document for a match. The caller owns
// the returned reader.
func (c *Client) GetLineups(matchID int64) (io.ReadCloser, error) {
	return c.get(fmt.Sprintf("/lineups/%d.json", matchID))
}
