package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chomp/game"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent asks an agent server at baseURL for every move.
func NewRemoteAgent(baseURL string, client *http.Client) Agent {
	if client == nil {
		client = http.DefaultClient
	}
	return &remoteAgent{
		url:    strings.TrimRight(baseURL, "/") + "/findmove",
		client: client,
	}
}

func (a *remoteAgent) FindMove(p game.Position) (game.Move, error) {
	body, err := json.Marshal(findMoveRequest{Position: p})
	if err != nil {
		return game.Move{}, fmt.Errorf("failed to encode position: %w", err)
	}

	resp, err := a.client.Post(a.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return game.Move{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return game.Move{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var payload findMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return game.Move{}, fmt.Errorf("failed to decode move: %w", err)
	}
	if err := p.Validate(payload.Move); err != nil {
		return game.Move{}, fmt.Errorf("agent returned an illegal move: %w", err)
	}
	return payload.Move, nil
}
