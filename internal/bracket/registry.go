package bracket

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TeamInput struct {
	TeamName       string   `json:"teamName"`
	Game           GameID   `json:"game"`
	CaptainName    string   `json:"captainName"`
	CaptainContact string   `json:"captainContact"`
	Players        []Player `json:"players"`
}

// ValidationErrors maps an input field to a message the UI can show next to it
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return ErrInvalidTeam.Error() + ": " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrInvalidTeam
}

// normalizePlayers trims every entry and drops rows without a name
func normalizePlayers(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		p.Name = strings.TrimSpace(p.Name)
		p.Handle = strings.TrimSpace(p.Handle)
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ValidateTeam checks the candidate fields. Capacity and uniqueness are checked by AddTeam.
func ValidateTeam(in TeamInput) error {
	errs := ValidationErrors{}

	if strings.TrimSpace(in.TeamName) == "" {
		errs["teamName"] = "Team name is required"
	} else if len(strings.TrimSpace(in.TeamName)) > 50 {
		errs["teamName"] = "Team name cannot exceed 50 characters"
	}
	if strings.TrimSpace(in.CaptainName) == "" {
		errs["captainName"] = "Captain name is required"
	}
	if strings.TrimSpace(in.CaptainContact) == "" {
		errs["captainContact"] = "Captain contact is required"
	}
	if _, ok := LookupGame(in.Game); !ok {
		errs["game"] = "Please select a game"
	}

	players := normalizePlayers(in.Players)
	switch {
	case len(players) < MinPlayers:
		errs["players"] = fmt.Sprintf("At least %d players are required", MinPlayers)
	case len(players) > MaxPlayers:
		errs["players"] = fmt.Sprintf("No more than %d players are allowed", MaxPlayers)
	default:
		for _, p := range players {
			if p.Handle == "" {
				errs["players"] = "All players must have gamertags"
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (t *Tournament) hasTeamName(name string) bool {
	for _, team := range t.Teams {
		if strings.EqualFold(strings.TrimSpace(team.TeamName), name) {
			return true
		}
	}
	return false
}

// AddTeam registers a team. Every check runs before the registry is touched.
func AddTeam(t *Tournament, in TeamInput, id uuid.UUID, now time.Time) (*Team, error) {
	if !t.RegistrationOpen() {
		return nil, ErrRegistrationClosed
	}
	if err := ValidateTeam(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.TeamName)
	if t.hasTeamName(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTeamName, name)
	}

	team := Team{
		ID:             id,
		TeamName:       name,
		Game:           in.Game,
		CaptainName:    strings.TrimSpace(in.CaptainName),
		CaptainContact: strings.TrimSpace(in.CaptainContact),
		Players:        normalizePlayers(in.Players),
		RegisteredAt:   now,
	}
	t.Teams = append(t.Teams, team)

	registered := team.clone()
	return &registered, nil
}
