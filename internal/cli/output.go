package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printPlayer(v.Player)
		o.printf("Token: %s\n", v.SessionToken)
	case model.SessionSnapshot:
		o.printSession(v)
	case response.SessionList:
		o.printSessionList(v)
	case response.ActivateResponse:
		o.printf("Outcome: %s", v.Outcome.Kind)
		if v.Outcome.PointsGained > 0 {
			o.printf(" (+%d points, %d cascade passes)", v.Outcome.PointsGained, len(v.Outcome.Passes))
		}
		o.printf("\n\n")
		o.printSession(v.Session)
	case response.ArmBoosterResponse:
		if v.Armed {
			o.printf("Armed: %s\n\n", v.Session.ActiveBooster)
		} else {
			o.printf("Booster disarmed\n\n")
		}
		o.printSession(v.Session)
	case response.HintResponse:
		o.printf("Hint (%s): swap %s with %s\n", v.Strategy, formatPosition(v.Move.From), formatPosition(v.Move.To))
	case response.AutoplayResponse:
		o.printAutoplay(v)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.PlayerList:
		o.printPlayerList(v)
	case response.ChallengeList:
		o.printChallenges(v)
	case response.AchievementList:
		o.printAchievements(v)
	case model.PlayerStats:
		o.printStats(v)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
		o.printf("Active sessions: %d\n", v.Sessions)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	o.printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	o.printf("Guest: %s\n", guestStr)
}

func (o *Output) printSession(s model.SessionSnapshot) {
	o.printf("Session: %s\n", s.ID)
	o.printf("Status: %s\n", s.Status)
	o.printf("Level: %d  Score: %d  Moves left: %d  Goal progress: %d\n", s.Level, s.Score, s.MovesLeft, s.GoalProgress)

	boosters := make([]string, 0, len(s.Boosters))
	for _, kind := range model.AllBoosterKinds() {
		label := fmt.Sprintf("%s x%d", kind, s.Boosters.Count(kind))
		if kind == s.ActiveBooster {
			label += " [armed]"
		}
		boosters = append(boosters, label)
	}
	o.printf("Boosters: %s\n", strings.Join(boosters, ", "))

	if s.Selection != nil {
		o.printf("Selected: %s\n", formatPosition(*s.Selection))
	}

	if len(s.Grid) > 0 {
		o.printf("\n")
		o.printBoard(s)
	}
}

// printBoard draws one letter per tile; specials are upper case and the
// selected cell is bracketed
func (o *Output) printBoard(s model.SessionSnapshot) {
	size := len(s.Grid)

	// Print column headers
	o.printf("    ")
	for col := 0; col < size; col++ {
		o.printf(" %d ", col)
	}
	o.printf("\n")

	border := "   +" + strings.Repeat("---", size) + "+\n"
	o.printf("%s", border)

	for row := 0; row < size; row++ {
		o.printf(" %d |", row)
		for col := 0; col < size; col++ {
			tile := s.Grid[row][col]
			letter := tileLetter(tile)
			if s.Selection != nil && *s.Selection == tile.Position() {
				o.printf("[%s]", letter)
			} else {
				o.printf(" %s ", letter)
			}
		}
		o.printf("|\n")
	}

	o.printf("%s", border)
}

func tileLetter(t model.Tile) string {
	letter := t.Color.Name()[:1]
	if t.Special {
		return strings.ToUpper(letter)
	}
	return letter
}

func formatPosition(p model.Position) string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (o *Output) printSessionList(l response.SessionList) {
	if len(l.Sessions) == 0 {
		o.printf("No sessions\n")
		return
	}
	for _, s := range l.Sessions {
		o.printf("%s  level %d  %d points  %s\n", s.ID, s.Level, s.Score, s.Status)
	}
}

func (o *Output) printAutoplay(a response.AutoplayResponse) {
	o.printf("Bot (%s) played %d moves:\n", a.Strategy, len(a.Actions))
	for i, action := range a.Actions {
		o.printf("  %d. %s -> %s  %s", i+1, formatPosition(action.Move.From), formatPosition(action.Move.To), action.Kind)
		if action.PointsGained > 0 {
			o.printf(" (+%d)", action.PointsGained)
		}
		o.printf("\n")
	}
	o.printf("\n")
	o.printSession(a.Session)
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	if len(l.Entries) == 0 {
		o.printf("No scores yet\n")
		return
	}
	for _, e := range l.Entries {
		o.printf("%3d. %-20s %8d  level %d\n", e.Rank, e.DisplayName, e.Score, e.Level)
	}
}

func (o *Output) printPlayerList(l response.PlayerList) {
	if len(l.Players) == 0 {
		o.printf("No friends yet\n")
		return
	}
	for _, p := range l.Players {
		o.printf("  - %s (%s)\n", p.DisplayName, p.ID)
	}
}

func (o *Output) printChallenges(l response.ChallengeList) {
	if len(l.Challenges) == 0 {
		o.printf("No challenges\n")
		return
	}
	for _, c := range l.Challenges {
		o.printf("  %s challenges you to beat %d (%s)\n", c.FromName, c.Score, c.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func (o *Output) printAchievements(l response.AchievementList) {
	for _, a := range l.Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		o.printf("%s %-14s %s: %s\n", mark, a.ID, a.Title, a.Description)
	}
}

func (o *Output) printStats(s model.PlayerStats) {
	o.printf("High score: %d\n", s.HighScore)
	o.printf("Max level: %d\n", s.MaxLevel)
	o.printf("Games played: %d\n", s.GamesPlayed)
	o.printf("Levels completed: %d\n", s.LevelsCompleted)
	if len(s.BoostersUsed) > 0 {
		used := make([]string, 0, len(s.BoostersUsed))
		for _, k := range s.BoostersUsed {
			used = append(used, string(k))
		}
		o.printf("Boosters used: %s\n", strings.Join(used, ", "))
	}
}
