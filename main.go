package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"diagonal-squares/internal/ai"
	"diagonal-squares/internal/config"
	"diagonal-squares/internal/game"
)

func main() {
	d := config.DefaultGameSettings()
	app := &cli.App{
		Name:  "diagonal-squares",
		Usage: "play Diagonal Squares in the terminal",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: d.BoardSize, Usage: "board size (5-40)"},
			&cli.IntFlag{Name: "interval", Value: d.RestrictionIntervalSec, Usage: "restriction interval in seconds (5-10)"},
			&cli.IntFlag{Name: "line-limit", Usage: "longest allowed straight run, 0 for no cap"},
			&cli.BoolFlag{Name: "no-diagonal", Usage: "allow diagonal contact"},
			&cli.StringFlag{Name: "mode", Value: string(d.Mode), Usage: "hh, hcpu or cpucpu"},
			&cli.IntFlag{Name: "level1", Value: d.AILevelP1, Usage: "AI level for player 1"},
			&cli.IntFlag{Name: "level2", Value: d.AILevelP2, Usage: "AI level for player 2"},
			&cli.Int64Flag{Name: "seed", Usage: "AI seed, 0 for the clock"},
			&cli.BoolFlag{Name: "end-on-lock", Usage: "end the game when a restriction leaves the mover without a move"},
		},
		Action: func(c *cli.Context) error {
			s := config.GameSettings{
				BoardSize:              c.Int("size"),
				RestrictionIntervalSec: c.Int("interval"),
				LineLengthLimit:        c.Int("line-limit"),
				DiagonalRule:           !c.Bool("no-diagonal"),
				Mode:                   config.ParseMode(c.String("mode")),
				AILevelP1:              c.Int("level1"),
				AILevelP2:              c.Int("level2"),
				EndOnRestrictionLock:   c.Bool("end-on-lock"),
				Seed:                   c.Int64("seed"),
			}.Clamp()
			return play(s, os.Stdin, os.Stdout)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func play(s config.GameSettings, in io.Reader, out io.Writer) error {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p1, p2 := s.Players()
	g := game.New(s.GameOptions(), p1, p2)
	bot := ai.NewSeeded(seed)
	nowMs := func() int64 { return time.Now().UnixMilli() }
	g.ScheduleNext(nowMs())

	reader := bufio.NewReader(in)
	for !g.IsOver() {
		poll(g, out, nowMs())
		if g.IsOver() {
			break
		}
		me := g.Current()
		player := g.Player(me)
		if !g.HasLegalMove(me) {
			fmt.Fprintf(out, "%s has no legal move and passes.\n", player.Name)
			if err := g.Pass(); err != nil {
				return err
			}
			continue
		}

		s1, s2 := g.Scores()
		fmt.Fprintf(out, "\nTurn: %s   score %d : %d\n", player.Name, s1, s2)
		printBoard(out, g)

		if player.IsComputer {
			mv, _ := bot.ChooseMove(g, me, s.AILevel(me))
			res, err := g.Play(mv.X, mv.Y)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s plays (%d,%d) for %d\n", player.Name, mv.X, mv.Y, res.Points)
			g.ScheduleNext(nowMs())
			continue
		}

		if rem, ok := g.RemainingMs(nowMs()); ok && rem > 0 {
			fmt.Fprintf(out, "Restriction in %.1fs\n", float64(rem)/1000)
		}
		fmt.Fprintln(out, "Enter a move as \"x y\", or \"pass\", or \"end\"")
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				_ = g.Finish()
				break
			}
			return err
		}
		poll(g, out, nowMs())
		if g.IsOver() {
			break
		}
		placed, err := command(g, strings.Fields(line))
		if err != nil {
			fmt.Fprintln(out, "Rejected:", err)
			continue
		}
		if placed {
			g.ScheduleNext(nowMs())
		}
	}

	s1, s2 := g.Scores()
	fmt.Fprintf(out, "\nGame over (%s). Final score %d : %d\n", g.EndReason(), s1, s2)
	if w, ok := g.Winner(); ok {
		fmt.Fprintf(out, "Winner: %s\n", g.Player(w).Name)
	} else {
		fmt.Fprintln(out, "Draw")
	}
	printBoard(out, g)
	js, err := json.MarshalIndent(g.Snapshot(nowMs()), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(js))
	return nil
}

// command applies one line of human input and reports whether a stone was
// placed.
func command(g *game.Game, parts []string) (bool, error) {
	switch {
	case len(parts) == 1 && parts[0] == "pass":
		return false, g.Pass()
	case len(parts) == 1 && parts[0] == "end":
		return false, g.Finish()
	case len(parts) == 2:
		x, errX := strconv.Atoi(parts[0])
		y, errY := strconv.Atoi(parts[1])
		if errX != nil || errY != nil {
			return false, errors.New("coordinates must be numbers")
		}
		_, err := g.Play(x, y)
		return err == nil, err
	default:
		return false, errors.New("unrecognised input")
	}
}

func poll(g *game.Game, out io.Writer, nowMs int64) {
	res := g.Poll(nowMs)
	if !res.Activated {
		return
	}
	fmt.Fprintf(out, "Restriction: %s may not touch any occupied cell by a side until they move.\n", g.Player(res.Target).Name)
	if res.Unplayable {
		fmt.Fprintln(out, "That leaves no legal move.")
	}
}

func printBoard(out io.Writer, g *game.Game) {
	b := g.Board()
	n := b.Size()
	fmt.Fprint(out, "    ")
	for x := 0; x < n; x++ {
		fmt.Fprintf(out, "%3d", x)
	}
	fmt.Fprintln(out)
	for y := 0; y < n; y++ {
		fmt.Fprintf(out, "%3d ", y)
		for x := 0; x < n; x++ {
			switch b.At(x, y).Owner() {
			case game.PlayerOne:
				fmt.Fprint(out, "  X")
			case game.PlayerTwo:
				fmt.Fprint(out, "  O")
			default:
				fmt.Fprint(out, "  .")
			}
		}
		fmt.Fprintln(out)
	}
}
