package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionhttp "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/httpapi"
	"github.com/Black-And-White-Club/matchday-bot/config"
	"github.com/urfave/cli/v2"
)

var (
	tournamentFlag = &cli.StringFlag{Name: "tournament", Aliases: []string{"t"}, Required: true}
	matchdayFlag   = &cli.IntFlag{Name: "matchday", Aliases: []string{"m"}, Required: true}
)

func tournamentOf(c *cli.Context) predictiondomain.TournamentID {
	return predictiondomain.TournamentID(c.String("tournament"))
}

// lockReport describes a match's prediction window at an instant.
type lockReport struct {
	MatchID  predictiondomain.MatchID
	Kickoff  time.Time
	LockTime time.Time
	At       time.Time
	Locked   bool
	Phase    predictiondomain.Phase
}

func newLockReport(m predictiondomain.Match, at time.Time) lockReport {
	return lockReport{
		MatchID:  m.ID,
		Kickoff:  m.Kickoff,
		LockTime: predictiondomain.LockTime(m),
		At:       at,
		Locked:   predictiondomain.IsLocked(m, at),
		Phase:    predictiondomain.PhaseAt(m, at),
	}
}

func (r lockReport) write(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "match\t%s\n", r.MatchID)
	fmt.Fprintf(tw, "kickoff\t%s\n", r.Kickoff.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "lock time\t%s\n", r.LockTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "at\t%s\n", r.At.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "locked\t%t\n", r.Locked)
	fmt.Fprintf(tw, "phase\t%s\n", r.Phase)
	tw.Flush()
}

func lockStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "lock-status",
		Usage: "show whether a match accepts predictions at a given time",
		Flags: []cli.Flag{
			tournamentFlag,
			&cli.StringFlag{Name: "match", Required: true},
			&cli.StringFlag{Name: "at", Usage: `instant to evaluate, e.g. "in 2 hours" or 2025-03-01T14:35:00Z`},
		},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			at, err := parseAt(c.String("at"), time.Now().UTC())
			if err != nil {
				return err
			}
			row, err := e.repo.GetMatch(ctx, nil, c.String("tournament"), c.String("match"))
			if err != nil {
				return err
			}
			newLockReport(row.ToDomain(), at).write(c.App.Writer)
			return nil
		}),
	}
}

func applyDefaultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "apply-defaults",
		Usage: "persist default predictions for participants who did not predict",
		Flags: []cli.Flag{tournamentFlag, matchdayFlag},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			n, err := e.service.ApplyDefaultPredictions(ctx, tournamentOf(c), c.Int("matchday"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "inserted %d default predictions\n", n)
			return nil
		}),
	}
}

func designateBonusCommand() *cli.Command {
	return &cli.Command{
		Name:  "designate-bonus",
		Usage: "pick the bonus match of a matchday",
		Flags: []cli.Flag{tournamentFlag, matchdayFlag},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			d, err := e.service.DesignateBonusMatch(ctx, tournamentOf(c), c.Int("matchday"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "bonus match of matchday %d: %s\n", d.Matchday, d.MatchID)
			return nil
		}),
	}
}

func writeStandings(w io.Writer, standings []predictiondomain.Standing) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPARTICIPANT\tPOINTS\tEXACT\tCORRECT\tPLAYED\tMOVE")
	for _, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Rank, s.ParticipantID, s.TotalPoints, s.ExactScores, s.CorrectResults, s.MatchesPlayed, s.RankChange)
	}
	tw.Flush()
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print matchday standings, or tournament rankings without --matchday",
		Flags: []cli.Flag{
			tournamentFlag,
			&cli.IntFlag{Name: "matchday", Aliases: []string{"m"}},
		},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			if md := c.Int("matchday"); md > 0 {
				res, err := e.service.GetMatchdayStandings(ctx, tournamentOf(c), md)
				if err != nil {
					return err
				}
				writeStandings(c.App.Writer, res.Standings)
				return nil
			}
			res, err := e.service.GetTournamentRankings(ctx, tournamentOf(c))
			if err != nil {
				return err
			}
			writeStandings(c.App.Writer, res.Standings)
			return nil
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the standings spreadsheet of a matchday",
		Flags: []cli.Flag{
			tournamentFlag,
			matchdayFlag,
			&cli.StringFlag{Name: "out", Usage: "output path, defaults to the export's file name"},
		},
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			export, err := e.service.ExportMatchdayStandings(ctx, tournamentOf(c), c.Int("matchday"))
			if err != nil {
				return err
			}
			path := c.String("out")
			if path == "" {
				path = export.Filename
			}
			if err := os.WriteFile(path, export.Body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
			return nil
		}),
	}
}

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "upload standings of every finished matchday not archived yet",
		Action: withEnv(func(ctx context.Context, c *cli.Context, e *env) error {
			n, err := e.service.ArchiveFinishedMatchdays(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "archived %d matchdays\n", n)
			return nil
		}),
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an API token for a participant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "participant", Required: true},
			&cli.BoolFlag{Name: "admin"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT secret not configured")
			}
			role := ""
			if c.Bool("admin") {
				role = predictionhttp.RoleAdmin
			}
			tok, err := predictionhttp.NewTokenVerifier(cfg.JWT.Secret).IssueToken(
				predictiondomain.ParticipantID(c.String("participant")), role, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tok)
			return nil
		},
	}
}
