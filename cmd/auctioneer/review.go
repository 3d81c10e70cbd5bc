package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/auctioneer/core"
	"github.com/cloudx-io/auctioneer/pool"
	"github.com/cloudx-io/auctioneer/session"
	"github.com/cloudx-io/auctioneer/view"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show budgets and the player on the floor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, readSession, func(_ context.Context, s *session.Session) error {
				out := cmd.OutOrStdout()
				state := s.State()

				fmt.Fprintf(out, "Session: %s\n", s.Name())
				fmt.Fprintf(out, "ID: %s\n", s.ID())
				fmt.Fprintf(out, "Total budget: %s\n", core.FormatMoney(state.TotalBudget()))
				fmt.Fprintf(out, "State: %s\n\n", core.ComputeStateHash(state))
				fmt.Fprintln(out, view.BudgetTable(view.BudgetRows(state)))

				if card, ok := view.CurrentCard(state, nil); ok {
					fmt.Fprintln(out, view.RenderCard(card))
				} else {
					fmt.Fprintln(out, "No player on the floor")
				}
				return nil
			})
		},
	}
}

func newRostersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rosters [team...]",
		Short: "Show team rosters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, readSession, func(_ context.Context, s *session.Session) error {
				state := s.State()
				names, err := teamNames(state, args)
				if err != nil {
					return err
				}
				for i, name := range names {
					id, err := state.Team(name)
					if err != nil {
						return err
					}
					team, err := state.TeamByID(id)
					if err != nil {
						return err
					}
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					fmt.Fprintln(cmd.OutOrStdout(), view.RosterTable(team.Name, view.RosterRows(team)))
				}
				return nil
			})
		},
	}
}

func newPlayersCmd(a *app) *cobra.Command {
	var (
		filters   []string
		columns   []string
		available bool
		distinct  string
	)
	cmd := &cobra.Command{
		Use:   "players",
		Short: "List the player pool with availability",
		Long: `List pool players with their auction status. Up to four --filter
column=value predicates narrow the list; a value of "All" matches everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			preds, err := parsePredicates(filters)
			if err != nil {
				return err
			}
			return a.withSession(cmd, readSession, func(_ context.Context, s *session.Session) error {
				state := s.State()
				if distinct != "" {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(pool.DistinctValues(state.Pool(), a.cfg.Pool.Columns, distinct), "\n"))
					return nil
				}

				players, err := pool.Filter(state.Pool(), a.cfg.Pool.Columns, preds...)
				if err != nil {
					return invalidInput(err)
				}
				if available {
					players = unowned(state, players)
				}
				if columns == nil {
					columns = view.AttributeColumns(players)
				}
				fmt.Fprintln(cmd.OutOrStdout(), view.PlayerTable(view.PlayerRows(state, players), columns))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "column=value predicate (repeatable, up to 4)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "attribute columns to show (default all)")
	cmd.Flags().BoolVar(&available, "available", false, "hide sold players")
	cmd.Flags().StringVar(&distinct, "values", "", "list the distinct values of a column instead")
	return cmd
}

func parsePredicates(filters []string) ([]pool.Predicate, error) {
	if len(filters) > pool.MaxFilters {
		return nil, invalidInputf("at most %d filters are allowed, got %d", pool.MaxFilters, len(filters))
	}
	preds := make([]pool.Predicate, 0, len(filters))
	for _, f := range filters {
		p, err := pool.ParsePredicate(f)
		if err != nil {
			return nil, invalidInput(err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func unowned(state *core.AuctionState, players []core.PlayerRecord) []core.PlayerRecord {
	out := make([]core.PlayerRecord, 0, len(players))
	for _, p := range players {
		if state.Status(p.ID) != core.StatusSold {
			out = append(out, p)
		}
	}
	return out
}

func newShortlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortlist",
		Short: "Manage the operator's named player lists",
	}

	add := &cobra.Command{
		Use:   "add <list> <player name...>",
		Short: "Add a player name to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args[1:], " ")
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.AddToShortlist(ctx, args[0], name)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}

	flush := &cobra.Command{
		Use:   "flush <list>",
		Short: "Empty a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.FlushShortlist(ctx, args[0])
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show all lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, readSession, func(_ context.Context, s *session.Session) error {
				fmt.Fprintln(cmd.OutOrStdout(), view.RenderShortlists(s.Shortlists()))
				return nil
			})
		},
	}

	cmd.AddCommand(add, flush, show)
	return cmd
}
