package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/auctioneer/core"
	"github.com/cloudx-io/auctioneer/session"
	"github.com/cloudx-io/auctioneer/view"
)

func newSetupCmd(a *app) *cobra.Command {
	var (
		teams  []string
		budget string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Start a new auction",
		Long: `Create the session with the given teams, each holding the full budget.
An existing session is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := parseMoney("budget", budget)
			if err != nil {
				return err
			}
			return a.withSession(cmd, replaceSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Setup(ctx, teams, amount, force)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				fmt.Fprintln(cmd.OutOrStdout(), view.BudgetTable(view.BudgetRows(s.State())))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&teams, "teams", nil, "comma-separated team names")
	cmd.Flags().StringVar(&budget, "budget", "", "total budget per team")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing session")
	_ = cmd.MarkFlagRequired("teams")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func newRetainCmd(a *app) *cobra.Command {
	var (
		team     string
		name     string
		price    string
		playerID int
	)
	cmd := &cobra.Command{
		Use:   "retain",
		Short: "Assign a retained player to a team before the auction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := parseMoney("price", price)
			if err != nil {
				return err
			}
			req := session.RetainRequest{Team: team, Name: name, Price: amount}
			if cmd.Flags().Changed("player-id") {
				if playerID < 1 {
					return invalidInputf("--player-id must be a positive integer, got %d", playerID)
				}
				id := core.PlayerID(playerID)
				req.PlayerID = &id
			}
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Retain(ctx, req)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "retaining team")
	cmd.Flags().StringVar(&name, "name", "", "player name")
	cmd.Flags().StringVar(&price, "price", "", "retention value")
	cmd.Flags().IntVar(&playerID, "player-id", 0, "pool id, when the player is in the list")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newReleaseCmd(a *app) *cobra.Command {
	var team, name string
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Undo a retention that has no pool id and refund it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Release(ctx, team, name)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "team holding the retention")
	cmd.Flags().StringVar(&name, "name", "", "retained player name")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSellCmd(a *app) *cobra.Command {
	var (
		team  string
		price string
		rtm   bool
	)
	cmd := &cobra.Command{
		Use:   "sell [player-id]",
		Short: "Record a sale (defaults to the player on the floor)",
		Long: `Record a sale and deduct the price from the buying team.

With --rtm the right-to-match team is the buyer: pass it as --team with the
price it pays.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalPlayerID(args)
			if err != nil {
				return err
			}
			amount, err := parseMoney("price", price)
			if err != nil {
				return err
			}
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Sell(ctx, session.SaleRequest{PlayerID: id, Team: team, Price: amount, RightToMatch: rtm})
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "buying team")
	cmd.Flags().StringVar(&price, "price", "", "sale price")
	cmd.Flags().BoolVar(&rtm, "rtm", false, "sale used a right-to-match card")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newUnsoldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unsold [player-id]",
		Short: "Mark a player unsold (defaults to the player on the floor)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalPlayerID(args)
			if err != nil {
				return err
			}
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.MarkUnsold(ctx, id)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "remove <player-id>",
		Short: "Take a sold player off a roster and refund the price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Remove(ctx, team, id)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "team the player was sold to")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newNextCmd(a *app) *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "next [player-id]",
		Short: "Put the next player on the floor",
		Long: `Select the next player by ascending id, wrapping around once the end of
the list is reached. Unsold players come back after the remaining ones.
An explicit id puts that player on the floor instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalPlayerID(args)
			if err != nil {
				return err
			}
			return a.withSession(cmd, writeSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Next(ctx, id)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				if r.Complete {
					fmt.Fprintln(cmd.OutOrStdout(), "Auction complete: no players remaining")
					return nil
				}
				if card, ok := view.CurrentCard(s.State(), columns); ok {
					fmt.Fprintln(cmd.OutOrStdout(), view.RenderCard(card))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "attribute columns to show on the card (default all)")
	return cmd
}

// teamNames validates the requested teams against the ledger; no names means all.
func teamNames(state *core.AuctionState, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return state.TeamNames(), nil
	}
	for _, name := range requested {
		if _, err := state.Team(name); err != nil {
			return nil, err
		}
	}
	return requested, nil
}
