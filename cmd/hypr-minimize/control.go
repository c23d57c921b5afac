package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"hypr-minimize/internal/ipc"
	"hypr-minimize/internal/storage"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List currently minimized windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := ipc.Discover()
			if err != nil {
				return fmt.Errorf("failed to discover minimized windows: %w", err)
			}
			if len(instances) == 0 {
				fmt.Println("No minimized windows")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("PID", "ADDRESS", "CLASS", "TITLE")
			for _, inst := range instances {
				_ = table.Append([]string{
					strconv.Itoa(inst.PID),
					inst.Window.Address,
					inst.Window.Class,
					inst.Window.Title,
				})
			}
			return table.Render()
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var address string
	var all bool

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore minimized windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := ipc.Discover()
			if err != nil {
				return fmt.Errorf("failed to discover minimized windows: %w", err)
			}
			if len(instances) == 0 {
				return fmt.Errorf("no minimized windows")
			}

			targets := instances
			switch {
			case all:
			case address != "":
				inst := ipc.FindByAddress(instances, address)
				if inst == nil {
					return fmt.Errorf("no minimized window with address %s", address)
				}
				targets = []ipc.Instance{*inst}
			case len(instances) == 1:
				// single window, no flag needed
			default:
				return fmt.Errorf("%d windows are minimized, use --address or --all", len(instances))
			}

			for _, inst := range targets {
				if err := sendCommand(inst, ipc.CommandRestore); err != nil {
					return err
				}
				fmt.Printf("Restored %s (%s)\n", inst.Window.Title, inst.Window.Address)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "window address to restore")
	cmd.Flags().BoolVar(&all, "all", false, "restore every minimized window")
	return cmd
}

func newCloseCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close a minimized window",
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := ipc.Discover()
			if err != nil {
				return fmt.Errorf("failed to discover minimized windows: %w", err)
			}
			inst := ipc.FindByAddress(instances, address)
			if inst == nil {
				return fmt.Errorf("no minimized window with address %s", address)
			}

			if err := sendCommand(*inst, ipc.CommandClose); err != nil {
				return err
			}
			fmt.Printf("Closed %s (%s)\n", inst.Window.Title, inst.Window.Address)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "window address to close")
	cmd.MarkFlagRequired("address")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent minimize/restore events",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.New()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No history")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("TIME", "ACTION", "CLASS", "TITLE", "ADDRESS")
			for _, entry := range entries {
				_ = table.Append([]string{
					entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
					entry.Action,
					entry.Class,
					entry.Title,
					entry.Address,
				})
			}
			return table.Render()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")
	return cmd
}

func sendCommand(inst ipc.Instance, command string) error {
	resp, err := ipc.Send(inst.Socket, command)
	if err != nil {
		return fmt.Errorf("failed to reach instance %d: %w", inst.PID, err)
	}
	if resp.Status != "success" {
		return fmt.Errorf("instance %d: %s", inst.PID, resp.Message)
	}
	return nil
}
